package repository

import (
	"context"
	"time"

	"marketplace_back_end/internal/models"

	"github.com/gocql/gocql"
)

const userColumns = `user_id, username, email, password, profile_picture, login_history, created_at, updated_at`

type ScyllaUserRepository struct {
	session *gocql.Session
}

func NewUserRepository(session *gocql.Session) *ScyllaUserRepository {
	return &ScyllaUserRepository{session: session}
}

func scanUser(scan func(dest ...interface{}) bool, u *models.User) bool {
	return scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.ProfilePicture, &u.LoginHistory, &u.CreatedAt, &u.UpdatedAt)
}

// Create réserve d'abord l'email (LWT) ; ErrDuplicate s'il est déjà pris
func (r *ScyllaUserRepository) Create(ctx context.Context, u *models.User) error {
	ok, err := applied(r.session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`,
		u.Email, u.ID).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicate
	}

	return r.session.Query(`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.Password, u.ProfilePicture, u.LoginHistory, u.CreatedAt, u.UpdatedAt).
		WithContext(ctx).Exec()
}

func (r *ScyllaUserRepository) GetByID(ctx context.Context, id gocql.UUID) (*models.User, error) {
	var u models.User
	err := r.session.Query(`SELECT `+userColumns+` FROM users WHERE user_id = ?`, id).
		WithContext(ctx).
		Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.ProfilePicture, &u.LoginHistory, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *ScyllaUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var id gocql.UUID
	if err := r.session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, email).
		WithContext(ctx).Scan(&id); err != nil {
		return nil, notFound(err)
	}
	return r.GetByID(ctx, id)
}

func (r *ScyllaUserRepository) List(ctx context.Context) ([]models.User, error) {
	iter := r.session.Query(`SELECT ` + userColumns + ` FROM users`).WithContext(ctx).Iter()

	var users []models.User
	var u models.User
	for scanUser(iter.Scan, &u) {
		users = append(users, u)
		u = models.User{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return nonNilSlice(users), nil
}

// UpdateProfile déplace aussi l'entrée users_by_email quand l'email change
func (r *ScyllaUserRepository) UpdateProfile(ctx context.Context, u *models.User, previousEmail string) error {
	if u.Email != previousEmail {
		ok, err := applied(r.session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`,
			u.Email, u.ID).WithContext(ctx))
		if err != nil {
			return err
		}
		if !ok {
			return ErrDuplicate
		}
		if err := r.session.Query(`DELETE FROM users_by_email WHERE email = ?`, previousEmail).
			WithContext(ctx).Exec(); err != nil {
			return err
		}
	}

	return r.session.Query(`UPDATE users SET username = ?, email = ?, profile_picture = ?, updated_at = ? WHERE user_id = ?`,
		u.Username, u.Email, u.ProfilePicture, u.UpdatedAt, u.ID).WithContext(ctx).Exec()
}

func (r *ScyllaUserRepository) UpdatePassword(ctx context.Context, id gocql.UUID, hash string) error {
	ok, err := applied(r.session.Query(`UPDATE users SET password = ?, updated_at = ? WHERE user_id = ? IF EXISTS`,
		hash, time.Now(), id).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *ScyllaUserRepository) AppendLogin(ctx context.Context, id gocql.UUID, at time.Time) error {
	return r.session.Query(`UPDATE users SET login_history = login_history + ? WHERE user_id = ?`,
		[]time.Time{at}, id).WithContext(ctx).Exec()
}

func (r *ScyllaUserRepository) Delete(ctx context.Context, u *models.User) error {
	batch := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	batch.Query(`DELETE FROM users WHERE user_id = ?`, u.ID)
	batch.Query(`DELETE FROM users_by_email WHERE email = ?`, u.Email)
	return r.session.ExecuteBatch(batch)
}
