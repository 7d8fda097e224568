package repository

import (
	"context"
	"time"

	"marketplace_back_end/internal/models"

	"github.com/gocql/gocql"
)

type ScyllaAdvertRepository struct {
	session *gocql.Session
}

func NewAdvertRepository(session *gocql.Session) *ScyllaAdvertRepository {
	return &ScyllaAdvertRepository{session: session}
}

// ttlSeconds renvoie la durée de vie restante d'une publicité (au moins 1 s)
func ttlSeconds(expiresAt time.Time) int {
	secs := int(time.Until(expiresAt).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}

func (r *ScyllaAdvertRepository) Create(ctx context.Context, a *models.Advert) error {
	return r.session.Query(`INSERT INTO adverts (advert_id, user_id, image_key, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?) USING TTL ?`,
		a.ID, a.UserID, a.ImageKey, a.CreatedAt, a.ExpiresAt, ttlSeconds(a.ExpiresAt)).WithContext(ctx).Exec()
}

func (r *ScyllaAdvertRepository) Get(ctx context.Context, id gocql.UUID) (*models.Advert, error) {
	var a models.Advert
	err := r.session.Query(`SELECT advert_id, user_id, image_key, created_at, expires_at FROM adverts WHERE advert_id = ?`, id).
		WithContext(ctx).
		Scan(&a.ID, &a.UserID, &a.ImageKey, &a.CreatedAt, &a.ExpiresAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *ScyllaAdvertRepository) scan(iter *gocql.Iter) ([]models.Advert, error) {
	var adverts []models.Advert
	var a models.Advert
	for iter.Scan(&a.ID, &a.UserID, &a.ImageKey, &a.CreatedAt, &a.ExpiresAt) {
		adverts = append(adverts, a)
		a = models.Advert{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return nonNilSlice(adverts), nil
}

func (r *ScyllaAdvertRepository) List(ctx context.Context) ([]models.Advert, error) {
	return r.scan(r.session.Query(`SELECT advert_id, user_id, image_key, created_at, expires_at FROM adverts`).
		WithContext(ctx).Iter())
}

// Update conserve l'expiration d'origine : le TTL est recalculé sur expires_at
func (r *ScyllaAdvertRepository) Update(ctx context.Context, a *models.Advert) error {
	ok, err := applied(r.session.Query(`UPDATE adverts USING TTL ? SET user_id = ?, image_key = ?, created_at = ?, expires_at = ?
		WHERE advert_id = ? IF EXISTS`,
		ttlSeconds(a.ExpiresAt), a.UserID, a.ImageKey, a.CreatedAt, a.ExpiresAt, a.ID).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *ScyllaAdvertRepository) Delete(ctx context.Context, id gocql.UUID) error {
	ok, err := applied(r.session.Query(`DELETE FROM adverts WHERE advert_id = ? IF EXISTS`, id).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// DeleteByUser renvoie les publicités supprimées (pour nettoyer leurs images)
func (r *ScyllaAdvertRepository) DeleteByUser(ctx context.Context, userID string) ([]models.Advert, error) {
	adverts, err := r.scan(r.session.Query(`SELECT advert_id, user_id, image_key, created_at, expires_at
		FROM adverts WHERE user_id = ?`, userID).WithContext(ctx).Iter())
	if err != nil {
		return nil, err
	}
	for _, a := range adverts {
		if err := r.session.Query(`DELETE FROM adverts WHERE advert_id = ?`, a.ID).WithContext(ctx).Exec(); err != nil {
			return nil, err
		}
	}
	return adverts, nil
}
