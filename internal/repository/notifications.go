package repository

import (
	"context"

	"marketplace_back_end/internal/models"

	"github.com/gocql/gocql"
)

const notificationColumns = `notification_id, user_id, message_id, message, read, created_at`

type ScyllaNotificationRepository struct {
	session *gocql.Session
}

func NewNotificationRepository(session *gocql.Session) *ScyllaNotificationRepository {
	return &ScyllaNotificationRepository{session: session}
}

func (r *ScyllaNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.session.Query(`INSERT INTO notifications (`+notificationColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.MessageID, n.Message, n.Read, n.CreatedAt).WithContext(ctx).Exec()
}

func (r *ScyllaNotificationRepository) Get(ctx context.Context, id gocql.UUID) (*models.Notification, error) {
	var n models.Notification
	err := r.session.Query(`SELECT `+notificationColumns+` FROM notifications WHERE notification_id = ?`, id).
		WithContext(ctx).
		Scan(&n.ID, &n.UserID, &n.MessageID, &n.Message, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

func (r *ScyllaNotificationRepository) List(ctx context.Context) ([]models.Notification, error) {
	iter := r.session.Query(`SELECT ` + notificationColumns + ` FROM notifications`).WithContext(ctx).Iter()
	var out []models.Notification
	var n models.Notification
	for iter.Scan(&n.ID, &n.UserID, &n.MessageID, &n.Message, &n.Read, &n.CreatedAt) {
		out = append(out, n)
		n = models.Notification{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return nonNilSlice(out), nil
}

func (r *ScyllaNotificationRepository) Update(ctx context.Context, n *models.Notification) error {
	ok, err := applied(r.session.Query(`UPDATE notifications SET user_id = ?, message_id = ?, message = ?, read = ?
		WHERE notification_id = ? IF EXISTS`,
		n.UserID, n.MessageID, n.Message, n.Read, n.ID).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *ScyllaNotificationRepository) Delete(ctx context.Context, id gocql.UUID) error {
	ok, err := applied(r.session.Query(`DELETE FROM notifications WHERE notification_id = ? IF EXISTS`, id).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
