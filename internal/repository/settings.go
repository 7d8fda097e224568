package repository

import (
	"context"

	"marketplace_back_end/internal/models"

	"github.com/gocql/gocql"
)

type ScyllaSettingsRepository struct {
	session *gocql.Session
}

func NewSettingsRepository(session *gocql.Session) *ScyllaSettingsRepository {
	return &ScyllaSettingsRepository{session: session}
}

// Upsert : un INSERT Cassandra remplace la ligne existante
func (r *ScyllaSettingsRepository) Upsert(ctx context.Context, s *models.NotificationSettings) error {
	return r.session.Query(`INSERT INTO notification_settings (user_id, email_notifications, sms_notifications,
		push_notifications, email_frequency, sms_frequency, push_frequency, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.UserID, s.EmailNotifications, s.SMSNotifications, s.PushNotifications,
		s.EmailFrequency, s.SMSFrequency, s.PushFrequency, s.LastUpdated).WithContext(ctx).Exec()
}

func (r *ScyllaSettingsRepository) Get(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	var s models.NotificationSettings
	err := r.session.Query(`SELECT user_id, email_notifications, sms_notifications, push_notifications,
		email_frequency, sms_frequency, push_frequency, last_updated
		FROM notification_settings WHERE user_id = ?`, userID).
		WithContext(ctx).
		Scan(&s.UserID, &s.EmailNotifications, &s.SMSNotifications, &s.PushNotifications,
			&s.EmailFrequency, &s.SMSFrequency, &s.PushFrequency, &s.LastUpdated)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *ScyllaSettingsRepository) Delete(ctx context.Context, userID string) error {
	ok, err := applied(r.session.Query(`DELETE FROM notification_settings WHERE user_id = ? IF EXISTS`, userID).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
