package models

import (
	"fmt"
	"time"

	"github.com/gocql/gocql"
)

type Notification struct {
	ID        gocql.UUID `json:"id" db:"notification_id"`
	Message   string     `json:"message" db:"message"`
	MessageID string     `json:"messageId,omitempty" db:"message_id"`
	UserID    string     `json:"userId" db:"user_id"`
	Read      bool       `json:"read" db:"read"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

const (
	FrequencyImmediate = "immediate"
	FrequencyDaily     = "daily"
	FrequencyWeekly    = "weekly"
)

// NotificationSettings : une seule ligne par utilisateur
type NotificationSettings struct {
	UserID             string    `json:"userId" db:"user_id"`
	EmailNotifications bool      `json:"emailNotifications" db:"email_notifications"`
	SMSNotifications   bool      `json:"smsNotifications" db:"sms_notifications"`
	PushNotifications  bool      `json:"pushNotifications" db:"push_notifications"`
	EmailFrequency     string    `json:"emailFrequency" db:"email_frequency"`
	SMSFrequency       string    `json:"smsFrequency" db:"sms_frequency"`
	PushFrequency      string    `json:"pushFrequency" db:"push_frequency"`
	LastUpdated        time.Time `json:"lastUpdated" db:"last_updated"`
}

// DefaultNotificationSettings renvoie les réglages appliqués à un nouvel utilisateur
func DefaultNotificationSettings(userID string) NotificationSettings {
	return NotificationSettings{
		UserID:             userID,
		EmailNotifications: true,
		SMSNotifications:   false,
		PushNotifications:  true,
		EmailFrequency:     FrequencyImmediate,
		SMSFrequency:       FrequencyDaily,
		PushFrequency:      FrequencyImmediate,
	}
}

func validFrequency(f string) bool {
	switch f {
	case FrequencyImmediate, FrequencyDaily, FrequencyWeekly:
		return true
	}
	return false
}

// Validate vérifie les fréquences
func (s NotificationSettings) Validate() error {
	checks := []struct{ field, value string }{
		{"emailFrequency", s.EmailFrequency},
		{"smsFrequency", s.SMSFrequency},
		{"pushFrequency", s.PushFrequency},
	}
	for _, c := range checks {
		if !validFrequency(c.value) {
			return fmt.Errorf("%s must be one of immediate, daily, weekly (got %q)", c.field, c.value)
		}
	}
	return nil
}

// WantsImmediateEmail indique si un e-mail doit partir dès la notification
func (s NotificationSettings) WantsImmediateEmail() bool {
	return s.EmailNotifications && s.EmailFrequency == FrequencyImmediate
}
