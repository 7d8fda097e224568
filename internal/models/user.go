package models

import (
	"time"

	"github.com/gocql/gocql"
)

type User struct {
	ID             gocql.UUID  `json:"id" db:"user_id"`
	Username       string      `json:"username" db:"username"`
	Email          string      `json:"email" db:"email"`
	Password       string      `json:"-" db:"password"`
	ProfilePicture string      `json:"profilePicture,omitempty" db:"profile_picture"`
	LoginHistory   []time.Time `json:"loginHistory" db:"login_history"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" db:"updated_at"`
}
