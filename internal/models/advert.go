package models

import (
	"time"

	"github.com/gocql/gocql"
)

// AdvertTTL est la durée de vie d'une publicité ; la ligne expire côté ScyllaDB
const AdvertTTL = 24 * time.Hour

type Advert struct {
	ID        gocql.UUID `json:"id" db:"advert_id"`
	UserID    string     `json:"userId" db:"user_id"`
	ImageKey  string     `json:"-" db:"image_key"`
	ImageURL  string     `json:"imageUrl,omitempty"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	ExpiresAt time.Time  `json:"expiresAt" db:"expires_at"`
}
