package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Message struct {
	ID        gocql.UUID `json:"id" db:"message_id"`
	Content   string     `json:"content" db:"content"`
	Sender    string     `json:"sender" db:"sender"`
	Recipient string     `json:"recipient" db:"recipient"`
	Timestamp time.Time  `json:"timestamp" db:"created_at"`
}
