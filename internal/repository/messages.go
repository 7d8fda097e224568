package repository

import (
	"context"
	"sort"
	"strings"

	"marketplace_back_end/internal/models"

	"github.com/gocql/gocql"
)

type ScyllaMessageRepository struct {
	session *gocql.Session
}

func NewMessageRepository(session *gocql.Session) *ScyllaMessageRepository {
	return &ScyllaMessageRepository{session: session}
}

func (r *ScyllaMessageRepository) Create(ctx context.Context, m *models.Message) error {
	return r.session.Query(`INSERT INTO messages (message_id, sender, recipient, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Sender, m.Recipient, m.Content, m.Timestamp).WithContext(ctx).Exec()
}

// List renvoie les messages du plus ancien au plus récent
func (r *ScyllaMessageRepository) List(ctx context.Context, recipient, sender string) ([]models.Message, error) {
	var (
		where []string
		args  []interface{}
	)
	if recipient != "" {
		where = append(where, "recipient = ?")
		args = append(args, recipient)
	}
	if sender != "" {
		where = append(where, "sender = ?")
		args = append(args, sender)
	}

	stmt := `SELECT message_id, sender, recipient, content, created_at FROM messages`
	if len(where) > 0 {
		stmt += " WHERE " + strings.Join(where, " AND ")
		if len(where) > 1 {
			stmt += " ALLOW FILTERING"
		}
	}

	iter := r.session.Query(stmt, args...).WithContext(ctx).Iter()
	var messages []models.Message
	var m models.Message
	for iter.Scan(&m.ID, &m.Sender, &m.Recipient, &m.Content, &m.Timestamp) {
		messages = append(messages, m)
		m = models.Message{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	sort.Slice(messages, func(i, j int) bool { return messages[i].Timestamp.Before(messages[j].Timestamp) })
	return nonNilSlice(messages), nil
}
