package messaging

import (
	"context"
	"sync"

	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"

	"github.com/gocql/gocql"
)

type memoryMessages struct {
	mu   sync.Mutex
	rows []models.Message
}

func (m *memoryMessages) Create(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *msg)
	return nil
}

func (m *memoryMessages) List(_ context.Context, recipient, sender string) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Message{}
	for _, msg := range m.rows {
		if (recipient == "" || msg.Recipient == recipient) && (sender == "" || msg.Sender == sender) {
			out = append(out, msg)
		}
	}
	return out, nil
}

type memoryNotifications struct {
	mu   sync.Mutex
	rows map[gocql.UUID]models.Notification
}

func (m *memoryNotifications) Create(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[n.ID] = *n
	return nil
}

func (m *memoryNotifications) Get(_ context.Context, id gocql.UUID) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &n, nil
}

func (m *memoryNotifications) List(context.Context) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Notification{}
	for _, n := range m.rows {
		out = append(out, n)
	}
	return out, nil
}

func (m *memoryNotifications) Update(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[n.ID]; !ok {
		return repository.ErrNotFound
	}
	m.rows[n.ID] = *n
	return nil
}

func (m *memoryNotifications) Delete(_ context.Context, id gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryNotifications) forUser(userID string) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Notification{}
	for _, n := range m.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type memorySettings struct {
	mu   sync.Mutex
	rows map[string]models.NotificationSettings
}

func (m *memorySettings) Upsert(_ context.Context, s *models.NotificationSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.UserID] = *s
	return nil
}

func (m *memorySettings) Get(_ context.Context, userID string) (*models.NotificationSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m *memorySettings) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, userID)
	return nil
}

// memoryUsers ne sert que GetByID ; les autres méthodes paniqueraient
type memoryUsers struct {
	repository.UserRepository
	rows map[gocql.UUID]models.User
}

func (m *memoryUsers) GetByID(_ context.Context, id gocql.UUID) (*models.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

type sentMail struct {
	to, subject, body string
}

type memoryMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *memoryMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

func (m *memoryMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *memoryMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}
