package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"
	"marketplace_back_end/internal/services"

	"github.com/gocql/gocql"
)

type memoryProducts struct {
	mu   sync.Mutex
	rows map[gocql.UUID]models.Product
	gets int
}

func newMemoryProducts() *memoryProducts {
	return &memoryProducts{rows: map[gocql.UUID]models.Product{}}
}

func (m *memoryProducts) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[p.ID] = *p
	return nil
}

func (m *memoryProducts) Get(_ context.Context, id gocql.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	p, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memoryProducts) List(context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.rows {
		out = append(out, p)
	}
	return out, nil
}

func (m *memoryProducts) Update(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[p.ID]; !ok {
		return repository.ErrNotFound
	}
	m.rows[p.ID] = *p
	return nil
}

func (m *memoryProducts) Delete(_ context.Context, id gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryProducts) DeleteByUser(_ context.Context, userID string) ([]gocql.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := []gocql.UUID{}
	for id, p := range m.rows {
		if p.UserID == userID {
			ids = append(ids, id)
			delete(m.rows, id)
		}
	}
	return ids, nil
}

type memoryPictures struct {
	mu   sync.Mutex
	rows map[gocql.UUID]models.ProductPicture
}

func (m *memoryPictures) Create(_ context.Context, p *models.ProductPicture) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[p.ID] = *p
	return nil
}

func (m *memoryPictures) Get(_ context.Context, id gocql.UUID) (*models.ProductPicture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memoryPictures) Update(_ context.Context, p *models.ProductPicture) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[p.ID]; !ok {
		return repository.ErrNotFound
	}
	m.rows[p.ID] = *p
	return nil
}

func (m *memoryPictures) Delete(_ context.Context, id gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memoryFavourites struct {
	mu   sync.Mutex
	rows []models.FavouriteProduct
}

func (m *memoryFavourites) Add(_ context.Context, f *models.FavouriteProduct) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.UserID == f.UserID && r.ProductID == f.ProductID {
			return repository.ErrDuplicate
		}
	}
	m.rows = append(m.rows, *f)
	return nil
}

func (m *memoryFavourites) List(context.Context) ([]models.FavouriteProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.FavouriteProduct{}, m.rows...), nil
}

func (m *memoryFavourites) ListByUser(_ context.Context, userID string) ([]models.FavouriteProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.FavouriteProduct{}
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryFavourites) Remove(_ context.Context, productID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ProductID == productID && (userID == "" || r.UserID == userID) {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memoryRatings struct {
	mu   sync.Mutex
	rows map[gocql.UUID]models.Rating
}

func (m *memoryRatings) Create(_ context.Context, r *models.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[r.ID] = *r
	return nil
}

func (m *memoryRatings) Get(_ context.Context, id gocql.UUID) (*models.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (m *memoryRatings) List(context.Context) ([]models.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Rating{}
	for _, r := range m.rows {
		out = append(out, r)
	}
	return out, nil
}

func (m *memoryRatings) ListByProduct(_ context.Context, productID string) ([]models.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Rating{}
	for _, r := range m.rows {
		if r.Product == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRatings) Update(_ context.Context, r *models.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[r.ID]; !ok {
		return repository.ErrNotFound
	}
	m.rows[r.ID] = *r
	return nil
}

func (m *memoryRatings) Delete(_ context.Context, id gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// memoryImages stocke les octets décodés par clé
type memoryImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	seq     int
}

func (m *memoryImages) PutBase64(_ context.Context, prefix, encoded string) (string, error) {
	data, _, err := services.DecodeImage(encoded)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	key := fmt.Sprintf("%s/%d", prefix, m.seq)
	m.objects[key] = data
	return key, nil
}

func (m *memoryImages) URL(_ context.Context, key string) (string, error) {
	return "https://minio.local/bucket/" + key + "?signed", nil
}

func (m *memoryImages) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryImages) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// memoryIndex imite l'index de recherche ; fail force le repli ScyllaDB
type memoryIndex struct {
	mu   sync.Mutex
	docs map[string]models.Product
	fail bool
}

func (m *memoryIndex) Index(_ context.Context, p models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[p.ID.String()] = p
	return nil
}

func (m *memoryIndex) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func (m *memoryIndex) Search(_ context.Context, q string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errors.New("cluster unavailable")
	}
	out := []models.Product{}
	for _, p := range m.docs {
		if strings.Contains(strings.ToLower(p.ProductName), strings.ToLower(q)) {
			out = append(out, p)
		}
	}
	return out, nil
}
