package advert

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"
	"marketplace_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var banner = base64.StdEncoding.EncodeToString([]byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"))

type memoryAdverts struct {
	mu   sync.Mutex
	rows map[gocql.UUID]models.Advert
}

func (m *memoryAdverts) Create(_ context.Context, a *models.Advert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[a.ID] = *a
	return nil
}

func (m *memoryAdverts) Get(_ context.Context, id gocql.UUID) (*models.Advert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (m *memoryAdverts) List(context.Context) ([]models.Advert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Advert{}
	for _, a := range m.rows {
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryAdverts) Update(_ context.Context, a *models.Advert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[a.ID]; !ok {
		return repository.ErrNotFound
	}
	m.rows[a.ID] = *a
	return nil
}

func (m *memoryAdverts) Delete(_ context.Context, id gocql.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryAdverts) DeleteByUser(_ context.Context, userID string) ([]models.Advert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Advert{}
	for id, a := range m.rows {
		if a.UserID == userID {
			out = append(out, a)
			delete(m.rows, id)
		}
	}
	return out, nil
}

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
	key := fmt.Sprintf("%s/%d.gif", prefix, m.seq)
	m.objects[key] = data
	return key, nil
}

func (m *memoryImages) URL(_ context.Context, key string) (string, error) {
	return "https://minio.local/" + key, nil
}

func (m *memoryImages) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryImages) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []string{}
	for k := range m.objects {
		out = append(out, k)
	}
	return out
}

type fixture struct {
	router  *gin.Engine
	adverts *memoryAdverts
	images  *memoryImages
}

func newFixture(t *testing.T, withImages bool) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &fixture{
		adverts: &memoryAdverts{rows: map[gocql.UUID]models.Advert{}},
		images:  &memoryImages{objects: map[string][]byte{}},
	}
	var store services.ImageStore
	if withImages {
		store = f.images
	}
	h := NewHandler(f.adverts, store)

	r := gin.New()
	r.POST("/add-adverts", h.CreateAdvert)
	r.GET("/get-adverts", h.ListAdverts)
	r.GET("/get-adverts/:id", h.GetAdvert)
	r.PUT("/update-adverts/:id", h.UpdateAdvert)
	r.DELETE("/delete-adverts/:id", h.DeleteAdvert)
	r.DELETE("/delete-adverts-by-user/:userId", h.DeleteUserAdverts)
	f.router = r
	return f
}

func (f *fixture) send(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) create(t *testing.T, userID string) models.Advert {
	t.Helper()
	w := f.send(http.MethodPost, "/add-adverts", `{"userId":"`+userID+`","image":"`+banner+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var a models.Advert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	return a
}

func TestCreateAdvert(t *testing.T) {
	f := newFixture(t, true)
	a := f.create(t, "seller-1")

	assert.Equal(t, "seller-1", a.UserID)
	assert.WithinDuration(t, a.CreatedAt.Add(24*time.Hour), a.ExpiresAt, time.Second)
	assert.True(t, strings.HasPrefix(a.ImageURL, "https://minio.local/adverts/seller-1/"))
	assert.Len(t, f.images.keys(), 1)

	w := f.send(http.MethodPost, "/add-adverts", `{"image":"`+banner+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"userId is required"}`, w.Body.String())

	w = f.send(http.MethodPost, "/add-adverts", `{"userId":"seller-1","image":"***"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, f.adverts.rows, 1)
}

func TestCreateAdvertWithoutStorage(t *testing.T) {
	f := newFixture(t, false)
	w := f.send(http.MethodPost, "/add-adverts", `{"userId":"seller-1","image":"`+banner+`"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = f.send(http.MethodPost, "/add-adverts", `{"userId":"seller-1"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestGetAndListAdverts(t *testing.T) {
	f := newFixture(t, true)
	a := f.create(t, "seller-1")
	f.create(t, "seller-2")

	w := f.send(http.MethodGet, "/get-adverts/"+a.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "image_key")

	assert.Equal(t, http.StatusNotFound, f.send(http.MethodGet, "/get-adverts/"+gocql.TimeUUID().String(), "").Code)
	assert.Equal(t, http.StatusBadRequest, f.send(http.MethodGet, "/get-adverts/abc", "").Code)

	w = f.send(http.MethodGet, "/get-adverts", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Advert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 2)
	for _, ad := range all {
		assert.NotEmpty(t, ad.ImageURL)
	}
}

func TestUpdateAdvertReplacesImageAndKeepsExpiry(t *testing.T) {
	f := newFixture(t, true)
	a := f.create(t, "seller-1")
	before := f.images.keys()

	w := f.send(http.MethodPut, "/update-adverts/"+a.ID.String(), `{"image":"`+banner+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Advert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.True(t, a.ExpiresAt.Equal(updated.ExpiresAt))

	after := f.images.keys()
	require.Len(t, after, 1)
	assert.NotEqual(t, before[0], after[0])

	assert.Equal(t, http.StatusNotFound, f.send(http.MethodPut, "/update-adverts/"+gocql.TimeUUID().String(), `{}`).Code)
}

func TestDeleteAdverts(t *testing.T) {
	f := newFixture(t, true)
	a := f.create(t, "seller-1")
	f.create(t, "seller-1")
	f.create(t, "seller-2")

	require.Equal(t, http.StatusOK, f.send(http.MethodDelete, "/delete-adverts/"+a.ID.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, f.send(http.MethodDelete, "/delete-adverts/"+a.ID.String(), "").Code)
	assert.Len(t, f.images.keys(), 2)

	w := f.send(http.MethodDelete, "/delete-adverts-by-user/seller-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Adverts deleted successfully","deletedCount":1}`, w.Body.String())
	assert.Len(t, f.images.keys(), 1)

	w = f.send(http.MethodDelete, "/delete-adverts-by-user/seller-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
