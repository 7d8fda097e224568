package repository

import (
	"context"
	"errors"
	"time"

	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/payment"

	"github.com/gocql/gocql"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id gocql.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, u *models.User, previousEmail string) error
	UpdatePassword(ctx context.Context, id gocql.UUID, hash string) error
	AppendLogin(ctx context.Context, id gocql.UUID, at time.Time) error
	Delete(ctx context.Context, u *models.User) error
}

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	Get(ctx context.Context, id gocql.UUID) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id gocql.UUID) error
	DeleteByUser(ctx context.Context, userID string) ([]gocql.UUID, error)
}

type PictureRepository interface {
	Create(ctx context.Context, p *models.ProductPicture) error
	Get(ctx context.Context, id gocql.UUID) (*models.ProductPicture, error)
	Update(ctx context.Context, p *models.ProductPicture) error
	Delete(ctx context.Context, id gocql.UUID) error
}

type AdvertRepository interface {
	Create(ctx context.Context, a *models.Advert) error
	Get(ctx context.Context, id gocql.UUID) (*models.Advert, error)
	List(ctx context.Context) ([]models.Advert, error)
	Update(ctx context.Context, a *models.Advert) error
	Delete(ctx context.Context, id gocql.UUID) error
	DeleteByUser(ctx context.Context, userID string) ([]models.Advert, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	// List filtre sur recipient et/ou sender quand ils sont non vides
	List(ctx context.Context, recipient, sender string) ([]models.Message, error)
}

type RatingRepository interface {
	Create(ctx context.Context, r *models.Rating) error
	Get(ctx context.Context, id gocql.UUID) (*models.Rating, error)
	List(ctx context.Context) ([]models.Rating, error)
	ListByProduct(ctx context.Context, productID string) ([]models.Rating, error)
	Update(ctx context.Context, r *models.Rating) error
	Delete(ctx context.Context, id gocql.UUID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	Get(ctx context.Context, id gocql.UUID) (*models.Notification, error)
	List(ctx context.Context) ([]models.Notification, error)
	Update(ctx context.Context, n *models.Notification) error
	Delete(ctx context.Context, id gocql.UUID) error
}

type SettingsRepository interface {
	Upsert(ctx context.Context, s *models.NotificationSettings) error
	Get(ctx context.Context, userID string) (*models.NotificationSettings, error)
	Delete(ctx context.Context, userID string) error
}

type FavouriteRepository interface {
	Add(ctx context.Context, f *models.FavouriteProduct) error
	List(ctx context.Context) ([]models.FavouriteProduct, error)
	ListByUser(ctx context.Context, userID string) ([]models.FavouriteProduct, error)
	// Remove supprime le favori ; userID vide = premier favori trouvé pour ce produit
	Remove(ctx context.Context, productID, userID string) error
}

type OrderRepository interface {
	payment.OrderIndex
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

// applied exécute une requête conditionnelle (IF EXISTS / IF NOT EXISTS)
func applied(q *gocql.Query) (bool, error) {
	return q.MapScanCAS(map[string]interface{}{})
}

// notFound traduit l'absence de ligne de gocql
func notFound(err error) error {
	if errors.Is(err, gocql.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
