package repository

import (
	"context"

	"marketplace_back_end/internal/models"

	"github.com/gocql/gocql"
)

type ScyllaFavouriteRepository struct {
	session *gocql.Session
}

func NewFavouriteRepository(session *gocql.Session) *ScyllaFavouriteRepository {
	return &ScyllaFavouriteRepository{session: session}
}

// Add renvoie ErrDuplicate si le produit est déjà en favori pour cet utilisateur
func (r *ScyllaFavouriteRepository) Add(ctx context.Context, f *models.FavouriteProduct) error {
	ok, err := applied(r.session.Query(`INSERT INTO favourite_products (user_id, product_id, added_at)
		VALUES (?, ?, ?) IF NOT EXISTS`, f.UserID, f.ProductID, f.AddedAt).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicate
	}
	return nil
}

func (r *ScyllaFavouriteRepository) scan(iter *gocql.Iter) ([]models.FavouriteProduct, error) {
	var out []models.FavouriteProduct
	var f models.FavouriteProduct
	for iter.Scan(&f.UserID, &f.ProductID, &f.AddedAt) {
		out = append(out, f)
		f = models.FavouriteProduct{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return nonNilSlice(out), nil
}

func (r *ScyllaFavouriteRepository) List(ctx context.Context) ([]models.FavouriteProduct, error) {
	return r.scan(r.session.Query(`SELECT user_id, product_id, added_at FROM favourite_products`).WithContext(ctx).Iter())
}

func (r *ScyllaFavouriteRepository) ListByUser(ctx context.Context, userID string) ([]models.FavouriteProduct, error) {
	return r.scan(r.session.Query(`SELECT user_id, product_id, added_at FROM favourite_products WHERE user_id = ?`, userID).
		WithContext(ctx).Iter())
}

func (r *ScyllaFavouriteRepository) Remove(ctx context.Context, productID, userID string) error {
	if userID == "" {
		err := r.session.Query(`SELECT user_id FROM favourite_products WHERE product_id = ? LIMIT 1`, productID).
			WithContext(ctx).Scan(&userID)
		if err != nil {
			return notFound(err)
		}
	}

	ok, err := applied(r.session.Query(`DELETE FROM favourite_products WHERE user_id = ? AND product_id = ? IF EXISTS`,
		userID, productID).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
