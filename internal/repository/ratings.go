package repository

import (
	"context"

	"marketplace_back_end/internal/models"

	"github.com/gocql/gocql"
)

const ratingColumns = `rating_id, product_id, rating, comment, created_at, updated_at`

type ScyllaRatingRepository struct {
	session *gocql.Session
}

func NewRatingRepository(session *gocql.Session) *ScyllaRatingRepository {
	return &ScyllaRatingRepository{session: session}
}

func (r *ScyllaRatingRepository) Create(ctx context.Context, rt *models.Rating) error {
	return r.session.Query(`INSERT INTO ratings (`+ratingColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		rt.ID, rt.Product, rt.Rating, rt.Comment, rt.CreatedAt, rt.UpdatedAt).WithContext(ctx).Exec()
}

func (r *ScyllaRatingRepository) Get(ctx context.Context, id gocql.UUID) (*models.Rating, error) {
	var rt models.Rating
	err := r.session.Query(`SELECT `+ratingColumns+` FROM ratings WHERE rating_id = ?`, id).
		WithContext(ctx).
		Scan(&rt.ID, &rt.Product, &rt.Rating, &rt.Comment, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &rt, nil
}

func (r *ScyllaRatingRepository) scan(iter *gocql.Iter) ([]models.Rating, error) {
	var ratings []models.Rating
	var rt models.Rating
	for iter.Scan(&rt.ID, &rt.Product, &rt.Rating, &rt.Comment, &rt.CreatedAt, &rt.UpdatedAt) {
		ratings = append(ratings, rt)
		rt = models.Rating{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return nonNilSlice(ratings), nil
}

func (r *ScyllaRatingRepository) List(ctx context.Context) ([]models.Rating, error) {
	return r.scan(r.session.Query(`SELECT ` + ratingColumns + ` FROM ratings`).WithContext(ctx).Iter())
}

func (r *ScyllaRatingRepository) ListByProduct(ctx context.Context, productID string) ([]models.Rating, error) {
	return r.scan(r.session.Query(`SELECT `+ratingColumns+` FROM ratings WHERE product_id = ?`, productID).
		WithContext(ctx).Iter())
}

func (r *ScyllaRatingRepository) Update(ctx context.Context, rt *models.Rating) error {
	ok, err := applied(r.session.Query(`UPDATE ratings SET product_id = ?, rating = ?, comment = ?, updated_at = ?
		WHERE rating_id = ? IF EXISTS`,
		rt.Product, rt.Rating, rt.Comment, rt.UpdatedAt, rt.ID).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *ScyllaRatingRepository) Delete(ctx context.Context, id gocql.UUID) error {
	ok, err := applied(r.session.Query(`DELETE FROM ratings WHERE rating_id = ? IF EXISTS`, id).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
