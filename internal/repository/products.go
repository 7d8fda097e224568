package repository

import (
	"context"

	"marketplace_back_end/internal/models"

	"github.com/gocql/gocql"
)

const productColumns = `product_id, user_id, product_name, price, location, category, username, phone_number, description, created_at, updated_at`

type ScyllaProductRepository struct {
	session *gocql.Session
}

func NewProductRepository(session *gocql.Session) *ScyllaProductRepository {
	return &ScyllaProductRepository{session: session}
}

func (r *ScyllaProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.session.Query(`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.ProductName, p.Price, p.Location, p.Category, p.Username, p.PhoneNumber, p.Description,
		p.CreatedAt, p.UpdatedAt).WithContext(ctx).Exec()
}

func (r *ScyllaProductRepository) Get(ctx context.Context, id gocql.UUID) (*models.Product, error) {
	var p models.Product
	err := r.session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id).
		WithContext(ctx).
		Scan(&p.ID, &p.UserID, &p.ProductName, &p.Price, &p.Location, &p.Category, &p.Username, &p.PhoneNumber,
			&p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ScyllaProductRepository) List(ctx context.Context) ([]models.Product, error) {
	iter := r.session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.UserID, &p.ProductName, &p.Price, &p.Location, &p.Category, &p.Username, &p.PhoneNumber,
		&p.Description, &p.CreatedAt, &p.UpdatedAt) {
		products = append(products, p)
		p = models.Product{} // Reset pour la prochaine itération
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return nonNilSlice(products), nil
}

func (r *ScyllaProductRepository) Update(ctx context.Context, p *models.Product) error {
	ok, err := applied(r.session.Query(`UPDATE products SET product_name = ?, price = ?, description = ?, updated_at = ?
		WHERE product_id = ? IF EXISTS`,
		p.ProductName, p.Price, p.Description, p.UpdatedAt, p.ID).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *ScyllaProductRepository) Delete(ctx context.Context, id gocql.UUID) error {
	ok, err := applied(r.session.Query(`DELETE FROM products WHERE product_id = ? IF EXISTS`, id).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// DeleteByUser supprime les produits d'un vendeur et renvoie leurs identifiants
func (r *ScyllaProductRepository) DeleteByUser(ctx context.Context, userID string) ([]gocql.UUID, error) {
	iter := r.session.Query(`SELECT product_id FROM products WHERE user_id = ? ALLOW FILTERING`, userID).
		WithContext(ctx).Iter()
	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		if err := r.session.Query(`DELETE FROM products WHERE product_id = ?`, id).WithContext(ctx).Exec(); err != nil {
			return nil, err
		}
	}
	return nonNilSlice(ids), nil
}
