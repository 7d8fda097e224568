package repository

import (
	"context"

	"marketplace_back_end/internal/models"

	"github.com/gocql/gocql"
)

type ScyllaPictureRepository struct {
	session *gocql.Session
}

func NewPictureRepository(session *gocql.Session) *ScyllaPictureRepository {
	return &ScyllaPictureRepository{session: session}
}

func (r *ScyllaPictureRepository) Create(ctx context.Context, p *models.ProductPicture) error {
	return r.session.Query(`INSERT INTO product_pictures (picture_id, product_id, object_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.ProductID, p.ObjectKey, p.CreatedAt, p.UpdatedAt).WithContext(ctx).Exec()
}

func (r *ScyllaPictureRepository) Get(ctx context.Context, id gocql.UUID) (*models.ProductPicture, error) {
	var p models.ProductPicture
	err := r.session.Query(`SELECT picture_id, product_id, object_key, created_at, updated_at
		FROM product_pictures WHERE picture_id = ?`, id).
		WithContext(ctx).
		Scan(&p.ID, &p.ProductID, &p.ObjectKey, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ScyllaPictureRepository) Update(ctx context.Context, p *models.ProductPicture) error {
	ok, err := applied(r.session.Query(`UPDATE product_pictures SET object_key = ?, updated_at = ?
		WHERE picture_id = ? IF EXISTS`, p.ObjectKey, p.UpdatedAt, p.ID).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *ScyllaPictureRepository) Delete(ctx context.Context, id gocql.UUID) error {
	ok, err := applied(r.session.Query(`DELETE FROM product_pictures WHERE picture_id = ? IF EXISTS`, id).WithContext(ctx))
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
