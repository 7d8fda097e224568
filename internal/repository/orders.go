package repository

import (
	"context"

	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/payment"

	"github.com/gocql/gocql"
)

// ScyllaOrderRepository est l'index local des liens émis ; il implémente payment.OrderIndex
type ScyllaOrderRepository struct {
	session *gocql.Session
}

func NewOrderRepository(session *gocql.Session) *ScyllaOrderRepository {
	return &ScyllaOrderRepository{session: session}
}

func (r *ScyllaOrderRepository) Record(ctx context.Context, rec payment.OrderRecord) error {
	return r.session.Query(`INSERT INTO orders_by_user (user_id, created_at, link_id, url, total_amount, order_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.CreatedAt, rec.LinkID, rec.URL, rec.TotalAmount, rec.OrderDate).WithContext(ctx).Exec()
}

// ListByUser renvoie les commandes les plus récentes d'abord (ordre de clustering)
func (r *ScyllaOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	iter := r.session.Query(`SELECT user_id, created_at, link_id, url, total_amount, order_date
		FROM orders_by_user WHERE user_id = ?`, userID).WithContext(ctx).Iter()

	var orders []models.Order
	var o models.Order
	for iter.Scan(&o.UserID, &o.CreatedAt, &o.LinkID, &o.URL, &o.TotalAmount, &o.OrderDate) {
		orders = append(orders, o)
		o = models.Order{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return nonNilSlice(orders), nil
}
