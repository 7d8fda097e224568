package models

import "time"

// Order est une ligne de l'index orders_by_user, écrite à l'émission d'un lien de paiement.
// Le statut n'y est pas stocké : il est toujours relu chez Stripe.
type Order struct {
	UserID      string    `json:"userId" db:"user_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	LinkID      string    `json:"linkId" db:"link_id"`
	URL         string    `json:"url" db:"url"`
	TotalAmount string    `json:"totalAmount" db:"total_amount"`
	OrderDate   string    `json:"orderDate" db:"order_date"`
}
