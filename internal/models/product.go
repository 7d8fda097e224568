package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Product est une annonce de la place de marché. Le prix reste une chaîne,
// tel que saisi par le vendeur.
type Product struct {
	ID          gocql.UUID `json:"id" db:"product_id"`
	UserID      string     `json:"userId" db:"user_id"`
	ProductName string     `json:"productName" db:"product_name"`
	Price       string     `json:"price" db:"price"`
	Location    string     `json:"location" db:"location"`
	Category    string     `json:"category" db:"category"`
	Username    string     `json:"username" db:"username"`
	PhoneNumber string     `json:"phoneNumber" db:"phone_number"`
	Description string     `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// ProductPicture référence une image stockée dans MinIO
type ProductPicture struct {
	ID        gocql.UUID `json:"id" db:"picture_id"`
	ProductID gocql.UUID `json:"productId" db:"product_id"`
	ObjectKey string     `json:"-" db:"object_key"`
	URL       string     `json:"url,omitempty"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}
