package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Rating struct {
	ID        gocql.UUID `json:"id" db:"rating_id"`
	Product   string     `json:"product" db:"product_id"`
	Rating    int        `json:"rating" db:"rating"` // 1-5
	Comment   string     `json:"comment" db:"comment"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

type RatingSummary struct {
	ProductID     string `json:"productId"`
	AverageRating string `json:"averageRating"`
	TotalRatings  int    `json:"totalRatings"`
}
