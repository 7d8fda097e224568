package product

import (
	"errors"
	"log"
	"net/http"
	"time"

	"marketplace_back_end/internal/handlers"
	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
)

type ratingInput struct {
	Product string `json:"product" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// AddRating : POST /api/add-ratings (note entière de 1 à 5)
func (h *Handler) AddRating(c *gin.Context) {
	var input ratingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now().UTC()
	r := models.Rating{
		ID:        gocql.TimeUUID(),
		Product:   input.Product,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.ratings.Create(c.Request.Context(), &r); err != nil {
		log.Printf("❌ Création de la note pour %s: %v", r.Product, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusCreated, r)
}

// ListRatings : GET /api/ratings
func (h *Handler) ListRatings(c *gin.Context) {
	ratings, err := h.ratings.List(c.Request.Context())
	if err != nil {
		log.Printf("❌ Liste des notes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// GetRating : GET /api/ratings/:id
func (h *Handler) GetRating(c *gin.Context) {
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	r, err := h.ratings.Get(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Lecture de la note %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rating"})
		return
	}
	c.JSON(http.StatusOK, r)
}

// UpdateRating : PUT /api/ratings/:id
func (h *Handler) UpdateRating(c *gin.Context) {
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	var input ratingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	r, err := h.ratings.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Lecture de la note %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rating"})
		return
	}

	r.Product, r.Rating, r.Comment = input.Product, input.Rating, input.Comment
	r.UpdatedAt = time.Now().UTC()
	if err := h.ratings.Update(ctx, r); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
			return
		}
		log.Printf("❌ Mise à jour de la note %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rating"})
		return
	}
	c.JSON(http.StatusOK, r)
}

// DeleteRating : DELETE /api/ratings/:id
func (h *Handler) DeleteRating(c *gin.Context) {
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	err := h.ratings.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Suppression de la note %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rating"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating deleted successfully"})
}

// Summarize calcule la moyenne (2 décimales) et le nombre de notes
func Summarize(productID string, ratings []models.Rating) (models.RatingSummary, bool) {
	if len(ratings) == 0 {
		return models.RatingSummary{}, false
	}
	sum := decimal.Zero
	for _, r := range ratings {
		sum = sum.Add(decimal.NewFromInt(int64(r.Rating)))
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(ratings))))
	return models.RatingSummary{
		ProductID:     productID,
		AverageRating: avg.StringFixed(2),
		TotalRatings:  len(ratings),
	}, true
}

// RatingSummary : GET /api/ratings/summary/:productId
func (h *Handler) RatingSummary(c *gin.Context) {
	productID := c.Param("productId")
	ratings, err := h.ratings.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		log.Printf("❌ Notes du produit %s: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute rating summary"})
		return
	}
	summary, ok := Summarize(productID, ratings)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No ratings found for this product"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
