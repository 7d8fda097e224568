package product

import (
	"errors"
	"log"
	"net/http"
	"time"

	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"

	"github.com/gin-gonic/gin"
)

// AddFavourite : POST /api/favorite-products
func (h *Handler) AddFavourite(c *gin.Context) {
	var input struct {
		UserID    string `json:"userId"`
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.UserID == "" || input.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID and Product ID are required"})
		return
	}

	fav := models.FavouriteProduct{UserID: input.UserID, ProductID: input.ProductID, AddedAt: time.Now().UTC()}
	err := h.favourites.Add(c.Request.Context(), &fav)
	if errors.Is(err, repository.ErrDuplicate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product is already in favorites"})
		return
	}
	if err != nil {
		log.Printf("❌ Ajout du favori %s/%s: %v", fav.UserID, fav.ProductID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create favorite product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Favourite has been added", "favoriteProduct": fav})
}

// ListFavourites : GET /api/favorite-products
func (h *Handler) ListFavourites(c *gin.Context) {
	favs, err := h.favourites.List(c.Request.Context())
	if err != nil {
		log.Printf("❌ Liste des favoris: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve favorite products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Favorite products retrieved successfully", "favoriteProducts": favs})
}

// ListUserFavourites : GET /api/favorite-products/user/:userId
func (h *Handler) ListUserFavourites(c *gin.Context) {
	userID := c.Param("userId")
	favs, err := h.favourites.ListByUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("❌ Favoris de %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve favorite products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Favorite products retrieved successfully", "favoriteProducts": favs})
}

// RemoveFavourite : DELETE /api/favorite-products/:productId[?userId=]
func (h *Handler) RemoveFavourite(c *gin.Context) {
	productID := c.Param("productId")
	err := h.favourites.Remove(c.Request.Context(), productID, c.Query("userId"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Favorite product not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Suppression du favori %s: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete favorite product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Favorite product deleted successfully"})
}
