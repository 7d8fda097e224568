package product

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"marketplace_back_end/internal/handlers"
	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/repository"
	"marketplace_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// storePicture envoie l'image dans MinIO puis enregistre sa clé
func (h *Handler) storePicture(ctx context.Context, productID gocql.UUID, encoded string) (*models.ProductPicture, error) {
	key, err := h.images.PutBase64(ctx, "products/"+productID.String(), encoded)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	pic := &models.ProductPicture{
		ID:        gocql.TimeUUID(),
		ProductID: productID,
		ObjectKey: key,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.pictures.Create(ctx, pic); err != nil {
		if rmErr := h.images.Remove(ctx, key); rmErr != nil {
			log.Printf("⚠️ Objet orphelin %s: %v", key, rmErr)
		}
		return nil, err
	}
	return pic, nil
}

func (h *Handler) withURL(ctx context.Context, pic *models.ProductPicture) {
	url, err := h.images.URL(ctx, pic.ObjectKey)
	if err != nil {
		log.Printf("⚠️ URL signée pour %s: %v", pic.ObjectKey, err)
		return
	}
	pic.URL = url
}

func (h *Handler) imagesEnabled(c *gin.Context) bool {
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image storage is not configured"})
		return false
	}
	return true
}

func pictureError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid base64 image"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Picture not found"})
	default:
		log.Printf("❌ %s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op})
	}
}

// AddPicture : POST /api/product-pictures {productId, base64}
func (h *Handler) AddPicture(c *gin.Context) {
	if !h.imagesEnabled(c) {
		return
	}
	var input struct {
		ProductID string `json:"productId" binding:"required"`
		Base64    string `json:"base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	productID, err := handlers.ParseUUID(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productId"})
		return
	}
	ctx := c.Request.Context()

	if _, err := h.products.Get(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		log.Printf("❌ Lecture du produit %s: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add picture"})
		return
	}

	pic, err := h.storePicture(ctx, productID, input.Base64)
	if err != nil {
		pictureError(c, "add picture", err)
		return
	}
	h.withURL(ctx, pic)

	c.JSON(http.StatusCreated, gin.H{"message": "Picture added successfully", "picture": pic})
}

// GetPicture : GET /api/product-pictures/:id
func (h *Handler) GetPicture(c *gin.Context) {
	if !h.imagesEnabled(c) {
		return
	}
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	pic, err := h.pictures.Get(ctx, id)
	if err != nil {
		pictureError(c, "retrieve picture", err)
		return
	}
	h.withURL(ctx, pic)
	c.JSON(http.StatusOK, pic)
}

// UpdatePicture remplace l'image ; l'ancien objet est supprimé du bucket
func (h *Handler) UpdatePicture(c *gin.Context) {
	if !h.imagesEnabled(c) {
		return
	}
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Base64 string `json:"base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	pic, err := h.pictures.Get(ctx, id)
	if err != nil {
		pictureError(c, "update picture", err)
		return
	}

	oldKey := pic.ObjectKey
	key, err := h.images.PutBase64(ctx, "products/"+pic.ProductID.String(), input.Base64)
	if err != nil {
		pictureError(c, "update picture", err)
		return
	}
	pic.ObjectKey = key
	pic.UpdatedAt = time.Now().UTC()

	if err := h.pictures.Update(ctx, pic); err != nil {
		_ = h.images.Remove(ctx, key)
		pictureError(c, "update picture", err)
		return
	}
	if err := h.images.Remove(ctx, oldKey); err != nil {
		log.Printf("⚠️ Suppression de l'ancienne image %s: %v", oldKey, err)
	}
	h.withURL(ctx, pic)

	c.JSON(http.StatusOK, gin.H{"message": "Picture updated successfully", "picture": pic})
}

// DeletePicture : DELETE /api/product-pictures/:id
func (h *Handler) DeletePicture(c *gin.Context) {
	if !h.imagesEnabled(c) {
		return
	}
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	pic, err := h.pictures.Get(ctx, id)
	if err != nil {
		pictureError(c, "delete picture", err)
		return
	}
	if err := h.pictures.Delete(ctx, id); err != nil {
		pictureError(c, "delete picture", err)
		return
	}
	if err := h.images.Remove(ctx, pic.ObjectKey); err != nil {
		log.Printf("⚠️ Suppression de l'image %s: %v", pic.ObjectKey, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Picture deleted successfully"})
}
