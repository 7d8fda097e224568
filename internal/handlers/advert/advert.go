package advert

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

// Handler gère les publicités ; images est nil quand MinIO n'est pas configuré
type Handler struct {
	adverts repository.AdvertRepository
	images  services.ImageStore
}

func NewHandler(adverts repository.AdvertRepository, images services.ImageStore) *Handler {
	return &Handler{adverts: adverts, images: images}
}

func (h *Handler) withURL(ctx context.Context, a *models.Advert) {
	if h.images == nil || a.ImageKey == "" {
		return
	}
	url, err := h.images.URL(ctx, a.ImageKey)
	if err != nil {
		log.Printf("⚠️ URL signée pour %s: %v", a.ImageKey, err)
		return
	}
	a.ImageURL = url
}

// putImage envoie l'image dans le bucket ; une image vide n'est pas une erreur
func (h *Handler) putImage(c *gin.Context, userID, encoded string) (string, bool) {
	if encoded == "" {
		return "", true
	}
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image storage is not configured"})
		return "", false
	}
	key, err := h.images.PutBase64(c.Request.Context(), "adverts/"+userID, encoded)
	if errors.Is(err, services.ErrInvalidImage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid base64 image"})
		return "", false
	}
	if err != nil {
		log.Printf("❌ Envoi de l'image publicitaire de %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store advert image"})
		return "", false
	}
	return key, true
}

func (h *Handler) removeImage(ctx context.Context, key string) {
	if h.images == nil || key == "" {
		return
	}
	if err := h.images.Remove(ctx, key); err != nil {
		log.Printf("⚠️ Suppression de l'image %s: %v", key, err)
	}
}

// CreateAdvert : POST /api/add-adverts {userId, image}
func (h *Handler) CreateAdvert(c *gin.Context) {
	var input struct {
		UserID string `json:"userId"`
		Image  string `json:"image"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	ctx := c.Request.Context()

	key, ok := h.putImage(c, input.UserID, input.Image)
	if !ok {
		return
	}

	now := time.Now().UTC()
	a := models.Advert{
		ID:        gocql.TimeUUID(),
		UserID:    input.UserID,
		ImageKey:  key,
		CreatedAt: now,
		ExpiresAt: now.Add(models.AdvertTTL),
	}
	if err := h.adverts.Create(ctx, &a); err != nil {
		h.removeImage(ctx, key)
		log.Printf("❌ Création de la publicité de %s: %v", a.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create advert"})
		return
	}
	h.withURL(ctx, &a)

	log.Printf("✅ Publicité %s créée (expire le %s)", a.ID, a.ExpiresAt.Format(time.RFC3339))
	c.JSON(http.StatusCreated, a)
}

// ListAdverts : GET /api/get-adverts (les publicités expirées ont disparu avec leur TTL)
func (h *Handler) ListAdverts(c *gin.Context) {
	ctx := c.Request.Context()
	adverts, err := h.adverts.List(ctx)
	if err != nil {
		log.Printf("❌ Liste des publicités: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch adverts"})
		return
	}
	for i := range adverts {
		h.withURL(ctx, &adverts[i])
	}
	c.JSON(http.StatusOK, adverts)
}

// GetAdvert : GET /api/get-adverts/:id
func (h *Handler) GetAdvert(c *gin.Context) {
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	a, err := h.adverts.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Advert not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Lecture de la publicité %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch advert"})
		return
	}
	h.withURL(ctx, a)
	c.JSON(http.StatusOK, a)
}

// UpdateAdvert : PUT /api/update-adverts/:id ; l'expiration d'origine est conservée
func (h *Handler) UpdateAdvert(c *gin.Context) {
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	var input struct {
		UserID string `json:"userId"`
		Image  string `json:"image"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	a, err := h.adverts.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Advert not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Lecture de la publicité %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update advert"})
		return
	}

	if input.UserID != "" {
		a.UserID = input.UserID
	}
	oldKey := ""
	if input.Image != "" {
		key, ok := h.putImage(c, a.UserID, input.Image)
		if !ok {
			return
		}
		oldKey, a.ImageKey = a.ImageKey, key
	}

	if err := h.adverts.Update(ctx, a); err != nil {
		if input.Image != "" {
			h.removeImage(ctx, a.ImageKey)
		}
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Advert not found"})
			return
		}
		log.Printf("❌ Mise à jour de la publicité %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update advert"})
		return
	}
	h.removeImage(ctx, oldKey)
	h.withURL(ctx, a)

	c.JSON(http.StatusOK, a)
}

// DeleteAdvert : DELETE /api/delete-adverts/:id
func (h *Handler) DeleteAdvert(c *gin.Context) {
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	a, err := h.adverts.Get(ctx, id)
	if err == nil {
		err = h.adverts.Delete(ctx, id)
	}
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Advert not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Suppression de la publicité %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete advert"})
		return
	}
	h.removeImage(ctx, a.ImageKey)

	c.JSON(http.StatusOK, gin.H{"message": "Advert deleted successfully"})
}

// DeleteUserAdverts : DELETE /api/delete-adverts-by-user/:userId
func (h *Handler) DeleteUserAdverts(c *gin.Context) {
	userID := c.Param("userId")
	ctx := c.Request.Context()

	deleted, err := h.adverts.DeleteByUser(ctx, userID)
	if err != nil {
		log.Printf("❌ Suppression des publicités de %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete adverts"})
		return
	}
	if len(deleted) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No adverts found for this userId"})
		return
	}
	for _, a := range deleted {
		h.removeImage(ctx, a.ImageKey)
	}

	log.Printf("🗑️ %d publicité(s) supprimée(s) pour %s", len(deleted), userID)
	c.JSON(http.StatusOK, gin.H{"message": "Adverts deleted successfully", "deletedCount": len(deleted)})
}
