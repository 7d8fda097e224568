package messaging

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
)

// CreateNotification : POST /api/notifications
func (h *Handler) CreateNotification(c *gin.Context) {
	var input struct {
		Message   string `json:"message" binding:"required"`
		MessageID string `json:"messageId"`
		UserID    string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n := models.Notification{
		ID:        gocql.TimeUUID(),
		Message:   input.Message,
		MessageID: input.MessageID,
		UserID:    input.UserID,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.notify(c.Request.Context(), &n); err != nil {
		log.Printf("❌ Création de la notification pour %s: %v", n.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification"})
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *Handler) ListNotifications(c *gin.Context) {
	list, err := h.notifications.List(c.Request.Context())
	if err != nil {
		log.Printf("❌ Liste des notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetNotification(c *gin.Context) {
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	n, err := h.notifications.Get(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Lecture de la notification %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notification"})
		return
	}
	c.JSON(http.StatusOK, n)
}

// UpdateNotification : seuls les champs présents sont modifiés
func (h *Handler) UpdateNotification(c *gin.Context) {
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Message   *string `json:"message"`
		MessageID *string `json:"messageId"`
		UserID    *string `json:"userId"`
		Read      *bool   `json:"read"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	n, err := h.notifications.Get(ctx, id)
	if err == nil {
		if input.Message != nil {
			n.Message = *input.Message
		}
		if input.MessageID != nil {
			n.MessageID = *input.MessageID
		}
		if input.UserID != nil {
			n.UserID = *input.UserID
		}
		if input.Read != nil {
			n.Read = *input.Read
		}
		err = h.notifications.Update(ctx, n)
	}
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Mise à jour de la notification %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	id, ok := handlers.PathUUID(c, "id")
	if !ok {
		return
	}
	err := h.notifications.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Suppression de la notification %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
