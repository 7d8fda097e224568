package messaging

import (
	"errors"
	"log"
	"net/http"
	"time"

	"marketplace_back_end/internal/repository"

	"github.com/gin-gonic/gin"
)

// SaveSettings : POST /api/settings
// Crée ou met à jour les réglages ; les champs absents gardent leur valeur
// (ou la valeur par défaut pour un nouvel utilisateur).
func (h *Handler) SaveSettings(c *gin.Context) {
	var input struct {
		UserID             string  `json:"userId" binding:"required"`
		EmailNotifications *bool   `json:"emailNotifications"`
		SMSNotifications   *bool   `json:"smsNotifications"`
		PushNotifications  *bool   `json:"pushNotifications"`
		EmailFrequency     *string `json:"emailFrequency"`
		SMSFrequency       *string `json:"smsFrequency"`
		PushFrequency      *string `json:"pushFrequency"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	s, err := h.settingsFor(ctx, input.UserID)
	if err != nil {
		log.Printf("❌ Lecture des réglages de %s: %v", input.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	if input.EmailNotifications != nil {
		s.EmailNotifications = *input.EmailNotifications
	}
	if input.SMSNotifications != nil {
		s.SMSNotifications = *input.SMSNotifications
	}
	if input.PushNotifications != nil {
		s.PushNotifications = *input.PushNotifications
	}
	if input.EmailFrequency != nil {
		s.EmailFrequency = *input.EmailFrequency
	}
	if input.SMSFrequency != nil {
		s.SMSFrequency = *input.SMSFrequency
	}
	if input.PushFrequency != nil {
		s.PushFrequency = *input.PushFrequency
	}
	if err := s.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.LastUpdated = time.Now().UTC()

	if err := h.settings.Upsert(ctx, &s); err != nil {
		log.Printf("❌ Enregistrement des réglages de %s: %v", s.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) GetSettings(c *gin.Context) {
	userID := c.Param("userId")
	s, err := h.settings.Get(c.Request.Context(), userID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Lecture des réglages de %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) DeleteSettings(c *gin.Context) {
	userID := c.Param("userId")
	err := h.settings.Delete(c.Request.Context(), userID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		return
	}
	if err != nil {
		log.Printf("❌ Suppression des réglages de %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings deleted"})
}
