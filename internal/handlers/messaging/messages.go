package messaging

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"marketplace_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// SendMessage : POST /api/send-message
// Le message est publié sur Redis pour les websockets du destinataire,
// puis une notification lui est créée.
func (h *Handler) SendMessage(c *gin.Context) {
	var input struct {
		Content   string `json:"content" binding:"required"`
		Sender    string `json:"sender" binding:"required"`
		Recipient string `json:"recipient" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content, sender and recipient are required"})
		return
	}
	ctx := c.Request.Context()

	m := models.Message{
		ID:        gocql.TimeUUID(),
		Content:   strings.TrimSpace(input.Content),
		Sender:    input.Sender,
		Recipient: input.Recipient,
		Timestamp: time.Now().UTC(),
	}
	if err := h.messages.Create(ctx, &m); err != nil {
		log.Printf("❌ Enregistrement du message de %s: %v", m.Sender, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message"})
		return
	}

	if payload, err := json.Marshal(m); err == nil {
		if err := h.cache.PublishMessage(ctx, m.Recipient, payload); err != nil {
			log.Printf("⚠️ Publication du message %s échouée: %v", m.ID, err)
		}
	}

	n := models.Notification{
		ID:        gocql.TimeUUID(),
		Message:   "New message from " + m.Sender,
		MessageID: m.ID.String(),
		UserID:    m.Recipient,
		CreatedAt: m.Timestamp,
	}
	if err := h.notify(ctx, &n); err != nil {
		log.Printf("⚠️ Notification du message %s échouée: %v", m.ID, err)
	}

	c.JSON(http.StatusCreated, m)
}

// ReceiveMessages : GET /api/receive-messages?recipient=&sender=
func (h *Handler) ReceiveMessages(c *gin.Context) {
	messages, err := h.messages.List(c.Request.Context(), c.Query("recipient"), c.Query("sender"))
	if err != nil {
		log.Printf("❌ Lecture des messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}
