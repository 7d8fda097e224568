package payement

import (
	"log"
	"net/http"

	"marketplace_back_end/internal/payment"

	"github.com/gin-gonic/gin"
)

const maxWebhookBodyBytes = int64(65536)

// StripeWebhook vérifie la signature sur le corps brut puis accuse réception
func (h *Handler) StripeWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read request body"})
		return
	}

	event, err := h.webhooks.Handle(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if payment.IsSignature(err) {
		log.Println("❌ Signature Stripe invalide:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
		return
	}
	if err != nil {
		// Un événement vérifié est toujours acquitté
		log.Printf("⚠️ Webhook %s: %v", event.ID, err)
	}
	log.Printf("📥 Événement Stripe reçu : %s (%s)", event.Type, event.Kind)

	c.JSON(http.StatusOK, gin.H{"received": true})
}
