package payement

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"marketplace_back_end/internal/payment"
	"marketplace_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

// GetPaymentStatus renvoie le statut du dernier paiement d'un lien
func (h *Handler) GetPaymentStatus(c *gin.Context) {
	linkID := c.Param("linkId")
	status, err := h.status.Resolve(c.Request.Context(), linkID)
	if err != nil {
		respondError(c, "Statut du lien "+linkID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"linkId": linkID, "payment_status": status})
}

// GetPaymentLinkQRCode rend l'URL du lien en PNG
func (h *Handler) GetPaymentLinkQRCode(c *gin.Context) {
	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxQRSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 1 and 1024"})
			return
		}
		size = n
	}

	link, err := h.orders.Find(c.Request.Context(), c.Param("id"))
	if errors.Is(err, payment.ErrLinkNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment link not found"})
		return
	}
	if err != nil {
		respondError(c, "Recherche du lien "+c.Param("id"), err)
		return
	}

	png, err := utils.PaymentLinkQR(link.URL, size)
	if err != nil {
		log.Printf("❌ Génération QR code %s: %v", link.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetOrders lit l'index local des commandes (le statut reste chez Stripe)
func (h *Handler) GetOrders(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId parameter"})
		return
	}
	orders, err := h.index.ListByUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("❌ Lecture des commandes de %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
