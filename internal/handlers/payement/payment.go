package payement

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"marketplace_back_end/internal/models"
	"marketplace_back_end/internal/payment"

	"github.com/gin-gonic/gin"
)

// OrderLister lit l'index local des commandes
type OrderLister interface {
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
}

// Handler regroupe les endpoints de paiement ; toutes les dépendances sont injectées
type Handler struct {
	checkout *payment.Checkout
	orders   *payment.OrderStore
	status   *payment.StatusResolver
	webhooks *payment.WebhookHandler
	index    OrderLister
}

func NewHandler(checkout *payment.Checkout, orders *payment.OrderStore, status *payment.StatusResolver, webhooks *payment.WebhookHandler, index OrderLister) *Handler {
	return &Handler{checkout: checkout, orders: orders, status: status, webhooks: webhooks, index: index}
}

type createLinkRequest struct {
	CartItems     []models.CartItem `json:"cart_items"`
	TotalAmount   json.RawMessage   `json:"total_amount"`
	UserInfo      models.UserInfo   `json:"user_info"`
	PaymentMethod string            `json:"payment_method"`
	OrderDate     string            `json:"order_date"`
}

// amountString accepte total_amount en nombre ou en chaîne ; les métadonnées ne portent que des chaînes
func amountString(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return trimmed
}

// respondError traduit les erreurs du paiement en statut HTTP
func respondError(c *gin.Context, op string, err error) {
	var ve *payment.ValidationError
	var pe *payment.ProviderError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.As(err, &pe):
		log.Printf("❌ %s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment provider error", "details": pe.Err.Error()})
	default:
		log.Printf("❌ %s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// CreatePaymentLink traduit le panier en lignes Stripe et renvoie l'URL du lien
func (h *Handler) CreatePaymentLink(c *gin.Context) {
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	order := payment.OrderContext{
		UserID:        req.UserInfo.UserID,
		Name:          req.UserInfo.Name,
		TotalAmount:   amountString(req.TotalAmount),
		OrderDate:     req.OrderDate,
		PaymentMethod: req.PaymentMethod,
		Cart:          req.CartItems,
	}

	ref, err := h.checkout.CreatePaymentLink(c.Request.Context(), order, c.GetHeader("Idempotency-Key"))
	if err != nil {
		respondError(c, "Création du lien de paiement", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paymentLink": ref.URL})
}

// GetAllPaymentLinksMetadata renvoie id, url et métadonnées de tous les liens (dans la limite du plafond)
func (h *Handler) GetAllPaymentLinksMetadata(c *gin.Context) {
	links, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, "Lecture des liens de paiement", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentLinks": links})
}

// GetPaymentLinksByUser reconstruit les commandes d'un utilisateur depuis les métadonnées
func (h *Handler) GetPaymentLinksByUser(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId parameter"})
		return
	}

	links, err := h.orders.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Lecture des liens de "+userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentLinks": links})
}
