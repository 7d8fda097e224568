package payment

import (
	"context"
	"encoding/json"
)

// Provider est la surface du prestataire de paiement utilisée par le checkout.
// Tous les objets (produits, prix, liens, sessions, intents) vivent chez le prestataire.
type Provider interface {
	CreateProduct(ctx context.Context, p ProductParams) (string, error)
	CreatePrice(ctx context.Context, p PriceParams) (string, error)
	CreatePaymentLink(ctx context.Context, p LinkParams) (*Link, error)
	// ListPaymentLinks renvoie au plus limit liens, dans l'ordre natif du prestataire
	ListPaymentLinks(ctx context.Context, limit int) ([]Link, error)
	// ListCheckoutSessions renvoie les sessions d'un lien, la plus récente d'abord
	ListCheckoutSessions(ctx context.Context, linkID string, limit int) ([]CheckoutSession, error)
	PaymentIntentStatus(ctx context.Context, intentID string) (string, error)
}

// Verifier vérifie la signature d'un webhook et décode l'enveloppe
type Verifier interface {
	Verify(payload []byte, signature string) (Event, error)
}

type ProductParams struct {
	Name           string
	Category       string
	Image          string
	Location       string
	IdempotencyKey string
}

type PriceParams struct {
	ProductID      string
	UnitAmount     int64
	Currency       string
	IdempotencyKey string
}

type LinkParams struct {
	LineItems      []LineItem
	Metadata       map[string]string
	IdempotencyKey string
}

// LineItem est une référence de prix enregistrée chez le prestataire + quantité
type LineItem struct {
	PriceID    string `json:"price"`
	Quantity   int64  `json:"quantity"`
	UnitAmount int64  `json:"unit_amount"`
}

// Link est la vue d'un lien de paiement côté prestataire
type Link struct {
	ID       string
	URL      string
	Active   bool
	Created  string
	Metadata map[string]string
}

type CheckoutSession struct {
	ID              string
	Created         int64
	PaymentIntentID string
}

// Event est une enveloppe de webhook dont la signature a été vérifiée
type Event struct {
	ID     string
	Type   string
	Kind   EventKind
	Object json.RawMessage
}
