package payment

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"marketplace_back_end/internal/config"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
)

const stripeMaxPageSize = 100

// StripeProvider implémente Provider et Verifier avec le SDK Stripe.
// La clé est portée par le client, jamais par la variable globale stripe.Key.
type StripeProvider struct {
	sc            *stripe.Client
	webhookSecret string
}

// NewStripeProvider configure le transport : délai d'expiration et aucune relance
// automatique, les créations n'étant pas idempotentes sans clé.
func NewStripeProvider(cfg config.StripeConfig) *StripeProvider {
	return newStripeProvider(cfg, &stripe.BackendConfig{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
}

func newStripeProvider(cfg config.StripeConfig, backend *stripe.BackendConfig) *StripeProvider {
	backend.MaxNetworkRetries = stripe.Int64(0)
	backends := stripe.NewBackendsWithConfig(backend)
	return &StripeProvider{
		sc:            stripe.NewClient(cfg.SecretKey, stripe.WithBackends(backends)),
		webhookSecret: cfg.WebhookSecret,
	}
}

func (s *StripeProvider) CreateProduct(ctx context.Context, p ProductParams) (string, error) {
	params := &stripe.ProductCreateParams{
		Name: stripe.String(p.Name),
		Metadata: map[string]string{
			"category": p.Category,
			"location": p.Location,
		},
	}
	if p.Category != "" {
		params.Description = stripe.String(p.Category)
	}
	// Stripe n'accepte que des URLs ; les data URI restent dans cart_summary
	if isHTTPURL(p.Image) {
		params.Images = []*string{stripe.String(p.Image)}
	}
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}

	product, err := s.sc.V1Products.Create(ctx, params)
	if err != nil {
		return "", err
	}
	return product.ID, nil
}

func (s *StripeProvider) CreatePrice(ctx context.Context, p PriceParams) (string, error) {
	params := &stripe.PriceCreateParams{
		Product:    stripe.String(p.ProductID),
		UnitAmount: stripe.Int64(p.UnitAmount),
		Currency:   stripe.String(p.Currency),
	}
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}

	price, err := s.sc.V1Prices.Create(ctx, params)
	if err != nil {
		return "", err
	}
	return price.ID, nil
}

func (s *StripeProvider) CreatePaymentLink(ctx context.Context, p LinkParams) (*Link, error) {
	lineItems := make([]*stripe.PaymentLinkCreateLineItemParams, 0, len(p.LineItems))
	for _, li := range p.LineItems {
		lineItems = append(lineItems, &stripe.PaymentLinkCreateLineItemParams{
			Price:    stripe.String(li.PriceID),
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	params := &stripe.PaymentLinkCreateParams{
		LineItems: lineItems,
		Metadata:  p.Metadata,
		// user_id est recopié sur le PaymentIntent pour l'audit des webhooks
		PaymentIntentData: &stripe.PaymentLinkCreatePaymentIntentDataParams{
			Metadata: map[string]string{MetaUserID: p.Metadata[MetaUserID]},
		},
	}
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}

	link, err := s.sc.V1PaymentLinks.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	return toLink(link), nil
}

func (s *StripeProvider) ListPaymentLinks(ctx context.Context, limit int) ([]Link, error) {
	params := &stripe.PaymentLinkListParams{}
	params.Limit = stripe.Int64(int64(min(limit, stripeMaxPageSize)))

	links := make([]Link, 0, limit)
	for link, err := range s.sc.V1PaymentLinks.List(ctx, params) {
		if err != nil {
			return nil, err
		}
		links = append(links, *toLink(link))
		if len(links) >= limit {
			break
		}
	}
	return links, nil
}

func (s *StripeProvider) ListCheckoutSessions(ctx context.Context, linkID string, limit int) ([]CheckoutSession, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentLink: stripe.String(linkID),
	}
	params.Limit = stripe.Int64(int64(min(limit, stripeMaxPageSize)))

	sessions := make([]CheckoutSession, 0, limit)
	for sess, err := range s.sc.V1CheckoutSessions.List(ctx, params) {
		if err != nil {
			return nil, err
		}
		cs := CheckoutSession{ID: sess.ID, Created: sess.Created}
		if sess.PaymentIntent != nil {
			cs.PaymentIntentID = sess.PaymentIntent.ID
		}
		sessions = append(sessions, cs)
		if len(sessions) >= limit {
			break
		}
	}
	return sessions, nil
}

func (s *StripeProvider) PaymentIntentStatus(ctx context.Context, intentID string) (string, error) {
	pi, err := s.sc.V1PaymentIntents.Retrieve(ctx, intentID, nil)
	if err != nil {
		return "", err
	}
	return string(pi.Status), nil
}

// Verify contrôle l'en-tête Stripe-Signature sur le corps brut
func (s *StripeProvider) Verify(payload []byte, signature string) (Event, error) {
	if s.webhookSecret == "" {
		return Event{}, errors.New("STRIPE_WEBHOOK_SECRET non configuré")
	}
	ev, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return Event{}, err
	}

	event := Event{ID: ev.ID, Type: string(ev.Type)}
	if ev.Data != nil {
		event.Object = ev.Data.Raw
	}
	return event, nil
}

func toLink(l *stripe.PaymentLink) *Link {
	// L'objet PaymentLink n'a pas de date de création : elle est portée par les métadonnées
	return &Link{
		ID:       l.ID,
		URL:      l.URL,
		Active:   l.Active,
		Created:  l.Metadata[MetaCreatedAt],
		Metadata: l.Metadata,
	}
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}
