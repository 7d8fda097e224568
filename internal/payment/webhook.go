package payment

import (
	"context"
	"encoding/json"
	"log"
)

// EventKind est l'énumération fermée des événements reconnus
type EventKind int

const (
	EventUnhandled EventKind = iota
	EventPaymentSucceeded
	EventPaymentFailed
)

const (
	TypePaymentSucceeded = "payment_intent.succeeded"
	TypePaymentFailed    = "payment_intent.payment_failed"
)

// KindOf classe un type d'événement du prestataire
func KindOf(eventType string) EventKind {
	switch eventType {
	case TypePaymentSucceeded:
		return EventPaymentSucceeded
	case TypePaymentFailed:
		return EventPaymentFailed
	default:
		return EventUnhandled
	}
}

func (k EventKind) String() string {
	switch k {
	case EventPaymentSucceeded:
		return "payment_succeeded"
	case EventPaymentFailed:
		return "payment_failed"
	default:
		return "unhandled"
	}
}

// Dispatcher reçoit uniquement des événements vérifiés
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}

// EventDeduper mémorise les événements déjà traités (livraison au moins une fois)
type EventDeduper interface {
	FirstDelivery(ctx context.Context, eventID string) (bool, error)
}

// WebhookHandler vérifie puis distribue les événements du prestataire
type WebhookHandler struct {
	verifier   Verifier
	dispatcher Dispatcher
	dedup      EventDeduper
}

// NewWebhookHandler : dedup peut être nil
func NewWebhookHandler(verifier Verifier, dispatcher Dispatcher, dedup EventDeduper) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, dispatcher: dispatcher, dedup: dedup}
}

// Handle renvoie une *SignatureError si la signature est invalide ; dans ce cas
// rien n'est distribué. Toute autre issue est un accusé de réception.
func (h *WebhookHandler) Handle(ctx context.Context, payload []byte, signature string) (Event, error) {
	event, err := h.verifier.Verify(payload, signature)
	if err != nil {
		return Event{}, &SignatureError{Err: err}
	}
	event.Kind = KindOf(event.Type)

	if h.dedup != nil && event.ID != "" {
		first, err := h.dedup.FirstDelivery(ctx, event.ID)
		if err != nil {
			log.Printf("⚠️ Déduplication indisponible pour %s: %v", event.ID, err)
		} else if !first {
			log.Printf("🔁 Événement %s déjà reçu, ignoré", event.ID)
			return event, nil
		}
	}

	if err := h.dispatcher.Dispatch(ctx, event); err != nil {
		log.Printf("❌ Traitement de l'événement %s (%s) échoué: %v", event.ID, event.Type, err)
	}
	return event, nil
}

// AuditDispatcher journalise les événements de paiement, sans autre effet
type AuditDispatcher struct{}

type intentSnapshot struct {
	ID               string            `json:"id"`
	Amount           int64             `json:"amount"`
	Currency         string            `json:"currency"`
	Status           string            `json:"status"`
	Metadata         map[string]string `json:"metadata"`
	LastPaymentError *struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

func (AuditDispatcher) Dispatch(_ context.Context, event Event) error {
	switch event.Kind {
	case EventPaymentSucceeded:
		var pi intentSnapshot
		if err := json.Unmarshal(event.Object, &pi); err != nil {
			return err
		}
		log.Printf("✅ Paiement confirmé : %s (%.2f %s) user=%s",
			pi.ID, float64(pi.Amount)/100, pi.Currency, pi.Metadata[MetaUserID])
	case EventPaymentFailed:
		var pi intentSnapshot
		if err := json.Unmarshal(event.Object, &pi); err != nil {
			return err
		}
		reason := ""
		if pi.LastPaymentError != nil {
			reason = pi.LastPaymentError.Message
		}
		log.Printf("⚠️ Paiement échoué : %s user=%s raison=%q", pi.ID, pi.Metadata[MetaUserID], reason)
	default:
		log.Printf("ℹ️ Événement ignoré : %s", event.Type)
	}
	return nil
}
