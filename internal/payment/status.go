package payment

import (
	"context"
	"strings"
)

// StatusUnknown est renvoyé quand aucune tentative de paiement n'est rattachée au lien
const StatusUnknown = "unknown"

// StatusResolver lit l'état du dernier paiement d'un lien. Lecture seule.
type StatusResolver struct {
	provider Provider
}

func NewStatusResolver(provider Provider) *StatusResolver {
	return &StatusResolver{provider: provider}
}

// Resolve renvoie le statut du PaymentIntent de la session la plus récente du lien
func (r *StatusResolver) Resolve(ctx context.Context, linkID string) (string, error) {
	if strings.TrimSpace(linkID) == "" {
		return "", &ValidationError{Field: "linkId", Reason: "is required"}
	}

	sessions, err := r.provider.ListCheckoutSessions(ctx, linkID, 1)
	if err != nil {
		return "", providerErr("list checkout sessions", err)
	}
	if len(sessions) == 0 || sessions[0].PaymentIntentID == "" {
		return StatusUnknown, nil
	}

	status, err := r.provider.PaymentIntentStatus(ctx, sessions[0].PaymentIntentID)
	if err != nil {
		return "", providerErr("retrieve payment intent", err)
	}
	return status, nil
}
