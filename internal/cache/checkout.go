package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	CheckoutReplayTTL = 24 * time.Hour
	// Stripe relivre un événement pendant 3 jours au maximum
	EventDedupTTL = 72 * time.Hour
)

// LookupCheckout renvoie l'URL déjà émise pour cette clé d'idempotence.
// La clé reçue est déjà propre à un utilisateur et à un panier.
func (s *Store) LookupCheckout(ctx context.Context, key string) (string, bool, error) {
	return s.GetCache(ctx, "checkout:idem:"+key)
}

// RememberCheckout associe la clé d'idempotence à l'URL émise
func (s *Store) RememberCheckout(ctx context.Context, key, url string) error {
	return s.rdb.Set(ctx, "checkout:idem:"+key, url, CheckoutReplayTTL).Err()
}

// FirstDelivery renvoie vrai la première fois qu'un identifiant d'événement est vu
func (s *Store) FirstDelivery(ctx context.Context, eventID string) (bool, error) {
	return s.rdb.SetNX(ctx, "stripe:event:"+eventID, "1", EventDedupTTL).Result()
}

// MessageChannel est le canal pub/sub des messages d'un destinataire
func MessageChannel(userID string) string {
	return "messages:" + userID
}

// PublishMessage notifie les websockets abonnés au destinataire
func (s *Store) PublishMessage(ctx context.Context, recipient string, payload []byte) error {
	return s.rdb.Publish(ctx, MessageChannel(recipient), payload).Err()
}

// SubscribeMessages ouvre un abonnement ; l'appelant doit le fermer
func (s *Store) SubscribeMessages(ctx context.Context, userID string) *redis.PubSub {
	return s.rdb.Subscribe(ctx, MessageChannel(userID))
}
