package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"
)

// OrderRecord est l'entrée de l'index local des commandes
type OrderRecord struct {
	UserID      string
	LinkID      string
	URL         string
	TotalAmount string
	OrderDate   string
	CreatedAt   time.Time
}

// OrderIndex est l'index local (user_id, created_at, link_id) alimenté à l'émission
type OrderIndex interface {
	Record(ctx context.Context, rec OrderRecord) error
}

// ReplayStore rejoue le résultat d'une tentative de checkout déjà aboutie
type ReplayStore interface {
	LookupCheckout(ctx context.Context, key string) (string, bool, error)
	RememberCheckout(ctx context.Context, key, url string) error
}

// Checkout enchaîne traduction du panier, émission du lien et indexation
type Checkout struct {
	translator *Translator
	issuer     *Issuer
	index      OrderIndex
	replay     ReplayStore
}

// NewCheckout : index et replay peuvent être nil
func NewCheckout(translator *Translator, issuer *Issuer, index OrderIndex, replay ReplayStore) *Checkout {
	return &Checkout{translator: translator, issuer: issuer, index: index, replay: replay}
}

// scopedKey rattache la clé fournie par le client à l'utilisateur et au panier :
// deux commandes différentes ne partagent jamais un lien
func scopedKey(key string, order OrderContext) string {
	if key == "" {
		return ""
	}
	cartJSON, _ := json.Marshal(order.Cart)
	h := sha256.New()
	h.Write([]byte(order.UserID))
	h.Write([]byte{0})
	h.Write(cartJSON)
	return key + ":" + hex.EncodeToString(h.Sum(nil))[:16]
}

// CreatePaymentLink renvoie l'URL du lien créé pour le panier de la commande
func (c *Checkout) CreatePaymentLink(ctx context.Context, order OrderContext, idempotencyKey string) (*LinkRef, error) {
	if order.UserID == "" {
		return nil, &ValidationError{Field: "user_info.user_id", Reason: "is required"}
	}
	if err := ValidateCart(order.Cart); err != nil {
		return nil, err
	}
	// une commande trop volumineuse pour les métadonnées échoue avant toute création
	if _, err := order.Metadata(c.issuer.now()); err != nil {
		return nil, err
	}
	key := scopedKey(idempotencyKey, order)

	if key != "" && c.replay != nil {
		url, ok, err := c.replay.LookupCheckout(ctx, key)
		if err != nil {
			log.Printf("⚠️ Lecture idempotence %s échouée: %v", idempotencyKey, err)
		} else if ok {
			log.Printf("🔁 Checkout %s déjà traité, lien rejoué", idempotencyKey)
			return &LinkRef{URL: url}, nil
		}
	}

	lineItems, err := c.translator.Translate(ctx, order.Cart, key)
	if err != nil {
		return nil, err
	}

	ref, err := c.issuer.Issue(ctx, lineItems, order, key)
	if err != nil {
		return nil, err
	}
	log.Printf("💳 Lien de paiement créé : %s (%d article(s)) pour %s", ref.ID, len(lineItems), order.UserID)

	if key != "" && c.replay != nil {
		if err := c.replay.RememberCheckout(ctx, key, ref.URL); err != nil {
			log.Printf("⚠️ Mémorisation idempotence %s échouée: %v", idempotencyKey, err)
		}
	}

	if c.index != nil {
		rec := OrderRecord{
			UserID:      order.UserID,
			LinkID:      ref.ID,
			URL:         ref.URL,
			TotalAmount: order.TotalAmount,
			OrderDate:   order.OrderDate,
			CreatedAt:   c.issuer.now(),
		}
		// Le prestataire reste la source de vérité : un échec d'indexation n'annule pas le lien
		if err := c.index.Record(ctx, rec); err != nil {
			log.Printf("⚠️ Indexation de la commande %s échouée: %v", ref.ID, err)
		}
	}
	return ref, nil
}
