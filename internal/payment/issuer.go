package payment

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"
	"unicode/utf8"

	"marketplace_back_end/internal/models"
)

// Clés de métadonnées portées par chaque lien de paiement
const (
	MetaUserID        = "user_id"
	MetaName          = "name"
	MetaTotalAmount   = "total_amount"
	MetaOrderDate     = "order_date"
	MetaCartSummary   = "cart_summary"
	MetaPaymentMethod = "payment_method"
	MetaCreatedAt     = "created_at"
)

// Limites Stripe sur les métadonnées d'un objet
const (
	MaxMetadataValueLen = 500
	MaxMetadataKeys     = 50
)

// champ de la requête correspondant à chaque clé, pour les erreurs de validation
var metaFields = map[string]string{
	MetaUserID:        "user_info.user_id",
	MetaName:          "user_info.name",
	MetaTotalAmount:   "total_amount",
	MetaOrderDate:     "order_date",
	MetaPaymentMethod: "payment_method",
}

var errNoLineItems = errors.New("a payment link needs at least one line item")

// OrderContext décrit la commande rattachée à un lien
type OrderContext struct {
	UserID        string
	Name          string
	TotalAmount   string
	OrderDate     string
	PaymentMethod string
	Cart          []models.CartItem
}

// LinkRef est le résultat de l'émission d'un lien
type LinkRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Issuer crée les liens de paiement
type Issuer struct {
	provider Provider
	now      func() time.Time
}

func NewIssuer(provider Provider) *Issuer {
	return &Issuer{provider: provider, now: time.Now}
}

// Metadata construit la map de métadonnées (toutes les valeurs sont des chaînes).
// Le panier sérialisé va dans cart_summary, ou dans cart_summary_0..n quand il
// dépasse MaxMetadataValueLen caractères.
func (o OrderContext) Metadata(createdAt time.Time) (map[string]string, error) {
	cartJSON, err := json.Marshal(o.Cart)
	if err != nil {
		return nil, &ValidationError{Field: "cart_items", Reason: "not serializable: " + err.Error()}
	}
	md := map[string]string{
		MetaUserID:      o.UserID,
		MetaName:        o.Name,
		MetaTotalAmount: o.TotalAmount,
		MetaOrderDate:   o.OrderDate,
		MetaCreatedAt:   strconv.FormatInt(createdAt.Unix(), 10),
	}
	if o.PaymentMethod != "" {
		md[MetaPaymentMethod] = o.PaymentMethod
	}
	for key, v := range md {
		if utf8.RuneCountInString(v) > MaxMetadataValueLen {
			return nil, &ValidationError{Field: metaFields[key], Reason: "must be at most 500 characters"}
		}
	}

	chunks := splitRunes(string(cartJSON), MaxMetadataValueLen)
	if len(md)+len(chunks) > MaxMetadataKeys {
		return nil, &ValidationError{Field: "cart_items", Reason: "too large to attach to a payment link"}
	}
	if len(chunks) == 1 {
		md[MetaCartSummary] = chunks[0]
	} else {
		for i, chunk := range chunks {
			md[CartSummaryPartKey(i)] = chunk
		}
	}
	return md, nil
}

// CartSummaryPartKey est la clé du i-ème morceau d'un panier découpé
func CartSummaryPartKey(i int) string {
	return MetaCartSummary + "_" + strconv.Itoa(i)
}

// CartSummaryValue recolle le panier sérialisé, qu'il soit entier ou découpé
func CartSummaryValue(md map[string]string) string {
	if v, ok := md[MetaCartSummary]; ok {
		return v
	}
	var out []byte
	for i := 0; ; i++ {
		part, ok := md[CartSummaryPartKey(i)]
		if !ok {
			break
		}
		out = append(out, part...)
	}
	return string(out)
}

// splitRunes découpe s en morceaux d'au plus n caractères sans couper un caractère UTF-8
func splitRunes(s string, n int) []string {
	chunks := []string{}
	for len(s) > 0 {
		end, count := 0, 0
		for end < len(s) && count < n {
			_, size := utf8.DecodeRuneInString(s[end:])
			end += size
			count++
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	if len(chunks) == 0 {
		chunks = append(chunks, "")
	}
	return chunks
}

// Issue crée un lien portant les lignes et les métadonnées de la commande.
// Aucune relance locale : une erreur du prestataire remonte telle quelle.
func (i *Issuer) Issue(ctx context.Context, lineItems []LineItem, order OrderContext, idempotencyKey string) (*LinkRef, error) {
	if len(lineItems) == 0 {
		return nil, &ProviderError{Op: "create payment link", Err: errNoLineItems}
	}
	md, err := order.Metadata(i.now())
	if err != nil {
		return nil, err
	}

	link, err := i.provider.CreatePaymentLink(ctx, LinkParams{
		LineItems:      lineItems,
		Metadata:       md,
		IdempotencyKey: derivedKey(idempotencyKey, "link", -1),
	})
	if err != nil {
		return nil, providerErr("create payment link", err)
	}
	return &LinkRef{ID: link.ID, URL: link.URL}, nil
}
