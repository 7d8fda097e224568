package payment

import (
	"context"
	"fmt"
	"math"

	"marketplace_back_end/internal/models"

	"github.com/shopspring/decimal"
)

// Translator convertit un panier en lignes de prix enregistrées chez le prestataire
type Translator struct {
	provider Provider
	currency string
}

func NewTranslator(provider Provider, currency string) *Translator {
	return &Translator{provider: provider, currency: currency}
}

// MaxUnitAmount est le plus grand montant unitaire accepté par Stripe, en unités mineures
const MaxUnitAmount = 99999999

// MinorUnits convertit un prix en unités mineures : round(price*100)
func MinorUnits(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, &ValidationError{Field: "price", Reason: "must be a number"}
	}
	if price < 0 {
		return 0, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	amount := decimal.NewFromFloat(price).Shift(2).Round(0)
	if amount.GreaterThan(decimal.NewFromInt(MaxUnitAmount)) {
		return 0, &ValidationError{Field: "price", Reason: "must be at most 999999.99"}
	}
	return amount.IntPart(), nil
}

// ValidateCart vérifie tout le panier avant le moindre appel au prestataire
func ValidateCart(items []models.CartItem) error {
	if len(items) == 0 {
		return &ValidationError{Field: "cart_items", Reason: "must not be empty"}
	}
	for i, item := range items {
		if _, err := MinorUnits(item.Price); err != nil {
			ve := err.(*ValidationError)
			ve.Field = fmt.Sprintf("cart_items[%d].price", i)
			return ve
		}
		if item.Quantity < 1 {
			return &ValidationError{Field: fmt.Sprintf("cart_items[%d].quantity", i), Reason: "must be at least 1"}
		}
	}
	return nil
}

// Translate enregistre un produit et un prix par article, dans l'ordre du panier.
// Pas de déduplication : chaque appel crée de nouveaux objets chez le prestataire.
func (t *Translator) Translate(ctx context.Context, items []models.CartItem, idempotencyKey string) ([]LineItem, error) {
	if err := ValidateCart(items); err != nil {
		return nil, err
	}

	lineItems := make([]LineItem, 0, len(items))
	for i, item := range items {
		amount, _ := MinorUnits(item.Price)

		productID, err := t.provider.CreateProduct(ctx, ProductParams{
			Name:           item.Name,
			Category:       item.Category,
			Image:          item.Image,
			Location:       item.Location,
			IdempotencyKey: derivedKey(idempotencyKey, "product", i),
		})
		if err != nil {
			return nil, providerErr("create product", err)
		}

		priceID, err := t.provider.CreatePrice(ctx, PriceParams{
			ProductID:      productID,
			UnitAmount:     amount,
			Currency:       t.currency,
			IdempotencyKey: derivedKey(idempotencyKey, "price", i),
		})
		if err != nil {
			return nil, providerErr("create price", err)
		}

		lineItems = append(lineItems, LineItem{
			PriceID:    priceID,
			Quantity:   int64(item.Quantity),
			UnitAmount: amount,
		})
	}
	return lineItems, nil
}

func derivedKey(key, kind string, index int) string {
	if key == "" {
		return ""
	}
	if index < 0 {
		return key + ":" + kind
	}
	return fmt.Sprintf("%s:%s:%d", key, kind, index)
}
