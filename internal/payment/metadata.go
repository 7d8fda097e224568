package payment

import (
	"encoding/json"
	"strconv"
	"time"

	"marketplace_back_end/internal/models"
)

// CartSummary est le panier relu depuis les métadonnées d'un lien :
// soit parsé, soit la chaîne brute quand le JSON est invalide.
type CartSummary struct {
	items  []models.CartItem
	raw    string
	parsed bool
}

// ParseCartSummary ne renvoie jamais de résumé vide : en cas d'erreur le résultat
// porte la chaîne brute et l'erreur est une *MalformedMetadataError.
func ParseCartSummary(raw string) (CartSummary, error) {
	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return CartSummary{raw: raw}, &MalformedMetadataError{Key: MetaCartSummary, Err: err}
	}
	return CartSummary{items: items, raw: raw, parsed: true}, nil
}

// Items renvoie le panier parsé ; ok est faux pour un résumé brut
func (c CartSummary) Items() (items []models.CartItem, ok bool) {
	return c.items, c.parsed
}

func (c CartSummary) Raw() string { return c.raw }

func (c CartSummary) IsParsed() bool { return c.parsed }

func (c CartSummary) MarshalJSON() ([]byte, error) {
	if c.parsed {
		if c.items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.items)
	}
	return json.Marshal(c.raw)
}

// Created est la date de création d'un lien : ISO-8601 si convertible, sinon la valeur brute
type Created struct {
	ISO string
	Raw string
}

// ConvertCreated convertit des secondes epoch en RFC 3339 (UTC)
func ConvertCreated(raw string) Created {
	epoch, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || epoch <= 0 {
		return Created{Raw: raw}
	}
	return Created{ISO: time.Unix(epoch, 0).UTC().Format(time.RFC3339), Raw: raw}
}

func (c Created) MarshalJSON() ([]byte, error) {
	switch {
	case c.ISO != "":
		return json.Marshal(c.ISO)
	case c.Raw == "":
		return []byte("null"), nil
	}
	if n, err := strconv.ParseInt(c.Raw, 10, 64); err == nil {
		return json.Marshal(n)
	}
	return json.Marshal(c.Raw)
}
