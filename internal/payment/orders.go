package payment

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/errgroup"
)

const statusConcurrency = 8

var ErrLinkNotFound = errors.New("payment link not found")

// LinkSummary est une ligne de GET /get-all-payment-links-metadata
type LinkSummary struct {
	ID       string            `json:"id"`
	URL      string            `json:"url"`
	Metadata map[string]string `json:"metadata"`
}

// UserLink est une « commande » reconstruite depuis les métadonnées d'un lien
type UserLink struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	Active        bool              `json:"active"`
	Created       Created           `json:"created"`
	Metadata      map[string]string `json:"metadata"`
	CartSummary   CartSummary       `json:"cart_summary"`
	OrderDate     string            `json:"order_date"`
	TotalAmount   string            `json:"total_amount"`
	PaymentStatus string            `json:"payment_status,omitempty"`
}

// OrderStore reconstruit les commandes à partir des liens du prestataire.
// Il n'existe aucune copie locale : chaque requête relit les liens.
type OrderStore struct {
	provider Provider
	cap      int
	resolver *StatusResolver
}

// NewOrderStore : resolver peut être nil, payment_status est alors omis
func NewOrderStore(provider Provider, linksCap int, resolver *StatusResolver) *OrderStore {
	if linksCap <= 0 {
		linksCap = 100
	}
	return &OrderStore{provider: provider, cap: linksCap, resolver: resolver}
}

func (s *OrderStore) scan(ctx context.Context) ([]Link, error) {
	links, err := s.provider.ListPaymentLinks(ctx, s.cap)
	if err != nil {
		return nil, providerErr("list payment links", err)
	}
	if len(links) >= s.cap {
		// Limite connue : pas de pagination au-delà du plafond
		log.Printf("⚠️ Plafond de %d liens atteint, les liens plus anciens sont ignorés", s.cap)
		links = links[:s.cap]
	}
	return links, nil
}

// ListAll renvoie id, url et métadonnées des liens les plus récents
func (s *OrderStore) ListAll(ctx context.Context) ([]LinkSummary, error) {
	links, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LinkSummary, 0, len(links))
	for _, l := range links {
		out = append(out, LinkSummary{ID: l.ID, URL: l.URL, Metadata: nonNil(l.Metadata)})
	}
	return out, nil
}

// ListByUser filtre les liens dont metadata.user_id vaut userID (ordre du prestataire conservé)
func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]UserLink, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Reason: "is required"}
	}
	links, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]UserLink, 0)
	for _, l := range links {
		if l.Metadata[MetaUserID] != userID {
			continue
		}
		out = append(out, toUserLink(l))
	}

	if s.resolver != nil {
		s.resolveStatuses(ctx, out)
	}
	return out, nil
}

// Find retrouve un lien parmi les plus récents
func (s *OrderStore) Find(ctx context.Context, linkID string) (*Link, error) {
	if linkID == "" {
		return nil, &ValidationError{Field: "id", Reason: "is required"}
	}
	links, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	for i := range links {
		if links[i].ID == linkID {
			return &links[i], nil
		}
	}
	return nil, ErrLinkNotFound
}

func toUserLink(l Link) UserLink {
	md := nonNil(l.Metadata)
	summary, err := ParseCartSummary(CartSummaryValue(md))
	if err != nil {
		log.Printf("⚠️ cart_summary illisible pour le lien %s, valeur brute conservée: %v", l.ID, err)
	}
	return UserLink{
		ID:          l.ID,
		URL:         l.URL,
		Active:      l.Active,
		Created:     ConvertCreated(l.Created),
		Metadata:    md,
		CartSummary: summary,
		OrderDate:   md[MetaOrderDate],
		TotalAmount: md[MetaTotalAmount],
	}
}

// resolveStatuses interroge le statut de chaque lien avec une concurrence bornée.
// Un échec dégrade l'enregistrement concerné en "unknown".
func (s *OrderStore) resolveStatuses(ctx context.Context, links []UserLink) {
	var g errgroup.Group
	g.SetLimit(statusConcurrency)
	for i := range links {
		g.Go(func() error {
			status, err := s.resolver.Resolve(ctx, links[i].ID)
			if err != nil {
				log.Printf("⚠️ Statut indisponible pour le lien %s: %v", links[i].ID, err)
				status = StatusUnknown
			}
			links[i].PaymentStatus = status
			return nil
		})
	}
	_ = g.Wait()
}

func nonNil(md map[string]string) map[string]string {
	if md == nil {
		return map[string]string{}
	}
	return md
}
