package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// fakeProvider enregistre les appels et simule les objets du prestataire en mémoire
type fakeProvider struct {
	mu sync.Mutex

	products []ProductParams
	prices   []PriceParams
	links    []LinkParams

	stored   []Link
	sessions map[string][]CheckoutSession
	intents  map[string]string

	failOn   string
	calls    int
	listErrs map[string]error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		sessions: map[string][]CheckoutSession{},
		intents:  map[string]string{},
		listErrs: map[string]error{},
	}
}

func (f *fakeProvider) CreateProduct(_ context.Context, p ProductParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failOn == "product" {
		return "", errors.New("product rejected")
	}
	f.products = append(f.products, p)
	return fmt.Sprintf("prod_%d", len(f.products)), nil
}

func (f *fakeProvider) CreatePrice(_ context.Context, p PriceParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failOn == "price" {
		return "", errors.New("price rejected")
	}
	f.prices = append(f.prices, p)
	return fmt.Sprintf("price_%d", len(f.prices)), nil
}

func (f *fakeProvider) CreatePaymentLink(_ context.Context, p LinkParams) (*Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failOn == "link" {
		return nil, errors.New("link rejected")
	}
	f.links = append(f.links, p)
	id := fmt.Sprintf("plink_%d", len(f.links))
	link := Link{
		ID:       id,
		URL:      "https://buy.stripe.com/test_" + id,
		Active:   true,
		Created:  p.Metadata[MetaCreatedAt],
		Metadata: p.Metadata,
	}
	// le prestataire liste les plus récents en premier
	f.stored = append([]Link{link}, f.stored...)
	return &link, nil
}

func (f *fakeProvider) ListPaymentLinks(_ context.Context, limit int) ([]Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failOn == "list" {
		return nil, errors.New("list unavailable")
	}
	if len(f.stored) > limit {
		return append([]Link(nil), f.stored[:limit]...), nil
	}
	return append([]Link(nil), f.stored...), nil
}

func (f *fakeProvider) ListCheckoutSessions(_ context.Context, linkID string, limit int) ([]CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.listErrs[linkID]; err != nil {
		return nil, err
	}
	s := f.sessions[linkID]
	if len(s) > limit {
		s = s[:limit]
	}
	return s, nil
}

func (f *fakeProvider) PaymentIntentStatus(_ context.Context, intentID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	status, ok := f.intents[intentID]
	if !ok {
		return "", errors.New("no such payment_intent")
	}
	return status, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
