package payment

import (
	"context"
	"errors"
	"testing"

	"marketplace_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chairCart() []models.CartItem {
	return []models.CartItem{{Name: "Chair", Category: "Furniture", Price: 250.00, Quantity: 2, Location: "Cape Town"}}
}

type memoryReplay struct {
	urls map[string]string
	err  error
}

func (m *memoryReplay) LookupCheckout(_ context.Context, key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	url, ok := m.urls[key]
	return url, ok, nil
}

func (m *memoryReplay) RememberCheckout(_ context.Context, key, url string) error {
	m.urls[key] = url
	return nil
}

type memoryIndex struct {
	records []OrderRecord
	err     error
}

func (m *memoryIndex) Record(_ context.Context, rec OrderRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func TestCreatePaymentLink_ChairScenario(t *testing.T) {
	fp := newFakeProvider()
	index := &memoryIndex{}
	c := NewCheckout(NewTranslator(fp, "zar"), fixedIssuer(fp), index, nil)

	ref, err := c.CreatePaymentLink(context.Background(),
		OrderContext{UserID: "u1", TotalAmount: "500", Cart: chairCart()}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, ref.URL)

	require.Len(t, fp.links, 1)
	li := fp.links[0].LineItems
	require.Len(t, li, 1)
	assert.Equal(t, int64(25000), li[0].UnitAmount)
	assert.Equal(t, int64(2), li[0].Quantity)

	require.Len(t, index.records, 1)
	assert.Equal(t, "u1", index.records[0].UserID)
	assert.Equal(t, ref.ID, index.records[0].LinkID)
	assert.Equal(t, "500", index.records[0].TotalAmount)
}

func TestCreatePaymentLink_RejectsBeforeProvider(t *testing.T) {
	fp := newFakeProvider()
	c := NewCheckout(NewTranslator(fp, "zar"), fixedIssuer(fp), nil, nil)

	_, err := c.CreatePaymentLink(context.Background(), OrderContext{Cart: chairCart()}, "")
	assert.True(t, IsValidation(err))

	_, err = c.CreatePaymentLink(context.Background(), OrderContext{UserID: "u1"}, "")
	assert.True(t, IsValidation(err))

	assert.Zero(t, fp.callCount())
}

func TestCreatePaymentLink_OversizedOrderMakesNoProviderCall(t *testing.T) {
	fp := newFakeProvider()
	c := NewCheckout(NewTranslator(fp, "zar"), fixedIssuer(fp), nil, nil)

	_, err := c.CreatePaymentLink(context.Background(), OrderContext{UserID: "u1", Cart: dataURICart(1, 30000)}, "")
	assert.True(t, IsValidation(err))
	assert.Zero(t, fp.callCount())
}

func TestCreatePaymentLink_MetadataValuesFitProviderLimit(t *testing.T) {
	fp := newFakeProvider()
	c := NewCheckout(NewTranslator(fp, "zar"), fixedIssuer(fp), nil, nil)

	_, err := c.CreatePaymentLink(context.Background(), OrderContext{UserID: "u1", Cart: dataURICart(6, 300)}, "")
	require.NoError(t, err)
	require.Len(t, fp.links, 1)
	for key, v := range fp.links[0].Metadata {
		assert.LessOrEqual(t, len([]rune(v)), MaxMetadataValueLen, "key %s", key)
	}
}

func TestCreatePaymentLink_KeyIsScopedToUserAndCart(t *testing.T) {
	fp := newFakeProvider()
	replay := &memoryReplay{urls: map[string]string{}}
	c := NewCheckout(NewTranslator(fp, "zar"), fixedIssuer(fp), nil, replay)
	ctx := context.Background()

	alice := OrderContext{UserID: "alice", Cart: chairCart()}
	bob := OrderContext{UserID: "bob", Cart: []models.CartItem{{Name: "Lamp", Price: 12.5, Quantity: 1}}}

	a, err := c.CreatePaymentLink(ctx, alice, "k1")
	require.NoError(t, err)
	b, err := c.CreatePaymentLink(ctx, bob, "k1")
	require.NoError(t, err)

	assert.NotEqual(t, a.URL, b.URL)
	require.Len(t, fp.links, 2)
	assert.NotEqual(t, fp.links[0].IdempotencyKey, fp.links[1].IdempotencyKey)
	assert.Equal(t, "bob", fp.links[1].Metadata[MetaUserID])

	// même utilisateur, même clé, panier différent : nouveau lien
	_, err = c.CreatePaymentLink(ctx, OrderContext{UserID: "alice", Cart: bob.Cart}, "k1")
	require.NoError(t, err)
	assert.Len(t, fp.links, 3)

	again, err := c.CreatePaymentLink(ctx, alice, "k1")
	require.NoError(t, err)
	assert.Equal(t, a.URL, again.URL)
	assert.Len(t, fp.links, 3)
}

func TestCreatePaymentLink_ReplaysIdempotentAttempt(t *testing.T) {
	fp := newFakeProvider()
	replay := &memoryReplay{urls: map[string]string{}}
	c := NewCheckout(NewTranslator(fp, "zar"), fixedIssuer(fp), nil, replay)
	order := OrderContext{UserID: "u1", Cart: chairCart()}

	first, err := c.CreatePaymentLink(context.Background(), order, "attempt-1")
	require.NoError(t, err)
	calls := fp.callCount()

	second, err := c.CreatePaymentLink(context.Background(), order, "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, first.URL, second.URL)
	assert.Equal(t, calls, fp.callCount())

	_, err = c.CreatePaymentLink(context.Background(), order, "attempt-2")
	require.NoError(t, err)
	assert.Len(t, fp.links, 2)
}

func TestCreatePaymentLink_SideStoresDoNotFailCheckout(t *testing.T) {
	fp := newFakeProvider()
	replay := &memoryReplay{urls: map[string]string{}, err: errors.New("redis down")}
	index := &memoryIndex{err: errors.New("scylla down")}
	c := NewCheckout(NewTranslator(fp, "zar"), fixedIssuer(fp), index, replay)

	ref, err := c.CreatePaymentLink(context.Background(), OrderContext{UserID: "u1", Cart: chairCart()}, "k")
	require.NoError(t, err)
	assert.Equal(t, "plink_1", ref.ID)
}

func TestCreatePaymentLink_ProviderFailureSurfaces(t *testing.T) {
	fp := newFakeProvider()
	fp.failOn = "product"
	c := NewCheckout(NewTranslator(fp, "zar"), fixedIssuer(fp), nil, nil)

	_, err := c.CreatePaymentLink(context.Background(), OrderContext{UserID: "u1", Cart: chairCart()}, "")
	require.Error(t, err)
	assert.True(t, IsProvider(err))
	assert.Empty(t, fp.links)
}
