package payment

import (
	"context"
	"math"
	"testing"

	"marketplace_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		price float64
		want  int64
	}{
		{0, 0},
		{250.00, 25000},
		{19.99, 1999},
		{0.1 + 0.2, 30},
		{1.005, 101},
		{10.004, 1000},
		{999999.99, MaxUnitAmount},
	}
	for _, tc := range cases {
		got, err := MinorUnits(tc.price)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "price %v", tc.price)
	}

	for _, bad := range []float64{-0.01, math.NaN(), math.Inf(1), 1000000, 1e17, 1e20} {
		_, err := MinorUnits(bad)
		assert.True(t, IsValidation(err), "price %v", bad)
	}
}

func TestTranslate_ChairScenario(t *testing.T) {
	fp := newFakeProvider()
	tr := NewTranslator(fp, "zar")

	cart := []models.CartItem{{Name: "Chair", Price: 250.00, Quantity: 2, Category: "Furniture", Location: "Cape Town"}}
	items, err := tr.Translate(context.Background(), cart, "")
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, int64(25000), items[0].UnitAmount)
	assert.Equal(t, int64(2), items[0].Quantity)
	assert.Equal(t, "price_1", items[0].PriceID)

	require.Len(t, fp.products, 1)
	assert.Equal(t, "Chair", fp.products[0].Name)
	assert.Equal(t, "Furniture", fp.products[0].Category)
	assert.Equal(t, "Cape Town", fp.products[0].Location)
	assert.Equal(t, "zar", fp.prices[0].Currency)
	assert.Equal(t, "prod_1", fp.prices[0].ProductID)
}

func TestTranslate_PreservesOrder(t *testing.T) {
	fp := newFakeProvider()
	tr := NewTranslator(fp, "zar")

	cart := []models.CartItem{
		{Name: "Lamp", Price: 12.5, Quantity: 1},
		{Name: "Desk", Price: 1999.99, Quantity: 3},
		{Name: "Free sample", Price: 0, Quantity: 1},
	}
	items, err := tr.Translate(context.Background(), cart, "")
	require.NoError(t, err)
	require.Len(t, items, len(cart))

	for i, item := range cart {
		want, _ := MinorUnits(item.Price)
		assert.Equal(t, want, items[i].UnitAmount)
		assert.Equal(t, int64(item.Quantity), items[i].Quantity)
		assert.Equal(t, item.Name, fp.products[i].Name)
	}
}

func TestTranslate_InvalidItemMakesNoProviderCall(t *testing.T) {
	bad := [][]models.CartItem{
		{{Name: "ok", Price: 10, Quantity: 1}, {Name: "neg", Price: -1, Quantity: 1}},
		{{Name: "ok", Price: 10, Quantity: 1}, {Name: "zero", Price: 5, Quantity: 0}},
		{{Name: "ok", Price: 10, Quantity: 1}, {Name: "huge", Price: 1e17, Quantity: 1}},
		{},
	}
	for _, cart := range bad {
		fp := newFakeProvider()
		_, err := NewTranslator(fp, "zar").Translate(context.Background(), cart, "")
		assert.True(t, IsValidation(err))
		assert.Zero(t, fp.callCount())
	}
}

func TestValidateCart_OversizedPriceNamesItem(t *testing.T) {
	err := ValidateCart([]models.CartItem{{Name: "ok", Price: 10, Quantity: 1}, {Name: "huge", Price: 1e17, Quantity: 1}})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "cart_items[1].price", ve.Field)
}

func TestTranslate_PassesIdempotencyKeys(t *testing.T) {
	fp := newFakeProvider()
	cart := []models.CartItem{{Name: "a", Price: 1, Quantity: 1}, {Name: "b", Price: 2, Quantity: 1}}
	_, err := NewTranslator(fp, "zar").Translate(context.Background(), cart, "chk-1")
	require.NoError(t, err)

	assert.Equal(t, "chk-1:product:0", fp.products[0].IdempotencyKey)
	assert.Equal(t, "chk-1:product:1", fp.products[1].IdempotencyKey)
	assert.Equal(t, "chk-1:price:1", fp.prices[1].IdempotencyKey)
}

func TestTranslate_ProviderFailure(t *testing.T) {
	fp := newFakeProvider()
	fp.failOn = "price"
	_, err := NewTranslator(fp, "zar").Translate(context.Background(),
		[]models.CartItem{{Name: "a", Price: 1, Quantity: 1}}, "")
	require.Error(t, err)
	assert.True(t, IsProvider(err))
	assert.Contains(t, err.Error(), "price rejected")
}
