package product_test

import (
	"testing"
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/product"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(t *testing.T, amount float64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(amount)
	require.NoError(t, err)
	return m
}

func TestNewProduct(t *testing.T) {
	t.Run("should create a valid product", func(t *testing.T) {
		p, err := product.NewProduct(kernel.NewUUID(), "Mug", money(t, 25.00), nil, nil, nil, nil, false)

		require.NoError(t, err)
		assert.NoError(t, p.Validate())
		assert.Equal(t, "Mug", p.Name())
		assert.False(t, p.AllowBackorder())
	})

	t.Run("should reject empty name", func(t *testing.T) {
		_, err := product.NewProduct(kernel.NewUUID(), "", money(t, 25.00), nil, nil, nil, nil, false)
		assert.Error(t, err)
	})

	t.Run("should reject invalid id", func(t *testing.T) {
		_, err := product.NewProduct(kernel.UUID{}, "Mug", money(t, 25.00), nil, nil, nil, nil, false)
		assert.Error(t, err)
	})

	t.Run("should reject sale price not lower than list price", func(t *testing.T) {
		sale := money(t, 25.00)
		_, err := product.NewProduct(kernel.NewUUID(), "Mug", money(t, 25.00), &sale, nil, nil, nil, false)
		assert.Error(t, err)
	})

	t.Run("unconstructed product fails validation", func(t *testing.T) {
		var p product.Product
		assert.Error(t, p.Validate())
	})
}

func TestProduct_EffectivePrice(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)

	t.Run("list price when no sale exists", func(t *testing.T) {
		p, err := product.NewProduct(kernel.NewUUID(), "Mug", money(t, 25.00), nil, nil, nil, nil, false)
		require.NoError(t, err)

		assert.InEpsilon(t, 25.00, p.EffectivePrice(now).Amount(), 1e-9)
		assert.False(t, p.SaleActiveAt(now))
	})

	t.Run("sale price inside the window", func(t *testing.T) {
		sale := money(t, 19.99)
		p, err := product.NewProduct(kernel.NewUUID(), "Mug", money(t, 25.00), &sale, &before, &after, nil, false)
		require.NoError(t, err)

		assert.True(t, p.SaleActiveAt(now))
		assert.InEpsilon(t, 19.99, p.EffectivePrice(now).Amount(), 1e-9)
	})

	t.Run("list price outside the window", func(t *testing.T) {
		sale := money(t, 19.99)
		p, err := product.NewProduct(kernel.NewUUID(), "Mug", money(t, 25.00), &sale, &after, nil, nil, false)
		require.NoError(t, err)

		assert.False(t, p.SaleActiveAt(now))
		assert.InEpsilon(t, 25.00, p.EffectivePrice(now).Amount(), 1e-9)
	})

	t.Run("open-ended window bounds are optional", func(t *testing.T) {
		sale := money(t, 19.99)
		p, err := product.NewProduct(kernel.NewUUID(), "Mug", money(t, 25.00), &sale, nil, nil, nil, false)
		require.NoError(t, err)

		assert.True(t, p.SaleActiveAt(now))
	})
}

func TestProduct_InCategory(t *testing.T) {
	catA := kernel.NewUUID()
	catB := kernel.NewUUID()

	p, err := product.NewProduct(kernel.NewUUID(), "Mug", money(t, 25.00), nil, nil, nil, []kernel.UUID{catA}, false)
	require.NoError(t, err)

	assert.True(t, p.InCategory(catA))
	assert.False(t, p.InCategory(catB))
}
