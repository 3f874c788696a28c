package kernel_test

import (
	"math"
	"testing"

	"checkout/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("should round to two decimals", func(t *testing.T) {
		m, err := kernel.NewMoney(3.599)

		require.NoError(t, err)
		assert.InEpsilon(t, 3.60, m.Amount(), 1e-9)
	})

	t.Run("zero value is valid and equals 0.00", func(t *testing.T) {
		var m kernel.Money

		assert.True(t, m.IsZero())
		assert.Equal(t, int64(0), m.Cents())
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(-0.01)
		assert.Error(t, err)
	})

	t.Run("should reject non-finite amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(math.NaN())
		assert.Error(t, err)

		_, err = kernel.NewMoney(math.Inf(1))
		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	money := func(amount float64) kernel.Money {
		m, err := kernel.NewMoney(amount)
		require.NoError(t, err)
		return m
	}

	t.Run("Add", func(t *testing.T) {
		assert.InEpsilon(t, 53.60, money(50.00).Add(money(3.60)).Amount(), 1e-9)
	})

	t.Run("Sub floors at zero", func(t *testing.T) {
		assert.InEpsilon(t, 45.00, money(50.00).Sub(money(5.00)).Amount(), 1e-9)
		assert.True(t, money(10.00).Sub(money(15.00)).IsZero())
	})

	t.Run("MulQuantity", func(t *testing.T) {
		assert.InEpsilon(t, 50.00, money(25.00).MulQuantity(2).Amount(), 1e-9)
	})

	t.Run("ApplyRate rounds the result", func(t *testing.T) {
		assert.InEpsilon(t, 3.60, money(45.00).ApplyRate(8).Amount(), 1e-9)
		assert.InEpsilon(t, 5.00, money(50.00).ApplyRate(10).Amount(), 1e-9)
	})

	t.Run("Min", func(t *testing.T) {
		assert.InEpsilon(t, 10.00, money(15.00).Min(money(10.00)).Amount(), 1e-9)
		assert.InEpsilon(t, 10.00, money(10.00).Min(money(15.00)).Amount(), 1e-9)
	})

	t.Run("Cents", func(t *testing.T) {
		assert.Equal(t, int64(5360), money(53.60).Cents())
	})

	t.Run("IsEqual compares by cents", func(t *testing.T) {
		assert.True(t, money(10.004).IsEqual(money(10.00)))
		assert.False(t, money(10.01).IsEqual(money(10.00)))
	})
}

func TestNewAddress(t *testing.T) {
	t.Run("should create a valid address", func(t *testing.T) {
		addr, err := kernel.NewAddress("Jane Doe", "1 Main St", "", "Springfield", "IL", "62701", "US", "")

		require.NoError(t, err)
		assert.NoError(t, addr.Validate())
		assert.Equal(t, "1 Main St", addr.Street1())
		assert.Equal(t, "US", addr.Country())
	})

	t.Run("should require street, city and country", func(t *testing.T) {
		_, err := kernel.NewAddress("", "", "", "Springfield", "", "", "US", "")
		assert.Error(t, err)

		_, err = kernel.NewAddress("", "1 Main St", "", "", "", "", "US", "")
		assert.Error(t, err)

		_, err = kernel.NewAddress("", "1 Main St", "", "Springfield", "", "", "", "")
		assert.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var addr kernel.Address
		assert.Error(t, addr.Validate())
	})
}
