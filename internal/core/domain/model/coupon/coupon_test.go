package coupon_test

import (
	"testing"

	"checkout/internal/core/domain/model/coupon"
	"checkout/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoupon(t *testing.T) {
	t.Run("should create a percentage coupon", func(t *testing.T) {
		c, err := coupon.NewCoupon("SAVE10", coupon.Percentage, 10, true, nil, nil)

		require.NoError(t, err)
		assert.NoError(t, c.Validate())
		assert.Equal(t, "SAVE10", c.Code())
		assert.Equal(t, coupon.Percentage, c.Type())
		assert.True(t, c.AppliesToAll())
	})

	t.Run("should reject percentage above 100", func(t *testing.T) {
		_, err := coupon.NewCoupon("TOOHIGH", coupon.Percentage, 150, true, nil, nil)
		assert.Error(t, err)
	})

	t.Run("should allow fixed amounts above 100", func(t *testing.T) {
		_, err := coupon.NewCoupon("BIG", coupon.Fixed, 150, true, nil, nil)
		assert.NoError(t, err)
	})

	t.Run("should reject non-positive amounts", func(t *testing.T) {
		_, err := coupon.NewCoupon("ZERO", coupon.Percentage, 0, true, nil, nil)
		assert.Error(t, err)
	})

	t.Run("should reject empty code", func(t *testing.T) {
		_, err := coupon.NewCoupon("", coupon.Fixed, 5, true, nil, nil)
		assert.Error(t, err)
	})

	t.Run("should reject invalid type", func(t *testing.T) {
		_, err := coupon.NewCoupon("X", coupon.UnknownType, 5, true, nil, nil)
		assert.Error(t, err)
	})
}

func TestTypeFromString(t *testing.T) {
	testCases := []struct {
		input    string
		expected coupon.Type
		wantErr  bool
	}{
		{"percentage", coupon.Percentage, false},
		{"fixed", coupon.Fixed, false},
		{"unknown", coupon.UnknownType, true},
		{"", coupon.UnknownType, true},
		{"PERCENTAGE", coupon.UnknownType, true},
	}

	for _, tc := range testCases {
		got, err := coupon.TypeFromString(tc.input)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.input)
			continue
		}
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.expected, got)
		assert.Equal(t, tc.input, got.String())
	}
}

func TestCoupon_AppliesTo(t *testing.T) {
	productA := kernel.NewUUID()
	productB := kernel.NewUUID()
	catMugs := kernel.NewUUID()
	catShirts := kernel.NewUUID()

	t.Run("unrestricted coupon applies to everything", func(t *testing.T) {
		c, err := coupon.NewCoupon("ALL", coupon.Percentage, 10, true, nil, nil)
		require.NoError(t, err)

		assert.True(t, c.AppliesTo(productA, nil))
	})

	t.Run("product restriction matches listed products only", func(t *testing.T) {
		c, err := coupon.NewCoupon("PROD", coupon.Percentage, 10, true, []kernel.UUID{productA}, nil)
		require.NoError(t, err)

		assert.True(t, c.AppliesTo(productA, nil))
		assert.False(t, c.AppliesTo(productB, nil))
	})

	t.Run("category restriction matches member products", func(t *testing.T) {
		c, err := coupon.NewCoupon("CAT", coupon.Percentage, 10, true, nil, []kernel.UUID{catMugs})
		require.NoError(t, err)

		assert.True(t, c.AppliesTo(productA, []kernel.UUID{catMugs}))
		assert.False(t, c.AppliesTo(productA, []kernel.UUID{catShirts}))
	})

	t.Run("either restriction set can match", func(t *testing.T) {
		c, err := coupon.NewCoupon("MIX", coupon.Fixed, 5, true, []kernel.UUID{productA}, []kernel.UUID{catShirts})
		require.NoError(t, err)

		assert.True(t, c.AppliesTo(productA, nil))
		assert.True(t, c.AppliesTo(productB, []kernel.UUID{catShirts}))
		assert.False(t, c.AppliesTo(productB, []kernel.UUID{catMugs}))
	})
}
