package queries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkout/internal/core/application/usecases/queries"
	"checkout/internal/core/domain/model/kernel"
)

func TestNewGetOrderTrackingQuery_Valid(t *testing.T) {
	orderID := kernel.NewUUID()
	query, err := queries.NewGetOrderTrackingQuery(orderID)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.True(t, query.OrderID().IsEqual(orderID))
}

func TestNewGetOrderTrackingQuery_EmptyID(t *testing.T) {
	_, err := queries.NewGetOrderTrackingQuery(kernel.UUID{})
	require.Error(t, err)
}

func TestGetOrderTrackingQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetOrderTrackingQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetOrderTrackingQueryIsNotConstructed)
}
