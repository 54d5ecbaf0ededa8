package services_test

import (
	"testing"

	"marketplace/internal/core/domain/model/application"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(t *testing.T, totalPermille int, source settlement.RateSource) settlement.RateSnapshot {
	t.Helper()
	rate, err := settlement.NewRateSnapshot(totalPermille, totalPermille, 0, nil, source)
	require.NoError(t, err)
	return rate
}

func TestRateResolverResolve(t *testing.T) {
	resolver := services.NewRateResolver()
	orderID := kernel.NewUUID()
	helperID := kernel.NewUUID()

	effective := func(t *testing.T) settlement.RateSnapshot {
		t.Helper()
		return snapshot(t, 100, settlement.SourceEffectiveLookup)
	}

	t.Run("should prefer the rate frozen on the application", func(t *testing.T) {
		appRate := snapshot(t, 150, settlement.SourceEffectiveLookup)
		app, err := application.RestoreApplication(
			kernel.NewUUID(), orderID, helperID, nil, &appRate, true,
		)
		require.NoError(t, err)
		orderRate := snapshot(t, 120, settlement.SourceOrderSnapshot)
		ord, err := order.NewOrder(orderID, kernel.NewUUID(), &orderRate)
		require.NoError(t, err)

		resolved, err := resolver.Resolve(app, ord, effective(t))

		require.NoError(t, err)
		assert.Equal(t, 150, resolved.TotalPermille())
		assert.Equal(t, settlement.SourceApplicationSnapshot, resolved.Source())
	})

	t.Run("should fall back to the order-level snapshot", func(t *testing.T) {
		app, err := application.NewApplication(kernel.NewUUID(), orderID, helperID, nil)
		require.NoError(t, err)
		orderRate := snapshot(t, 120, settlement.SourceOrderSnapshot)
		ord, err := order.NewOrder(orderID, kernel.NewUUID(), &orderRate)
		require.NoError(t, err)

		resolved, err := resolver.Resolve(app, ord, effective(t))

		require.NoError(t, err)
		assert.Equal(t, 120, resolved.TotalPermille())
		assert.Equal(t, settlement.SourceOrderSnapshot, resolved.Source())
	})

	t.Run("should use the effective lookup when nothing is frozen", func(t *testing.T) {
		app, err := application.NewApplication(kernel.NewUUID(), orderID, helperID, nil)
		require.NoError(t, err)
		ord, err := order.NewOrder(orderID, kernel.NewUUID(), nil)
		require.NoError(t, err)

		resolved, err := resolver.Resolve(app, ord, effective(t))

		require.NoError(t, err)
		assert.Equal(t, 100, resolved.TotalPermille())
		assert.Equal(t, settlement.SourceEffectiveLookup, resolved.Source())
	})

	t.Run("should fail on unconstructed aggregates", func(t *testing.T) {
		ord, err := order.NewOrder(orderID, kernel.NewUUID(), nil)
		require.NoError(t, err)

		_, err = resolver.Resolve(nil, ord, effective(t))
		require.ErrorIs(t, err, application.ErrApplicationIsNotConstructed)

		app, err := application.NewApplication(kernel.NewUUID(), orderID, helperID, nil)
		require.NoError(t, err)
		_, err = resolver.Resolve(app, nil, effective(t))
		require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
	})
}
