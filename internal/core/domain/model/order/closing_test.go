package order_test

import (
	"testing"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClosingData(t *testing.T) {
	t.Run("should create a valid report", func(t *testing.T) {
		toll, err := order.NewExtraCost("toll", 2000)
		require.NoError(t, err)
		parking, err := order.NewExtraCost("parking", 1000)
		require.NoError(t, err)

		closing, err := order.NewClosingData(10, 2, 3, 10000, 2000, []order.ExtraCost{toll, parking})

		require.NoError(t, err)
		require.NoError(t, closing.Validate())
		assert.Equal(t, 10, closing.DeliveredCount())
		assert.Equal(t, 2, closing.ReturnedCount())
		assert.Equal(t, 3, closing.EtcCount())
		assert.Equal(t, int64(10000), closing.UnitPrice())
		assert.Equal(t, int64(2000), closing.EtcPricePerUnit())
		assert.Equal(t, int64(3000), closing.ExtraCostsTotal())
		assert.Len(t, closing.ExtraCosts(), 2)
	})

	t.Run("should accept an all-zero report", func(t *testing.T) {
		closing, err := order.NewClosingData(0, 0, 0, 0, 0, nil)

		require.NoError(t, err)
		assert.Zero(t, closing.ExtraCostsTotal())
	})

	t.Run("should fail with negative counts", func(t *testing.T) {
		_, err := order.NewClosingData(-1, 0, 0, 1000, 0, nil)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = order.NewClosingData(0, -2, 0, 1000, 0, nil)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = order.NewClosingData(0, 0, -3, 1000, 0, nil)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should fail with negative prices", func(t *testing.T) {
		_, err := order.NewClosingData(1, 0, 0, -1000, 0, nil)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = order.NewClosingData(1, 0, 0, 1000, -500, nil)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should keep the report immutable against caller slice mutation", func(t *testing.T) {
		toll, err := order.NewExtraCost("toll", 2000)
		require.NoError(t, err)
		costs := []order.ExtraCost{toll}

		closing, err := order.NewClosingData(1, 0, 0, 1000, 0, costs)
		require.NoError(t, err)

		parking, err := order.NewExtraCost("parking", 500)
		require.NoError(t, err)
		costs[0] = parking

		assert.Equal(t, "toll", closing.ExtraCosts()[0].Label())
		assert.Equal(t, int64(2000), closing.ExtraCostsTotal())
	})

	t.Run("should reject zero-value report", func(t *testing.T) {
		var closing order.ClosingData

		require.ErrorIs(t, closing.Validate(), order.ErrClosingDataIsNotConstructed)
	})
}

func TestNewExtraCost(t *testing.T) {
	t.Run("should require a label", func(t *testing.T) {
		_, err := order.NewExtraCost("", 100)

		require.ErrorIs(t, err, order.ErrExtraCostLabelIsRequired)
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := order.NewExtraCost("toll", -1)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should accept zero amounts", func(t *testing.T) {
		cost, err := order.NewExtraCost("waived fee", 0)

		require.NoError(t, err)
		assert.Zero(t, cost.Amount())
	})
}
