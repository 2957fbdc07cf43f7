package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adjustmentFor(batch *StockBatch, delta float64) AdjustmentRequest {
	return AdjustmentRequest{
		BatchID:       batch.ID,
		QuantityDelta: decimal.NewFromFloat(delta),
		Reason:        "periodic stock count",
		ActorID:       uuid.New(),
	}
}

func TestAdjustmentValidator(t *testing.T) {
	validator := NewAdjustmentValidator()

	t.Run("Accepts a reasoned write-off within bounds", func(t *testing.T) {
		batch := createTestBatch(t, testEpoch, 100, 10)
		assert.NoError(t, validator.Validate(&batch, adjustmentFor(&batch, -20)))
	})

	t.Run("Accepts a restock up to the ceiling", func(t *testing.T) {
		batch := createTestBatch(t, testEpoch, 100, 10)
		require.NoError(t, batch.Consume(decimal.NewFromInt(60)))

		assert.NoError(t, validator.Validate(&batch, adjustmentFor(&batch, 60)))
	})

	t.Run("Rejects adjustments on a deleted batch", func(t *testing.T) {
		batch := createTestBatch(t, testEpoch, 100, 10)
		require.NoError(t, batch.SoftDelete())

		err := validator.Validate(&batch, adjustmentFor(&batch, -10))
		var deleted *BatchDeletedError
		assert.ErrorAs(t, err, &deleted)
	})

	t.Run("Rejects a missing reason", func(t *testing.T) {
		batch := createTestBatch(t, testEpoch, 100, 10)
		req := adjustmentFor(&batch, -10)
		req.Reason = "   "

		err := validator.Validate(&batch, req)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, RuleMissingReason, validation.Rule)
	})

	t.Run("Rejects a zero delta", func(t *testing.T) {
		batch := createTestBatch(t, testEpoch, 100, 10)

		err := validator.Validate(&batch, adjustmentFor(&batch, 0))
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, RuleZeroDelta, validation.Rule)
	})

	t.Run("Rejects a damage flag on a positive delta", func(t *testing.T) {
		batch := createTestBatch(t, testEpoch, 100, 10)
		req := adjustmentFor(&batch, 10)
		req.Damage = true

		err := validator.Validate(&batch, req)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, RuleDamagePositive, validation.Rule)
	})

	t.Run("Rejects a delta driving remaining below zero", func(t *testing.T) {
		batch := createTestBatch(t, testEpoch, 30, 10)

		err := validator.Validate(&batch, adjustmentFor(&batch, -31))
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, RuleNegativeResult, validation.Rule)
	})

	t.Run("Rejects a restock past the ceiling", func(t *testing.T) {
		batch := createTestBatch(t, testEpoch, 100, 10)

		err := validator.Validate(&batch, adjustmentFor(&batch, 1))
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, RuleCeilingExceeded, validation.Rule)
	})

	t.Run("Original-quantity correction bypasses the ceiling", func(t *testing.T) {
		batch := createTestBatch(t, testEpoch, 100, 10)
		req := adjustmentFor(&batch, 50)
		req.OriginalCorrection = true

		assert.NoError(t, validator.Validate(&batch, req))
	})

	t.Run("Custom ceiling ratio widens the restock bound", func(t *testing.T) {
		generous := NewAdjustmentValidator(WithRestockCeilingRatio(decimal.NewFromFloat(1.5)))
		batch := createTestBatch(t, testEpoch, 100, 10)

		assert.NoError(t, generous.Validate(&batch, adjustmentFor(&batch, 50)))

		err := generous.Validate(&batch, adjustmentFor(&batch, 51))
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, RuleCeilingExceeded, validation.Rule)
	})
}

func TestAdjustmentToDepletion(t *testing.T) {
	// A validated correction that lands the remaining quantity exactly
	// at zero must leave the batch depleted, not corrected.
	validator := NewAdjustmentValidator()
	batch := createTestBatch(t, testEpoch, 30, 10)

	req := adjustmentFor(&batch, -30)
	require.NoError(t, validator.Validate(&batch, req))
	require.NoError(t, batch.ApplyCorrection(req.QuantityDelta, req.Damage, req.OriginalCorrection))

	assert.Equal(t, BatchStatusDepleted, batch.Status)
	assert.True(t, batch.RemainingQuantity.IsZero())
	assert.False(t, batch.Eligible())
}
