package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func createTestBatch(t *testing.T, createdAt time.Time, remaining, cost float64) StockBatch {
	t.Helper()
	clock := shared.NewFixedClock(createdAt)
	batch, err := NewStockBatch(clock, uuid.New(), Location{Type: LocationTypeGlobal}, decimal.NewFromFloat(remaining), decimal.NewFromFloat(cost))
	require.NoError(t, err)
	return *batch
}

func TestConsumptionPolicy(t *testing.T) {
	t.Run("IsValid returns true for known policies", func(t *testing.T) {
		assert.True(t, ConsumptionPolicyFIFO.IsValid())
		assert.True(t, ConsumptionPolicyLIFO.IsValid())
	})

	t.Run("IsValid returns false for unknown policy", func(t *testing.T) {
		assert.False(t, ConsumptionPolicy("FEFO").IsValid())
		assert.False(t, ConsumptionPolicy("").IsValid())
	})

	t.Run("AllConsumptionPolicies returns both policies", func(t *testing.T) {
		policies := AllConsumptionPolicies()
		assert.Len(t, policies, 2)
		assert.Contains(t, policies, ConsumptionPolicyFIFO)
		assert.Contains(t, policies, ConsumptionPolicyLIFO)
	})
}

func TestConsumptionPlannerFIFO(t *testing.T) {
	planner := NewConsumptionPlanner()

	t.Run("Consumes oldest batches first", func(t *testing.T) {
		oldest := createTestBatch(t, testEpoch, 100, 10)
		middle := createTestBatch(t, testEpoch.Add(24*time.Hour), 100, 12)
		newest := createTestBatch(t, testEpoch.Add(48*time.Hour), 100, 15)

		plan, err := planner.Plan([]StockBatch{newest, oldest, middle}, decimal.NewFromInt(150), ConsumptionPolicyFIFO)
		require.NoError(t, err)
		require.Len(t, plan.Entries, 2)
		assert.Equal(t, oldest.ID, plan.Entries[0].Batch.ID)
		assert.True(t, plan.Entries[0].Quantity.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, middle.ID, plan.Entries[1].Batch.ID)
		assert.True(t, plan.Entries[1].Quantity.Equal(decimal.NewFromInt(50)))
	})

	t.Run("Planned quantities sum to the request", func(t *testing.T) {
		batches := []StockBatch{
			createTestBatch(t, testEpoch, 30, 10),
			createTestBatch(t, testEpoch.Add(time.Hour), 30, 11),
			createTestBatch(t, testEpoch.Add(2*time.Hour), 30, 12),
		}

		plan, err := planner.Plan(batches, decimal.NewFromInt(75), ConsumptionPolicyFIFO)
		require.NoError(t, err)
		assert.True(t, plan.TotalPlanned().Equal(decimal.NewFromInt(75)))
	})

	t.Run("Exact depletion takes the whole batch", func(t *testing.T) {
		only := createTestBatch(t, testEpoch, 40, 10)

		plan, err := planner.Plan([]StockBatch{only}, decimal.NewFromInt(40), ConsumptionPolicyFIFO)
		require.NoError(t, err)
		require.Len(t, plan.Entries, 1)
		assert.True(t, plan.Entries[0].Quantity.Equal(only.RemainingQuantity))
	})
}

func TestConsumptionPlannerLIFO(t *testing.T) {
	planner := NewConsumptionPlanner()

	t.Run("Consumes newest batches first", func(t *testing.T) {
		oldest := createTestBatch(t, testEpoch, 100, 10)
		newest := createTestBatch(t, testEpoch.Add(48*time.Hour), 60, 15)

		plan, err := planner.Plan([]StockBatch{oldest, newest}, decimal.NewFromInt(90), ConsumptionPolicyLIFO)
		require.NoError(t, err)
		require.Len(t, plan.Entries, 2)
		assert.Equal(t, newest.ID, plan.Entries[0].Batch.ID)
		assert.True(t, plan.Entries[0].Quantity.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, oldest.ID, plan.Entries[1].Batch.ID)
		assert.True(t, plan.Entries[1].Quantity.Equal(decimal.NewFromInt(30)))
	})

	t.Run("Same inputs produce reversed walk order versus FIFO", func(t *testing.T) {
		a := createTestBatch(t, testEpoch, 50, 10)
		b := createTestBatch(t, testEpoch.Add(time.Hour), 50, 11)
		batches := []StockBatch{a, b}

		fifoPlan, err := planner.Plan(batches, decimal.NewFromInt(60), ConsumptionPolicyFIFO)
		require.NoError(t, err)
		lifoPlan, err := planner.Plan(batches, decimal.NewFromInt(60), ConsumptionPolicyLIFO)
		require.NoError(t, err)

		assert.Equal(t, fifoPlan.Entries[0].Batch.ID, lifoPlan.Entries[1].Batch.ID)
		assert.Equal(t, fifoPlan.Entries[1].Batch.ID, lifoPlan.Entries[0].Batch.ID)
	})
}

func TestConsumptionPlannerTieBreak(t *testing.T) {
	planner := NewConsumptionPlanner()

	lowID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	highID := uuid.MustParse("99999999-9999-9999-9999-999999999999")

	makeBatch := func(id uuid.UUID) StockBatch {
		b := createTestBatch(t, testEpoch, 10, 10)
		b.ID = id
		return b
	}

	t.Run("Identical timestamps break by ID ascending under FIFO", func(t *testing.T) {
		plan, err := planner.Plan([]StockBatch{makeBatch(highID), makeBatch(lowID)}, decimal.NewFromInt(15), ConsumptionPolicyFIFO)
		require.NoError(t, err)
		require.Len(t, plan.Entries, 2)
		assert.Equal(t, lowID, plan.Entries[0].Batch.ID)
		assert.Equal(t, highID, plan.Entries[1].Batch.ID)
	})

	t.Run("Identical timestamps break by ID ascending under LIFO", func(t *testing.T) {
		plan, err := planner.Plan([]StockBatch{makeBatch(highID), makeBatch(lowID)}, decimal.NewFromInt(15), ConsumptionPolicyLIFO)
		require.NoError(t, err)
		require.Len(t, plan.Entries, 2)
		assert.Equal(t, lowID, plan.Entries[0].Batch.ID)
	})
}

func TestConsumptionPlannerEligibility(t *testing.T) {
	planner := NewConsumptionPlanner()

	t.Run("Skips deleted and empty batches", func(t *testing.T) {
		deleted := createTestBatch(t, testEpoch, 100, 10)
		require.NoError(t, deleted.SoftDelete())

		depleted := createTestBatch(t, testEpoch.Add(time.Hour), 50, 10)
		require.NoError(t, depleted.Consume(decimal.NewFromInt(50)))

		live := createTestBatch(t, testEpoch.Add(2*time.Hour), 30, 10)

		plan, err := planner.Plan([]StockBatch{deleted, depleted, live}, decimal.NewFromInt(20), ConsumptionPolicyFIFO)
		require.NoError(t, err)
		require.Len(t, plan.Entries, 1)
		assert.Equal(t, live.ID, plan.Entries[0].Batch.ID)
	})

	t.Run("Corrected batches remain allocatable", func(t *testing.T) {
		corrected := createTestBatch(t, testEpoch, 100, 10)
		require.NoError(t, corrected.ApplyCorrection(decimal.NewFromInt(-40), false, false))
		require.Equal(t, BatchStatusCorrected, corrected.Status)

		plan, err := planner.Plan([]StockBatch{corrected}, decimal.NewFromInt(60), ConsumptionPolicyFIFO)
		require.NoError(t, err)
		require.Len(t, plan.Entries, 1)
		assert.True(t, plan.Entries[0].Quantity.Equal(decimal.NewFromInt(60)))
	})
}

func TestConsumptionPlannerErrors(t *testing.T) {
	planner := NewConsumptionPlanner()

	t.Run("Insufficient stock reports total available", func(t *testing.T) {
		batches := []StockBatch{
			createTestBatch(t, testEpoch, 40, 10),
			createTestBatch(t, testEpoch.Add(time.Hour), 25, 11),
		}

		_, err := planner.Plan(batches, decimal.NewFromInt(100), ConsumptionPolicyFIFO)
		var insufficient *InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(65)))
		assert.True(t, insufficient.Requested.Equal(decimal.NewFromInt(100)))
	})

	t.Run("Deleted batches do not count toward availability", func(t *testing.T) {
		deleted := createTestBatch(t, testEpoch, 100, 10)
		require.NoError(t, deleted.SoftDelete())

		_, err := planner.Plan([]StockBatch{deleted}, decimal.NewFromInt(10), ConsumptionPolicyFIFO)
		var insufficient *InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.True(t, insufficient.Available.IsZero())
	})

	t.Run("Zero request yields empty successful plan", func(t *testing.T) {
		batches := []StockBatch{createTestBatch(t, testEpoch, 10, 10)}

		plan, err := planner.Plan(batches, decimal.Zero, ConsumptionPolicyFIFO)
		require.NoError(t, err)
		assert.True(t, plan.IsEmpty())
		assert.True(t, plan.TotalPlanned().IsZero())
	})

	t.Run("Negative request is rejected", func(t *testing.T) {
		_, err := planner.Plan(nil, decimal.NewFromInt(-5), ConsumptionPolicyFIFO)
		var invalid *InvalidRequestError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("Unknown policy is rejected", func(t *testing.T) {
		_, err := planner.Plan(nil, decimal.NewFromInt(5), ConsumptionPolicy("WEIGHTED"))
		var invalid *InvalidRequestError
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestAllocationPlanRecords(t *testing.T) {
	planner := NewConsumptionPlanner()

	cheap := createTestBatch(t, testEpoch, 50, 8)
	pricey := createTestBatch(t, testEpoch.Add(time.Hour), 50, 12)

	plan, err := planner.Plan([]StockBatch{cheap, pricey}, decimal.NewFromInt(70), ConsumptionPolicyFIFO)
	require.NoError(t, err)

	records := plan.Records()
	require.Len(t, records, 2)
	assert.Equal(t, cheap.ID, records[0].BatchID)
	assert.True(t, records[0].CostPrice.Equal(decimal.NewFromInt(8)))
	assert.True(t, records[0].ConsumedQuantity.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, pricey.ID, records[1].BatchID)
	assert.True(t, records[1].ConsumedQuantity.Equal(decimal.NewFromInt(20)))
}
