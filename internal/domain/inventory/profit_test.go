package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(quantity, cost float64) ConsumptionRecord {
	return ConsumptionRecord{
		BatchID:          uuid.New(),
		CostPrice:        decimal.NewFromFloat(cost),
		ConsumedQuantity: decimal.NewFromFloat(quantity),
	}
}

func TestProfitCalculatorLine(t *testing.T) {
	calc := NewProfitCalculator()

	t.Run("Cost follows each batch's own acquisition price", func(t *testing.T) {
		records := []ConsumptionRecord{record(80, 10), record(20, 22)}

		figures := calc.Line(records, decimal.NewFromInt(18))
		assert.True(t, figures.ConsumedQuantity.Equal(decimal.NewFromInt(100)))
		assert.True(t, figures.ConsumedCost.Equal(decimal.NewFromInt(1240)))
		assert.True(t, figures.Revenue.Equal(decimal.NewFromInt(1800)))
		assert.True(t, figures.Profit.Equal(decimal.NewFromInt(560)))
		assert.True(t, figures.Margin.Equal(decimal.NewFromFloat(0.3111)))
	})

	t.Run("Zero revenue yields zero margin", func(t *testing.T) {
		figures := calc.Line([]ConsumptionRecord{record(10, 5)}, decimal.Zero)
		assert.True(t, figures.Revenue.IsZero())
		assert.True(t, figures.Profit.Equal(decimal.NewFromInt(-50)))
		assert.True(t, figures.Margin.IsZero())
	})

	t.Run("No records means zero everything", func(t *testing.T) {
		figures := calc.Line(nil, decimal.NewFromInt(10))
		assert.True(t, figures.ConsumedQuantity.IsZero())
		assert.True(t, figures.ConsumedCost.IsZero())
		assert.True(t, figures.Revenue.IsZero())
		assert.True(t, figures.Margin.IsZero())
	})

	t.Run("Negative margin on below-cost sale", func(t *testing.T) {
		figures := calc.Line([]ConsumptionRecord{record(10, 20)}, decimal.NewFromInt(15))
		assert.True(t, figures.Profit.Equal(decimal.NewFromInt(-50)))
		assert.True(t, figures.Margin.LessThan(decimal.Zero))
	})
}

func TestProfitCalculatorAggregate(t *testing.T) {
	calc := NewProfitCalculator()

	t.Run("Totals sum across lines and margin is recomputed", func(t *testing.T) {
		lineA := calc.Line([]ConsumptionRecord{record(80, 10), record(20, 22)}, decimal.NewFromInt(18))
		lineB := calc.Line([]ConsumptionRecord{record(50, 4)}, decimal.NewFromInt(5))

		sale := calc.Aggregate([]LineFigures{lineA, lineB})
		require.True(t, sale.TotalCost.Equal(decimal.NewFromInt(1440)))
		require.True(t, sale.TotalRevenue.Equal(decimal.NewFromInt(2050)))
		assert.True(t, sale.TotalProfit.Equal(decimal.NewFromInt(610)))

		expected := decimal.NewFromInt(610).Div(decimal.NewFromInt(2050)).Round(4)
		assert.True(t, sale.Margin.Equal(expected))
	})

	t.Run("Empty sale has zero figures", func(t *testing.T) {
		sale := calc.Aggregate(nil)
		assert.True(t, sale.TotalCost.IsZero())
		assert.True(t, sale.TotalRevenue.IsZero())
		assert.True(t, sale.Margin.IsZero())
	})
}
