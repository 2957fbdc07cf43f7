package inventory

import "github.com/shopspring/decimal"

// LineFigures is the costing result for a single sale line.
type LineFigures struct {
	ConsumedQuantity decimal.Decimal `json:"consumed_quantity"`
	ConsumedCost     decimal.Decimal `json:"consumed_cost"`
	Revenue          decimal.Decimal `json:"revenue"`
	Profit           decimal.Decimal `json:"profit"`
	Margin           decimal.Decimal `json:"margin"`
}

// SaleFigures aggregates line figures across a whole sale.
type SaleFigures struct {
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	Margin       decimal.Decimal `json:"margin"`
}

// marginScale is the rounding scale for margin ratios.
const marginScale = 4

// ProfitCalculator derives cost, revenue, profit and margin from the
// batch-level consumption records a committed sale produced. It is
// pure: no storage access, prices come in with the call.
type ProfitCalculator struct{}

func NewProfitCalculator() *ProfitCalculator {
	return &ProfitCalculator{}
}

// Line computes figures for one sale line. Cost is the sum of each
// record's consumed quantity times that batch's cost price, so a line
// spanning several batches carries each batch's own acquisition cost.
// Margin is profit over revenue, zero when revenue is zero.
func (c *ProfitCalculator) Line(records []ConsumptionRecord, unitPrice decimal.Decimal) LineFigures {
	quantity := decimal.Zero
	cost := decimal.Zero
	for _, rec := range records {
		quantity = quantity.Add(rec.ConsumedQuantity)
		cost = cost.Add(rec.ConsumedQuantity.Mul(rec.CostPrice))
	}

	revenue := quantity.Mul(unitPrice)
	profit := revenue.Sub(cost)

	margin := decimal.Zero
	if !revenue.IsZero() {
		margin = profit.Div(revenue).Round(marginScale)
	}

	return LineFigures{
		ConsumedQuantity: quantity,
		ConsumedCost:     cost,
		Revenue:          revenue,
		Profit:           profit,
		Margin:           margin,
	}
}

// Aggregate folds line figures into sale-level totals. The sale margin
// is recomputed from the totals rather than averaged over lines.
func (c *ProfitCalculator) Aggregate(lines []LineFigures) SaleFigures {
	cost := decimal.Zero
	revenue := decimal.Zero
	for _, line := range lines {
		cost = cost.Add(line.ConsumedCost)
		revenue = revenue.Add(line.Revenue)
	}

	profit := revenue.Sub(cost)
	margin := decimal.Zero
	if !revenue.IsZero() {
		margin = profit.Div(revenue).Round(marginScale)
	}

	return SaleFigures{
		TotalCost:    cost,
		TotalRevenue: revenue,
		TotalProfit:  profit,
		Margin:       margin,
	}
}
