package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConsumptionRecord is the committed outcome of allocating part of a
// request to one batch. A sale line holds an ordered list of these.
type ConsumptionRecord struct {
	BatchID          uuid.UUID       `json:"batch_id"`
	CostPrice        decimal.Decimal `json:"cost_price"`
	ConsumedQuantity decimal.Decimal `json:"consumed_quantity"`
}

// PlanEntry pairs a batch with the quantity to consume from it
type PlanEntry struct {
	Batch    StockBatch
	Quantity decimal.Decimal
}

// AllocationPlan is a pure, not-yet-applied allocation of a requested
// quantity across batches. Entry quantities always sum exactly to the
// requested amount; the planner never returns a partial plan.
type AllocationPlan struct {
	Policy    ConsumptionPolicy
	Requested decimal.Decimal
	Entries   []PlanEntry
}

// IsEmpty reports whether the plan allocates nothing (zero request)
func (p *AllocationPlan) IsEmpty() bool {
	return len(p.Entries) == 0
}

// TotalPlanned returns the sum of planned quantities
func (p *AllocationPlan) TotalPlanned() decimal.Decimal {
	total := decimal.Zero
	for _, e := range p.Entries {
		total = total.Add(e.Quantity)
	}
	return total
}

// Records projects the plan into consumption records, in allocation order
func (p *AllocationPlan) Records() []ConsumptionRecord {
	records := make([]ConsumptionRecord, 0, len(p.Entries))
	for _, e := range p.Entries {
		records = append(records, ConsumptionRecord{
			BatchID:          e.Batch.ID,
			CostPrice:        e.Batch.CostPrice,
			ConsumedQuantity: e.Quantity,
		})
	}
	return records
}

// ConsumptionPlanner computes allocation plans. It performs no I/O and
// mutates nothing, so plans are deterministic for a given input.
type ConsumptionPlanner struct{}

// NewConsumptionPlanner creates a new planner
func NewConsumptionPlanner() *ConsumptionPlanner {
	return &ConsumptionPlanner{}
}

// Plan greedily walks the batches in policy order and allocates
// min(remaining, outstanding) from each until the request is covered.
//
// A zero request yields an empty, trivially successful plan. A negative
// request is rejected with InvalidRequestError. If the eligible batches
// cannot cover the request, InsufficientStockError is returned and no
// partial plan is produced.
func (cp *ConsumptionPlanner) Plan(batches []StockBatch, requested decimal.Decimal, policy ConsumptionPolicy) (*AllocationPlan, error) {
	if requested.IsNegative() {
		return nil, &InvalidRequestError{Message: "requested quantity cannot be negative"}
	}
	if !policy.IsValid() {
		return nil, &InvalidRequestError{Message: "unknown consumption policy: " + policy.String()}
	}

	plan := &AllocationPlan{
		Policy:    policy,
		Requested: requested,
		Entries:   make([]PlanEntry, 0),
	}
	if requested.IsZero() {
		return plan, nil
	}

	eligible := make([]StockBatch, 0, len(batches))
	available := decimal.Zero
	for _, b := range batches {
		if b.Eligible() {
			eligible = append(eligible, b)
			available = available.Add(b.RemainingQuantity)
		}
	}
	if available.LessThan(requested) {
		return nil, &InsufficientStockError{Available: available, Requested: requested}
	}

	outstanding := requested
	for _, batch := range orderBatches(eligible, policy) {
		if outstanding.IsZero() {
			break
		}
		take := decimal.Min(outstanding, batch.RemainingQuantity)
		plan.Entries = append(plan.Entries, PlanEntry{Batch: batch, Quantity: take})
		outstanding = outstanding.Sub(take)
	}

	return plan, nil
}
