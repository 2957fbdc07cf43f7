package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentRequest describes a manual, non-sale change to a batch:
// a stock-count correction, damage write-off, or restock. Sale-driven
// consumption never goes through this path.
type AdjustmentRequest struct {
	BatchID       uuid.UUID       `json:"batch_id"`
	QuantityDelta decimal.Decimal `json:"quantity_delta"`
	Reason        string          `json:"reason"`
	ActorID       uuid.UUID       `json:"actor_id"`

	// Damage marks a negative delta as a damage write-off, tracked in
	// the batch's damaged quantity.
	Damage bool `json:"damage"`

	// OriginalCorrection marks the delta as a correction of the
	// acquisition record itself: original and remaining quantities move
	// together and the restock ceiling does not apply.
	OriginalCorrection bool `json:"original_correction"`
}

// DefaultRestockCeilingRatio bounds how far a plain restock correction
// may push the remaining quantity relative to the original quantity.
var DefaultRestockCeilingRatio = decimal.NewFromInt(1)

// AdjustmentValidator gatekeeps manual corrections before the ledger
// applies them. It is side-effect free: Validate inspects the target
// batch and the request, and reports the first violated rule.
type AdjustmentValidator struct {
	restockCeilingRatio decimal.Decimal
}

// AdjustmentValidatorOption is a functional option for configuring AdjustmentValidator
type AdjustmentValidatorOption func(*AdjustmentValidator)

// WithRestockCeilingRatio overrides the restock ceiling ratio
func WithRestockCeilingRatio(ratio decimal.Decimal) AdjustmentValidatorOption {
	return func(v *AdjustmentValidator) {
		if ratio.GreaterThan(decimal.Zero) {
			v.restockCeilingRatio = ratio
		}
	}
}

// NewAdjustmentValidator creates a validator with the default restock ceiling
func NewAdjustmentValidator(opts ...AdjustmentValidatorOption) *AdjustmentValidator {
	v := &AdjustmentValidator{restockCeilingRatio: DefaultRestockCeilingRatio}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// RestockCeiling returns the maximum remaining quantity a plain restock
// may reach for the given batch: ceilingRatio × originalQuantity.
func (v *AdjustmentValidator) RestockCeiling(batch *StockBatch) decimal.Decimal {
	return batch.OriginalQuantity.Mul(v.restockCeilingRatio)
}

// Validate checks the request against the target batch. Rules:
//
//   - the batch must not be deleted (BatchDeletedError)
//   - a reason is mandatory for every manual adjustment
//   - the delta must be non-zero
//   - a damage write-off must carry a negative delta
//   - a negative delta may not drive the remaining quantity below zero
//   - a positive delta may not push the remaining quantity above the
//     restock ceiling, unless flagged as an original-quantity correction
func (v *AdjustmentValidator) Validate(batch *StockBatch, req AdjustmentRequest) error {
	if batch.IsDeleted() {
		return &BatchDeletedError{BatchID: batch.ID}
	}
	if strings.TrimSpace(req.Reason) == "" {
		return &ValidationError{Rule: RuleMissingReason, Message: "a reason is required for manual adjustments"}
	}
	if req.QuantityDelta.IsZero() {
		return &ValidationError{Rule: RuleZeroDelta, Message: "adjustment delta cannot be zero"}
	}
	if req.Damage && !req.QuantityDelta.IsNegative() {
		return &ValidationError{Rule: RuleDamagePositive, Message: "a damage write-off must reduce quantity"}
	}

	newRemaining := batch.RemainingQuantity.Add(req.QuantityDelta)
	if newRemaining.IsNegative() {
		return &ValidationError{Rule: RuleNegativeResult, Message: "adjustment would drive remaining quantity below zero"}
	}
	if req.QuantityDelta.IsPositive() && !req.OriginalCorrection {
		if newRemaining.GreaterThan(v.RestockCeiling(batch)) {
			return &ValidationError{
				Rule:    RuleCeilingExceeded,
				Message: "restock exceeds ceiling; flag as original-quantity correction to raise the acquisition record",
			}
		}
	}

	return nil
}
