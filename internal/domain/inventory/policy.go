package inventory

import "sort"

// ConsumptionPolicy defines the batch ordering used when allocating a
// requested quantity across batches.
type ConsumptionPolicy string

const (
	// ConsumptionPolicyFIFO consumes the oldest batches first (by acquisition time)
	ConsumptionPolicyFIFO ConsumptionPolicy = "FIFO"
	// ConsumptionPolicyLIFO consumes the newest batches first
	ConsumptionPolicyLIFO ConsumptionPolicy = "LIFO"
)

// IsValid checks if the policy is known
func (p ConsumptionPolicy) IsValid() bool {
	switch p {
	case ConsumptionPolicyFIFO, ConsumptionPolicyLIFO:
		return true
	}
	return false
}

// String returns the string representation
func (p ConsumptionPolicy) String() string {
	return string(p)
}

// AllConsumptionPolicies returns all valid consumption policies
func AllConsumptionPolicies() []ConsumptionPolicy {
	return []ConsumptionPolicy{ConsumptionPolicyFIFO, ConsumptionPolicyLIFO}
}

// orderBatches sorts a copy of the given batches according to the
// policy. CreatedAt is the ordering key; ties break by ID ascending in
// both directions so that allocation order is fully deterministic.
func orderBatches(batches []StockBatch, policy ConsumptionPolicy) []StockBatch {
	ordered := make([]StockBatch, len(batches))
	copy(ordered, batches)

	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if policy == ConsumptionPolicyLIFO {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	return ordered
}
