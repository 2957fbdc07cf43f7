package inventory

import (
	"context"

	"github.com/google/uuid"
)

// BatchStore is the persistence port for stock batches.
type BatchStore interface {
	// Fetch returns the allocation-eligible batches for an item at a
	// location: not deleted, remaining quantity above zero. Ordering is
	// left to the caller's consumption policy. Returns ItemNotFoundError
	// when the item has never had a batch recorded.
	Fetch(ctx context.Context, itemID uuid.UUID, location Location) ([]StockBatch, error)

	// History returns every batch ever recorded for an item at a
	// location, deleted and depleted included, oldest first.
	History(ctx context.Context, itemID uuid.UUID, location Location) ([]StockBatch, error)

	FindByID(ctx context.Context, id uuid.UUID) (*StockBatch, error)

	Create(ctx context.Context, batch *StockBatch) error

	// ConditionalUpdate persists the batch only if the stored version
	// still equals expectedVersion. A lost race surfaces as
	// shared.ErrConcurrencyConflict so the caller can refetch and retry.
	ConditionalUpdate(ctx context.Context, batch *StockBatch, expectedVersion int) error

	// SoftDelete marks the batch deleted under the same version check
	// as ConditionalUpdate.
	SoftDelete(ctx context.Context, batch *StockBatch, expectedVersion int) error
}

// AuditSink records applied adjustments for later review. Recording is
// best effort: the ledger logs sink failures but never rolls back a
// committed adjustment over one.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AuditEntry is the trail row for one applied adjustment.
type AuditEntry struct {
	BatchID           uuid.UUID
	ActorID           uuid.UUID
	Request           AdjustmentRequest
	ResultingStatus   BatchStatus
	ResultingQuantity string
}
