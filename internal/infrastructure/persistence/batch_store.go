package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBatchStore implements inventory.BatchStore using GORM.
//
// Writes are conditional updates keyed on the version column. There is
// no row locking: a lost race shows up as zero affected rows and is
// reported as shared.ErrConcurrencyConflict for the ledger to retry.
type GormBatchStore struct {
	db *gorm.DB
}

// NewGormBatchStore creates a new GormBatchStore
func NewGormBatchStore(db *gorm.DB) *GormBatchStore {
	return &GormBatchStore{db: db}
}

// locationScope narrows a query to one location. Locations without an
// ID (global, production) match on the NULL column.
func locationScope(q *gorm.DB, location inventory.Location) *gorm.DB {
	if location.ID == nil {
		return q.Where("location_type = ? AND location_id IS NULL", location.Type)
	}
	return q.Where("location_type = ? AND location_id = ?", location.Type, *location.ID)
}

// Fetch returns the allocation-eligible batches for an item at a
// location, oldest first with ID as tie-break. An item with no batch of
// any status is unknown; an item whose batches are all depleted or
// deleted yields an empty result.
func (r *GormBatchStore) Fetch(ctx context.Context, itemID uuid.UUID, location inventory.Location) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	err := locationScope(r.db.WithContext(ctx), location).
		Where("item_id = ?", itemID).
		Where("status <> ? AND remaining_quantity > 0", inventory.BatchStatusDeleted).
		Order("created_at ASC, id ASC").
		Find(&batches).Error
	if err != nil {
		return nil, err
	}

	if len(batches) == 0 {
		known, err := r.itemKnown(ctx, itemID, location)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, &inventory.ItemNotFoundError{ItemID: itemID}
		}
	}
	return batches, nil
}

// History returns every batch ever recorded for an item at a location,
// deleted and depleted included, oldest first.
func (r *GormBatchStore) History(ctx context.Context, itemID uuid.UUID, location inventory.Location) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	err := locationScope(r.db.WithContext(ctx), location).
		Where("item_id = ?", itemID).
		Order("created_at ASC, id ASC").
		Find(&batches).Error
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, &inventory.ItemNotFoundError{ItemID: itemID}
	}
	return batches, nil
}

// FindByID finds a batch by its ID, regardless of status
func (r *GormBatchStore) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	var batch inventory.StockBatch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// Create persists a new batch
func (r *GormBatchStore) Create(ctx context.Context, batch *inventory.StockBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

// ConditionalUpdate persists the batch's mutable columns only if the
// stored version still equals expectedVersion. The domain model has
// already incremented the version, so a successful update advances the
// row past expectedVersion atomically.
func (r *GormBatchStore) ConditionalUpdate(ctx context.Context, batch *inventory.StockBatch, expectedVersion int) error {
	result := r.db.WithContext(ctx).Model(&inventory.StockBatch{}).
		Where("id = ? AND version = ?", batch.ID, expectedVersion).
		Updates(map[string]any{
			"original_quantity":  batch.OriginalQuantity,
			"remaining_quantity": batch.RemainingQuantity,
			"damaged_quantity":   batch.DamagedQuantity,
			"status":             batch.Status,
			"version":            batch.Version,
			"updated_at":         batch.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SoftDelete marks the batch deleted under the same version check as
// ConditionalUpdate. The row is kept for history.
func (r *GormBatchStore) SoftDelete(ctx context.Context, batch *inventory.StockBatch, expectedVersion int) error {
	result := r.db.WithContext(ctx).Model(&inventory.StockBatch{}).
		Where("id = ? AND version = ?", batch.ID, expectedVersion).
		Updates(map[string]any{
			"status":     inventory.BatchStatusDeleted,
			"version":    batch.Version,
			"updated_at": batch.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// itemKnown reports whether any batch of any status exists for the item
// at the location.
func (r *GormBatchStore) itemKnown(ctx context.Context, itemID uuid.UUID, location inventory.Location) (bool, error) {
	var count int64
	err := locationScope(r.db.WithContext(ctx).Model(&inventory.StockBatch{}), location).
		Where("item_id = ?", itemID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
