package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LocationType identifies the kind of place a batch is held at
type LocationType string

const (
	LocationTypeShop       LocationType = "shop"
	LocationTypeWarehouse  LocationType = "warehouse"
	LocationTypeProduction LocationType = "production"
	LocationTypeGlobal     LocationType = "global"
)

// IsValid checks if the location type is known
func (t LocationType) IsValid() bool {
	switch t {
	case LocationTypeShop, LocationTypeWarehouse, LocationTypeProduction, LocationTypeGlobal:
		return true
	}
	return false
}

// String returns the string representation
func (t LocationType) String() string {
	return string(t)
}

// RequiresID reports whether this location type must carry a location ID.
// Global and production stock are singletons per item; shops and
// warehouses are addressed individually.
func (t LocationType) RequiresID() bool {
	return t == LocationTypeShop || t == LocationTypeWarehouse
}

// Location is the item-holding place a batch belongs to
type Location struct {
	Type LocationType `gorm:"column:location_type;type:varchar(16);not null;index:idx_stock_batch_item_location,priority:2"`
	ID   *uuid.UUID   `gorm:"column:location_id;type:uuid;index:idx_stock_batch_item_location,priority:3"`
}

// NewLocation builds a Location, validating the type/ID pairing
func NewLocation(locType LocationType, id *uuid.UUID) (Location, error) {
	if !locType.IsValid() {
		return Location{}, &InvalidRequestError{Message: "unknown location type: " + string(locType)}
	}
	if locType.RequiresID() && id == nil {
		return Location{}, &InvalidRequestError{Message: "location type " + string(locType) + " requires a location id"}
	}
	return Location{Type: locType, ID: id}, nil
}

// Equal reports whether two locations address the same place
func (l Location) Equal(other Location) bool {
	if l.Type != other.Type {
		return false
	}
	if l.ID == nil || other.ID == nil {
		return l.ID == other.ID
	}
	return *l.ID == *other.ID
}

// BatchStatus is the lifecycle state of a stock batch
type BatchStatus string

const (
	// BatchStatusActive means the batch holds quantity available for allocation
	BatchStatusActive BatchStatus = "active"
	// BatchStatusDepleted means remaining quantity has reached zero through consumption
	BatchStatusDepleted BatchStatus = "depleted"
	// BatchStatusCorrected marks a batch whose quantity was changed outside
	// normal consumption; it remains allocatable while quantity remains
	BatchStatusCorrected BatchStatus = "corrected"
	// BatchStatusDeleted is the terminal soft-delete state
	BatchStatusDeleted BatchStatus = "deleted"
)

// IsValid checks if the status is known
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusActive, BatchStatusDepleted, BatchStatusCorrected, BatchStatusDeleted:
		return true
	}
	return false
}

// String returns the string representation
func (s BatchStatus) String() string {
	return string(s)
}

// StockBatch is an immutable-cost slice of inventory acquired at one
// point in time. CreatedAt is the FIFO/LIFO ordering key; Version is
// the optimistic-concurrency counter checked by BatchStore on write.
type StockBatch struct {
	shared.VersionedEntity
	ItemID            uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_batch_item_location,priority:1"`
	Location          Location        `gorm:"embedded"`
	OriginalQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DamagedQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CostPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status            BatchStatus     `gorm:"type:varchar(16);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (StockBatch) TableName() string {
	return "stock_batches"
}

// NewStockBatch creates a batch from an acquisition event (purchase,
// production output, manual stock-in). The full quantity starts available.
func NewStockBatch(clock shared.Clock, itemID uuid.UUID, location Location, quantity, costPrice decimal.Decimal) (*StockBatch, error) {
	if itemID == uuid.Nil {
		return nil, &InvalidRequestError{Message: "item id cannot be empty"}
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, &InvalidRequestError{Message: "batch quantity must be positive"}
	}
	if costPrice.IsNegative() {
		return nil, &InvalidRequestError{Message: "cost price cannot be negative"}
	}

	return &StockBatch{
		VersionedEntity:   shared.NewVersionedEntity(clock),
		ItemID:            itemID,
		Location:          location,
		OriginalQuantity:  quantity,
		RemainingQuantity: quantity,
		DamagedQuantity:   decimal.Zero,
		CostPrice:         costPrice,
		Status:            BatchStatusActive,
	}, nil
}

// IsDeleted reports whether the batch has been soft deleted
func (b *StockBatch) IsDeleted() bool {
	return b.Status == BatchStatusDeleted
}

// Eligible reports whether the batch can serve new allocations:
// not deleted and holding remaining quantity. A corrected batch stays
// eligible; the correction is an audit annotation, not a disqualification.
func (b *StockBatch) Eligible() bool {
	return !b.IsDeleted() && b.RemainingQuantity.GreaterThan(decimal.Zero)
}

// Consume reduces the remaining quantity for a sale allocation.
// Driving the quantity to zero transitions the batch to depleted; a
// successful consumption from a corrected batch with quantity left
// reopens it to active.
func (b *StockBatch) Consume(quantity decimal.Decimal) error {
	if b.IsDeleted() {
		return &BatchDeletedError{BatchID: b.ID}
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return &InvalidRequestError{Message: "consumption quantity must be positive"}
	}
	if quantity.GreaterThan(b.RemainingQuantity) {
		return &InsufficientStockError{Available: b.RemainingQuantity, Requested: quantity}
	}

	b.RemainingQuantity = b.RemainingQuantity.Sub(quantity)
	if b.RemainingQuantity.IsZero() {
		b.Status = BatchStatusDepleted
	} else if b.Status == BatchStatusCorrected {
		b.Status = BatchStatusActive
	}
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// ApplyCorrection applies a validated manual quantity delta. A positive
// delta restocks; a negative one writes quantity off. When damage is set,
// the written-off quantity is tracked in DamagedQuantity. When
// adjustOriginal is set the original quantity moves together with the
// remaining quantity (an acquisition-record correction, not a write-off).
// The resulting status is depleted at zero, corrected otherwise.
func (b *StockBatch) ApplyCorrection(delta decimal.Decimal, damage, adjustOriginal bool) error {
	if b.IsDeleted() {
		return &BatchDeletedError{BatchID: b.ID}
	}
	newRemaining := b.RemainingQuantity.Add(delta)
	if newRemaining.IsNegative() {
		return &ValidationError{Rule: RuleNegativeResult, Message: "adjustment would drive remaining quantity below zero"}
	}

	b.RemainingQuantity = newRemaining
	if damage && delta.IsNegative() {
		b.DamagedQuantity = b.DamagedQuantity.Add(delta.Neg())
	}
	if adjustOriginal {
		b.OriginalQuantity = b.OriginalQuantity.Add(delta)
	}
	if b.RemainingQuantity.IsZero() {
		b.Status = BatchStatusDepleted
	} else {
		b.Status = BatchStatusCorrected
	}
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Restore returns previously consumed quantity to the batch. Used as
// the compensation step when a multi-batch commit fails partway: the
// inverse of Consume, including the depleted-to-active transition.
func (b *StockBatch) Restore(quantity decimal.Decimal) error {
	if b.IsDeleted() {
		return &BatchDeletedError{BatchID: b.ID}
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return &InvalidRequestError{Message: "restore quantity must be positive"}
	}

	b.RemainingQuantity = b.RemainingQuantity.Add(quantity)
	if b.Status == BatchStatusDepleted {
		b.Status = BatchStatusActive
	}
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// SoftDelete marks the batch deleted. Deleted batches are excluded from
// allocation but remain readable for history views. Terminal.
func (b *StockBatch) SoftDelete() error {
	if b.IsDeleted() {
		return shared.ErrInvalidState
	}
	b.Status = BatchStatusDeleted
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// TotalValue returns the acquisition value of the remaining quantity
func (b *StockBatch) TotalValue() decimal.Decimal {
	return b.RemainingQuantity.Mul(b.CostPrice)
}
