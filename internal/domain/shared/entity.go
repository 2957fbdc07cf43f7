package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities.
// CreatedAt is assigned from an injected Clock so that time-ordered
// domain logic stays deterministic under test.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID, stamped at clock.Now()
func NewBaseEntity(clock Clock) BaseEntity {
	now := clock.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// VersionedEntity extends BaseEntity with a version counter for
// optimistic concurrency control. Every mutation must increment the
// version; the persistence layer compares it on write.
type VersionedEntity struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// GetVersion returns the entity version for optimistic locking
func (v *VersionedEntity) GetVersion() int {
	return v.Version
}

// IncrementVersion increments the version number
func (v *VersionedEntity) IncrementVersion() {
	v.Version++
}

// NewVersionedEntity creates a new versioned entity at version 1
func NewVersionedEntity(clock Clock) VersionedEntity {
	return VersionedEntity{
		BaseEntity: NewBaseEntity(clock),
		Version:    1,
	}
}
