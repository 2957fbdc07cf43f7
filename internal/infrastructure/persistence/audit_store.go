package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdjustmentAudit is the persistence model for the adjustment trail.
// Rows are append-only; nothing in the system updates or deletes them.
type AdjustmentAudit struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BatchID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ActorID            uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityDelta      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason             string          `gorm:"type:text;not null"`
	Damage             bool            `gorm:"not null"`
	OriginalCorrection bool            `gorm:"not null"`
	ResultingStatus    string          `gorm:"type:varchar(16);not null"`
	ResultingQuantity  string          `gorm:"type:varchar(32);not null"`
	CreatedAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AdjustmentAudit) TableName() string {
	return "adjustment_audits"
}

// GormAuditSink implements inventory.AuditSink using GORM
type GormAuditSink struct {
	db *gorm.DB
}

// NewGormAuditSink creates a new GormAuditSink
func NewGormAuditSink(db *gorm.DB) *GormAuditSink {
	return &GormAuditSink{db: db}
}

// Record appends one audit row for an applied adjustment
func (s *GormAuditSink) Record(ctx context.Context, entry inventory.AuditEntry) error {
	row := AdjustmentAudit{
		ID:                 uuid.New(),
		BatchID:            entry.BatchID,
		ActorID:            entry.ActorID,
		QuantityDelta:      entry.Request.QuantityDelta,
		Reason:             entry.Request.Reason,
		Damage:             entry.Request.Damage,
		OriginalCorrection: entry.Request.OriginalCorrection,
		ResultingStatus:    entry.ResultingStatus.String(),
		ResultingQuantity:  entry.ResultingQuantity,
		CreatedAt:          time.Now(),
	}
	return s.db.WithContext(ctx).Create(&row).Error
}
