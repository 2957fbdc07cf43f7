package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// SaleLine is one item line of a sale to be costed and committed
type SaleLine struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleRequest asks the ledger to consume stock for a whole sale. All
// lines commit or none do.
type SaleRequest struct {
	Location inventory.Location          `json:"location"`
	Policy   inventory.ConsumptionPolicy `json:"policy"`
	Lines    []SaleLine                  `json:"lines"`
}

// SaleLineResult carries the committed consumption records and the
// derived profit figures for one sale line.
type SaleLineResult struct {
	ItemID  uuid.UUID                     `json:"item_id"`
	Records []inventory.ConsumptionRecord `json:"records"`
	Figures inventory.LineFigures         `json:"figures"`
}

// SaleResult is the outcome of a committed sale
type SaleResult struct {
	Lines  []SaleLineResult      `json:"lines"`
	Totals inventory.SaleFigures `json:"totals"`
}

// ReceiveBatchRequest records an acquisition of stock as a new batch
type ReceiveBatchRequest struct {
	ItemID     uuid.UUID              `json:"item_id"`
	Location   inventory.LocationType `json:"location_type"`
	LocationID *uuid.UUID             `json:"location_id"`
	Quantity   decimal.Decimal        `json:"quantity"`
	CostPrice  decimal.Decimal        `json:"cost_price"`
}

// BatchResponse is the read model for a single batch
type BatchResponse struct {
	ID                uuid.UUID              `json:"id"`
	ItemID            uuid.UUID              `json:"item_id"`
	LocationType      inventory.LocationType `json:"location_type"`
	LocationID        *uuid.UUID             `json:"location_id,omitempty"`
	OriginalQuantity  decimal.Decimal        `json:"original_quantity"`
	RemainingQuantity decimal.Decimal        `json:"remaining_quantity"`
	DamagedQuantity   decimal.Decimal        `json:"damaged_quantity"`
	CostPrice         decimal.Decimal        `json:"cost_price"`
	Status            inventory.BatchStatus  `json:"status"`
	Version           int                    `json:"version"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// ToBatchResponse converts a batch aggregate to its read model
func ToBatchResponse(batch *inventory.StockBatch) BatchResponse {
	return BatchResponse{
		ID:                batch.ID,
		ItemID:            batch.ItemID,
		LocationType:      batch.Location.Type,
		LocationID:        batch.Location.ID,
		OriginalQuantity:  batch.OriginalQuantity,
		RemainingQuantity: batch.RemainingQuantity,
		DamagedQuantity:   batch.DamagedQuantity,
		CostPrice:         batch.CostPrice,
		Status:            batch.Status,
		Version:           batch.Version,
		CreatedAt:         batch.CreatedAt,
		UpdatedAt:         batch.UpdatedAt,
	}
}
