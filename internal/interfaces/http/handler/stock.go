package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/opsboard/backend/internal/application/inventory"
	"github.com/opsboard/backend/internal/domain/inventory"
)

// StockHandler exposes the batch ledger over HTTP
type StockHandler struct {
	BaseHandler
	ledger *appinventory.BatchLedger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(ledger *appinventory.BatchLedger) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// RegisterRoutes registers stock routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.CommitSale)
		sales.POST("/preview", h.PreviewSale)
	}

	batches := rg.Group("/batches")
	{
		batches.POST("", h.ReceiveBatch)
		batches.GET("/:id", h.GetBatch)
		batches.DELETE("/:id", h.DeleteBatch)
		batches.POST("/:id/adjustments", h.ApplyAdjustment)
	}

	stock := rg.Group("/stock")
	{
		stock.GET("", h.CurrentStock)
		stock.GET("/history", h.BatchHistory)
	}
}

// SaleLineRequest is one line of a sale request
type SaleLineRequest struct {
	ItemID    uuid.UUID       `json:"item_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleCommitRequest is the request body for committing or previewing a sale
type SaleCommitRequest struct {
	LocationType string            `json:"location_type" binding:"required"`
	LocationID   *uuid.UUID        `json:"location_id"`
	Policy       string            `json:"policy" binding:"required"`
	Lines        []SaleLineRequest `json:"lines" binding:"required"`
}

// ReceiveBatchRequest is the request body for recording an acquisition
type ReceiveBatchRequest struct {
	ItemID       uuid.UUID       `json:"item_id" binding:"required"`
	LocationType string          `json:"location_type" binding:"required"`
	LocationID   *uuid.UUID      `json:"location_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	CostPrice    decimal.Decimal `json:"cost_price"`
}

// AdjustmentBodyRequest is the request body for adjusting a batch. The
// batch ID comes from the path.
type AdjustmentBodyRequest struct {
	QuantityDelta      decimal.Decimal `json:"quantity_delta"`
	Reason             string          `json:"reason"`
	ActorID            uuid.UUID       `json:"actor_id" binding:"required"`
	Damage             bool            `json:"damage"`
	OriginalCorrection bool            `json:"original_correction"`
}

// StockResponse reports the current sellable quantity at a location
type StockResponse struct {
	ItemID       uuid.UUID              `json:"item_id"`
	LocationType inventory.LocationType `json:"location_type"`
	LocationID   *uuid.UUID             `json:"location_id,omitempty"`
	Quantity     decimal.Decimal        `json:"quantity"`
}

func (r *SaleCommitRequest) toSaleRequest() (appinventory.SaleRequest, error) {
	location, err := inventory.NewLocation(inventory.LocationType(r.LocationType), r.LocationID)
	if err != nil {
		return appinventory.SaleRequest{}, err
	}
	lines := make([]appinventory.SaleLine, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, appinventory.SaleLine{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return appinventory.SaleRequest{
		Location: location,
		Policy:   inventory.ConsumptionPolicy(r.Policy),
		Lines:    lines,
	}, nil
}

// CommitSale plans and commits consumption for a whole sale
//
// POST /api/v1/sales
func (h *StockHandler) CommitSale(c *gin.Context) {
	var req SaleCommitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	saleReq, err := req.toSaleRequest()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.ledger.PlanAndCommitSale(c.Request.Context(), saleReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PreviewSale plans consumption for a sale without committing it
//
// POST /api/v1/sales/preview
func (h *StockHandler) PreviewSale(c *gin.Context) {
	var req SaleCommitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	saleReq, err := req.toSaleRequest()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.ledger.PreviewSale(c.Request.Context(), saleReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ReceiveBatch records an acquisition as a new batch
//
// POST /api/v1/batches
func (h *StockHandler) ReceiveBatch(c *gin.Context) {
	var req ReceiveBatchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	batch, err := h.ledger.ReceiveBatch(c.Request.Context(), appinventory.ReceiveBatchRequest{
		ItemID:     req.ItemID,
		Location:   inventory.LocationType(req.LocationType),
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
		CostPrice:  req.CostPrice,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, batch)
}

// GetBatch fetches a single batch by ID
//
// GET /api/v1/batches/:id
func (h *StockHandler) GetBatch(c *gin.Context) {
	batchID, ok := h.batchIDParam(c)
	if !ok {
		return
	}

	batch, err := h.ledger.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// DeleteBatch soft deletes a batch
//
// DELETE /api/v1/batches/:id
func (h *StockHandler) DeleteBatch(c *gin.Context) {
	batchID, ok := h.batchIDParam(c)
	if !ok {
		return
	}

	if err := h.ledger.DeleteBatch(c.Request.Context(), batchID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ApplyAdjustment applies a validated quantity adjustment to a batch
//
// POST /api/v1/batches/:id/adjustments
func (h *StockHandler) ApplyAdjustment(c *gin.Context) {
	batchID, ok := h.batchIDParam(c)
	if !ok {
		return
	}

	var req AdjustmentBodyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	batch, err := h.ledger.ApplyAdjustment(c.Request.Context(), inventory.AdjustmentRequest{
		BatchID:            batchID,
		QuantityDelta:      req.QuantityDelta,
		Reason:             req.Reason,
		ActorID:            req.ActorID,
		Damage:             req.Damage,
		OriginalCorrection: req.OriginalCorrection,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// CurrentStock reports the sellable quantity for an item at a location
//
// GET /api/v1/stock?item_id=...&location_type=...&location_id=...
func (h *StockHandler) CurrentStock(c *gin.Context) {
	itemID, location, ok := h.stockQuery(c)
	if !ok {
		return
	}

	total, err := h.ledger.CurrentStock(c.Request.Context(), itemID, location)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, StockResponse{
		ItemID:       itemID,
		LocationType: location.Type,
		LocationID:   location.ID,
		Quantity:     total,
	})
}

// BatchHistory lists all batches for an item at a location, deleted included
//
// GET /api/v1/stock/history?item_id=...&location_type=...&location_id=...
func (h *StockHandler) BatchHistory(c *gin.Context) {
	itemID, location, ok := h.stockQuery(c)
	if !ok {
		return
	}

	batches, err := h.ledger.BatchHistory(c.Request.Context(), itemID, location)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batches)
}

// batchIDParam parses the :id path parameter, responding with 400 on failure
func (h *StockHandler) batchIDParam(c *gin.Context) (uuid.UUID, bool) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid batch ID")
		return uuid.Nil, false
	}
	return batchID, true
}

// stockQuery parses item and location query parameters, responding with
// 400 on failure
func (h *StockHandler) stockQuery(c *gin.Context) (uuid.UUID, inventory.Location, bool) {
	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		h.BadRequest(c, "invalid or missing item_id")
		return uuid.Nil, inventory.Location{}, false
	}

	var locationID *uuid.UUID
	if raw := c.Query("location_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid location_id")
			return uuid.Nil, inventory.Location{}, false
		}
		locationID = &parsed
	}

	location, err := inventory.NewLocation(inventory.LocationType(c.Query("location_type")), locationID)
	if err != nil {
		h.HandleError(c, err)
		return uuid.Nil, inventory.Location{}, false
	}
	return itemID, location, true
}
