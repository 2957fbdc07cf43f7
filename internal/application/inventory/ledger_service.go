package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/opsboard/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// DefaultMaxCommitRetries bounds whole-operation retries on version conflicts
	DefaultMaxCommitRetries = 5
	// DefaultRetryBackoff is the base delay between conflict retries
	DefaultRetryBackoff = 20 * time.Millisecond
	// DefaultStoreTimeout caps the time a single ledger operation may spend on storage
	DefaultStoreTimeout = 5 * time.Second

	compensationRetries = 3
	auditTimeout        = 3 * time.Second
)

// StockCache is a read-through cache for current-stock totals,
// invalidated on every committed write.
type StockCache interface {
	Get(ctx context.Context, itemID uuid.UUID, location inventory.Location) (decimal.Decimal, bool, error)
	Set(ctx context.Context, itemID uuid.UUID, location inventory.Location, total decimal.Decimal) error
	Invalidate(ctx context.Context, itemID uuid.UUID, location inventory.Location) error
}

// BatchLedger coordinates batch consumption, manual adjustments and the
// batch lifecycle on top of an optimistically locked BatchStore.
//
// Multi-batch commits follow a compensation pattern: updates are applied
// batch by batch under version checks, and a conflict partway through
// rolls the already-applied updates back before the whole operation is
// retried against fresh state. Either every batch a sale touches is
// updated, or none is.
type BatchLedger struct {
	store     inventory.BatchStore
	planner   *inventory.ConsumptionPlanner
	validator *inventory.AdjustmentValidator
	profit    *inventory.ProfitCalculator
	audit     inventory.AuditSink
	cache     StockCache
	clock     shared.Clock
	logger    *zap.Logger

	maxRetries   int
	retryBackoff time.Duration
	storeTimeout time.Duration
}

// BatchLedgerOption is a functional option for configuring BatchLedger
type BatchLedgerOption func(*BatchLedger)

// WithAuditSink attaches an audit sink for applied adjustments
func WithAuditSink(sink inventory.AuditSink) BatchLedgerOption {
	return func(l *BatchLedger) {
		l.audit = sink
	}
}

// WithStockCache attaches a current-stock cache
func WithStockCache(cache StockCache) BatchLedgerOption {
	return func(l *BatchLedger) {
		l.cache = cache
	}
}

// WithClock overrides the time source
func WithClock(clock shared.Clock) BatchLedgerOption {
	return func(l *BatchLedger) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithLogger attaches a logger
func WithLogger(logger *zap.Logger) BatchLedgerOption {
	return func(l *BatchLedger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMaxCommitRetries sets the retry budget for version conflicts
func WithMaxCommitRetries(n int) BatchLedgerOption {
	return func(l *BatchLedger) {
		if n > 0 {
			l.maxRetries = n
		}
	}
}

// WithRetryBackoff sets the base delay between conflict retries
func WithRetryBackoff(d time.Duration) BatchLedgerOption {
	return func(l *BatchLedger) {
		if d > 0 {
			l.retryBackoff = d
		}
	}
}

// WithStoreTimeout caps storage time per ledger operation
func WithStoreTimeout(d time.Duration) BatchLedgerOption {
	return func(l *BatchLedger) {
		if d > 0 {
			l.storeTimeout = d
		}
	}
}

// WithAdjustmentValidator overrides the adjustment validator
func WithAdjustmentValidator(v *inventory.AdjustmentValidator) BatchLedgerOption {
	return func(l *BatchLedger) {
		if v != nil {
			l.validator = v
		}
	}
}

// NewBatchLedger creates a ledger over the given store
func NewBatchLedger(store inventory.BatchStore, opts ...BatchLedgerOption) *BatchLedger {
	l := &BatchLedger{
		store:        store,
		planner:      inventory.NewConsumptionPlanner(),
		validator:    inventory.NewAdjustmentValidator(),
		profit:       inventory.NewProfitCalculator(),
		clock:        shared.SystemClock{},
		logger:       zap.NewNop(),
		maxRetries:   DefaultMaxCommitRetries,
		retryBackoff: DefaultRetryBackoff,
		storeTimeout: DefaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// PreviewSale plans and costs a sale without touching stored state.
// The figures match what PlanAndCommitSale would commit against the
// same snapshot of the batches.
func (l *BatchLedger) PreviewSale(ctx context.Context, req SaleRequest) (*SaleResult, error) {
	if err := l.validateSaleRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, l.storeTimeout)
	defer cancel()

	plans, err := l.planSale(ctx, req)
	if err != nil {
		return nil, err
	}
	return l.buildSaleResult(req, plans), nil
}

// PlanAndCommitSale plans consumption for every sale line and applies
// it to the underlying batches. Version conflicts trigger compensation
// of any partial progress and a bounded retry of the whole sale; when
// the budget runs out the sale fails with ConcurrencyExhaustedError and
// no batch retains any of its effects.
func (l *BatchLedger) PlanAndCommitSale(ctx context.Context, req SaleRequest) (*SaleResult, error) {
	if err := l.validateSaleRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, l.storeTimeout)
	defer cancel()

	for attempt := 1; attempt <= l.maxRetries; attempt++ {
		plans, err := l.planSale(ctx, req)
		if err != nil {
			return nil, err
		}

		conflicted, err := l.applySale(ctx, plans)
		if err != nil {
			return nil, err
		}
		if !conflicted {
			l.invalidateSaleCache(ctx, req)
			return l.buildSaleResult(req, plans), nil
		}

		l.logger.Debug("sale commit conflicted, retrying",
			zap.Int("attempt", attempt),
			zap.Int("lines", len(req.Lines)))
		if attempt < l.maxRetries {
			l.backoff(ctx, attempt)
		}
	}

	return nil, &inventory.ConcurrencyExhaustedError{Attempts: l.maxRetries}
}

// validateSaleRequest rejects malformed sales before any storage access
func (l *BatchLedger) validateSaleRequest(req SaleRequest) error {
	if !req.Policy.IsValid() {
		return &inventory.InvalidRequestError{Message: "unknown consumption policy: " + req.Policy.String()}
	}
	if len(req.Lines) == 0 {
		return &inventory.InvalidRequestError{Message: "a sale requires at least one line"}
	}
	for _, line := range req.Lines {
		if line.ItemID == uuid.Nil {
			return &inventory.InvalidRequestError{Message: "sale line item id cannot be empty"}
		}
		if line.Quantity.IsNegative() {
			return &inventory.InvalidRequestError{Message: "sale line quantity cannot be negative"}
		}
		if line.UnitPrice.IsNegative() {
			return &inventory.InvalidRequestError{Message: "sale line unit price cannot be negative"}
		}
	}
	return nil
}

type linePlan struct {
	line SaleLine
	plan *inventory.AllocationPlan
}

// planSale fetches eligible batches per line and plans the allocation.
// No state is mutated; any line failing to plan fails the whole sale.
func (l *BatchLedger) planSale(ctx context.Context, req SaleRequest) ([]linePlan, error) {
	plans := make([]linePlan, 0, len(req.Lines))
	for _, line := range req.Lines {
		batches, err := l.store.Fetch(ctx, line.ItemID, req.Location)
		if err != nil {
			return nil, l.mapStoreError("fetch", err)
		}
		plan, err := l.planner.Plan(batches, line.Quantity, req.Policy)
		if err != nil {
			return nil, err
		}
		plans = append(plans, linePlan{line: line, plan: plan})
	}
	return plans, nil
}

type appliedUpdate struct {
	batch    *inventory.StockBatch
	quantity decimal.Decimal
}

// applySale walks every plan entry and applies the consumption under a
// version check. Returns conflicted=true when a concurrent writer won a
// race, after compensating all updates applied so far. Non-conflict
// store failures are compensated too and returned as errors.
func (l *BatchLedger) applySale(ctx context.Context, plans []linePlan) (conflicted bool, err error) {
	applied := make([]appliedUpdate, 0)

	for _, lp := range plans {
		for _, entry := range lp.plan.Entries {
			batch := entry.Batch
			expected := batch.Version
			if err := batch.Consume(entry.Quantity); err != nil {
				l.compensate(ctx, applied)
				return false, err
			}
			if err := l.store.ConditionalUpdate(ctx, &batch, expected); err != nil {
				l.compensate(ctx, applied)
				if errors.Is(err, shared.ErrConcurrencyConflict) {
					return true, nil
				}
				return false, l.mapStoreError("update", err)
			}
			applied = append(applied, appliedUpdate{batch: &batch, quantity: entry.Quantity})
		}
	}
	return false, nil
}

// compensate rolls back already-applied consumption in reverse order.
// Each rollback is itself a conditional update; if another writer moved
// the batch meanwhile the rollback re-reads and re-applies. Failures
// after the bounded retries are logged, not returned: compensation is a
// recovery path and the original error must surface.
func (l *BatchLedger) compensate(ctx context.Context, applied []appliedUpdate) {
	for i := len(applied) - 1; i >= 0; i-- {
		update := applied[i]
		batch := update.batch

		var lastErr error
		for attempt := 0; attempt < compensationRetries; attempt++ {
			expected := batch.Version
			if lastErr = batch.Restore(update.quantity); lastErr != nil {
				break
			}
			lastErr = l.store.ConditionalUpdate(ctx, batch, expected)
			if lastErr == nil {
				break
			}
			if !errors.Is(lastErr, shared.ErrConcurrencyConflict) {
				break
			}
			fresh, err := l.store.FindByID(ctx, batch.ID)
			if err != nil {
				lastErr = err
				break
			}
			batch = fresh
		}
		if lastErr != nil {
			l.logger.Error("compensation failed, batch left inconsistent",
				zap.String("batch_id", update.batch.ID.String()),
				zap.String("quantity", update.quantity.String()),
				zap.Error(lastErr))
		}
	}
}

// buildSaleResult projects committed plans into records and profit figures
func (l *BatchLedger) buildSaleResult(req SaleRequest, plans []linePlan) *SaleResult {
	result := &SaleResult{Lines: make([]SaleLineResult, 0, len(plans))}
	figures := make([]inventory.LineFigures, 0, len(plans))

	for _, lp := range plans {
		records := lp.plan.Records()
		lineFigures := l.profit.Line(records, lp.line.UnitPrice)
		result.Lines = append(result.Lines, SaleLineResult{
			ItemID:  lp.line.ItemID,
			Records: records,
			Figures: lineFigures,
		})
		figures = append(figures, lineFigures)
	}
	result.Totals = l.profit.Aggregate(figures)
	return result
}

// ReceiveBatch records an acquisition as a new active batch
func (l *BatchLedger) ReceiveBatch(ctx context.Context, req ReceiveBatchRequest) (*BatchResponse, error) {
	location, err := inventory.NewLocation(req.Location, req.LocationID)
	if err != nil {
		return nil, err
	}
	batch, err := inventory.NewStockBatch(l.clock, req.ItemID, location, req.Quantity, req.CostPrice)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, l.storeTimeout)
	defer cancel()

	if err := l.store.Create(ctx, batch); err != nil {
		return nil, l.mapStoreError("create", err)
	}
	l.invalidateCache(ctx, batch.ItemID, batch.Location)

	resp := ToBatchResponse(batch)
	return &resp, nil
}

// ApplyAdjustment validates and applies a manual quantity correction
// under the same conflict-retry discipline as sales. The audit record
// is written asynchronously after the commit; audit failures are logged
// and never fail the adjustment.
func (l *BatchLedger) ApplyAdjustment(ctx context.Context, req inventory.AdjustmentRequest) (*BatchResponse, error) {
	if req.BatchID == uuid.Nil {
		return nil, &inventory.InvalidRequestError{Message: "batch id cannot be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, l.storeTimeout)
	defer cancel()

	for attempt := 1; attempt <= l.maxRetries; attempt++ {
		batch, err := l.store.FindByID(ctx, req.BatchID)
		if err != nil {
			return nil, l.mapStoreError("find", err)
		}
		if err := l.validator.Validate(batch, req); err != nil {
			return nil, err
		}

		expected := batch.Version
		if err := batch.ApplyCorrection(req.QuantityDelta, req.Damage, req.OriginalCorrection); err != nil {
			return nil, err
		}

		err = l.store.ConditionalUpdate(ctx, batch, expected)
		if err == nil {
			l.invalidateCache(ctx, batch.ItemID, batch.Location)
			l.recordAudit(*batch, req)
			resp := ToBatchResponse(batch)
			return &resp, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, l.mapStoreError("update", err)
		}

		l.logger.Debug("adjustment conflicted, retrying",
			zap.String("batch_id", req.BatchID.String()),
			zap.Int("attempt", attempt))
		if attempt < l.maxRetries {
			l.backoff(ctx, attempt)
		}
	}

	return nil, &inventory.ConcurrencyExhaustedError{Attempts: l.maxRetries}
}

// DeleteBatch soft deletes a batch. Idempotent from the caller's view
// in that a second delete reports the batch as already deleted.
func (l *BatchLedger) DeleteBatch(ctx context.Context, batchID uuid.UUID) error {
	if batchID == uuid.Nil {
		return &inventory.InvalidRequestError{Message: "batch id cannot be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, l.storeTimeout)
	defer cancel()

	for attempt := 1; attempt <= l.maxRetries; attempt++ {
		batch, err := l.store.FindByID(ctx, batchID)
		if err != nil {
			return l.mapStoreError("find", err)
		}
		if batch.IsDeleted() {
			return &inventory.BatchDeletedError{BatchID: batchID}
		}

		expected := batch.Version
		if err := batch.SoftDelete(); err != nil {
			return err
		}

		err = l.store.SoftDelete(ctx, batch, expected)
		if err == nil {
			l.invalidateCache(ctx, batch.ItemID, batch.Location)
			return nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return l.mapStoreError("delete", err)
		}
		if attempt < l.maxRetries {
			l.backoff(ctx, attempt)
		}
	}

	return &inventory.ConcurrencyExhaustedError{Attempts: l.maxRetries}
}

// CurrentStock returns the total allocatable quantity for an item at a
// location, served from the cache when warm.
func (l *BatchLedger) CurrentStock(ctx context.Context, itemID uuid.UUID, location inventory.Location) (decimal.Decimal, error) {
	if itemID == uuid.Nil {
		return decimal.Zero, &inventory.InvalidRequestError{Message: "item id cannot be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, l.storeTimeout)
	defer cancel()

	if l.cache != nil {
		total, ok, err := l.cache.Get(ctx, itemID, location)
		if err != nil {
			l.logger.Warn("stock cache read failed", zap.Error(err))
		} else if ok {
			return total, nil
		}
	}

	batches, err := l.store.Fetch(ctx, itemID, location)
	if err != nil {
		return decimal.Zero, l.mapStoreError("fetch", err)
	}

	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.RemainingQuantity)
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, itemID, location, total); err != nil {
			l.logger.Warn("stock cache write failed", zap.Error(err))
		}
	}
	return total, nil
}

// BatchHistory returns every batch ever recorded for the item at the
// location, deleted batches included.
func (l *BatchLedger) BatchHistory(ctx context.Context, itemID uuid.UUID, location inventory.Location) ([]BatchResponse, error) {
	if itemID == uuid.Nil {
		return nil, &inventory.InvalidRequestError{Message: "item id cannot be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, l.storeTimeout)
	defer cancel()

	batches, err := l.store.History(ctx, itemID, location)
	if err != nil {
		return nil, l.mapStoreError("history", err)
	}

	responses := make([]BatchResponse, 0, len(batches))
	for i := range batches {
		responses = append(responses, ToBatchResponse(&batches[i]))
	}
	return responses, nil
}

// GetBatch returns a single batch by ID, deleted or not
func (l *BatchLedger) GetBatch(ctx context.Context, batchID uuid.UUID) (*BatchResponse, error) {
	if batchID == uuid.Nil {
		return nil, &inventory.InvalidRequestError{Message: "batch id cannot be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, l.storeTimeout)
	defer cancel()

	batch, err := l.store.FindByID(ctx, batchID)
	if err != nil {
		return nil, l.mapStoreError("find", err)
	}
	resp := ToBatchResponse(batch)
	return &resp, nil
}

// recordAudit ships the audit entry without blocking the caller
func (l *BatchLedger) recordAudit(batch inventory.StockBatch, req inventory.AdjustmentRequest) {
	if l.audit == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()

		entry := inventory.AuditEntry{
			BatchID:           batch.ID,
			ActorID:           req.ActorID,
			Request:           req,
			ResultingStatus:   batch.Status,
			ResultingQuantity: batch.RemainingQuantity.String(),
		}
		if err := l.audit.Record(ctx, entry); err != nil {
			l.logger.Error("audit record failed",
				zap.String("batch_id", batch.ID.String()),
				zap.Error(err))
		}
	}()
}

// invalidateSaleCache drops cached totals for every item a sale touched
func (l *BatchLedger) invalidateSaleCache(ctx context.Context, req SaleRequest) {
	for _, line := range req.Lines {
		l.invalidateCache(ctx, line.ItemID, req.Location)
	}
}

func (l *BatchLedger) invalidateCache(ctx context.Context, itemID uuid.UUID, location inventory.Location) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Invalidate(ctx, itemID, location); err != nil {
		l.logger.Warn("stock cache invalidation failed",
			zap.String("item_id", itemID.String()),
			zap.Error(err))
	}
}

// backoff sleeps linearly with the attempt number, cut short by ctx
func (l *BatchLedger) backoff(ctx context.Context, attempt int) {
	timer := time.NewTimer(time.Duration(attempt) * l.retryBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// mapStoreError translates storage failures into the ledger's error
// taxonomy. Domain errors pass through untouched; anything else,
// deadline expiry included, is a store availability problem.
func (l *BatchLedger) mapStoreError(op string, err error) error {
	var itemNotFound *inventory.ItemNotFoundError
	if errors.As(err, &itemNotFound) {
		return err
	}
	if errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return &inventory.StoreUnavailableError{Op: op, Err: err}
}
