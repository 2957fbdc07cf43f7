package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// InMemoryStockCache is a process-local stock cache for single-instance
// deployments and tests. Entries expire lazily on read.
type InMemoryStockCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryEntry
	ttl     time.Duration
}

type inMemoryEntry struct {
	total     decimal.Decimal
	expiresAt time.Time
}

// NewInMemoryStockCache creates an in-memory stock cache
func NewInMemoryStockCache(ttl time.Duration) *InMemoryStockCache {
	return &InMemoryStockCache{
		entries: make(map[string]inMemoryEntry),
		ttl:     ttl,
	}
}

func inMemoryKey(itemID uuid.UUID, location inventory.Location) string {
	locationID := "-"
	if location.ID != nil {
		locationID = location.ID.String()
	}
	return itemID.String() + ":" + string(location.Type) + ":" + locationID
}

// Get returns the cached total; expired entries count as misses
func (c *InMemoryStockCache) Get(_ context.Context, itemID uuid.UUID, location inventory.Location) (decimal.Decimal, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[inMemoryKey(itemID, location)]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return decimal.Zero, false, nil
	}
	return entry.total, true, nil
}

// Set stores the total with the configured TTL
func (c *InMemoryStockCache) Set(_ context.Context, itemID uuid.UUID, location inventory.Location, total decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[inMemoryKey(itemID, location)] = inMemoryEntry{
		total:     total,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Invalidate drops the cached total
func (c *InMemoryStockCache) Invalidate(_ context.Context, itemID uuid.UUID, location inventory.Location) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, inMemoryKey(itemID, location))
	return nil
}
