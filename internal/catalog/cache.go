// Package catalog holds the last-fetched product list. The cache is replaced
// wholesale on every successful load; a failed load keeps the previous value
// so screens keep rendering the last known catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jcmexdev/pos-counter/internal/domain"
	"github.com/jcmexdev/pos-counter/internal/pkg/cache"
)

const snapshotTTL = 24 * time.Hour

// ProductSource is the slice of the backend the cache depends on.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Cache is safe for concurrent use. Reads return the snapshot that was
// current when they started; an in-flight reload never mutates a slice a
// reader (or an open draft) is still holding.
type Cache struct {
	source    ProductSource
	snapshots cache.Cache // nil disables snapshot persistence

	mu       sync.RWMutex
	products []domain.Product
	byID     map[string]domain.Product
	loadedAt time.Time
}

func New(source ProductSource, snapshots cache.Cache) *Cache {
	return &Cache{
		source:    source,
		snapshots: snapshots,
		byID:      make(map[string]domain.Product),
	}
}

// Load fetches the product list and replaces the cached one. On failure the
// cache keeps its previous value and the error is returned; there is no retry,
// the caller must invoke Load again. A load whose context was cancelled before
// the result could be committed is discarded: the screen that asked for it is
// gone, its answer must not overwrite anyone else's state.
func (c *Cache) Load(ctx context.Context) error {
	products, err := c.source.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("catalog: load: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("catalog: load abandoned: %w", err)
	}

	c.commit(products)
	c.persistSnapshot(ctx, products)
	return nil
}

// Restore seeds the cache from the last persisted snapshot. Used at startup
// so the counter is not blind while the backend is unreachable. A missing or
// unreadable snapshot is not an error worth failing startup for.
func (c *Cache) Restore(ctx context.Context) {
	if c.snapshots == nil {
		return
	}
	raw, err := c.snapshots.Get(ctx, c.snapshotKey())
	if err != nil || raw == "" {
		return
	}
	var products []domain.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		slog.WarnContext(ctx, "catalog snapshot unreadable, ignoring", "error", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.products) > 0 {
		// A live load already won the race.
		return
	}
	c.products = products
	c.byID = indexByID(products)
}

// Products returns the cached list. The slice must be treated as read-only.
func (c *Cache) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products
}

// Lookup returns the cached product for the given id.
func (c *Cache) Lookup(id string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// PriceFor is a cart.PriceFunc over the current catalog.
func (c *Cache) PriceFor(id string) (float64, bool) {
	p, ok := c.Lookup(id)
	if !ok {
		return 0, false
	}
	return p.Price, true
}

// LoadedAt reports when the catalog was last replaced by a live load.
func (c *Cache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

func (c *Cache) commit(products []domain.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = products
	c.byID = indexByID(products)
	c.loadedAt = time.Now()
}

func (c *Cache) persistSnapshot(ctx context.Context, products []domain.Product) {
	if c.snapshots == nil {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.snapshots.Set(ctx, c.snapshotKey(), string(raw), snapshotTTL); err != nil {
		slog.WarnContext(ctx, "failed to persist catalog snapshot", "error", err)
	}
}

func (c *Cache) snapshotKey() string {
	if c.snapshots == nil {
		return "catalog:products"
	}
	return c.snapshots.GenerateKey("catalog", "products")
}

func indexByID(products []domain.Product) map[string]domain.Product {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID
}
