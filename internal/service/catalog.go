package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pageza/afrocuisto-cms/backend/internal/logger"
	"github.com/pageza/afrocuisto-cms/backend/internal/model"
	"github.com/pageza/afrocuisto-cms/backend/internal/observability"
	"github.com/pageza/afrocuisto-cms/backend/internal/store"
)

// Catalog owns the in-memory record set fetched from the record store.
// Every accessor hands out deep copies.
type Catalog struct {
	store   store.RecordStore
	log     *logger.Logger
	metrics *observability.Collector
	loading atomic.Int32

	mu      sync.RWMutex
	records []model.Recipe
	started uint64
	applied uint64
}

// NewCatalog creates an empty catalog. metrics may be nil.
func NewCatalog(s store.RecordStore, log *logger.Logger, metrics *observability.Collector) *Catalog {
	return &Catalog{
		store:   s,
		log:     log.With("service", "Catalog"),
		metrics: metrics,
		records: []model.Recipe{},
	}
}

// FetchAll replaces the whole set with the store's current contents.
// On failure the previous set is kept and the error is only logged; it is
// returned for callers that want to know.
// When fetches overlap, the most recently started one wins.
func (c *Catalog) FetchAll(ctx context.Context) error {
	c.loading.Add(1)
	defer c.loading.Add(-1)

	c.mu.Lock()
	c.started++
	seq := c.started
	c.mu.Unlock()

	recipes, err := c.store.List(ctx)
	if err != nil {
		c.log.Error("failed to fetch recipes", "error", err)
		return err
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.applied {
		c.log.Debug("discarding stale catalog fetch", "seq", seq, "applied", c.applied)
		return nil
	}
	c.applied = seq
	c.records = recipes
	if c.metrics != nil {
		c.metrics.CatalogSize.Set(float64(len(recipes)))
	}
	return nil
}

// Loading reports whether a fetch is in flight.
func (c *Catalog) Loading() bool {
	return c.loading.Load() > 0
}

// Records returns a copy of the full set in fetched order.
func (c *Catalog) Records() []model.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return model.CloneAll(c.records)
}

// Filter returns the records whose name or region contains query,
// ignoring case. An empty query returns everything.
func (c *Catalog) Filter(query string) []model.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return filterRecipes(c.records, query)
}

func filterRecipes(records []model.Recipe, query string) []model.Recipe {
	if query == "" {
		return model.CloneAll(records)
	}
	needle := strings.ToLower(query)
	out := []model.Recipe{}
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.Region), needle) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Find returns a copy of the record with the given id.
func (c *Catalog) Find(id string) (model.Recipe, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.records {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return model.Recipe{}, ErrRecipeNotFound
}

// Delete removes the record from the store and re-fetches. Nothing is
// removed locally when the store call fails.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		c.log.Error("failed to delete recipe", "id", id, "error", err)
		return err
	}
	return c.FetchAll(ctx)
}
