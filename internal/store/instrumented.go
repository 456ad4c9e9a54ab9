package store

import (
	"context"
	"time"

	"github.com/pageza/afrocuisto-cms/backend/internal/model"
	"github.com/pageza/afrocuisto-cms/backend/internal/observability"
)

// InstrumentedStore records every call of the wrapped store in the collector.
type InstrumentedStore struct {
	next    RecordStore
	metrics *observability.Collector
}

func NewInstrumentedStore(next RecordStore, metrics *observability.Collector) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: metrics}
}

func (s *InstrumentedStore) List(ctx context.Context) ([]model.Recipe, error) {
	started := time.Now()
	recipes, err := s.next.List(ctx)
	s.metrics.ObserveStore("list", started, err)
	return recipes, err
}

func (s *InstrumentedStore) Upsert(ctx context.Context, recipe model.Recipe) ([]model.Recipe, error) {
	started := time.Now()
	written, err := s.next.Upsert(ctx, recipe)
	s.metrics.ObserveStore("upsert", started, err)
	return written, err
}

func (s *InstrumentedStore) Delete(ctx context.Context, id string) error {
	started := time.Now()
	err := s.next.Delete(ctx, id)
	s.metrics.ObserveStore("delete", started, err)
	return err
}
