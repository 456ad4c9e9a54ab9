package store

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/pageza/afrocuisto-cms/backend/internal/logger"
	"github.com/pageza/afrocuisto-cms/backend/internal/model"
)

// BreakerSettings holds configuration for the record store circuit breaker
type BreakerSettings struct {
	Name         string
	MinRequests  uint32
	FailureRatio float64
	Interval     time.Duration
	Timeout      time.Duration
}

// BreakerStore fails fast while the wrapped store keeps failing.
// gobreaker.ErrOpenState is returned while the breaker is open.
type BreakerStore struct {
	next RecordStore
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerStore(next RecordStore, settings BreakerSettings, log *logger.Logger) *BreakerStore {
	if settings.Name == "" {
		settings.Name = "record-store"
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     settings.Name,
		Interval: settings.Interval,
		Timeout:  settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// a caller giving up is not a backend failure
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &BreakerStore{next: next, cb: cb}
}

func (s *BreakerStore) List(ctx context.Context) ([]model.Recipe, error) {
	out, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.([]model.Recipe), nil
}

func (s *BreakerStore) Upsert(ctx context.Context, recipe model.Recipe) ([]model.Recipe, error) {
	out, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.Upsert(ctx, recipe)
	})
	if err != nil {
		return nil, err
	}
	return out.([]model.Recipe), nil
}

func (s *BreakerStore) Delete(ctx context.Context, id string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Delete(ctx, id)
	})
	return err
}

// State reports the breaker state, mostly for diagnostics.
func (s *BreakerStore) State() gobreaker.State {
	return s.cb.State()
}
