package store

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"

	"workboard-service/models"
)

// BreakerStore guards a backend store with a circuit breaker so a dead
// backend fails fast instead of stalling every mutation. Negative lookups are
// not failures and never trip the breaker.
type BreakerStore struct {
	inner   Store
	breaker *gobreaker.CircuitBreaker
}

func NewBreakerStore(inner Store, breaker *gobreaker.CircuitBreaker) *BreakerStore {
	return &BreakerStore{inner: inner, breaker: breaker}
}

func (s *BreakerStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.breaker.Execute(func() (interface{}, error) {
		raw, err := s.inner.Get(ctx, key)
		if errors.Is(err, models.ErrNotFound) {
			// A miss is a valid answer; report it outside the breaker.
			return notFoundResult{err: err}, nil
		}
		return raw, err
	})
	if err != nil {
		return "", err
	}
	if miss, ok := value.(notFoundResult); ok {
		return "", miss.err
	}
	return value.(string), nil
}

func (s *BreakerStore) Set(ctx context.Context, key, value string) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.inner.Set(ctx, key, value)
	})
	return err
}

func (s *BreakerStore) Delete(ctx context.Context, key string) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.inner.Delete(ctx, key)
	})
	return err
}

type notFoundResult struct {
	err error
}
