package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/fca-fines-api/internal/models"
)

const (
	timeInterval = time.Duration(30) * time.Second
	timeTimeOut  = time.Duration(15) * time.Second

	repeatNumber = 5
)

type provider interface {
	Homepage(ctx context.Context) (models.HomepageStats, error)
}

// BreakerProvider stops hitting the database after repeated failures and
// fails fast until the breaker half-opens again.
type BreakerProvider struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped provider
}

func NewBreakerProvider(name string, wrapped provider) *BreakerProvider {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    timeInterval,
		Timeout:     timeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= repeatNumber
		},
		IsSuccessful: func(err error) bool {
			// a cancelled client request says nothing about database health
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &BreakerProvider{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerProvider) Homepage(ctx context.Context) (models.HomepageStats, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.Homepage(ctx)
	})
	if err != nil {
		return models.HomepageStats{}, fmt.Errorf("%s unavailable: %w", b.name, err)
	}
	res, ok := result.(models.HomepageStats)
	if !ok {
		return models.HomepageStats{}, errors.New(b.name + " unavailable: unexpected result type")
	}
	return res, nil
}

// State reports the breaker state, mostly for tests and logs.
func (b *BreakerProvider) State() gobreaker.State {
	return b.cb.State()
}
