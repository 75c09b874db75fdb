package cache

import (
	"context"
	"errors"
	"time"
)

const (
	opGet = "get"
	opSet = "set"

	resultHit   = "hit"
	resultMiss  = "miss"
	resultOK    = "ok"
	resultError = "error"
)

type store[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
}

type recorder interface {
	RecordCacheOperation(op, result string, d time.Duration)
	RecordTechnicalError(errorType, severity string)
}

// MetricsDecorator records outcome and latency of every cache call. A miss is
// the expected ErrMiss; any other failure counts as an error so a Redis outage
// stays visible while callers fall back to the database.
type MetricsDecorator[T any] struct {
	next     store[T]
	recorder recorder
}

func NewMetricsDecorator[T any](next store[T], r recorder) *MetricsDecorator[T] {
	return &MetricsDecorator[T]{next: next, recorder: r}
}

func (d *MetricsDecorator[T]) Set(ctx context.Context, key string, value T) error {
	start := time.Now()
	err := d.next.Set(ctx, key, value)

	result := resultOK
	if err != nil {
		result = resultError
		d.recorder.RecordTechnicalError("redis_set_error", "warning")
	}
	d.recorder.RecordCacheOperation(opSet, result, time.Since(start))

	return err
}

//nolint:ireturn
func (d *MetricsDecorator[T]) Get(ctx context.Context, key string) (T, error) {
	start := time.Now()
	value, err := d.next.Get(ctx, key)

	var result string
	switch {
	case err == nil:
		result = resultHit
	case errors.Is(err, ErrMiss):
		result = resultMiss
	default:
		result = resultError
		d.recorder.RecordTechnicalError("redis_get_error", "warning")
	}
	d.recorder.RecordCacheOperation(opGet, result, time.Since(start))

	return value, err
}
