package stats

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Nazarious-ucu/fca-fines-api/internal/models"
)

const cacheKeyPrefix = "stats:homepage:"

type cacheClient[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
}

type sourceRecorder interface {
	RecordStatsSource(source string)
}

// CachedProvider is a read-through cache in front of a stats provider.
// Cache failures are logged and fall through to the inner provider.
type CachedProvider struct {
	inner    provider
	cache    cacheClient[models.HomepageStats]
	recorder sourceRecorder
	logger   *zap.Logger
	now      func() time.Time
}

func NewCachedProvider(
	inner provider,
	cache cacheClient[models.HomepageStats],
	recorder sourceRecorder,
	logger *zap.Logger,
) *CachedProvider {
	return &CachedProvider{
		inner:    inner,
		cache:    cache,
		recorder: recorder,
		logger:   logger.With(zap.String("component", "CachedStatsProvider")),
		now:      time.Now,
	}
}

func (p *CachedProvider) Homepage(ctx context.Context) (models.HomepageStats, error) {
	// the year is part of the key so YoY never straddles New Year
	key := cacheKeyPrefix + strconv.Itoa(p.now().Year())

	if stats, err := p.cache.Get(ctx, key); err == nil {
		p.recorder.RecordStatsSource("cache")
		return stats, nil
	}

	stats, err := p.inner.Homepage(ctx)
	if err != nil {
		return models.HomepageStats{}, err
	}
	p.recorder.RecordStatsSource("db")

	if err := p.cache.Set(ctx, key, stats); err != nil {
		p.logger.Warn("failed to cache homepage stats", zap.String("key", key), zap.Error(err))
	}
	return stats, nil
}
