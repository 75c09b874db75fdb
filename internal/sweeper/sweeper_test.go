package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/fca-fines-api/internal/metrics"
)

type mockRepo struct {
	cutoffs []time.Time
	n       int64
	err     error
}

func (m *mockRepo) ExpireStale(_ context.Context, cutoff, _ time.Time) (int64, error) {
	m.cutoffs = append(m.cutoffs, cutoff)
	return m.n, m.err
}

func TestRunOnce_UsesGraceCutoff(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	repo := &mockRepo{n: 4}
	m := metrics.NewMetrics("test", nil, "")

	s := New(repo, zap.NewNop(), "@every 1h", 48*time.Hour, m)
	s.now = func() time.Time { return now }

	got := s.RunOnce(context.Background())

	assert.Equal(t, int64(4), got)
	assert.Equal(t, []time.Time{now.Add(-48 * time.Hour)}, repo.cutoffs)
	assert.InDelta(t, 4, testutil.ToFloat64(m.SubscriptionsSwept), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CronRuns.WithLabelValues(jobName)), 0)
}

func TestRunOnce_Error(t *testing.T) {
	repo := &mockRepo{err: errors.New("db down")}
	m := metrics.NewMetrics("test", nil, "")

	s := New(repo, zap.NewNop(), "@every 1h", time.Hour, m)

	assert.Zero(t, s.RunOnce(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(m.TechnicalErrors.WithLabelValues("sweep_error", "critical")), 0)
}

func TestStart_InvalidSpec(t *testing.T) {
	s := New(&mockRepo{}, zap.NewNop(), "not a cron spec", time.Hour, metrics.NewMetrics("test", nil, ""))

	assert.Error(t, s.Start(context.Background()))
}

func TestStartStop(t *testing.T) {
	s := New(&mockRepo{}, zap.NewNop(), "0 */6 * * *", time.Hour, metrics.NewMetrics("test", nil, ""))

	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}
