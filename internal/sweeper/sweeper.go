package sweeper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/fca-fines-api/internal/metrics"
)

const (
	timeoutDuration = 30 * time.Second
	jobName         = "digest_sweep"
)

type subscriptionRepository interface {
	ExpireStale(ctx context.Context, cutoff, now time.Time) (int64, error)
}

// Sweeper periodically retires pending digest subscriptions whose
// verification token expired more than grace ago. Active rows are never
// touched.
type Sweeper struct {
	repo   subscriptionRepository
	logger *zap.Logger
	cron   *cron.Cron
	cancel context.CancelFunc
	m      *metrics.Metrics
	spec   string
	grace  time.Duration
	now    func() time.Time
}

func New(
	repo subscriptionRepository,
	logger *zap.Logger,
	spec string,
	grace time.Duration,
	m *metrics.Metrics,
) *Sweeper {
	return &Sweeper{
		repo:   repo,
		logger: logger.With(zap.String("component", "Sweeper")),
		cron:   cron.New(),
		cancel: func() {},
		m:      m,
		spec:   spec,
		grace:  grace,
		now:    time.Now,
	}
}

// Start schedules the sweep job.
func (s *Sweeper) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		cancel()
		s.logger.Error("failed to schedule sweep job", zap.String("spec", s.spec), zap.Error(err))
		s.m.TechnicalErrors.WithLabelValues("cron_schedule_error", "critical").Inc()
		return err
	}

	s.cron.Start()
	s.logger.Info("Digest sweeper started", zap.String("spec", s.spec), zap.Duration("grace", s.grace))
	return nil
}

// Stop cancels the running job and waits for it to finish.
func (s *Sweeper) Stop() {
	s.cancel()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Digest sweeper stopped")
}

// RunOnce performs a single sweep and returns the number of rows expired.
func (s *Sweeper) RunOnce(ctx context.Context) int64 {
	var swept int64

	s.m.CronJob(jobName, func() {
		ctx, cancel := context.WithTimeout(ctx, timeoutDuration)
		defer cancel()

		now := s.now()
		n, err := s.repo.ExpireStale(ctx, now.Add(-s.grace), now)
		if err != nil {
			s.logger.Error("digest sweep failed", zap.Error(err))
			s.m.TechnicalErrors.WithLabelValues("sweep_error", "critical").Inc()
			return
		}
		swept = n
		s.m.SubscriptionsSwept.Add(float64(n))
	})

	return swept
}
