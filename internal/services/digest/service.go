package digest

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Nazarious-ucu/fca-fines-api/internal/models"
	"github.com/Nazarious-ucu/fca-fines-api/pkg/logger"
)

type SubscriptionRepository interface {
	Activate(ctx context.Context, token string, now time.Time) (models.DigestSubscription, error)
	PendingExpiry(ctx context.Context, token string) (time.Time, error)
}

type outcomeRecorder interface {
	RecordVerification(outcome string)
}

type Service struct {
	repo     SubscriptionRepository
	recorder outcomeRecorder
	log      *zap.Logger
	now      func() time.Time
}

func NewService(repo SubscriptionRepository, recorder outcomeRecorder, l *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		recorder: recorder,
		log:      l.With(zap.String("component", "DigestService")),
		now:      time.Now,
	}
}

// WithClock replaces the time source used for expiry checks.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Verify consumes a digest verification token. The token is redeemed by a
// single conditional update, so concurrent requests for the same token yield
// at most one OutcomeVerified. A non-nil error always comes with
// OutcomeVerificationFailed.
func (s *Service) Verify(ctx context.Context, token string) (models.VerificationResult, error) {
	res, err := s.verify(ctx, token)
	s.recorder.RecordVerification(string(res.Outcome))
	return res, err
}

func (s *Service) verify(ctx context.Context, token string) (models.VerificationResult, error) {
	// any non-empty value goes to the lookup as presented
	if token == "" {
		return models.VerificationResult{Outcome: models.OutcomeInvalidToken}, nil
	}

	now := s.now()
	sub, err := s.repo.Activate(ctx, token, now)
	if err == nil {
		s.log.Info("digest subscription verified",
			zap.Int64("subscription_id", sub.ID),
			zap.String("frequency", string(sub.Frequency)),
		)
		return models.VerificationResult{Outcome: models.OutcomeVerified, Subscription: sub}, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return models.VerificationResult{Outcome: models.OutcomeVerificationFailed}, err
	}

	expires, err := s.repo.PendingExpiry(ctx, token)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return models.VerificationResult{Outcome: models.OutcomeInvalidOrExpired}, nil
	case err != nil:
		return models.VerificationResult{Outcome: models.OutcomeVerificationFailed}, err
	case !expires.After(now):
		s.log.Info("expired digest token presented", zap.String("token", logger.MaskToken(token)))
		return models.VerificationResult{Outcome: models.OutcomeTokenExpired}, nil
	default:
		// pending and unexpired, yet not activated: the row changed between
		// the two statements
		return models.VerificationResult{Outcome: models.OutcomeInvalidOrExpired}, nil
	}
}
