package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Nazarious-ucu/fca-fines-api/internal/metrics"
	"github.com/Nazarious-ucu/fca-fines-api/internal/models"
	"github.com/Nazarious-ucu/fca-fines-api/pkg/logger"
)

const (
	activateQuery = `
		UPDATE digest_subscriptions
		SET email_verified = TRUE,
		    status = 'active',
		    verification_token = NULL,
		    verification_expires = NULL,
		    updated_at = $2
		WHERE verification_token = $1
		  AND status = 'pending'
		  AND verification_expires > $2
		RETURNING id, email, frequency`

	pendingExpiryQuery = `
		SELECT verification_expires
		FROM digest_subscriptions
		WHERE verification_token = $1 AND status = 'pending'`

	expireStaleQuery = `
		UPDATE digest_subscriptions
		SET status = 'expired',
		    verification_token = NULL,
		    updated_at = $2
		WHERE status = 'pending'
		  AND verification_expires < $1`
)

// DigestRepository owns the digest_subscriptions lifecycle transitions.
type DigestRepository struct {
	DB  *sql.DB
	log *zap.Logger
	m   *metrics.Metrics
}

func NewDigestRepository(db *sql.DB, l *zap.Logger, m *metrics.Metrics) *DigestRepository {
	return &DigestRepository{DB: db, log: l.With(zap.String("component", "DigestRepository")), m: m}
}

// Activate consumes a pending, unexpired token in a single conditional update.
// Returns models.ErrNotFound when no row qualified.
func (r *DigestRepository) Activate(
	ctx context.Context,
	token string,
	now time.Time,
) (models.DigestSubscription, error) {
	start := time.Now()
	r.log.Debug("activating digest subscription", zap.String("token", logger.MaskToken(token)))

	sub := models.DigestSubscription{Status: models.StatusActive, EmailVerified: true, UpdatedAt: now}
	var frequency string
	err := r.DB.QueryRowContext(ctx, activateQuery, token, now).Scan(&sub.ID, &sub.Email, &frequency)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DigestSubscription{}, models.ErrNotFound
	}
	if err != nil {
		r.log.Error("failed to activate digest subscription",
			zap.String("token", logger.MaskToken(token)),
			zap.Error(err),
		)
		r.m.TechnicalErrors.WithLabelValues("db_update_error", "critical").Inc()
		return models.DigestSubscription{}, err
	}
	sub.Frequency = models.Frequency(frequency)

	r.log.Info("digest subscription activated",
		zap.Int64("subscription_id", sub.ID),
		zap.Duration("duration", time.Since(start)),
	)
	return sub, nil
}

// PendingExpiry returns the expiry of a still-pending token without changing
// it. Returns models.ErrNotFound when the token is unknown or already used.
func (r *DigestRepository) PendingExpiry(ctx context.Context, token string) (time.Time, error) {
	var expires sql.NullTime
	err := r.DB.QueryRowContext(ctx, pendingExpiryQuery, token).Scan(&expires)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, models.ErrNotFound
	}
	if err != nil {
		r.log.Error("failed to query pending token expiry",
			zap.String("token", logger.MaskToken(token)),
			zap.Error(err),
		)
		r.m.TechnicalErrors.WithLabelValues("db_query_error", "critical").Inc()
		return time.Time{}, err
	}
	if !expires.Valid {
		// a pending row without an expiry can never be redeemed
		return time.Time{}, nil
	}
	return expires.Time, nil
}

// ExpireStale marks pending subscriptions whose token expired before cutoff
// as expired and clears their token.
func (r *DigestRepository) ExpireStale(ctx context.Context, cutoff, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, expireStaleQuery, cutoff, now)
	if err != nil {
		r.log.Error("failed to expire stale subscriptions", zap.Time("cutoff", cutoff), zap.Error(err))
		r.m.TechnicalErrors.WithLabelValues("db_update_error", "critical").Inc()
		return 0, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		r.m.TechnicalErrors.WithLabelValues("db_rows_error", "critical").Inc()
		return 0, err
	}

	r.log.Info("stale digest subscriptions expired",
		zap.Time("cutoff", cutoff),
		zap.Int64("count", count),
	)
	return count, nil
}
