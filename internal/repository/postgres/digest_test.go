package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/fca-fines-api/internal/metrics"
	"github.com/Nazarious-ucu/fca-fines-api/internal/models"
)

func newDigestRepo(t *testing.T) (*DigestRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewDigestRepository(db, zap.NewNop(), metrics.NewMetrics("test", nil, "")), mock
}

func TestDigestRepository_Activate(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

	t.Run("pending token is consumed", func(t *testing.T) {
		repo, mock := newDigestRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(activateQuery)).
			WithArgs("tok1", now).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "frequency"}).
				AddRow(int64(7), "reader@example.com", "weekly"))

		sub, err := repo.Activate(context.Background(), "tok1", now)
		require.NoError(t, err)

		assert.Equal(t, int64(7), sub.ID)
		assert.Equal(t, "reader@example.com", sub.Email)
		assert.Equal(t, models.FrequencyWeekly, sub.Frequency)
		assert.Equal(t, models.StatusActive, sub.Status)
		assert.True(t, sub.EmailVerified)
	})

	t.Run("no qualifying row", func(t *testing.T) {
		repo, mock := newDigestRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(activateQuery)).
			WithArgs("abc", now).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "frequency"}))

		_, err := repo.Activate(context.Background(), "abc", now)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("database failure", func(t *testing.T) {
		repo, mock := newDigestRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(activateQuery)).
			WithArgs("tok1", now).
			WillReturnError(errors.New("db down"))

		_, err := repo.Activate(context.Background(), "tok1", now)
		require.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrNotFound)
	})
}

func TestDigestRepository_PendingExpiry(t *testing.T) {
	expires := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newDigestRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(pendingExpiryQuery)).
			WithArgs("tok").
			WillReturnRows(sqlmock.NewRows([]string{"verification_expires"}).AddRow(expires))

		got, err := repo.PendingExpiry(context.Background(), "tok")
		require.NoError(t, err)
		assert.True(t, expires.Equal(got))
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newDigestRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(pendingExpiryQuery)).
			WithArgs("tok").
			WillReturnRows(sqlmock.NewRows([]string{"verification_expires"}))

		_, err := repo.PendingExpiry(context.Background(), "tok")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("null expiry", func(t *testing.T) {
		repo, mock := newDigestRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(pendingExpiryQuery)).
			WithArgs("tok").
			WillReturnRows(sqlmock.NewRows([]string{"verification_expires"}).AddRow(nil))

		got, err := repo.PendingExpiry(context.Background(), "tok")
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})
}

func TestDigestRepository_ExpireStale(t *testing.T) {
	repo, mock := newDigestRepo(t)

	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-168 * time.Hour)
	mock.ExpectExec(regexp.QuoteMeta(expireStaleQuery)).
		WithArgs(cutoff, now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ExpireStale(context.Background(), cutoff, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
