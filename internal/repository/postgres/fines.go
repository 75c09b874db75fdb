package postgres

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/Nazarious-ucu/fca-fines-api/internal/metrics"
	"github.com/Nazarious-ucu/fca-fines-api/internal/models"
)

const (
	dateLayout = "2006-01-02"

	totalsQuery = `
		SELECT COUNT(*), COALESCE(SUM(amount), 0), MIN(year_issued), MAX(year_issued)
		FROM fca_fines`

	latestQuery = `
		SELECT firm_individual, amount, date_issued, COALESCE(breach_type, ''), COALESCE(notice_url, '')
		FROM fca_fines
		ORDER BY date_issued DESC
		LIMIT $1`

	yearTotalsQuery = `
		SELECT year_issued, COUNT(*), COALESCE(SUM(amount), 0)
		FROM fca_fines
		WHERE year_issued IN ($1, $2)
		GROUP BY year_issued
		ORDER BY year_issued DESC`
)

// FineRepository runs the read-only aggregate queries over fca_fines.
type FineRepository struct {
	DB  *sql.DB
	log *zap.Logger
	m   *metrics.Metrics
}

func NewFineRepository(db *sql.DB, logger *zap.Logger, m *metrics.Metrics) *FineRepository {
	return &FineRepository{DB: db, log: logger.With(zap.String("component", "FineRepository")), m: m}
}

// Totals returns the count, summed amount and year range of all fines.
// Years are nil when the table is empty.
func (r *FineRepository) Totals(ctx context.Context) (models.FineTotals, error) {
	start := time.Now()

	var (
		totals             models.FineTotals
		earliest, latestYr sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx, totalsQuery).
		Scan(&totals.Count, &totals.Amount, &earliest, &latestYr)
	if err != nil {
		r.log.Error("failed to query fine totals", zap.Error(err))
		r.m.TechnicalErrors.WithLabelValues("db_query_error", "critical").Inc()
		return models.FineTotals{}, err
	}

	totals.EarliestYear = nullableInt(earliest)
	totals.LatestYear = nullableInt(latestYr)

	r.log.Debug("fine totals loaded",
		zap.Int64("count", totals.Count),
		zap.Duration("duration", time.Since(start)),
	)
	return totals, nil
}

// Latest returns the most recent fines by issue date.
func (r *FineRepository) Latest(ctx context.Context, limit int) ([]models.LatestFine, error) {
	start := time.Now()

	rows, err := r.DB.QueryContext(ctx, latestQuery, limit)
	if err != nil {
		r.log.Error("failed to query latest fines", zap.Error(err))
		r.m.TechnicalErrors.WithLabelValues("db_query_error", "critical").Inc()
		return nil, err
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("failed to close rows after latest fines query", zap.Error(err))
		}
	}(rows)

	fines := make([]models.LatestFine, 0, limit)
	for rows.Next() {
		var (
			fine   models.LatestFine
			issued time.Time
		)
		if err := rows.Scan(&fine.Firm, &fine.Amount, &issued, &fine.BreachType, &fine.NoticeURL); err != nil {
			r.log.Error("failed to scan fine row", zap.Error(err))
			r.m.TechnicalErrors.WithLabelValues("db_scan_error", "critical").Inc()
			return nil, err
		}
		fine.Date = issued.Format(dateLayout)
		fines = append(fines, fine)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("row iteration error", zap.Error(err))
		r.m.TechnicalErrors.WithLabelValues("db_rows_error", "critical").Inc()
		return nil, err
	}

	r.log.Debug("latest fines loaded",
		zap.Int("count", len(fines)),
		zap.Duration("duration", time.Since(start)),
	)
	return fines, nil
}

// YearTotals returns per-year count and amount for year and year-1, newest
// first. Years without fines are absent from the result.
func (r *FineRepository) YearTotals(ctx context.Context, year int) ([]models.YearTotal, error) {
	rows, err := r.DB.QueryContext(ctx, yearTotalsQuery, year, year-1)
	if err != nil {
		r.log.Error("failed to query year totals", zap.Int("year", year), zap.Error(err))
		r.m.TechnicalErrors.WithLabelValues("db_query_error", "critical").Inc()
		return nil, err
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("failed to close rows after year totals query", zap.Error(err))
		}
	}(rows)

	var totals []models.YearTotal
	for rows.Next() {
		var yt models.YearTotal
		if err := rows.Scan(&yt.Year, &yt.Count, &yt.Amount); err != nil {
			r.m.TechnicalErrors.WithLabelValues("db_scan_error", "critical").Inc()
			return nil, err
		}
		totals = append(totals, yt)
	}
	return totals, rows.Err()
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
