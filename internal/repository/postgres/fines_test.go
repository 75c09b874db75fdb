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

func newFineRepo(t *testing.T) (*FineRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewFineRepository(db, zap.NewNop(), metrics.NewMetrics("test", nil, "")), mock
}

func TestFineRepository_Totals(t *testing.T) {
	repo, mock := newFineRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(totalsQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "min", "max"}).
			AddRow(int64(2), 250.0, int64(2020), int64(2021)))

	totals, err := repo.Totals(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), totals.Count)
	assert.InDelta(t, 250.0, totals.Amount, 0.001)
	require.NotNil(t, totals.EarliestYear)
	require.NotNil(t, totals.LatestYear)
	assert.Equal(t, 2020, *totals.EarliestYear)
	assert.Equal(t, 2021, *totals.LatestYear)
}

func TestFineRepository_Totals_Empty(t *testing.T) {
	repo, mock := newFineRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(totalsQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "min", "max"}).
			AddRow(int64(0), 0.0, nil, nil))

	totals, err := repo.Totals(context.Background())
	require.NoError(t, err)

	assert.Zero(t, totals.Count)
	assert.Zero(t, totals.Amount)
	assert.Nil(t, totals.EarliestYear)
	assert.Nil(t, totals.LatestYear)
}

func TestFineRepository_Totals_Error(t *testing.T) {
	repo, mock := newFineRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(totalsQuery)).WillReturnError(errors.New("connection refused"))

	_, err := repo.Totals(context.Background())
	assert.EqualError(t, err, "connection refused")
}

func TestFineRepository_Latest(t *testing.T) {
	repo, mock := newFineRepo(t)

	issued := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(latestQuery)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"firm", "amount", "date", "breach", "url"}).
			AddRow("Example Bank plc", 1250000.0, issued, "Systems and controls", "https://www.fca.org.uk/n/1").
			AddRow("J. Smith", 45000.0, issued.AddDate(0, -1, 0), "", ""))

	fines, err := repo.Latest(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, fines, 2)
	assert.Equal(t, models.LatestFine{
		Firm:       "Example Bank plc",
		Amount:     1250000,
		Date:       "2024-03-14",
		BreachType: "Systems and controls",
		NoticeURL:  "https://www.fca.org.uk/n/1",
	}, fines[0])
	assert.Equal(t, "2024-02-14", fines[1].Date)
}

func TestFineRepository_Latest_ScanError(t *testing.T) {
	repo, mock := newFineRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(latestQuery)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"firm", "amount", "date", "breach", "url"}).
			AddRow("Broken", "not-a-number", "not-a-date", "", ""))

	_, err := repo.Latest(context.Background(), 10)
	assert.Error(t, err)
}

func TestFineRepository_YearTotals(t *testing.T) {
	repo, mock := newFineRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(yearTotalsQuery)).
		WithArgs(2021, 2020).
		WillReturnRows(sqlmock.NewRows([]string{"year", "count", "sum"}).
			AddRow(int64(2021), int64(1), 150.0).
			AddRow(int64(2020), int64(1), 100.0))

	totals, err := repo.YearTotals(context.Background(), 2021)
	require.NoError(t, err)

	assert.Equal(t, []models.YearTotal{
		{Year: 2021, Count: 1, Amount: 150},
		{Year: 2020, Count: 1, Amount: 100},
	}, totals)
}
