package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Nazarious-ucu/fca-fines-api/internal/models"
)

const (
	latestFinesLimit = 10
	percent          = 100
)

type FineRepository interface {
	Totals(ctx context.Context) (models.FineTotals, error)
	Latest(ctx context.Context, limit int) ([]models.LatestFine, error)
	YearTotals(ctx context.Context, year int) ([]models.YearTotal, error)
}

// Service computes the homepage summary straight from the fines table.
type Service struct {
	repo FineRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo FineRepository, l *zap.Logger) *Service {
	return &Service{
		repo: repo,
		log:  l.With(zap.String("component", "StatsService")),
		now:  time.Now,
	}
}

// WithClock replaces the time source used to pick the current year.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Homepage runs the three independent aggregate reads concurrently and
// combines them. Any failed read fails the whole summary.
func (s *Service) Homepage(ctx context.Context) (models.HomepageStats, error) {
	currentYear := s.now().Year()

	var (
		totals models.FineTotals
		latest []models.LatestFine
		years  []models.YearTotal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.repo.Totals(gctx)
		if err != nil {
			return fmt.Errorf("fine totals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		latest, err = s.repo.Latest(gctx, latestFinesLimit)
		if err != nil {
			return fmt.Errorf("latest fines: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		years, err = s.repo.YearTotals(gctx, currentYear)
		if err != nil {
			return fmt.Errorf("year totals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.HomepageStats{}, err
	}

	stats := Summarize(totals, latest, years, currentYear)
	s.log.Debug("homepage stats computed",
		zap.Int64("total_fines", stats.TotalFines),
		zap.Int("year", currentYear),
	)
	return stats, nil
}

// Summarize combines the aggregate query results into the public response.
func Summarize(
	totals models.FineTotals,
	latest []models.LatestFine,
	years []models.YearTotal,
	currentYear int,
) models.HomepageStats {
	stats := models.HomepageStats{
		TotalFines:   totals.Count,
		TotalAmount:  totals.Amount,
		EarliestYear: totals.EarliestYear,
		LatestYear:   totals.LatestYear,
		YearsCovered: YearsCovered(totals.EarliestYear, totals.LatestYear),
		YoYChange:    YoYChange(years, currentYear),
		LatestFines:  latest,
	}
	if stats.LatestFines == nil {
		stats.LatestFines = []models.LatestFine{}
	}
	return stats
}

// YearsCovered is the inclusive span between the first and last year with
// fines. Years inside the span without fines still count.
func YearsCovered(earliest, latest *int) *int {
	if earliest == nil || latest == nil {
		return nil
	}
	span := *latest - *earliest + 1
	return &span
}

// YoYChange returns the percentage change in fined amount from the previous
// calendar year to currentYear, formatted with one decimal. It is nil when
// either year has no fines or the previous year's total is zero.
func YoYChange(years []models.YearTotal, currentYear int) *string {
	var thisYear, lastYear *models.YearTotal
	for i := range years {
		switch years[i].Year {
		case currentYear:
			thisYear = &years[i]
		case currentYear - 1:
			lastYear = &years[i]
		}
	}
	if thisYear == nil || lastYear == nil || lastYear.Amount == 0 {
		return nil
	}

	change := (thisYear.Amount - lastYear.Amount) / lastYear.Amount * percent
	if math.IsNaN(change) || math.IsInf(change, 0) {
		return nil
	}
	formatted := fmt.Sprintf("%.1f", change)
	return &formatted
}
