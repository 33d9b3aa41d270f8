package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stocktrackza/stocktrack_api/internal/clock"
	"github.com/stocktrackza/stocktrack_api/internal/models"
)

// defaultTrendDays is the dashboard window when the caller does not ask
// for a specific range.
const defaultTrendDays = 5

// categoryLister lists a store's live categories.
type categoryLister interface {
	ListByStore(ctx context.Context, storeID int) ([]models.Category, error)
}

// snapshotStore reads and writes daily stock snapshots.
type snapshotStore interface {
	Upsert(ctx context.Context, m *models.Monitoring) error
	ForDay(ctx context.Context, storeID, categoryID int, day time.Time) (*models.Monitoring, error)
	SumForDay(ctx context.Context, storeID int, day time.Time) (int, bool, error)
}

// storeLister lists all stores for the daily sweep.
type storeLister interface {
	List(ctx context.Context) ([]models.Store, error)
}

// sweepLocker serializes the daily sweep per store across instances.
type sweepLocker interface {
	Acquire(ctx context.Context, storeID int, day time.Time) (bool, error)
	Release(ctx context.Context, storeID int, day time.Time) error
}

// MonitoringService records one stock snapshot per store category per day
// and serves trend series from them.
type MonitoringService struct {
	categories categoryLister
	routers    stockCounter
	snapshots  snapshotStore
	stores     storeLister
	lock       sweepLocker
	alerts     *AlertService
	clk        clock.Clock
}

// NewMonitoringService constructs a MonitoringService.
func NewMonitoringService(categories categoryLister, routers stockCounter, snapshots snapshotStore, stores storeLister, lock sweepLocker, alerts *AlertService, clk clock.Clock) *MonitoringService {
	return &MonitoringService{
		categories: categories,
		routers:    routers,
		snapshots:  snapshots,
		stores:     stores,
		lock:       lock,
		alerts:     alerts,
		clk:        clk,
	}
}

// TrendPoint is one day of a stock trend series.
type TrendPoint struct {
	Day     time.Time `json:"day"`
	Routers int       `json:"routers"`
}

// SnapshotToday writes today's snapshot for every category of the store.
// Re-running on the same day overwrites the counts, so the last run of a
// day wins.
func (s *MonitoringService) SnapshotToday(ctx context.Context, store *models.Store) error {
	today := clock.Today(s.clk)
	categories, err := s.categories.ListByStore(ctx, store.ID)
	if err != nil {
		return err
	}
	var lastErr error
	for _, cat := range categories {
		count, err := s.routers.CountInStockByCategory(ctx, cat.ID)
		if err != nil {
			log.Error().Err(err).Int("category_id", cat.ID).Msg("Failed to count category stock")
			lastErr = err
			continue
		}
		catID := cat.ID
		m := &models.Monitoring{
			StoreID:    store.ID,
			CategoryID: &catID,
			Routers:    count,
			Day:        today,
		}
		if err := s.snapshots.Upsert(ctx, m); err != nil {
			log.Error().Err(err).Int("category_id", cat.ID).Msg("Failed to store snapshot")
			lastErr = err
		}
	}
	return lastErr
}

// Trend returns the last daysBack days of one category's stock counts,
// ending today. Today's point is counted live; past days come from
// snapshots, with gaps carried forward from the last known day.
func (s *MonitoringService) Trend(ctx context.Context, store *models.Store, categoryID, daysBack int) ([]TrendPoint, error) {
	if daysBack <= 0 {
		daysBack = defaultTrendDays
	}
	today := clock.Today(s.clk)
	days := windowDays(today, daysBack)

	counts := make([]int, len(days))
	known := make([]bool, len(days))
	for i, day := range days {
		if day.Equal(today) {
			count, err := s.routers.CountInStockByCategory(ctx, categoryID)
			if err != nil {
				return nil, err
			}
			counts[i], known[i] = count, true
			continue
		}
		m, err := s.snapshots.ForDay(ctx, store.ID, categoryID, day)
		if err != nil {
			return nil, err
		}
		if m != nil {
			counts[i], known[i] = m.Routers, true
		}
	}
	return assemblePoints(days, resolveSeries(counts, known)), nil
}

// StoreTrend is Trend aggregated over every category of the store.
func (s *MonitoringService) StoreTrend(ctx context.Context, store *models.Store, daysBack int) ([]TrendPoint, error) {
	if daysBack <= 0 {
		daysBack = defaultTrendDays
	}
	today := clock.Today(s.clk)
	days := windowDays(today, daysBack)

	counts := make([]int, len(days))
	known := make([]bool, len(days))
	for i, day := range days {
		if day.Equal(today) {
			count, err := s.routers.CountInStockByStore(ctx, store.ID)
			if err != nil {
				return nil, err
			}
			counts[i], known[i] = count, true
			continue
		}
		total, found, err := s.snapshots.SumForDay(ctx, store.ID, day)
		if err != nil {
			return nil, err
		}
		if found {
			counts[i], known[i] = total, true
		}
	}
	return assemblePoints(days, resolveSeries(counts, known)), nil
}

// SweepAll runs the daily snapshot and alert pass over every store. Each
// store's day is claimed through the sweep lock so only one instance does
// the work; a failed snapshot releases the claim for a later retry.
func (s *MonitoringService) SweepAll(ctx context.Context) error {
	today := clock.Today(s.clk)
	stores, err := s.stores.List(ctx)
	if err != nil {
		return err
	}
	for i := range stores {
		store := &stores[i]
		acquired, err := s.lock.Acquire(ctx, store.ID, today)
		if err != nil {
			log.Error().Err(err).Int("store_id", store.ID).Msg("Sweep lock acquire failed")
			continue
		}
		if !acquired {
			continue
		}
		if err := s.SnapshotToday(ctx, store); err != nil {
			log.Error().Err(err).Int("store_id", store.ID).Msg("Daily snapshot failed")
			if rerr := s.lock.Release(ctx, store.ID, today); rerr != nil {
				log.Error().Err(rerr).Int("store_id", store.ID).Msg("Sweep lock release failed")
			}
			continue
		}
		if err := s.alerts.EvaluateAlerts(ctx, store); err != nil {
			log.Error().Err(err).Int("store_id", store.ID).Msg("Alert evaluation failed")
		}
		if err := s.alerts.CheckStoreThreshold(ctx, store); err != nil {
			log.Error().Err(err).Int("store_id", store.ID).Msg("Stock threshold check failed")
		}
		log.Info().Int("store_id", store.ID).Str("day", today.Format("2006-01-02")).Msg("Daily snapshot complete")
	}
	return nil
}

// windowDays lists the daysBack calendar days ending at today, oldest first.
func windowDays(today time.Time, daysBack int) []time.Time {
	days := make([]time.Time, daysBack)
	for i := 0; i < daysBack; i++ {
		days[i] = today.AddDate(0, 0, i-daysBack+1)
	}
	return days
}

// resolveSeries fills gaps in a daily series: an unknown day repeats the
// previous day's value, and unknown days before any known value are zero.
func resolveSeries(counts []int, known []bool) []int {
	out := make([]int, len(counts))
	for i := range counts {
		switch {
		case known[i]:
			out[i] = counts[i]
		case i > 0:
			out[i] = out[i-1]
		default:
			out[i] = 0
		}
	}
	return out
}

func assemblePoints(days []time.Time, counts []int) []TrendPoint {
	points := make([]TrendPoint, len(days))
	for i := range days {
		points[i] = TrendPoint{Day: days[i], Routers: counts[i]}
	}
	return points
}
