package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stocktrackza/stocktrack_api/internal/clock"
	"github.com/stocktrackza/stocktrack_api/internal/mailer"
	"github.com/stocktrackza/stocktrack_api/internal/models"
)

// alertCategorySource lists categories eligible for alerting and flips
// their latch.
type alertCategorySource interface {
	ListUnalerted(ctx context.Context, storeID int) ([]models.Category, error)
	SetAlerted(ctx context.Context, categoryID int, alerted bool) error
}

// stockCounter counts live in-stock routers.
type stockCounter interface {
	CountInStockByCategory(ctx context.Context, categoryID int) (int, error)
	CountInStockByStore(ctx context.Context, storeID int) (int, error)
}

// notificationMarker records that a store was notified on a given day.
// The insert reports whether this call claimed the day.
type notificationMarker interface {
	CreateOnce(ctx context.Context, storeID int, day time.Time) (bool, error)
}

// AlertService watches stock levels: it latches per-category alerts and
// sends at most one low-stock email per store per day.
type AlertService struct {
	categories    alertCategorySource
	routers       stockCounter
	notifications notificationMarker
	users         staffDirectory
	mail          mailer.Sink
	clk           clock.Clock
}

// NewAlertService constructs an AlertService.
func NewAlertService(categories alertCategorySource, routers stockCounter, notifications notificationMarker, users staffDirectory, mail mailer.Sink, clk clock.Clock) *AlertService {
	return &AlertService{
		categories:    categories,
		routers:       routers,
		notifications: notifications,
		users:         users,
		mail:          mail,
		clk:           clk,
	}
}

// EvaluateAlerts latches every category of the store whose in-stock count
// fell below its threshold. The latch stays up until new stock arrives.
func (s *AlertService) EvaluateAlerts(ctx context.Context, store *models.Store) error {
	categories, err := s.categories.ListUnalerted(ctx, store.ID)
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
		if count >= cat.AlertOn {
			continue
		}
		if err := s.categories.SetAlerted(ctx, cat.ID, true); err != nil {
			log.Error().Err(err).Int("category_id", cat.ID).Msg("Failed to latch category alert")
			lastErr = err
			continue
		}
		log.Info().
			Int("store_id", store.ID).
			Int("category_id", cat.ID).
			Str("category", cat.Name).
			Int("count", count).
			Msg("Category stock below threshold")
	}
	return lastErr
}

// CheckStoreThreshold sends the store's low-stock email when its total
// in-stock count is below the store threshold. A notification row keyed on
// (store, day) guarantees at most one email per day no matter how many
// callers race here.
func (s *AlertService) CheckStoreThreshold(ctx context.Context, store *models.Store) error {
	count, err := s.routers.CountInStockByStore(ctx, store.ID)
	if err != nil {
		return err
	}
	if count >= store.AlertOn {
		return nil
	}

	claimed, err := s.notifications.CreateOnce(ctx, store.ID, clock.Today(s.clk))
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	recipients, err := s.users.EmailsByStore(ctx, store.ID, nil)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}
	body := fmt.Sprintf("You have %d routers on your store", count)
	if err := s.mail.Send(ctx, recipients, "LOW STOCK LEVEL", body); err != nil {
		log.Error().Err(err).Int("store_id", store.ID).Msg("Failed to send low stock email")
	}
	return nil
}
