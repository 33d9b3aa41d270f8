package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stocktrackza/stocktrack_api/internal/models"
	"github.com/stocktrackza/stocktrack_api/internal/repository"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

// storeReader fetches a single store.
type storeReader interface {
	GetByID(ctx context.Context, id int) (*models.Store, error)
}

// InventoryService manages routers and categories directly: creation,
// imports, edits, soft deletes. Every mutation commits with its audit
// log row.
type InventoryService struct {
	store  txRunner
	stores storeReader
	alerts *AlertService
}

// NewInventoryService constructs an InventoryService.
func NewInventoryService(store txRunner, stores storeReader, alerts *AlertService) *InventoryService {
	return &InventoryService{store: store, stores: stores, alerts: alerts}
}

// CreateRouterRequest carries the input for a single router creation.
type CreateRouterRequest struct {
	CategoryID   int
	SerialNumber string
	IMEI         string
}

// CreateRouter adds one router to the store's stock. New stock drops the
// category's alert latch so the next shortage can alert again.
func (s *InventoryService) CreateRouter(ctx context.Context, store *models.Store, actor *models.User, req CreateRouterRequest) (*models.Router, error) {
	req.SerialNumber = strings.TrimSpace(req.SerialNumber)
	if req.SerialNumber == "" {
		return nil, utils.ErrInvalidAction
	}
	var router *models.Router
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		cat, err := tx.CategoryByID(ctx, req.CategoryID)
		if err != nil {
			return err
		}
		if cat == nil || cat.StoreID != store.ID || cat.Deleted {
			return utils.ErrCategoryNotFound
		}
		router = &models.Router{
			StoreID:      &store.ID,
			CategoryID:   &cat.ID,
			SerialNumber: req.SerialNumber,
			Status:       models.StatusInStock,
		}
		if req.IMEI != "" {
			imei := req.IMEI
			router.IMEI = &imei
		}
		if err := tx.CreateRouter(ctx, router); err != nil {
			return err
		}
		if cat.Alerted {
			cat.Alerted = false
			if err := tx.UpdateCategory(ctx, cat); err != nil {
				return err
			}
		}
		return logRouter(ctx, tx, store.ID, actor, router, models.LogAdd)
	})
	if err != nil {
		return nil, err
	}
	go s.checkThreshold(store)
	return router, nil
}

// BulkCreateRouters adds a batch of serials to one category. Serials that
// already exist are skipped; the rest are created. Returns how many were
// created.
func (s *InventoryService) BulkCreateRouters(ctx context.Context, store *models.Store, actor *models.User, categoryID int, serials []string) (int, error) {
	created := 0
	for _, serial := range serials {
		serial = strings.TrimSpace(serial)
		if serial == "" {
			continue
		}
		_, err := s.CreateRouter(ctx, store, actor, CreateRouterRequest{CategoryID: categoryID, SerialNumber: serial})
		if err != nil {
			if errors.Is(err, utils.ErrDuplicateSerial) {
				log.Warn().Str("serial_number", serial).Msg("Skipping duplicate serial in bulk create")
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}

// RouterImport is one row of an inventory import file.
type RouterImport struct {
	SerialNumber string `json:"serialNumber"`
	IMEI         string `json:"imei,omitempty"`
	CategoryName string `json:"category"`
}

// ImportRouters loads exported inventory into the store. Unknown serials
// are created, soft-deleted ones are reactivated, live ones are left
// alone. Returns how many rows were applied.
func (s *InventoryService) ImportRouters(ctx context.Context, store *models.Store, actor *models.User, rows []RouterImport) (int, error) {
	applied := 0
	for _, row := range rows {
		serial := strings.TrimSpace(row.SerialNumber)
		if serial == "" {
			continue
		}
		err := s.store.InTx(ctx, func(tx repository.Tx) error {
			cat, err := tx.CategoryByName(ctx, store.ID, row.CategoryName)
			if err != nil {
				return err
			}
			if cat == nil {
				return utils.ErrCategoryNotFound
			}
			existing, err := tx.RouterBySerial(ctx, serial)
			if err != nil {
				return err
			}
			switch {
			case existing == nil:
				router := &models.Router{
					StoreID:      &store.ID,
					CategoryID:   &cat.ID,
					SerialNumber: serial,
					Status:       models.StatusInStock,
				}
				if row.IMEI != "" {
					imei := row.IMEI
					router.IMEI = &imei
				}
				if err := tx.CreateRouter(ctx, router); err != nil {
					return err
				}
				applied++
				return logRouter(ctx, tx, store.ID, actor, router, models.LogAdd)
			case existing.Deleted:
				if err := reactivate(ctx, tx, store, actor, existing, cat.ID, row.IMEI); err != nil {
					return err
				}
				applied++
				return nil
			default:
				log.Debug().Str("serial_number", serial).Msg("Import row already live, skipping")
				return nil
			}
		})
		if err != nil {
			return applied, err
		}
	}
	go s.checkThreshold(store)
	return applied, nil
}

// ReactivateRouter brings a soft-deleted router back into the store's
// stock under the given category.
func (s *InventoryService) ReactivateRouter(ctx context.Context, store *models.Store, actor *models.User, routerID, categoryID int, imei string) (*models.Router, error) {
	var router *models.Router
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		router, err = tx.RouterByID(ctx, routerID)
		if err != nil {
			return err
		}
		if router == nil || !router.Deleted {
			return utils.ErrRouterNotFound
		}
		return reactivate(ctx, tx, store, actor, router, categoryID, imei)
	})
	if err != nil {
		return nil, err
	}
	go s.checkThreshold(store)
	return router, nil
}

// reactivate undeletes a router into the acting store. Runs inside the
// caller's transaction.
func reactivate(ctx context.Context, tx repository.Tx, store *models.Store, actor *models.User, router *models.Router, categoryID int, imei string) error {
	cat, err := tx.CategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat == nil || cat.StoreID != store.ID || cat.Deleted {
		return utils.ErrCategoryNotFound
	}
	router.Deleted = false
	router.StoreID = &store.ID
	router.CategoryID = &cat.ID
	router.Status = models.StatusInStock
	if imei != "" {
		router.IMEI = &imei
	}
	if err := tx.UpdateRouter(ctx, router); err != nil {
		return err
	}
	return logRouter(ctx, tx, store.ID, actor, router, models.LogAdd)
}

// EditRouterRequest carries the editable fields of a router.
type EditRouterRequest struct {
	CategoryID   int
	SerialNumber string
	IMEI         string
	Status       models.RouterStatus
}

// EditRouter updates a router's identifying fields and status.
func (s *InventoryService) EditRouter(ctx context.Context, store *models.Store, actor *models.User, routerID int, req EditRouterRequest) (*models.Router, error) {
	var router *models.Router
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		router, err = tx.RouterByID(ctx, routerID)
		if err != nil {
			return err
		}
		if router == nil || router.Deleted || !router.InStore(store.ID) {
			return utils.ErrRouterNotFound
		}
		if req.CategoryID != 0 {
			cat, err := tx.CategoryByID(ctx, req.CategoryID)
			if err != nil {
				return err
			}
			if cat == nil || cat.StoreID != store.ID || cat.Deleted {
				return utils.ErrCategoryNotFound
			}
			router.CategoryID = &cat.ID
		}
		if serial := strings.TrimSpace(req.SerialNumber); serial != "" {
			router.SerialNumber = serial
		}
		if req.IMEI != "" {
			imei := req.IMEI
			router.IMEI = &imei
		}
		if req.Status != "" {
			switch req.Status {
			case models.StatusInStock, models.StatusNewSale, models.StatusCollected, models.StatusReturn, models.StatusSwap:
				router.Status = req.Status
			default:
				return utils.ErrInvalidAction
			}
		}
		if err := tx.UpdateRouter(ctx, router); err != nil {
			return err
		}
		return logRouter(ctx, tx, store.ID, actor, router, models.LogEdit)
	})
	if err != nil {
		return nil, err
	}
	go s.checkThreshold(store)
	return router, nil
}

// DeleteRouter soft-deletes a router. The row stays behind for audit
// history and global serial lookups.
func (s *InventoryService) DeleteRouter(ctx context.Context, store *models.Store, actor *models.User, routerID int) error {
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		router, err := tx.RouterByID(ctx, routerID)
		if err != nil {
			return err
		}
		if router == nil || router.Deleted || !router.InStore(store.ID) {
			return utils.ErrRouterNotFound
		}
		router.Deleted = true
		if err := tx.UpdateRouter(ctx, router); err != nil {
			return err
		}
		return logRouter(ctx, tx, store.ID, actor, router, models.LogDelete)
	})
	if err != nil {
		return err
	}
	go s.checkThreshold(store)
	return nil
}

// ToggleRouterShipped flips a router's shipped flag and returns the new
// value.
func (s *InventoryService) ToggleRouterShipped(ctx context.Context, store *models.Store, actor *models.User, routerID int) (bool, error) {
	var shipped bool
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		router, err := tx.RouterByID(ctx, routerID)
		if err != nil {
			return err
		}
		if router == nil || router.Deleted || !router.InStore(store.ID) {
			return utils.ErrRouterNotFound
		}
		router.Shipped = !router.Shipped
		shipped = router.Shipped
		if err := tx.UpdateRouter(ctx, router); err != nil {
			return err
		}
		return logRouter(ctx, tx, store.ID, actor, router, models.LogEdit)
	})
	return shipped, err
}

// SwitchStore reassigns a router to another store, typically to settle a
// repatriated return.
func (s *InventoryService) SwitchStore(ctx context.Context, actor *models.User, routerID, newStoreID int) (*models.Router, error) {
	target, err := s.stores.GetByID(ctx, newStoreID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, utils.ErrStoreNotFound
	}
	var router *models.Router
	err = s.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		router, err = tx.RouterByID(ctx, routerID)
		if err != nil {
			return err
		}
		if router == nil || router.Deleted {
			return utils.ErrRouterNotFound
		}
		router.StoreID = &target.ID
		if err := tx.UpdateRouter(ctx, router); err != nil {
			return err
		}
		return logRouter(ctx, tx, target.ID, actor, router, models.LogEdit)
	})
	if err != nil {
		return nil, err
	}
	go s.checkThreshold(target)
	return router, nil
}

// CreateCategory adds a category to the store. A nil alertOn applies
// the default low-stock threshold.
func (s *InventoryService) CreateCategory(ctx context.Context, store *models.Store, actor *models.User, name string, ctype models.CategoryType, alertOn *int) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || !validCategoryType(ctype) {
		return nil, utils.ErrInvalidAction
	}
	threshold := models.DefaultAlertOn
	if alertOn != nil {
		threshold = *alertOn
	}
	var cat *models.Category
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		cat = &models.Category{
			StoreID: store.ID,
			Name:    name,
			Type:    ctype,
			AlertOn: threshold,
		}
		if err := tx.CreateCategory(ctx, cat); err != nil {
			return err
		}
		return logCategory(ctx, tx, store.ID, actor, cat, models.LogAdd)
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// EditCategoryRequest carries the editable fields of a category.
type EditCategoryRequest struct {
	Name    string
	Type    models.CategoryType
	AlertOn *int
}

// EditCategory updates a category's name, type or alert threshold.
func (s *InventoryService) EditCategory(ctx context.Context, store *models.Store, actor *models.User, categoryID int, req EditCategoryRequest) (*models.Category, error) {
	var cat *models.Category
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		cat, err = tx.CategoryByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if cat == nil || cat.StoreID != store.ID || cat.Deleted {
			return utils.ErrCategoryNotFound
		}
		if name := strings.TrimSpace(req.Name); name != "" {
			cat.Name = name
		}
		if req.Type != "" {
			if !validCategoryType(req.Type) {
				return utils.ErrInvalidAction
			}
			cat.Type = req.Type
		}
		if req.AlertOn != nil {
			cat.AlertOn = *req.AlertOn
		}
		if err := tx.UpdateCategory(ctx, cat); err != nil {
			return err
		}
		return logCategory(ctx, tx, store.ID, actor, cat, models.LogEdit)
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// DeleteCategory soft-deletes a category. Its routers keep their category
// reference for history.
func (s *InventoryService) DeleteCategory(ctx context.Context, store *models.Store, actor *models.User, categoryID int) error {
	return s.store.InTx(ctx, func(tx repository.Tx) error {
		cat, err := tx.CategoryByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if cat == nil || cat.StoreID != store.ID || cat.Deleted {
			return utils.ErrCategoryNotFound
		}
		cat.Deleted = true
		if err := tx.UpdateCategory(ctx, cat); err != nil {
			return err
		}
		return logCategory(ctx, tx, store.ID, actor, cat, models.LogDelete)
	})
}

func (s *InventoryService) checkThreshold(store *models.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.alerts.CheckStoreThreshold(ctx, store); err != nil {
		log.Error().Err(err).Int("store_id", store.ID).Msg("Stock threshold check failed")
	}
}

func validCategoryType(t models.CategoryType) bool {
	return t == models.CategoryIndoor || t == models.CategoryOutdoor
}

// logCategory writes the audit row for one mutated category.
func logCategory(ctx context.Context, tx repository.Tx, storeID int, actor *models.User, cat *models.Category, la models.LogAction) error {
	return tx.CreateLog(ctx, &models.LogEntry{
		StoreID:      &storeID,
		UserID:       &actor.ID,
		Action:       la,
		Instance:     models.LogCategory,
		CategoryName: &cat.Name,
		InstanceID:   cat.ID,
	})
}
