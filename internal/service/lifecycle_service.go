package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stocktrackza/stocktrack_api/internal/mailer"
	"github.com/stocktrackza/stocktrack_api/internal/models"
	"github.com/stocktrackza/stocktrack_api/internal/repository"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

// txRunner runs a function inside a single database transaction.
type txRunner interface {
	InTx(ctx context.Context, fn func(repository.Tx) error) error
}

// staffDirectory resolves notification recipients for a store.
type staffDirectory interface {
	EmailsByStore(ctx context.Context, storeID int, role *models.Role) ([]string, error)
}

// LifecycleService moves routers through their lifecycle via actions.
type LifecycleService struct {
	store  txRunner
	users  staffDirectory
	mail   mailer.Sink
	alerts *AlertService
}

// NewLifecycleService constructs a LifecycleService.
func NewLifecycleService(store txRunner, users staffDirectory, mail mailer.Sink, alerts *AlertService) *LifecycleService {
	return &LifecycleService{store: store, users: users, mail: mail, alerts: alerts}
}

// ApplyActionRequest carries the input for a lifecycle action.
type ApplyActionRequest struct {
	Action      models.ActionType
	Serial1     string
	Serial2     string
	OrderNumber string
	Reason      string
	Comment     string
}

// ApplyAction executes one lifecycle action against the acting store. The
// action row, router updates and log rows commit in a single transaction;
// emails and the stock threshold check run after commit and never fail the
// request.
func (s *LifecycleService) ApplyAction(ctx context.Context, store *models.Store, actor *models.User, req ApplyActionRequest) (*models.Action, error) {
	if !req.Action.Valid() {
		return nil, utils.ErrInvalidAction
	}
	req.Serial1 = strings.TrimSpace(req.Serial1)
	req.Serial2 = strings.TrimSpace(req.Serial2)
	if req.Serial1 == "" {
		return nil, utils.ErrInvalidAction
	}
	if req.Action == models.ActionSwap && req.Serial2 == "" {
		return nil, utils.ErrInvalidAction
	}

	var (
		action  *models.Action
		router1 *models.Router
		router2 *models.Router
		moved   bool
	)
	err := s.store.InTx(ctx, func(tx repository.Tx) error {
		var err error
		var created1 bool
		router1, created1, err = s.resolvePrimary(ctx, tx, store.ID, req)
		if err != nil {
			return err
		}
		if router1 == nil {
			return utils.ErrRouterNotFound
		}

		next, terr := decideTransition(req.Action, router1.Status)
		if terr != nil {
			terr.SerialNumber = router1.SerialNumber
			return terr
		}
		moved = !router1.InStore(store.ID)
		router1.Status = next

		var created2 bool
		switch req.Action {
		case models.ActionReturn:
			router1.StoreID = &store.ID
			if req.Reason != "" {
				reason := req.Reason
				router1.Reason = &reason
			}
		case models.ActionSwap:
			router1.StoreID = &store.ID
			if req.Reason != "" {
				reason := req.Reason
				router1.Reason = &reason
			}
			router2, created2, err = s.resolveSwapPartner(ctx, tx, req.Serial2)
			if err != nil {
				return err
			}
			router2.Status = models.StatusSwap
		}

		if err := tx.UpdateRouter(ctx, router1); err != nil {
			return err
		}
		if router2 != nil {
			if err := tx.UpdateRouter(ctx, router2); err != nil {
				return err
			}
		}

		action = &models.Action{
			StoreID:  &store.ID,
			UserID:   &actor.ID,
			Type:     req.Action,
			RouterID: &router1.ID,
		}
		if req.OrderNumber != "" {
			on := req.OrderNumber
			action.OrderNumber = &on
		}
		if req.Reason != "" {
			r := req.Reason
			action.Reason = &r
		}
		if req.Comment != "" {
			c := req.Comment
			action.Comment = &c
		}
		if router2 != nil {
			action.Router2ID = &router2.ID
		}
		if err := tx.CreateAction(ctx, action); err != nil {
			return err
		}

		if err := logRouter(ctx, tx, store.ID, actor, router1, logActionFor(created1)); err != nil {
			return err
		}
		if router2 != nil {
			if err := logRouter(ctx, tx, store.ID, actor, router2, logActionFor(created2)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.afterAction(store, req, router1, router2, moved)
	return action, nil
}

// resolvePrimary finds the router the action operates on. Lookup is scoped to
// the acting store first; return and swap fall back to a global search and
// finally create the router on the fly, since returned stock often originates
// elsewhere.
func (s *LifecycleService) resolvePrimary(ctx context.Context, tx repository.Tx, storeID int, req ApplyActionRequest) (*models.Router, bool, error) {
	r, err := tx.RouterBySerialForStore(ctx, storeID, req.Serial1)
	if err != nil {
		return nil, false, err
	}
	if r != nil {
		return r, false, nil
	}
	if req.Action != models.ActionReturn && req.Action != models.ActionSwap {
		return nil, false, nil
	}
	r, err = tx.RouterBySerial(ctx, req.Serial1)
	if err != nil {
		return nil, false, err
	}
	if r != nil {
		return r, false, nil
	}
	r = &models.Router{
		StoreID:      &storeID,
		SerialNumber: req.Serial1,
		Status:       models.StatusInStock,
	}
	if err := tx.CreateRouter(ctx, r); err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// resolveSwapPartner finds or creates the replacement router handed out in a
// swap. A partner created here carries no store until someone claims it.
func (s *LifecycleService) resolveSwapPartner(ctx context.Context, tx repository.Tx, serial string) (*models.Router, bool, error) {
	r, err := tx.RouterBySerial(ctx, serial)
	if err != nil {
		return nil, false, err
	}
	if r != nil {
		return r, false, nil
	}
	r = &models.Router{
		SerialNumber: serial,
		Status:       models.StatusInStock,
	}
	if err := tx.CreateRouter(ctx, r); err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// decideTransition validates an action against the router's current status and
// returns the status it moves to. Return and swap accept any current status:
// field teams record them after the fact, so the system takes their word for it.
func decideTransition(action models.ActionType, current models.RouterStatus) (models.RouterStatus, *utils.TransitionError) {
	switch action {
	case models.ActionSale:
		if current != models.StatusInStock {
			return "", &utils.TransitionError{
				Current:   string(current),
				Attempted: string(action),
				Reason:    saleRefusal(current),
			}
		}
		return models.StatusNewSale, nil
	case models.ActionCollect:
		if current != models.StatusNewSale && current != models.StatusInStock {
			return "", &utils.TransitionError{
				Current:   string(current),
				Attempted: string(action),
				Reason:    collectRefusal(current),
			}
		}
		return models.StatusCollected, nil
	case models.ActionReturn:
		return models.StatusReturn, nil
	case models.ActionSwap:
		return models.StatusCollected, nil
	}
	return "", &utils.TransitionError{
		Current:   string(current),
		Attempted: string(action),
		Reason:    "Unknown action.",
	}
}

func saleRefusal(current models.RouterStatus) string {
	switch current {
	case models.StatusNewSale:
		return "This router is already sold."
	case models.StatusCollected:
		return "This router is already collected."
	default:
		return "This router is not in stock."
	}
}

func collectRefusal(current models.RouterStatus) string {
	switch current {
	case models.StatusCollected:
		return "This router is already collected."
	default:
		return "This router has not been sold."
	}
}

func logActionFor(created bool) models.LogAction {
	if created {
		return models.LogAdd
	}
	return models.LogEdit
}

// logRouter writes the audit row for one mutated router.
func logRouter(ctx context.Context, tx repository.Tx, storeID int, actor *models.User, r *models.Router, la models.LogAction) error {
	entry := &models.LogEntry{
		StoreID:      &storeID,
		UserID:       &actor.ID,
		Action:       la,
		Instance:     models.LogRouter,
		SerialNumber: &r.SerialNumber,
		InstanceID:   r.ID,
	}
	if r.CategoryID != nil {
		if cat, err := tx.CategoryByID(ctx, *r.CategoryID); err == nil && cat != nil {
			entry.CategoryName = &cat.Name
		}
	}
	return tx.CreateLog(ctx, entry)
}

// afterAction handles post-commit side effects: action emails and the reactive
// low-stock check. Runs detached from the request.
func (s *LifecycleService) afterAction(store *models.Store, req ApplyActionRequest, router1, router2 *models.Router, moved bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.notifyAction(ctx, store, req, router1, router2, moved)
	if err := s.alerts.CheckStoreThreshold(ctx, store); err != nil {
		log.Error().Err(err).Int("store_id", store.ID).Msg("Stock threshold check failed")
	}
}

func (s *LifecycleService) notifyAction(ctx context.Context, store *models.Store, req ApplyActionRequest, router1, router2 *models.Router, moved bool) {
	var (
		subject string
		body    string
		role    *models.Role
	)
	switch req.Action {
	case models.ActionSale:
		subject = "New sale"
		body = fmt.Sprintf("Router with Serial number %s was sold", router1.SerialNumber)
	case models.ActionReturn:
		subject = "Router Returned"
		body = fmt.Sprintf("Router with Serial number %s was returned", router1.SerialNumber)
		role = rolePtr(models.RoleStoreManager)
	case models.ActionSwap:
		subject = "Router Returned"
		body = fmt.Sprintf("Router with Serial number %s was swapped with %s", router1.SerialNumber, router2.SerialNumber)
		role = rolePtr(models.RoleStoreManager)
	default:
		return
	}
	if req.Reason != "" {
		body += fmt.Sprintf("\nreason: %s", req.Reason)
	}
	if req.Comment != "" {
		body += fmt.Sprintf("\ncomment: %s", req.Comment)
	}
	if moved && (req.Action == models.ActionReturn || req.Action == models.ActionSwap) {
		body += "\nnote: this router was originally issued by another store"
	}

	recipients, err := s.users.EmailsByStore(ctx, store.ID, role)
	if err != nil {
		log.Error().Err(err).Int("store_id", store.ID).Msg("Failed to resolve notification recipients")
		return
	}
	if len(recipients) == 0 {
		return
	}
	if err := s.mail.Send(ctx, recipients, subject, body); err != nil {
		log.Error().Err(err).Int("store_id", store.ID).Str("subject", subject).Msg("Failed to send action email")
	}
}

func rolePtr(r models.Role) *models.Role {
	return &r
}
