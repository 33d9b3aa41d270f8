package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocktrackza/stocktrack_api/internal/models"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

func newLifecycle(store *fakeStore) (*LifecycleService, *fakeSink, *fakeDirectory) {
	sink := &fakeSink{}
	dir := &fakeDirectory{emails: []string{"staff@store.test"}}
	return NewLifecycleService(store, dir, sink, quietAlerts()), sink, dir
}

func testStore() *models.Store {
	return &models.Store{ID: 1, Name: "Main", AlertOn: 0}
}

func testActor() *models.User {
	return &models.User{ID: 7, Username: "clerk"}
}

func TestApplyActionSale(t *testing.T) {
	db := newFakeStore()
	r := db.addRouter(models.Router{StoreID: intPtr(1), SerialNumber: "SN-1", Status: models.StatusInStock})
	svc, _, _ := newLifecycle(db)

	action, err := svc.ApplyAction(context.Background(), testStore(), testActor(), ApplyActionRequest{
		Action:      models.ActionSale,
		Serial1:     "SN-1",
		OrderNumber: "ORD-42",
	})
	require.NoError(t, err)

	updated, _ := db.RouterByID(context.Background(), r.ID)
	assert.Equal(t, models.StatusNewSale, updated.Status)
	require.NotNil(t, action.OrderNumber)
	assert.Equal(t, "ORD-42", *action.OrderNumber)
	require.Len(t, db.actions, 1)
	require.Len(t, db.logs, 1)
	assert.Equal(t, models.LogEdit, db.logs[0].Action)
	require.NotNil(t, db.logs[0].SerialNumber)
	assert.Equal(t, "SN-1", *db.logs[0].SerialNumber)
}

func TestApplyActionSaleRejectsSoldRouter(t *testing.T) {
	db := newFakeStore()
	db.addRouter(models.Router{StoreID: intPtr(1), SerialNumber: "SN-1", Status: models.StatusNewSale})
	svc, _, _ := newLifecycle(db)

	_, err := svc.ApplyAction(context.Background(), testStore(), testActor(), ApplyActionRequest{
		Action:  models.ActionSale,
		Serial1: "SN-1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrInvalidTransition))

	var terr *utils.TransitionError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "SN-1", terr.SerialNumber)
	assert.Contains(t, terr.Reason, "already sold")

	assert.Empty(t, db.actions)
	assert.Empty(t, db.logs)
	r, _ := db.RouterBySerial(context.Background(), "SN-1")
	assert.Equal(t, models.StatusNewSale, r.Status)
}

func TestApplyActionSaleUnknownSerial(t *testing.T) {
	db := newFakeStore()
	svc, _, _ := newLifecycle(db)

	_, err := svc.ApplyAction(context.Background(), testStore(), testActor(), ApplyActionRequest{
		Action:  models.ActionSale,
		Serial1: "SN-MISSING",
	})
	assert.ErrorIs(t, err, utils.ErrRouterNotFound)
	assert.Empty(t, db.routers)
}

func TestApplyActionCollect(t *testing.T) {
	db := newFakeStore()
	sold := db.addRouter(models.Router{StoreID: intPtr(1), SerialNumber: "SN-1", Status: models.StatusNewSale})
	direct := db.addRouter(models.Router{StoreID: intPtr(1), SerialNumber: "SN-2", Status: models.StatusInStock})
	svc, _, _ := newLifecycle(db)

	for _, serial := range []string{"SN-1", "SN-2"} {
		_, err := svc.ApplyAction(context.Background(), testStore(), testActor(), ApplyActionRequest{
			Action:  models.ActionCollect,
			Serial1: serial,
		})
		require.NoError(t, err)
	}
	r1, _ := db.RouterByID(context.Background(), sold.ID)
	r2, _ := db.RouterByID(context.Background(), direct.ID)
	assert.Equal(t, models.StatusCollected, r1.Status)
	assert.Equal(t, models.StatusCollected, r2.Status)
}

func TestApplyActionCollectRejectsCollected(t *testing.T) {
	db := newFakeStore()
	db.addRouter(models.Router{StoreID: intPtr(1), SerialNumber: "SN-1", Status: models.StatusCollected})
	svc, _, _ := newLifecycle(db)

	_, err := svc.ApplyAction(context.Background(), testStore(), testActor(), ApplyActionRequest{
		Action:  models.ActionCollect,
		Serial1: "SN-1",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)
}

func TestApplyActionReturnRepatriates(t *testing.T) {
	db := newFakeStore()
	r := db.addRouter(models.Router{StoreID: intPtr(2), SerialNumber: "SN-1", Status: models.StatusCollected})
	svc, _, _ := newLifecycle(db)

	action, err := svc.ApplyAction(context.Background(), testStore(), testActor(), ApplyActionRequest{
		Action:  models.ActionReturn,
		Serial1: "SN-1",
		Reason:  "faulty power port",
	})
	require.NoError(t, err)

	updated, _ := db.RouterByID(context.Background(), r.ID)
	assert.Equal(t, models.StatusReturn, updated.Status)
	require.NotNil(t, updated.StoreID)
	assert.Equal(t, 1, *updated.StoreID)
	require.NotNil(t, updated.Reason)
	assert.Equal(t, "faulty power port", *updated.Reason)
	require.NotNil(t, action.Reason)
	assert.Equal(t, "faulty power port", *action.Reason)
}

func TestApplyActionReturnCreatesUnknownRouter(t *testing.T) {
	db := newFakeStore()
	svc, _, _ := newLifecycle(db)

	_, err := svc.ApplyAction(context.Background(), testStore(), testActor(), ApplyActionRequest{
		Action:  models.ActionReturn,
		Serial1: "SN-NEW",
	})
	require.NoError(t, err)

	r, _ := db.RouterBySerial(context.Background(), "SN-NEW")
	require.NotNil(t, r)
	assert.Equal(t, models.StatusReturn, r.Status)
	require.NotNil(t, r.StoreID)
	assert.Equal(t, 1, *r.StoreID)
	require.Len(t, db.logs, 1)
	assert.Equal(t, models.LogAdd, db.logs[0].Action)
}

func TestApplyActionSwap(t *testing.T) {
	db := newFakeStore()
	r1 := db.addRouter(models.Router{StoreID: intPtr(1), SerialNumber: "SN-OLD", Status: models.StatusNewSale})
	svc, _, _ := newLifecycle(db)

	action, err := svc.ApplyAction(context.Background(), testStore(), testActor(), ApplyActionRequest{
		Action:  models.ActionSwap,
		Serial1: "SN-OLD",
		Serial2: "SN-NEW",
		Reason:  "damaged antenna",
	})
	require.NoError(t, err)

	old, _ := db.RouterByID(context.Background(), r1.ID)
	assert.Equal(t, models.StatusCollected, old.Status)

	partner, _ := db.RouterBySerial(context.Background(), "SN-NEW")
	require.NotNil(t, partner)
	assert.Equal(t, models.StatusSwap, partner.Status)
	assert.Nil(t, partner.StoreID, "swap-created partner stays unassigned until claimed")

	require.NotNil(t, action.Router2ID)
	assert.Equal(t, partner.ID, *action.Router2ID)
	assert.Len(t, db.logs, 2)
}

func TestApplyActionSwapRequiresSecondSerial(t *testing.T) {
	db := newFakeStore()
	svc, _, _ := newLifecycle(db)

	_, err := svc.ApplyAction(context.Background(), testStore(), testActor(), ApplyActionRequest{
		Action:  models.ActionSwap,
		Serial1: "SN-OLD",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidAction)
}

func TestApplyActionRejectsUnknownAction(t *testing.T) {
	db := newFakeStore()
	svc, _, _ := newLifecycle(db)

	_, err := svc.ApplyAction(context.Background(), testStore(), testActor(), ApplyActionRequest{
		Action:  models.ActionType("repair"),
		Serial1: "SN-1",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidAction)
}

func TestDecideTransition(t *testing.T) {
	cases := []struct {
		name    string
		action  models.ActionType
		current models.RouterStatus
		want    models.RouterStatus
		wantErr bool
	}{
		{"sale from stock", models.ActionSale, models.StatusInStock, models.StatusNewSale, false},
		{"sale from sold", models.ActionSale, models.StatusNewSale, "", true},
		{"sale from collected", models.ActionSale, models.StatusCollected, "", true},
		{"collect from sold", models.ActionCollect, models.StatusNewSale, models.StatusCollected, false},
		{"collect from stock", models.ActionCollect, models.StatusInStock, models.StatusCollected, false},
		{"collect from collected", models.ActionCollect, models.StatusCollected, "", true},
		{"return from anything", models.ActionReturn, models.StatusSwap, models.StatusReturn, false},
		{"swap from anything", models.ActionSwap, models.StatusReturn, models.StatusCollected, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, terr := decideTransition(tc.action, tc.current)
			if tc.wantErr {
				require.NotNil(t, terr)
				assert.ErrorIs(t, terr, utils.ErrInvalidTransition)
				return
			}
			require.Nil(t, terr)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNotifyActionRecipients(t *testing.T) {
	db := newFakeStore()
	svc, sink, dir := newLifecycle(db)
	store := testStore()
	r1 := &models.Router{SerialNumber: "SN-1"}
	r2 := &models.Router{SerialNumber: "SN-2"}

	svc.notifyAction(context.Background(), store, ApplyActionRequest{Action: models.ActionSale}, r1, nil, false)
	assert.Nil(t, dir.lastRole, "sale goes to all staff")
	require.Equal(t, 1, sink.count())
	assert.Equal(t, "New sale", sink.sent[0].subject)

	svc.notifyAction(context.Background(), store, ApplyActionRequest{Action: models.ActionReturn, Reason: "faulty"}, r1, nil, true)
	require.NotNil(t, dir.lastRole)
	assert.Equal(t, models.RoleStoreManager, *dir.lastRole)
	require.Equal(t, 2, sink.count())
	assert.Equal(t, "Router Returned", sink.sent[1].subject)
	assert.Contains(t, sink.sent[1].body, "reason: faulty")
	assert.Contains(t, sink.sent[1].body, "another store")

	svc.notifyAction(context.Background(), store, ApplyActionRequest{Action: models.ActionSwap}, r1, r2, false)
	require.Equal(t, 3, sink.count())
	assert.Contains(t, sink.sent[2].body, "swapped with SN-2")

	svc.notifyAction(context.Background(), store, ApplyActionRequest{Action: models.ActionCollect}, r1, nil, false)
	assert.Equal(t, 3, sink.count(), "collect sends no email")
}
