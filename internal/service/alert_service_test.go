package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocktrackza/stocktrack_api/internal/models"
)

func TestEvaluateAlertsLatchesBelowThreshold(t *testing.T) {
	cats := &fakeCategories{categories: []*models.Category{
		{ID: 1, StoreID: 1, Name: "5G Indoor", AlertOn: 5},
		{ID: 2, StoreID: 1, Name: "LTE Outdoor", AlertOn: 5},
	}}
	counts := &fakeCounter{byCategory: map[int]int{1: 3, 2: 5}, byStore: map[int]int{}}
	svc := NewAlertService(cats, counts, &fakeNotifications{}, &fakeDirectory{}, &fakeSink{}, fixedClock())

	require.NoError(t, svc.EvaluateAlerts(context.Background(), &models.Store{ID: 1}))

	assert.True(t, cats.categories[0].Alerted, "below threshold latches")
	assert.False(t, cats.categories[1].Alerted, "at threshold does not latch")
}

func TestEvaluateAlertsSkipsLatchedCategories(t *testing.T) {
	cats := &fakeCategories{categories: []*models.Category{
		{ID: 1, StoreID: 1, Name: "5G Indoor", AlertOn: 5, Alerted: true},
	}}
	counts := &fakeCounter{byCategory: map[int]int{1: 0}, byStore: map[int]int{}}
	svc := NewAlertService(cats, counts, &fakeNotifications{}, &fakeDirectory{}, &fakeSink{}, fixedClock())

	require.NoError(t, svc.EvaluateAlerts(context.Background(), &models.Store{ID: 1}))
	assert.True(t, cats.categories[0].Alerted)
}

func TestCheckStoreThresholdSendsOncePerDay(t *testing.T) {
	counts := &fakeCounter{byCategory: map[int]int{}, byStore: map[int]int{1: 2}}
	sink := &fakeSink{}
	dir := &fakeDirectory{emails: []string{"manager@store.test", "clerk@store.test"}}
	svc := NewAlertService(&fakeCategories{}, counts, &fakeNotifications{}, dir, sink, fixedClock())
	store := &models.Store{ID: 1, AlertOn: 10}

	require.NoError(t, svc.CheckStoreThreshold(context.Background(), store))
	require.NoError(t, svc.CheckStoreThreshold(context.Background(), store))

	require.Equal(t, 1, sink.count(), "second check same day must not email again")
	assert.Equal(t, "LOW STOCK LEVEL", sink.sent[0].subject)
	assert.Equal(t, "You have 2 routers on your store", sink.sent[0].body)
	assert.Equal(t, []string{"manager@store.test", "clerk@store.test"}, sink.sent[0].recipients)
}

func TestCheckStoreThresholdAboveThreshold(t *testing.T) {
	counts := &fakeCounter{byCategory: map[int]int{}, byStore: map[int]int{1: 10}}
	sink := &fakeSink{}
	notifications := &fakeNotifications{}
	svc := NewAlertService(&fakeCategories{}, counts, notifications, &fakeDirectory{}, sink, fixedClock())

	require.NoError(t, svc.CheckStoreThreshold(context.Background(), &models.Store{ID: 1, AlertOn: 10}))
	assert.Zero(t, sink.count())
	assert.Empty(t, notifications.claimed, "healthy stock must not burn the daily claim")
}

func TestCheckStoreThresholdMailFailureNotFatal(t *testing.T) {
	counts := &fakeCounter{byCategory: map[int]int{}, byStore: map[int]int{1: 1}}
	sink := &fakeSink{fail: errors.New("ses unavailable")}
	dir := &fakeDirectory{emails: []string{"manager@store.test"}}
	svc := NewAlertService(&fakeCategories{}, counts, &fakeNotifications{}, dir, sink, fixedClock())

	assert.NoError(t, svc.CheckStoreThreshold(context.Background(), &models.Store{ID: 1, AlertOn: 5}))
}

func TestCheckStoreThresholdNoRecipients(t *testing.T) {
	counts := &fakeCounter{byCategory: map[int]int{}, byStore: map[int]int{1: 1}}
	sink := &fakeSink{}
	svc := NewAlertService(&fakeCategories{}, counts, &fakeNotifications{}, &fakeDirectory{}, sink, fixedClock())

	require.NoError(t, svc.CheckStoreThreshold(context.Background(), &models.Store{ID: 1, AlertOn: 5}))
	assert.Zero(t, sink.count())
}
