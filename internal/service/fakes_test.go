package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stocktrackza/stocktrack_api/internal/models"
	"github.com/stocktrackza/stocktrack_api/internal/repository"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

// fakeStore is an in-memory entity store. It implements both the
// transaction runner and the repository.Tx view; a failed transaction
// restores the pre-transaction state.
type fakeStore struct {
	mu         sync.Mutex
	routers    []*models.Router
	categories []*models.Category
	actions    []*models.Action
	logs       []*models.LogEntry
	nextID     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) id() int {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeStore) addRouter(r models.Router) *models.Router {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.id()
	stored := r
	f.routers = append(f.routers, &stored)
	return &stored
}

func (f *fakeStore) addCategory(c models.Category) *models.Category {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.id()
	stored := c
	f.categories = append(f.categories, &stored)
	return &stored
}

func (f *fakeStore) InTx(ctx context.Context, fn func(repository.Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	routers, categories := f.copyState()
	nActions, nLogs, nextID := len(f.actions), len(f.logs), f.nextID
	if err := fn(f); err != nil {
		f.routers, f.categories = routers, categories
		f.actions = f.actions[:nActions]
		f.logs = f.logs[:nLogs]
		f.nextID = nextID
		return err
	}
	return nil
}

func (f *fakeStore) copyState() ([]*models.Router, []*models.Category) {
	routers := make([]*models.Router, len(f.routers))
	for i, r := range f.routers {
		c := *r
		routers[i] = &c
	}
	categories := make([]*models.Category, len(f.categories))
	for i, cat := range f.categories {
		c := *cat
		categories[i] = &c
	}
	return routers, categories
}

func (f *fakeStore) RouterBySerial(ctx context.Context, serial string) (*models.Router, error) {
	for _, r := range f.routers {
		if r.SerialNumber == serial {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) RouterBySerialForStore(ctx context.Context, storeID int, serial string) (*models.Router, error) {
	for _, r := range f.routers {
		if r.SerialNumber == serial && r.InStore(storeID) {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) RouterByID(ctx context.Context, id int) (*models.Router, error) {
	for _, r := range f.routers {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateRouter(ctx context.Context, r *models.Router) error {
	for _, existing := range f.routers {
		if existing.SerialNumber == r.SerialNumber {
			return utils.ErrDuplicateSerial
		}
	}
	r.ID = f.id()
	f.routers = append(f.routers, r)
	return nil
}

func (f *fakeStore) UpdateRouter(ctx context.Context, r *models.Router) error {
	for i, existing := range f.routers {
		if existing.ID == r.ID {
			f.routers[i] = r
			return nil
		}
	}
	return utils.ErrRouterNotFound
}

func (f *fakeStore) CategoryByID(ctx context.Context, id int) (*models.Category, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CategoryByName(ctx context.Context, storeID int, name string) (*models.Category, error) {
	for _, c := range f.categories {
		if c.StoreID == storeID && c.Name == name && !c.Deleted {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateCategory(ctx context.Context, c *models.Category) error {
	c.ID = f.id()
	f.categories = append(f.categories, c)
	return nil
}

func (f *fakeStore) UpdateCategory(ctx context.Context, c *models.Category) error {
	for i, existing := range f.categories {
		if existing.ID == c.ID {
			f.categories[i] = c
			return nil
		}
	}
	return utils.ErrCategoryNotFound
}

func (f *fakeStore) CreateAction(ctx context.Context, a *models.Action) error {
	a.ID = f.id()
	f.actions = append(f.actions, a)
	return nil
}

func (f *fakeStore) CreateLog(ctx context.Context, e *models.LogEntry) error {
	e.ID = f.id()
	f.logs = append(f.logs, e)
	return nil
}

// fakeDirectory returns canned recipient lists and records the role the
// caller asked for.
type fakeDirectory struct {
	mu       sync.Mutex
	emails   []string
	calls    int
	lastRole *models.Role
}

func (f *fakeDirectory) EmailsByStore(ctx context.Context, storeID int, role *models.Role) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastRole = role
	return f.emails, nil
}

// fakeSink records sent emails.
type fakeSink struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

type sentMail struct {
	recipients []string
	subject    string
	body       string
}

func (f *fakeSink) Send(ctx context.Context, recipients []string, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, sentMail{recipients: recipients, subject: subject, body: body})
	return nil
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeCounter serves fixed stock counts.
type fakeCounter struct {
	mu         sync.Mutex
	byCategory map[int]int
	byStore    map[int]int
}

func (f *fakeCounter) CountInStockByCategory(ctx context.Context, categoryID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byCategory[categoryID], nil
}

func (f *fakeCounter) CountInStockByStore(ctx context.Context, storeID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byStore[storeID], nil
}

// fakeCategories serves the alert latch view.
type fakeCategories struct {
	mu         sync.Mutex
	categories []*models.Category
}

func (f *fakeCategories) ListUnalerted(ctx context.Context, storeID int) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Category
	for _, c := range f.categories {
		if c.StoreID == storeID && !c.Alerted && !c.Deleted {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategories) ListByStore(ctx context.Context, storeID int) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Category
	for _, c := range f.categories {
		if c.StoreID == storeID && !c.Deleted {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategories) SetAlerted(ctx context.Context, categoryID int, alerted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.ID == categoryID {
			c.Alerted = alerted
			return nil
		}
	}
	return utils.ErrCategoryNotFound
}

// fakeNotifications claims (store, day) pairs once.
type fakeNotifications struct {
	mu      sync.Mutex
	claimed map[string]bool
}

func (f *fakeNotifications) CreateOnce(ctx context.Context, storeID int, day time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimed == nil {
		f.claimed = make(map[string]bool)
	}
	key := fmt.Sprintf("%d:%s", storeID, day.Format("2006-01-02"))
	if f.claimed[key] {
		return false, nil
	}
	f.claimed[key] = true
	return true, nil
}

// fakeSnapshots stores monitoring rows keyed by (store, category, day).
type fakeSnapshots struct {
	mu   sync.Mutex
	rows map[string]*models.Monitoring
}

func snapKey(storeID int, categoryID *int, day time.Time) string {
	cat := -1
	if categoryID != nil {
		cat = *categoryID
	}
	return fmt.Sprintf("%d:%d:%s", storeID, cat, day.Format("2006-01-02"))
}

func (f *fakeSnapshots) Upsert(ctx context.Context, m *models.Monitoring) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = make(map[string]*models.Monitoring)
	}
	key := snapKey(m.StoreID, m.CategoryID, m.Day)
	if existing, ok := f.rows[key]; ok {
		existing.Routers = m.Routers
		m.ID = existing.ID
		return nil
	}
	m.ID = len(f.rows) + 1
	stored := *m
	f.rows[key] = &stored
	return nil
}

func (f *fakeSnapshots) ForDay(ctx context.Context, storeID, categoryID int, day time.Time) (*models.Monitoring, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.rows[snapKey(storeID, &categoryID, day)]; ok {
		c := *m
		return &c, nil
	}
	return nil, nil
}

func (f *fakeSnapshots) SumForDay(ctx context.Context, storeID int, day time.Time) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total, found := 0, false
	for _, m := range f.rows {
		if m.StoreID == storeID && m.Day.Format("2006-01-02") == day.Format("2006-01-02") {
			total += m.Routers
			found = true
		}
	}
	return total, found, nil
}

// fakeStores lists stores and serves them by ID.
type fakeStores struct {
	stores []models.Store
}

func (f *fakeStores) List(ctx context.Context) ([]models.Store, error) {
	return f.stores, nil
}

func (f *fakeStores) GetByID(ctx context.Context, id int) (*models.Store, error) {
	for i := range f.stores {
		if f.stores[i].ID == id {
			return &f.stores[i], nil
		}
	}
	return nil, nil
}

// fakeLocker grants or denies sweep claims.
type fakeLocker struct {
	mu       sync.Mutex
	denied   map[int]bool
	acquired []int
	released []int
}

func (f *fakeLocker) Acquire(ctx context.Context, storeID int, day time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.denied[storeID] {
		return false, nil
	}
	f.acquired = append(f.acquired, storeID)
	return true, nil
}

func (f *fakeLocker) Release(ctx context.Context, storeID int, day time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, storeID)
	return nil
}

// quietAlerts builds an AlertService whose side effects land in fakes,
// for wiring into services that fire post-commit checks.
func quietAlerts() *AlertService {
	return NewAlertService(
		&fakeCategories{},
		&fakeCounter{byCategory: map[int]int{}, byStore: map[int]int{}},
		&fakeNotifications{},
		&fakeDirectory{},
		&fakeSink{},
		fixedClock(),
	)
}

func fixedClock() clockFixed {
	return clockFixed{}
}

// clockFixed pins "now" to a known day.
type clockFixed struct{}

func (clockFixed) Now() time.Time {
	return time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)
}

func intPtr(v int) *int {
	return &v
}
