package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocktrackza/stocktrack_api/internal/models"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

const testSecret = "test-secret"

type stubUsers struct {
	user *models.User
}

func (s *stubUsers) GetByID(ctx context.Context, id int) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

type stubStores struct {
	store *models.Store
}

func (s *stubStores) GetByID(ctx context.Context, id int) (*models.Store, error) {
	if s.store != nil && s.store.ID == id {
		return s.store, nil
	}
	return nil, nil
}

func newTestRouter(users *stubUsers, stores *stubStores) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewJWTMiddleware(users, stores, testSecret).Handle())
	r.GET("/probe", RequireStore(), func(c *gin.Context) {
		store := CurrentStore(c)
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"storeId": store.ID, "userId": user.ID})
	})
	r.GET("/managers-only", RequireStoreManager(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func signToken(t *testing.T, userID int, storeID *int) string {
	t.Helper()
	token, err := utils.GenerateJWT(&utils.Claims{UserID: userID, StoreID: storeID}, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestJWTMiddlewareBindsUserAndStore(t *testing.T) {
	storeID := 5
	users := &stubUsers{user: &models.User{ID: 1, StoreID: &storeID}}
	stores := &stubStores{store: &models.Store{ID: 5, Name: "Main"}}
	r := newTestRouter(users, stores)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 1, nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storeId":5`)
	assert.Contains(t, w.Body.String(), `"userId":1`)
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	r := newTestRouter(&stubUsers{}, &stubStores{})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareRejectsBadToken(t *testing.T) {
	r := newTestRouter(&stubUsers{}, &stubStores{})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireStoreRejectsUnboundAccount(t *testing.T) {
	users := &stubUsers{user: &models.User{ID: 1}}
	r := newTestRouter(users, &stubStores{})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, 1, nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireStoreManager(t *testing.T) {
	manager := models.RoleStoreManager
	handler := models.RoleStockHandler
	storeID := 5
	stores := &stubStores{store: &models.Store{ID: 5}}

	cases := []struct {
		name string
		role *models.Role
		want int
	}{
		{"manager allowed", &manager, http.StatusOK},
		{"handler rejected", &handler, http.StatusForbidden},
		{"no role rejected", nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &stubUsers{user: &models.User{ID: 1, Role: tc.role, StoreID: &storeID}}
			r := newTestRouter(users, stores)

			req := httptest.NewRequest(http.MethodGet, "/managers-only", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, 1, nil))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}
