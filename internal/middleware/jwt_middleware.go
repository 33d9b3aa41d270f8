package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stocktrackza/stocktrack_api/internal/models"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

type userSource interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type storeSource interface {
	GetByID(ctx context.Context, id int) (*models.Store, error)
}

// JWTMiddleware authenticates requests and binds the acting user and
// their store onto the request context.
type JWTMiddleware struct {
	users  userSource
	stores storeSource
	secret string
}

func NewJWTMiddleware(users userSource, stores storeSource, secret string) *JWTMiddleware {
	return &JWTMiddleware{users: users, stores: stores, secret: secret}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1], m.secret)
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || user == nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Unknown account")
			c.Abort()
			return
		}
		c.Set("user", user)

		// The token may pin a store; the user record is the fallback.
		storeID := user.StoreID
		if claims.StoreID != nil {
			storeID = claims.StoreID
		}
		if storeID != nil {
			store, err := m.stores.GetByID(c.Request.Context(), *storeID)
			if err == nil && store != nil {
				c.Set("store", store)
			}
		}
		c.Next()
	}
}

// RequireStore rejects requests from accounts with no store binding.
// Every inventory route sits behind it.
func RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentStore(c) == nil {
			utils.Error(c, 403, "PERMISSION_DENIED", "No store assigned to this account")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStoreManager rejects non-manager accounts.
func RequireStoreManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsStoreManager() {
			utils.Error(c, 403, "PERMISSION_DENIED", "Store manager role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil outside the JWT
// middleware.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get("user"); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// CurrentStore returns the acting store, or nil when the account has none.
func CurrentStore(c *gin.Context) *models.Store {
	if v, ok := c.Get("store"); ok {
		if s, ok := v.(*models.Store); ok {
			return s
		}
	}
	return nil
}
