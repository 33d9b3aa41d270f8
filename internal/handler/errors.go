package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

// respondError maps domain errors onto the HTTP envelope. Unknown errors
// become a 500 and are logged with the request path.
func respondError(c *gin.Context, err error) {
	var terr *utils.TransitionError
	switch {
	case errors.As(err, &terr):
		utils.Error(c, 409, "INVALID_TRANSITION", terr.Reason)
	case errors.Is(err, utils.ErrInvalidAction):
		utils.Error(c, 400, "INVALID_ACTION", "Invalid or incomplete request")
	case errors.Is(err, utils.ErrDuplicateSerial):
		utils.Error(c, 409, "DUPLICATE_SERIAL", "Serial number already exists")
	case errors.Is(err, utils.ErrRouterNotFound):
		utils.Error(c, 404, "ROUTER_NOT_FOUND", "Router not found")
	case errors.Is(err, utils.ErrCategoryNotFound):
		utils.Error(c, 404, "CATEGORY_NOT_FOUND", "Category not found")
	case errors.Is(err, utils.ErrStoreNotFound):
		utils.Error(c, 404, "STORE_NOT_FOUND", "Store not found")
	case errors.Is(err, utils.ErrActionNotFound):
		utils.Error(c, 404, "ACTION_NOT_FOUND", "Action not found")
	case errors.Is(err, utils.ErrPermissionDenied):
		utils.Error(c, 403, "PERMISSION_DENIED", "Not allowed")
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Something went wrong")
	}
}

// pageParams reads pagination query parameters with sane defaults.
func pageParams(c *gin.Context) (int, int) {
	page := 1
	limit := 50
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return page, limit
}

// idParam reads a positive integer path parameter.
func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		utils.Error(c, 400, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}
