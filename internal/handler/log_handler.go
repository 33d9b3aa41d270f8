package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/stocktrackza/stocktrack_api/internal/middleware"
	"github.com/stocktrackza/stocktrack_api/internal/repository"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

// LogHandler serves the store's audit log.
type LogHandler struct {
	logs *repository.LogRepository
}

// NewLogHandler constructs a LogHandler.
func NewLogHandler(logs *repository.LogRepository) *LogHandler {
	return &LogHandler{logs: logs}
}

// List returns the store's audit entries, newest first.
func (h *LogHandler) List(c *gin.Context) {
	store := middleware.CurrentStore(c)
	page, limit := pageParams(c)

	entries, total, err := h.logs.ListByStore(c.Request.Context(), store.ID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithPagination(c, 200, "Logs retrieved successfully", gin.H{
		"logs": entries,
	}, page, limit, total)
}
