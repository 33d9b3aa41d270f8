package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/stocktrackza/stocktrack_api/internal/middleware"
	"github.com/stocktrackza/stocktrack_api/internal/models"
	"github.com/stocktrackza/stocktrack_api/internal/repository"
	"github.com/stocktrackza/stocktrack_api/internal/service"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

// ActionHandler handles router lifecycle actions.
type ActionHandler struct {
	lifecycle *service.LifecycleService
	actions   *repository.ActionRepository
}

// NewActionHandler constructs an ActionHandler.
func NewActionHandler(lifecycle *service.LifecycleService, actions *repository.ActionRepository) *ActionHandler {
	return &ActionHandler{lifecycle: lifecycle, actions: actions}
}

type applyActionRequest struct {
	Action        string `json:"action" binding:"required"`
	SerialNumber  string `json:"serialNumber" binding:"required"`
	SerialNumber2 string `json:"serialNumber2"`
	OrderNumber   string `json:"orderNumber"`
	Reason        string `json:"reason"`
	Comment       string `json:"comment"`
}

// Apply executes a sale, collect, return or swap against the acting store.
func (h *ActionHandler) Apply(c *gin.Context) {
	var req applyActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	store := middleware.CurrentStore(c)
	user := middleware.CurrentUser(c)
	action, err := h.lifecycle.ApplyAction(c.Request.Context(), store, user, service.ApplyActionRequest{
		Action:      models.ActionType(req.Action),
		Serial1:     req.SerialNumber,
		Serial2:     req.SerialNumber2,
		OrderNumber: req.OrderNumber,
		Reason:      req.Reason,
		Comment:     req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 201, "Action applied successfully", gin.H{
		"action": action,
	})
}

// List returns the store's action history, newest first.
func (h *ActionHandler) List(c *gin.Context) {
	store := middleware.CurrentStore(c)
	page, limit := pageParams(c)

	actions, total, err := h.actions.ListByStore(c.Request.Context(), store.ID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithPagination(c, 200, "Actions retrieved successfully", gin.H{
		"actions": actions,
	}, page, limit, total)
}

// ToggleShipped flips the shipped flag on one action row.
func (h *ActionHandler) ToggleShipped(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	store := middleware.CurrentStore(c)

	shipped, err := h.actions.ToggleShipped(c.Request.Context(), store.ID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Action updated successfully", gin.H{
		"shipped": shipped,
	})
}
