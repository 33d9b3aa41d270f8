package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/stocktrackza/stocktrack_api/internal/models"
	"github.com/stocktrackza/stocktrack_api/internal/repository"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

// StoreHandler handles store endpoints.
type StoreHandler struct {
	stores *repository.StoreRepository
}

// NewStoreHandler constructs a StoreHandler.
func NewStoreHandler(stores *repository.StoreRepository) *StoreHandler {
	return &StoreHandler{stores: stores}
}

// List returns all stores.
func (h *StoreHandler) List(c *gin.Context) {
	stores, err := h.stores.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Stores retrieved successfully", gin.H{
		"stores": stores,
	})
}

type createStoreRequest struct {
	Name    string `json:"name" binding:"required"`
	AlertOn *int   `json:"alertOn"`
}

// Create adds a store. An omitted alertOn applies the default
// low-stock threshold.
func (h *StoreHandler) Create(c *gin.Context) {
	var req createStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	alertOn := models.DefaultAlertOn
	if req.AlertOn != nil {
		alertOn = *req.AlertOn
	}
	store := &models.Store{Name: req.Name, AlertOn: alertOn}
	if err := h.stores.Create(c.Request.Context(), store); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Store created successfully", gin.H{
		"store": store,
	})
}

type thresholdRequest struct {
	AlertOn int `json:"alertOn" binding:"min=0"`
}

// UpdateThreshold sets the store-wide low-stock threshold.
func (h *StoreHandler) UpdateThreshold(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req thresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.stores.UpdateAlertOn(c.Request.Context(), id, req.AlertOn); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Store threshold updated successfully", gin.H{
		"storeId": id,
		"alertOn": req.AlertOn,
	})
}
