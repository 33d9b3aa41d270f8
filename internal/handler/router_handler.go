package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/stocktrackza/stocktrack_api/internal/middleware"
	"github.com/stocktrackza/stocktrack_api/internal/models"
	"github.com/stocktrackza/stocktrack_api/internal/repository"
	"github.com/stocktrackza/stocktrack_api/internal/service"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

// RouterHandler handles router inventory endpoints.
type RouterHandler struct {
	inventory *service.InventoryService
	routers   *repository.RouterRepository
}

// NewRouterHandler constructs a RouterHandler.
func NewRouterHandler(inventory *service.InventoryService, routers *repository.RouterRepository) *RouterHandler {
	return &RouterHandler{inventory: inventory, routers: routers}
}

// List returns the store's routers, optionally filtered by status.
func (h *RouterHandler) List(c *gin.Context) {
	store := middleware.CurrentStore(c)

	if status := c.Query("status"); status != "" {
		routers, err := h.routers.ListByStatus(c.Request.Context(), store.ID, models.RouterStatus(status))
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, 200, "Routers retrieved successfully", gin.H{
			"routers": routers,
		})
		return
	}

	page, limit := pageParams(c)
	routers, total, err := h.routers.ListByStore(c.Request.Context(), store.ID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Routers retrieved successfully", gin.H{
		"routers": routers,
	}, page, limit, total)
}

// Get returns a single router by ID.
func (h *RouterHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	router, err := h.routers.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if router == nil {
		respondError(c, utils.ErrRouterNotFound)
		return
	}
	utils.Success(c, 200, "Router retrieved successfully", gin.H{
		"router": router,
	})
}

type createRouterRequest struct {
	CategoryID   int    `json:"categoryId" binding:"required"`
	SerialNumber string `json:"serialNumber" binding:"required"`
	IMEI         string `json:"imei"`
}

// Create adds one router to stock.
func (h *RouterHandler) Create(c *gin.Context) {
	var req createRouterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	router, err := h.inventory.CreateRouter(c.Request.Context(), middleware.CurrentStore(c), middleware.CurrentUser(c), service.CreateRouterRequest{
		CategoryID:   req.CategoryID,
		SerialNumber: req.SerialNumber,
		IMEI:         req.IMEI,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Router created successfully", gin.H{
		"router": router,
	})
}

type bulkCreateRequest struct {
	CategoryID    int      `json:"categoryId" binding:"required"`
	SerialNumbers []string `json:"serialNumbers" binding:"required"`
}

// BulkCreate adds a batch of serials to one category, skipping serials
// that already exist.
func (h *RouterHandler) BulkCreate(c *gin.Context) {
	var req bulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	created, err := h.inventory.BulkCreateRouters(c.Request.Context(), middleware.CurrentStore(c), middleware.CurrentUser(c), req.CategoryID, req.SerialNumbers)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Routers created successfully", gin.H{
		"created": created,
	})
}

type importRequest struct {
	Routers []service.RouterImport `json:"routers" binding:"required"`
}

// Import loads exported inventory rows, creating unknown serials and
// reactivating soft-deleted ones.
func (h *RouterHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	applied, err := h.inventory.ImportRouters(c.Request.Context(), middleware.CurrentStore(c), middleware.CurrentUser(c), req.Routers)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Routers imported successfully", gin.H{
		"applied": applied,
	})
}

type editRouterRequest struct {
	CategoryID   int    `json:"categoryId"`
	SerialNumber string `json:"serialNumber"`
	IMEI         string `json:"imei"`
	Status       string `json:"status"`
}

// Update edits a router's identifying fields and status.
func (h *RouterHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req editRouterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	router, err := h.inventory.EditRouter(c.Request.Context(), middleware.CurrentStore(c), middleware.CurrentUser(c), id, service.EditRouterRequest{
		CategoryID:   req.CategoryID,
		SerialNumber: req.SerialNumber,
		IMEI:         req.IMEI,
		Status:       models.RouterStatus(req.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Router updated successfully", gin.H{
		"router": router,
	})
}

// Delete soft-deletes a router.
func (h *RouterHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.inventory.DeleteRouter(c.Request.Context(), middleware.CurrentStore(c), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Router deleted successfully", nil)
}

// ToggleShipped flips a router's shipped flag.
func (h *RouterHandler) ToggleShipped(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	shipped, err := h.inventory.ToggleRouterShipped(c.Request.Context(), middleware.CurrentStore(c), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Router updated successfully", gin.H{
		"shipped": shipped,
	})
}

type switchStoreRequest struct {
	StoreID int `json:"storeId" binding:"required"`
}

// SwitchStore reassigns a router to another store.
func (h *RouterHandler) SwitchStore(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req switchStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	router, err := h.inventory.SwitchStore(c.Request.Context(), middleware.CurrentUser(c), id, req.StoreID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Router moved successfully", gin.H{
		"router": router,
	})
}

type reactivateRequest struct {
	CategoryID int    `json:"categoryId" binding:"required"`
	IMEI       string `json:"imei"`
}

// Reactivate brings a soft-deleted router back into stock.
func (h *RouterHandler) Reactivate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req reactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	router, err := h.inventory.ReactivateRouter(c.Request.Context(), middleware.CurrentStore(c), middleware.CurrentUser(c), id, req.CategoryID, req.IMEI)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Router reactivated successfully", gin.H{
		"router": router,
	})
}
