package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/stocktrackza/stocktrack_api/internal/middleware"
	"github.com/stocktrackza/stocktrack_api/internal/models"
	"github.com/stocktrackza/stocktrack_api/internal/repository"
	"github.com/stocktrackza/stocktrack_api/internal/service"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

// CategoryHandler handles category endpoints.
type CategoryHandler struct {
	inventory  *service.InventoryService
	categories *repository.CategoryRepository
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(inventory *service.InventoryService, categories *repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{inventory: inventory, categories: categories}
}

// List returns the store's live categories.
func (h *CategoryHandler) List(c *gin.Context) {
	store := middleware.CurrentStore(c)
	categories, err := h.categories.ListByStore(c.Request.Context(), store.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Categories retrieved successfully", gin.H{
		"categories": categories,
	})
}

type createCategoryRequest struct {
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required"`
	AlertOn *int   `json:"alertOn"`
}

// Create adds a category to the store.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	category, err := h.inventory.CreateCategory(c.Request.Context(), middleware.CurrentStore(c), middleware.CurrentUser(c), req.Name, models.CategoryType(req.Type), req.AlertOn)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Category created successfully", gin.H{
		"category": category,
	})
}

type editCategoryRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	AlertOn *int   `json:"alertOn"`
}

// Update edits a category's name, type or alert threshold.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req editCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	category, err := h.inventory.EditCategory(c.Request.Context(), middleware.CurrentStore(c), middleware.CurrentUser(c), id, service.EditCategoryRequest{
		Name:    req.Name,
		Type:    models.CategoryType(req.Type),
		AlertOn: req.AlertOn,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Category updated successfully", gin.H{
		"category": category,
	})
}

// Delete soft-deletes a category.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.inventory.DeleteCategory(c.Request.Context(), middleware.CurrentStore(c), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Category deleted successfully", nil)
}
