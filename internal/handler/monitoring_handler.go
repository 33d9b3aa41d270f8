package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stocktrackza/stocktrack_api/internal/middleware"
	"github.com/stocktrackza/stocktrack_api/internal/repository"
	"github.com/stocktrackza/stocktrack_api/internal/service"
	"github.com/stocktrackza/stocktrack_api/internal/utils"
)

// MonitoringHandler serves stock trends, live stock counts and the
// manual sweep trigger.
type MonitoringHandler struct {
	monitoring *service.MonitoringService
	routers    *repository.RouterRepository
	categories *repository.CategoryRepository
}

// NewMonitoringHandler constructs a MonitoringHandler.
func NewMonitoringHandler(monitoring *service.MonitoringService, routers *repository.RouterRepository, categories *repository.CategoryRepository) *MonitoringHandler {
	return &MonitoringHandler{monitoring: monitoring, routers: routers, categories: categories}
}

func daysParam(c *gin.Context) int {
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// Trend returns one category's daily stock series ending today.
func (h *MonitoringHandler) Trend(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Query("categoryId"))
	if err != nil || categoryID <= 0 {
		utils.Error(c, 400, "INVALID_REQUEST", "categoryId is required")
		return
	}
	store := middleware.CurrentStore(c)

	category, err := h.categories.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	if category == nil || category.StoreID != store.ID {
		respondError(c, utils.ErrCategoryNotFound)
		return
	}

	points, err := h.monitoring.Trend(c.Request.Context(), store, categoryID, daysParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Trend retrieved successfully", gin.H{
		"categoryId": categoryID,
		"trend":      points,
	})
}

// StoreTrend returns the store-wide daily stock series ending today.
func (h *MonitoringHandler) StoreTrend(c *gin.Context) {
	store := middleware.CurrentStore(c)
	points, err := h.monitoring.StoreTrend(c.Request.Context(), store, daysParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Trend retrieved successfully", gin.H{
		"trend": points,
	})
}

// Sweep runs the daily snapshot and alert pass immediately.
func (h *MonitoringHandler) Sweep(c *gin.Context) {
	if err := h.monitoring.SweepAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Sweep completed successfully", nil)
}

// Stock returns live in-stock counts per category plus the store total.
func (h *MonitoringHandler) Stock(c *gin.Context) {
	store := middleware.CurrentStore(c)
	categories, err := h.categories.ListByStore(c.Request.Context(), store.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	type categoryStock struct {
		CategoryID int    `json:"categoryId"`
		Name       string `json:"name"`
		Routers    int    `json:"routers"`
		Alerted    bool   `json:"alerted"`
	}
	stock := make([]categoryStock, 0, len(categories))
	total := 0
	for _, cat := range categories {
		count, err := h.routers.CountInStockByCategory(c.Request.Context(), cat.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		stock = append(stock, categoryStock{
			CategoryID: cat.ID,
			Name:       cat.Name,
			Routers:    count,
			Alerted:    cat.Alerted,
		})
		total += count
	}

	utils.Success(c, 200, "Stock retrieved successfully", gin.H{
		"categories": stock,
		"total":      total,
	})
}
