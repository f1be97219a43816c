package handlers

import (
	"net/http"
	"strings"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type CostHandler struct {
	service *service.AnalyticsService
}

func NewCostHandler(service *service.AnalyticsService) *CostHandler {
	return &CostHandler{service: service}
}

func (h *CostHandler) GetRecipeCosts(c *gin.Context) {
	costs, err := h.service.RecipeCosts(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to cost recipes")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": costs})
}

func (h *CostHandler) GetRecipeCost(c *gin.Context) {
	cost, err := h.service.RecipeCost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to cost recipe")
		return
	}
	c.JSON(http.StatusOK, cost)
}

func (h *CostHandler) GetInventoryHealth(c *gin.Context) {
	report, err := h.service.InventoryHealth(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to assess inventory")
		return
	}

	if status := strings.ToLower(strings.TrimSpace(c.Query("status"))); status != "" {
		filtered := report.Items[:0:0]
		for _, item := range report.Items {
			if string(item.Status) == status {
				filtered = append(filtered, item)
			}
		}
		report.Items = filtered
	}
	c.JSON(http.StatusOK, report)
}

// GetMonthlyCosts reads ?month=YYYY-MM, defaulting to the current month.
func (h *CostHandler) GetMonthlyCosts(c *gin.Context) {
	month := strings.TrimSpace(c.Query("month"))
	if month == "" {
		month = h.service.Today().Format("2006-01")
	}

	report, err := h.service.MonthlyCosts(c.Request.Context(), month)
	if err != nil {
		respondError(c, err, "failed to compute monthly costs")
		return
	}
	c.JSON(http.StatusOK, report)
}
