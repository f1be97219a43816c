package handlers

import (
	"net/http"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/domain"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// LedgerHandler serves the write side: sales, stock intakes and the daily
// summary archive.
type LedgerHandler struct {
	service *service.AnalyticsService
}

func NewLedgerHandler(service *service.AnalyticsService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

func (h *LedgerHandler) CreateSale(c *gin.Context) {
	var in domain.SaleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	sale, err := h.service.RecordSale(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "failed to record sale")
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *LedgerHandler) ImportSales(c *gin.Context) {
	var body struct {
		Sales []domain.SaleInput `json:"sales" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	sales, err := h.service.ImportSales(c.Request.Context(), body.Sales)
	if err != nil {
		respondError(c, err, "failed to import sales")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": len(sales)})
}

func (h *LedgerHandler) UpdateSale(c *gin.Context) {
	var u domain.SaleUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	sale, err := h.service.UpdateSale(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		respondError(c, err, "failed to update sale")
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *LedgerHandler) CreateIntake(c *gin.Context) {
	var in service.IntakeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	intake, err := h.service.RecordIntake(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "failed to record intake")
		return
	}
	c.JSON(http.StatusCreated, intake)
}

func (h *LedgerHandler) DeleteIntake(c *gin.Context) {
	if err := h.service.DeleteIntake(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "failed to delete intake")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LedgerHandler) ListDailySummaries(c *gin.Context) {
	summaries, err := h.service.DailySummaries(c.Request.Context(), parseRange(c))
	if err != nil {
		respondError(c, err, "failed to list daily summaries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"summaries": summaries})
}

func (h *LedgerHandler) RollupDailySummary(c *gin.Context) {
	summary, err := h.service.DailyRollup(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondError(c, err, "failed to roll up day")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *LedgerHandler) DeleteDailySummary(c *gin.Context) {
	if err := h.service.DeleteDailySummary(c.Request.Context(), c.Param("date")); err != nil {
		respondError(c, err, "failed to delete daily summary")
		return
	}
	c.Status(http.StatusNoContent)
}
