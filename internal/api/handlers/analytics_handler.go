package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/analytics/period"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service *service.AnalyticsService
}

func NewAnalyticsHandler(service *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func parseRange(c *gin.Context) service.RangeQuery {
	return service.RangeQuery{
		Start: strings.TrimSpace(c.Query("start")),
		End:   strings.TrimSpace(c.Query("end")),
	}
}

// parseSelector reads ?period=YYYY-MM|YYYY-Qn|YYYY, defaulting to the
// current month.
func (h *AnalyticsHandler) parseSelector(c *gin.Context) (period.Selector, error) {
	raw := strings.TrimSpace(c.Query("period"))
	if raw == "" {
		today := h.service.Today()
		return period.Month(today.Year(), int(today.Month())), nil
	}
	return period.ParseSelector(raw)
}

func parseOptionalInt(c *gin.Context, param string) (*int, error) {
	value := strings.TrimSpace(c.Query(param))
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	data, err := h.service.Dashboard(c.Request.Context(), parseRange(c))
	if err != nil {
		respondError(c, err, "failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	data, err := h.service.Summary(c.Request.Context(), parseRange(c))
	if err != nil {
		respondError(c, err, "failed to fetch summary")
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) GetWeekday(c *gin.Context) {
	data, err := h.service.Weekday(c.Request.Context(), parseRange(c))
	if err != nil {
		respondError(c, err, "failed to fetch weekday breakdown")
		return
	}
	c.JSON(http.StatusOK, gin.H{"buckets": data})
}

func (h *AnalyticsHandler) GetHourly(c *gin.Context) {
	q := service.HourlyQuery{RangeQuery: parseRange(c)}

	var err error
	if q.StartHour, err = parseOptionalInt(c, "start_hour"); err != nil {
		badRequest(c, "invalid start_hour", err)
		return
	}
	if q.EndHour, err = parseOptionalInt(c, "end_hour"); err != nil {
		badRequest(c, "invalid end_hour", err)
		return
	}

	data, err := h.service.Hourly(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "failed to fetch hourly breakdown")
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) GetComparison(c *gin.Context) {
	data, err := h.service.Comparison(c.Request.Context(), parseRange(c))
	if err != nil {
		respondError(c, err, "failed to compare periods")
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *AnalyticsHandler) GetSeries(c *gin.Context) {
	q := service.SeriesQuery{
		RangeQuery:  parseRange(c),
		Granularity: period.Granularity(strings.ToLower(c.DefaultQuery("granularity", string(period.Daily)))),
	}

	data, err := h.service.Series(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "failed to fetch series")
		return
	}
	c.JSON(http.StatusOK, gin.H{"granularity": q.Granularity, "points": data})
}

func (h *AnalyticsHandler) GetCategories(c *gin.Context) {
	sel, err := h.parseSelector(c)
	if err != nil {
		badRequest(c, "invalid period", err)
		return
	}

	data, err := h.service.Categories(c.Request.Context(), sel)
	if err != nil {
		respondError(c, err, "failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": sel.String(), "categories": data})
}

func (h *AnalyticsHandler) GetTopItems(c *gin.Context) {
	sel, err := h.parseSelector(c)
	if err != nil {
		badRequest(c, "invalid period", err)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.service.TopItemsLimit())))
	if err != nil {
		badRequest(c, "invalid limit", err)
		return
	}

	data, err := h.service.TopItems(c.Request.Context(), sel, limit)
	if err != nil {
		respondError(c, err, "failed to fetch top items")
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": sel.String(), "items": data})
}

func (h *AnalyticsHandler) GetPeriodReport(c *gin.Context) {
	sel, err := h.parseSelector(c)
	if err != nil {
		badRequest(c, "invalid period", err)
		return
	}

	data, err := h.service.PeriodReport(c.Request.Context(), sel)
	if err != nil {
		respondError(c, err, "failed to build period report")
		return
	}
	c.JSON(http.StatusOK, data)
}
