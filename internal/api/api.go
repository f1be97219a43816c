// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/IMC-ERP/ERP-FE-sub000/internal/api/handlers"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/api/middleware"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/assistant"
	"github.com/IMC-ERP/ERP-FE-sub000/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Analytics *service.AnalyticsService
	Assistant *assistant.Advisor
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services == nil || services.Analytics == nil {
		return router
	}

	analyticsHandler := handlers.NewAnalyticsHandler(services.Analytics)
	apiGroup.GET("/dashboard", analyticsHandler.GetDashboard)
	analyticsGroup := apiGroup.Group("/analytics")
	{
		analyticsGroup.GET("/summary", analyticsHandler.GetSummary)
		analyticsGroup.GET("/weekday", analyticsHandler.GetWeekday)
		analyticsGroup.GET("/hourly", analyticsHandler.GetHourly)
		analyticsGroup.GET("/comparison", analyticsHandler.GetComparison)
		analyticsGroup.GET("/series", analyticsHandler.GetSeries)
		analyticsGroup.GET("/categories", analyticsHandler.GetCategories)
		analyticsGroup.GET("/top-items", analyticsHandler.GetTopItems)
		analyticsGroup.GET("/period", analyticsHandler.GetPeriodReport)
	}

	costHandler := handlers.NewCostHandler(services.Analytics)
	costingGroup := apiGroup.Group("/costing")
	{
		costingGroup.GET("/recipes", costHandler.GetRecipeCosts)
		costingGroup.GET("/recipes/:id", costHandler.GetRecipeCost)
	}
	apiGroup.GET("/expenses/monthly", costHandler.GetMonthlyCosts)

	ledgerHandler := handlers.NewLedgerHandler(services.Analytics)
	salesGroup := apiGroup.Group("/sales")
	{
		salesGroup.POST("", ledgerHandler.CreateSale)
		salesGroup.POST("/import", ledgerHandler.ImportSales)
		salesGroup.PUT("/:id", ledgerHandler.UpdateSale)
	}
	inventoryGroup := apiGroup.Group("/inventory")
	{
		inventoryGroup.GET("/health", costHandler.GetInventoryHealth)
		inventoryGroup.POST("/intakes", ledgerHandler.CreateIntake)
		inventoryGroup.DELETE("/intakes/:id", ledgerHandler.DeleteIntake)
	}
	summaryGroup := apiGroup.Group("/summaries/daily")
	{
		summaryGroup.GET("", ledgerHandler.ListDailySummaries)
		summaryGroup.POST("/:date", ledgerHandler.RollupDailySummary)
		summaryGroup.DELETE("/:date", ledgerHandler.DeleteDailySummary)
	}

	assistantHandler := handlers.NewAssistantHandler(services.Assistant)
	apiGroup.POST("/assistant/ask", assistantHandler.Ask)

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
