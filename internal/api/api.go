// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/safetystock-sim/internal/api/handlers"
	"github.com/andresuchdata/safetystock-sim/internal/api/middleware"
	"github.com/andresuchdata/safetystock-sim/internal/metrics"
	"github.com/andresuchdata/safetystock-sim/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	SimulationService *service.SimulationService
}

func NewRouter(services *Services, allowedOrigins []string, m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	if m != nil {
		router.Use(middleware.Metrics(m))
	}
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
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
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	apiGroup := router.Group("/api/v1")

	if services != nil && services.SimulationService != nil {
		simulationHandler := handlers.NewSimulationHandler(services.SimulationService)

		apiGroup.POST("/trajectory", simulationHandler.DeriveTrajectory)

		simulationGroup := apiGroup.Group("/simulations")
		{
			simulationGroup.POST("", simulationHandler.CreateSession)
			simulationGroup.GET("/:id", simulationHandler.GetSession)
			simulationGroup.DELETE("/:id", simulationHandler.DeleteSession)

			simulationGroup.PUT("/:id/weekly_demand", simulationHandler.SetWeeklyDemand)
			simulationGroup.PUT("/:id/safety_stock_weeks", simulationHandler.SetSafetyStockWeeks)
			simulationGroup.PUT("/:id/initial_stock", simulationHandler.SetInitialStock)
			simulationGroup.POST("/:id/step", simulationHandler.Step)
			simulationGroup.PUT("/:id/chart", simulationHandler.UpdateChart)

			// Receiving plan routes
			receivingGroup := simulationGroup.Group("/:id/receiving")
			{
				receivingGroup.PUT("", simulationHandler.SetAllReceiving)
				receivingGroup.POST("/match_demand", simulationHandler.MatchReceivingToDemand)
				receivingGroup.POST("/reset", simulationHandler.ResetReceiving)
				receivingGroup.PUT("/:week", simulationHandler.SetReceiving)
				receivingGroup.POST("/:week/step", simulationHandler.StepReceiving)
			}
		}
	}

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
