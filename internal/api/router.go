// Package api serves forecast runs over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pv-forecast/internal/api/handlers"
	"pv-forecast/internal/api/middleware"
)

// NewRouter registers every route on a new gin engine. gatherer backs
// /metrics and may be nil.
func NewRouter(forecasts *handlers.ForecastHandler, systems *handlers.SystemHandler, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/runs", forecasts.RunForecast)
		v1.GET("/runs/:id", forecasts.GetRun)
		v1.GET("/runs/:id/export/:format", forecasts.ExportRun)
		v1.POST("/estimate", forecasts.Estimate)
		v1.GET("/charts/:name", forecasts.GetChart)

		v1.GET("/system", systems.GetSystem)
		v1.GET("/systems", systems.ListSystems)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
