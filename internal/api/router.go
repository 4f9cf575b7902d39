package api

import (
	"net/http"
	"procurement-dashboard/internal/api/handler"
	"procurement-dashboard/pkg/router"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

func RegisterRoutes(r *router.Router, h *handler.Handler, gatherer prometheus.Gatherer) {
	r.POST("/api/v1/refresh", h.Refresh)
	r.GET("/api/v1/snapshot", h.GetSnapshot)
	r.GET("/api/v1/metrics", h.GetMetrics)
	r.GET("/api/v1/queue", h.GetQueue)
	r.GET("/api/v1/runs", h.ListRuns)
	r.GET("/api/v1/runs/*", h.GetRun)

	r.Mount("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), http.MethodGet)
	r.GET("/swagger/*", httpSwagger.WrapHandler.ServeHTTP)
}
