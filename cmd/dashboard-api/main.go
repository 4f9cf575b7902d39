package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	_ "procurement-dashboard/docs"
	"procurement-dashboard/internal/api"
	"procurement-dashboard/internal/api/handler"
	"procurement-dashboard/internal/app"
	"procurement-dashboard/internal/config"
	"procurement-dashboard/internal/observability"
	"procurement-dashboard/pkg/router"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title Procurement Dashboard API
// @version 1.0
// @description Refreshes the procurement dashboard from the consolidated workbook and serves the latest documents.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	configPath := flag.String("config", "", "path to YAML config (overrides PROCDASH_CONFIG_PATH)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := app.NewLogger(os.Stderr, cfg.Log.Level)

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	var runs handler.RunStore
	if a.Ledger != nil {
		runs = a.Ledger
	}
	h := handler.New(a.Options(), runs, metrics, logger)

	// Create router
	r := router.New()

	// Register API routes
	api.RegisterRoutes(r, h, reg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	err = r.Start(addr,
		handlers.RecoveryHandler(handlers.PrintRecoveryStack(true)),
		handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		),
	)
	logger.Error("server stopped", "error", err)
	a.Close()
	os.Exit(1)
}
