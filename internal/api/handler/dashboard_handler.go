package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"procurement-dashboard/internal/model"
	"procurement-dashboard/internal/observability"
	"procurement-dashboard/internal/pipeline"
	"procurement-dashboard/internal/store"
	"procurement-dashboard/pkg/utils"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// RunStore is the ledger surface the API reads and writes
type RunStore interface {
	pipeline.Ledger
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	GetRun(ctx context.Context, runID string) (model.RunRecord, error)
}

// Handler serves refresh runs and the latest output documents.
// At most one refresh runs at a time.
type Handler struct {
	Options pipeline.Options // template for each refresh; Ledger is set from Runs
	Runs    RunStore         // optional
	Metrics *observability.Metrics
	Logger  *slog.Logger

	refreshMu sync.Mutex
}

func New(opts pipeline.Options, runs RunStore, metrics *observability.Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Options: opts, Runs: runs, Metrics: metrics, Logger: logger}
}

// Refresh runs a dashboard refresh
// @Summary Run a refresh
// @Description Back up outputs, recompute the snapshot from the workbook and update the dashboard. Runs synchronously.
// @Tags refresh
// @Produce json
// @Param no_backup query bool false "Skip the backup step"
// @Success 200 {object} model.RunResult "Refresh completed"
// @Failure 409 {object} map[string]interface{} "A refresh is already running"
// @Failure 422 {object} map[string]interface{} "Workbook data could not be aggregated"
// @Failure 500 {object} map[string]interface{} "Refresh failed"
// @Router /refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !h.refreshMu.TryLock() {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error": "a refresh is already running",
		})
		return
	}
	defer h.refreshMu.Unlock()

	opts := h.Options
	if h.Runs != nil {
		opts.Ledger = h.Runs
	}
	opts.Logger = h.Logger
	if skip, err := strconv.ParseBool(r.URL.Query().Get("no_backup")); err == nil && skip {
		opts.Backup = false
	}

	runID := uuid.New().String()
	result, err := pipeline.Run(r.Context(), runID, opts)

	status := model.RunStatusCompleted
	if err != nil {
		status = model.RunStatusFailed
	}
	if h.Metrics != nil {
		h.Metrics.Observe(result, status)
	}

	if err != nil {
		writeJSON(w, refreshStatusCode(err), map[string]interface{}{
			"run_id": runID,
			"status": status,
			"error":  err.Error(),
			"result": result,
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetSnapshot returns the latest dashboard snapshot
// @Summary Latest snapshot
// @Description Return the snapshot document written by the most recent successful refresh
// @Tags documents
// @Produce json
// @Success 200 {object} model.DashboardSnapshot "Snapshot"
// @Failure 404 {object} map[string]interface{} "No snapshot written yet"
// @Router /snapshot [get]
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, h.Options.Files.Snapshot)
}

// GetMetrics returns the latest process metrics document
// @Summary Latest process metrics
// @Tags documents
// @Produce json
// @Success 200 {object} model.MetricsDocument "Process metrics"
// @Failure 404 {object} map[string]interface{} "No metrics written yet"
// @Router /metrics [get]
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, h.Options.Files.Metrics)
}

// GetQueue returns the latest automation queue document
// @Summary Latest queue document
// @Tags documents
// @Produce json
// @Success 200 {object} model.QueueDocument "Queue document"
// @Failure 404 {object} map[string]interface{} "No queue document written yet"
// @Router /queue [get]
func (h *Handler) GetQueue(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, h.Options.Files.Queue)
}

// ListRuns lists recent refresh runs
// @Summary List runs
// @Description Most recent refresh runs first
// @Tags runs
// @Produce json
// @Param limit query int false "Maximum number of runs" default(50)
// @Success 200 {array} model.RunRecord "Runs"
// @Failure 503 {object} map[string]interface{} "Run ledger disabled"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.Runs == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"error": "run ledger disabled"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := h.Runs.ListRuns(r.Context(), limit)
	if err != nil {
		h.Logger.Error("list runs", "error", err)
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []model.RunRecord{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun retrieves one refresh run
// @Summary Get run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.RunRecord "Run details"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Failure 503 {object} map[string]interface{} "Run ledger disabled"
// @Router /runs/{id} [get]
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.Runs == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"error": "run ledger disabled"})
		return
	}

	// Extract run ID from URL path
	prefix := "/api/v1/runs/"
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}
	runID := strings.Trim(path[len(prefix):], "/")
	if runID == "" || strings.Contains(runID, "/") {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := h.Runs.GetRun(r.Context(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error("get run", "run_id", runID, "error", err)
		http.Error(w, "Failed to fetch run", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// serveDocument streams a JSON output file unchanged.
func (h *Handler) serveDocument(w http.ResponseWriter, name string) {
	data, err := os.ReadFile(filepath.Join(h.Options.OutputDir, utils.OutputRelPath(name)))
	if errors.Is(err, os.ErrNotExist) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error": "document not written yet",
			"file":  name,
		})
		return
	}
	if err != nil {
		h.Logger.Error("read document", "file", name, "error", err)
		http.Error(w, "Failed to read document", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func refreshStatusCode(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrSchema),
		errors.Is(err, pipeline.ErrEmptySample),
		errors.Is(err, pipeline.ErrDivideByZero):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
