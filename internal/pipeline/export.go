package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"procurement-dashboard/internal/model"
	"procurement-dashboard/pkg/utils"
	"time"
)

// ExportManager writes the run's side files into one output directory.
// Every file is written independently; a failure does not roll back
// files written before it.
type ExportManager struct {
	OutputDir string
	Results   []model.ExportResult
	Logger    *slog.Logger
}

// NewExportManager creates an export manager rooted at outputDir
func NewExportManager(outputDir string, logger *slog.Logger) *ExportManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportManager{
		OutputDir: outputDir,
		Results:   make([]model.ExportResult, 0),
		Logger:    logger,
	}
}

// Path resolves a file name inside the output directory.
func (em *ExportManager) Path(name string) string {
	return filepath.Join(em.OutputDir, utils.OutputRelPath(name))
}

// ExportJSON writes v as indented JSON. recordCount is reported as-is.
func (em *ExportManager) ExportJSON(name string, v interface{}, recordCount int) error {
	path := em.Path(name)
	err := em.exportToJSON(path, v)
	em.record("json", path, recordCount, err)
	if err != nil {
		return ioError("write", path, err)
	}
	return nil
}

// ExportCSV writes a record set with its header order preserved.
func (em *ExportManager) ExportCSV(name string, rs model.RecordSet) error {
	path := em.Path(name)
	count, err := em.exportToCSV(path, rs)
	em.record("csv", path, count, err)
	if err != nil {
		return ioError("write", path, err)
	}
	return nil
}

// Record adds the outcome of an export performed elsewhere (HTML, queue, archive).
func (em *ExportManager) Record(kind, path string, recordCount int, err error) {
	em.record(kind, path, recordCount, err)
}

func (em *ExportManager) record(kind, path string, recordCount int, err error) {
	result := model.ExportResult{
		Type:        kind,
		Path:        path,
		RecordCount: recordCount,
		Success:     err == nil,
		ExportedAt:  time.Now(),
	}
	if err != nil {
		result.Error = err.Error()
		em.Logger.Error("export failed", "type", kind, "path", path, "error", err)
	} else {
		em.Logger.Info("export written", "type", kind, "path", path, "records", recordCount)
	}
	em.Results = append(em.Results, result)
}

// exportToJSON exports a document to JSON format
func (em *ExportManager) exportToJSON(path string, v interface{}) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return file.Close()
}

// exportToCSV exports a record set to CSV format
func (em *ExportManager) exportToCSV(path string, rs model.RecordSet) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(rs.Columns); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	recordCount := 0
	row := make([]string, len(rs.Columns))
	for _, record := range rs.Rows {
		for i, col := range rs.Columns {
			row[i] = utils.FormatValue(record[col])
		}
		if err := writer.Write(row); err != nil {
			return recordCount, fmt.Errorf("failed to write row: %w", err)
		}
		recordCount++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return recordCount, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return recordCount, file.Close()
}
