package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BackupDirLayout names backup directories to the second
const BackupDirLayout = "20060102_150405"

// OutputManager handles output file organization and path management
type OutputManager struct {
	BaseOutputDir string
	BackupPrefix  string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir, backupPrefix string) *OutputManager {
	if backupPrefix == "" {
		backupPrefix = "backup_"
	}
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
		BackupPrefix:  backupPrefix,
	}
}

// CreateBackupDir creates the timestamped backup directory for a run
func (om *OutputManager) CreateBackupDir(now time.Time) (string, error) {
	dir := filepath.Join(om.BaseOutputDir, om.BackupPrefix+now.Format(BackupDirLayout))

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	return dir, nil
}

// OutputRelPath cleans a configured file name into a path relative to an
// output directory. ".." segments cannot climb above the directory.
func OutputRelPath(fileName string) string {
	sep := string(filepath.Separator)
	return strings.TrimPrefix(filepath.Clean(sep+fileName), sep)
}

// GetOutputFilePath generates a full path for an output file
func (om *OutputManager) GetOutputFilePath(fileName string) string {
	return filepath.Join(om.BaseOutputDir, OutputRelPath(fileName))
}

// FileExists reports whether path names an existing regular file
func (om *OutputManager) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CopyFile copies src to dst keeping permissions and modification time
func (om *OutputManager) CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// EnsureOutputDirExists ensures the base output directory exists
func (om *OutputManager) EnsureOutputDirExists() error {
	return os.MkdirAll(om.BaseOutputDir, 0755)
}
