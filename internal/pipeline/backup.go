package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"procurement-dashboard/pkg/utils"
	"time"
)

// Archiver mirrors a local backup directory to remote storage
type Archiver interface {
	Archive(ctx context.Context, dir string) (int, error)
	Location() string
}

// Backup is the outcome of copying prior outputs aside
type Backup struct {
	Dir    string
	Copied []string
}

// BackupOutputs copies every existing file in names into a fresh
// timestamped directory. Missing files are skipped.
func BackupOutputs(om *utils.OutputManager, names []string, now time.Time) (Backup, error) {
	dir, err := om.CreateBackupDir(now)
	if err != nil {
		return Backup{}, ioError("create backup", om.BaseOutputDir, err)
	}

	backup := Backup{Dir: dir}
	for _, name := range names {
		src := om.GetOutputFilePath(name)
		if !om.FileExists(src) {
			continue
		}
		dst := filepath.Join(dir, utils.OutputRelPath(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return backup, ioError("backup", dst, err)
		}
		if err := om.CopyFile(src, dst); err != nil {
			return backup, ioError("backup", src, err)
		}
		backup.Copied = append(backup.Copied, name)
	}
	return backup, nil
}
