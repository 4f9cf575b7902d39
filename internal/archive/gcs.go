// Package archive mirrors local backup directories to Cloud Storage.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// ObjectWriterFactory opens a writer for an object name. The GCS bucket
// handle satisfies it through BucketWriter.
type ObjectWriterFactory func(ctx context.Context, object string) io.WriteCloser

// BucketWriter returns a factory writing new objects into bucket. Existing
// objects are never overwritten.
func BucketWriter(bucket *storage.BucketHandle) ObjectWriterFactory {
	return func(ctx context.Context, object string) io.WriteCloser {
		return bucket.Object(object).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	}
}

// GCSArchiver uploads each file of a backup directory under prefix/<dir name>/.
type GCSArchiver struct {
	bucket string
	prefix string
	open   ObjectWriterFactory
	client *storage.Client
	log    *slog.Logger
}

// NewGCSArchiver creates a client using application default credentials.
func NewGCSArchiver(ctx context.Context, bucket, prefix string, log *slog.Logger) (*GCSArchiver, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	a := NewGCSArchiverWithFactory(bucket, prefix, BucketWriter(client.Bucket(bucket)), log)
	a.client = client
	return a, nil
}

// NewGCSArchiverWithFactory builds an archiver over an arbitrary writer factory.
func NewGCSArchiverWithFactory(bucket, prefix string, open ObjectWriterFactory, log *slog.Logger) *GCSArchiver {
	if log == nil {
		log = slog.Default()
	}
	return &GCSArchiver{
		bucket: bucket,
		prefix: prefix,
		open:   open,
		log:    log.With(slog.String("component", "gcs-archiver")),
	}
}

// Location returns the gs:// URL objects are written under.
func (a *GCSArchiver) Location() string {
	return fmt.Sprintf("gs://%s/%s", a.bucket, a.prefix)
}

// Archive uploads the regular files under dir, subdirectories included, and
// returns how many were written. Objects that already exist are skipped.
func (a *GCSArchiver) Archive(ctx context.Context, dir string) (int, error) {
	uploaded := 0
	err := filepath.WalkDir(dir, func(src string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("read backup dir: %w", err)
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, src)
		if err != nil {
			return err
		}
		object := path.Join(a.prefix, filepath.Base(dir), filepath.ToSlash(rel))
		written, err := a.upload(ctx, src, object)
		if err != nil {
			return err
		}
		if written {
			uploaded++
		}
		return nil
	})
	if err != nil {
		return uploaded, err
	}
	a.log.Info("backup archived", "location", a.Location(), "dir", dir, "objects", uploaded)
	return uploaded, nil
}

func (a *GCSArchiver) upload(ctx context.Context, src, object string) (bool, error) {
	f, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer f.Close()

	w := a.open(ctx, object)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return false, fmt.Errorf("upload %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		if isPreconditionFailed(err) {
			a.log.Debug("object exists, skipping", "object", object)
			return false, nil
		}
		return false, fmt.Errorf("finalize %s: %w", object, err)
	}
	return true, nil
}

func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}

// Close releases the storage client, if one was created.
func (a *GCSArchiver) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}
