package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/impuestosrd/impuestosrd-api/internal/logging"
)

// StoredFile describes a file written by a FileStore.
type StoredFile struct {
	Name string // file name inside the store
	Path string // public URL path
	Size int64
}

// LocalFileStore writes uploads to a directory served under PublicPath.
type LocalFileStore struct {
	dir        string
	publicPath string
	logger     *logging.Logger
}

// NewLocalFileStore creates the upload directory if needed.
func NewLocalFileStore(dir, publicPath string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating upload dir %s", dir)
	}

	return &LocalFileStore{
		dir:        dir,
		publicPath: publicPath,
		logger:     logging.NewLogger("file-store"),
	}, nil
}

// Dir returns the directory holding stored files.
func (s *LocalFileStore) Dir() string {
	return s.dir
}

// Save writes r under a new unique name ending in ext.
func (s *LocalFileStore) Save(ctx context.Context, r io.Reader, ext string) (*StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
	full := filepath.Join(s.dir, name)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "creating upload file")
	}

	size, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		return nil, errors.Wrap(err, "writing upload file")
	}

	s.logger.Info("File stored", logging.Fields{
		"name": name,
		"size": size,
	})

	return &StoredFile{
		Name: name,
		Path: s.publicPath + "/" + name,
		Size: size,
	}, nil
}

// Delete removes a stored file. Missing files are not an error.
func (s *LocalFileStore) Delete(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "deleting upload file")
	}
	return nil
}
