package preview

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage implements Storage on the local filesystem.
// All operations are confined to baseDir.
type LocalStorage struct {
	baseDir       string
	baseURL       string
	uploadTimeout time.Duration
}

// LocalOption configures LocalStorage.
type LocalOption func(*LocalStorage)

// WithLocalUploadTimeout bounds a single Put.
func WithLocalUploadTimeout(timeout time.Duration) LocalOption {
	return func(s *LocalStorage) {
		s.uploadTimeout = timeout
	}
}

// NewLocalStorage creates baseDir if needed. baseURL prefixes generated URLs,
// e.g. "/previews/".
func NewLocalStorage(baseDir, baseURL string, opts ...LocalOption) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("%w: base directory is required", ErrInvalidConfig)
	}

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToGetAbsolutePath, err)
	}
	if err := os.MkdirAll(absBaseDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	s := &LocalStorage{baseDir: absBaseDir, baseURL: baseURL}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Put writes r to path, removing the partial file on failure.
func (s *LocalStorage) Put(ctx context.Context, path string, r io.Reader, _ int64, _ string) error {
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	absPath, err := s.resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	dst, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToCreateFile, err)
	}

	if err := copyContext(ctx, dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(absPath)
		return err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(absPath)
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	return nil
}

// Delete removes a single file.
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	absPath, err := s.resolvePath(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("%w: %v", ErrFailedToStatPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	if err := os.Remove(absPath); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err)
	}
	return nil
}

// Exists reports whether path exists.
func (s *LocalStorage) Exists(path string) bool {
	absPath, err := s.resolvePath(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(absPath)
	return err == nil
}

// URL returns the public URL for path.
func (s *LocalStorage) URL(path string) string {
	path = filepath.ToSlash(filepath.Clean(path))
	if strings.HasPrefix(path, "/") {
		return path
	}
	return s.baseURL + path
}

// resolvePath joins path onto baseDir and rejects anything that escapes it.
func (s *LocalStorage) resolvePath(path string) (string, error) {
	absPath, err := filepath.Abs(filepath.Join(s.baseDir, filepath.Clean(path)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToGetAbsolutePath, err)
	}
	if !strings.HasPrefix(absPath, s.baseDir+string(filepath.Separator)) && absPath != s.baseDir {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	return absPath, nil
}

// copyContext copies in 32KB chunks, checking ctx between reads.
func copyContext(ctx context.Context, dst io.Writer, src io.Reader) error {
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("%w: %v", ErrFailedToReadFile, readErr)
		}
	}
}
