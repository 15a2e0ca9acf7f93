package queue

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Payload is the file an item is created for. The queue holds it for the
// item's lifetime and opens it when the item is extracted.
type Payload interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// FilePayload reads a file from disk.
type FilePayload struct {
	path string
	size int64
}

// NewFilePayload stats path and returns a payload for it.
func NewFilePayload(path string) (*FilePayload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}
	return &FilePayload{path: path, size: info.Size()}, nil
}

func (p *FilePayload) Name() string                 { return filepath.Base(p.path) }
func (p *FilePayload) Size() int64                  { return p.size }
func (p *FilePayload) Path() string                 { return p.path }
func (p *FilePayload) Open() (io.ReadCloser, error) { return os.Open(p.path) }

// BytesPayload serves an in-memory buffer.
type BytesPayload struct {
	name string
	data []byte
}

// NewBytesPayload wraps data. The slice is not copied.
func NewBytesPayload(name string, data []byte) *BytesPayload {
	return &BytesPayload{name: name, data: data}
}

func (p *BytesPayload) Name() string { return p.name }
func (p *BytesPayload) Size() int64  { return int64(len(p.data)) }
func (p *BytesPayload) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(p.data)), nil
}

// MultipartPayload adapts an uploaded form file.
type MultipartPayload struct {
	fh *multipart.FileHeader
}

// NewMultipartPayload wraps fh.
func NewMultipartPayload(fh *multipart.FileHeader) (*MultipartPayload, error) {
	if fh == nil {
		return nil, ErrPayloadNil
	}
	return &MultipartPayload{fh: fh}, nil
}

func (p *MultipartPayload) Name() string { return p.fh.Filename }
func (p *MultipartPayload) Size() int64  { return p.fh.Size }
func (p *MultipartPayload) Open() (io.ReadCloser, error) {
	return p.fh.Open()
}
