// Package attachment stores the files uploaded with a request admin intake.
// Keys are opaque; the database keeps the key and the original file name.
package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Driver identifies a storage backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

// ErrNotFound is returned by Get and Head for unknown keys.
var ErrNotFound = errors.New("attachment: not found")

// Info describes a stored attachment.
type Info struct {
	Key          string    `json:"key"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type,omitempty"`
	Size         int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
}

// PutOptions carries the metadata saved alongside the content.
type PutOptions struct {
	FileName    string
	ContentType string
}

// Store is the blob boundary used by the intake service.
type Store interface {
	// Put stores content under key and fails if the key already exists.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	// Delete reports whether the key existed.
	Delete(ctx context.Context, key string) (bool, error)
	Driver() Driver
}

// NewKey returns a fresh key that keeps the extension of fileName.
// Keys are grouped by upload month: request-admin/2026/01/<uuid>.pdf
func NewKey(now time.Time, fileName string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(fileName, "\\", "/")))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("request-admin/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), ext)
}

// Config selects and configures a backend.
type Config struct {
	Driver Driver
	// Dir is the root of the filesystem driver.
	Dir string
	S3  S3Config
}

// Open builds the configured store. An empty driver selects the filesystem.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverFilesystem:
		return NewFilesystem(cfg.Dir)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown attachment driver %q", cfg.Driver)
	}
}
