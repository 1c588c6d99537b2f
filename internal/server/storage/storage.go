// Package storage keeps uploaded record images.
//
// Every backend names files "<unix-millis><ext>" and hands out stored paths
// of the form "uploads/<name>", which is also the public URL path under
// which the file is served.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// PathPrefix is the leading segment of every stored path.
const PathPrefix = "uploads"

var ErrInvalidPath = errors.New("invalid stored path")

// Upload is an incoming file as received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Location tells the transport how to serve a stored file: either from a
// local file or by redirecting to RedirectURL.
type Location struct {
	LocalPath   string
	RedirectURL string
}

type FileStorage interface {
	// Save stores the upload and returns its stored path.
	Save(ctx context.Context, u *Upload) (string, error)
	// Delete removes the file referenced by a stored path.
	Delete(ctx context.Context, storedPath string) error
	// Locate resolves a file name (the part after "uploads/").
	Locate(ctx context.Context, name string) (*Location, error)
}

// fileName builds the storage name for an upload received at t.
func fileName(t time.Time, original string) string {
	ext := filepath.Ext(filepath.Base(original))
	return fmt.Sprintf("%d%s", t.UnixMilli(), ext)
}

func storedPath(name string) string {
	return path.Join(PathPrefix, name)
}

// nameFromStoredPath extracts the bare file name from "uploads/<name>".
func nameFromStoredPath(p string) (string, error) {
	name, ok := strings.CutPrefix(p, PathPrefix+"/")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	if err := checkName(name); err != nil {
		return "", err
	}
	return name, nil
}

// checkName rejects anything that is not a single path element.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return nil
}
