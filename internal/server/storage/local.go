package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"github.com/dmitrijs2005/staffkeeper/internal/filex"
)

// maxNameAttempts bounds the search for a free name when two uploads land
// in the same millisecond.
const maxNameAttempts = 16

// LocalStorage keeps files in a directory on disk.
type LocalStorage struct {
	dir string
	now func() time.Time
}

// NewLocalStorage creates dir if needed.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalStorage{dir: abs, now: time.Now}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Save(ctx context.Context, u *Upload) (string, error) {
	if u == nil || u.Body == nil {
		return "", errors.New("empty upload")
	}

	t := s.now()
	for i := 0; i < maxNameAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		name := fileName(t.Add(time.Duration(i)*time.Millisecond), u.Filename)
		full := filepath.Join(s.dir, name)

		f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o660)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", full, err)
		}

		_, err = io.Copy(f, u.Body)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(full)
			return "", fmt.Errorf("write %s: %w", full, err)
		}

		return storedPath(name), nil
	}

	return "", fmt.Errorf("no free file name after %d attempts", maxNameAttempts)
}

func (s *LocalStorage) Delete(ctx context.Context, p string) error {
	name, err := nameFromStoredPath(p)
	if err != nil {
		return err
	}
	return filex.Remove(filepath.Join(s.dir, name))
}

func (s *LocalStorage) Locate(ctx context.Context, name string) (*Location, error) {
	if err := checkName(name); err != nil {
		return nil, common.ErrorNotFound
	}

	full := filepath.Join(s.dir, name)
	fi, err := os.Stat(full)
	if err != nil || fi.IsDir() {
		return nil, common.ErrorNotFound
	}

	return &Location{LocalPath: full}, nil
}
