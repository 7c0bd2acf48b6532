package adapters

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PranavReddyGaddam/GitBridge/application/ports/outbound"
	"github.com/PranavReddyGaddam/GitBridge/domain"
)

type localStorageBackend struct {
	root   string
	logger outbound.LoggerPort
}

// NewLocalStorageBackend stores artifacts as files under root. Refs are
// absolute paths; URLFor returns the path unchanged.
func NewLocalStorageBackend(root string, logger outbound.LoggerPort) (outbound.StorageBackendPort, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &localStorageBackend{root: abs, logger: logger}, nil
}

func (l *localStorageBackend) Put(_ context.Context, ref string, data []byte, _ string) error {
	if err := os.MkdirAll(filepath.Dir(ref), 0o755); err != nil {
		return &domain.PersistenceError{Ref: ref, Err: err}
	}
	if err := os.WriteFile(ref, data, 0o644); err != nil {
		return &domain.PersistenceError{Ref: ref, Err: err}
	}
	return nil
}

func (l *localStorageBackend) Get(_ context.Context, ref string) ([]byte, error) {
	data, err := os.ReadFile(ref)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrRefNotFound
	}
	if err != nil {
		return nil, &domain.PersistenceError{Ref: ref, Err: err}
	}
	return data, nil
}

func (l *localStorageBackend) Exists(_ context.Context, ref string) (bool, error) {
	_, err := os.Stat(ref)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &domain.PersistenceError{Ref: ref, Err: err}
	}
	return true, nil
}

func (l *localStorageBackend) ListByPrefix(_ context.Context, prefix string) ([]string, error) {
	var refs []string
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		if strings.HasPrefix(filepath.ToSlash(rel), prefix) {
			refs = append(refs, path)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.PersistenceError{Ref: prefix, Err: err}
	}
	return refs, nil
}

func (l *localStorageBackend) Delete(_ context.Context, ref string) error {
	err := os.Remove(ref)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &domain.PersistenceError{Ref: ref, Err: err}
	}
	return nil
}

func (l *localStorageBackend) URLFor(_ context.Context, ref string, _ time.Duration) (string, error) {
	return ref, nil
}

func (l *localStorageBackend) BuildRef(parts ...string) string {
	return filepath.Join(append([]string{l.root}, parts...)...)
}

func (l *localStorageBackend) RelativeKey(ref string) (string, error) {
	rel, err := filepath.Rel(l.root, ref)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", &domain.PersistenceError{Ref: ref, Err: errors.New("ref outside storage root")}
	}
	return filepath.ToSlash(rel), nil
}
