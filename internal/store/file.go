package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

// File schema versioning for forward-compatibility.
const fileVersion = 1

type fileSnapshot struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
	Updated int64             `json:"updated_unix"`
}

// File keeps every key in one JSON document shared by every process that
// opens the same path. Get reads the document from disk; Set re-reads it
// under an exclusive lock on path+".lock", changes only its key and renames a
// fresh temp file over the document.
type File struct {
	mu   sync.Mutex
	path string
}

// OpenFile checks that path is absent or a readable store document and
// returns a ready store.
func OpenFile(path string) (*File, error) {
	f := &File{path: path}
	if _, err := f.load(); err != nil {
		return nil, fmt.Errorf("load store %s: %w", path, err)
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	values, err := f.load()
	if err != nil {
		return "", fmt.Errorf("load store %s: %w", f.path, err)
	}
	return values[key], nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	unlock, err := f.lock()
	if err != nil {
		return err
	}
	defer unlock()

	values, err := f.load()
	if err != nil {
		return fmt.Errorf("load store %s: %w", f.path, err)
	}
	values[key] = value
	return f.save(values)
}

// lock takes the cross-process write lock.
func (f *File) lock() (func(), error) {
	lf, err := os.OpenFile(f.path+".lock", os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(lf.Fd()), syscall.LOCK_EX); err != nil {
		lf.Close() //nolint:errcheck
		return nil, fmt.Errorf("lock store: %w", err)
	}
	return func() {
		_ = syscall.Flock(int(lf.Fd()), syscall.LOCK_UN)
		_ = lf.Close()
	}, nil
}

func (f *File) load() (map[string]string, error) {
	values := make(map[string]string)
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, err
	}
	if len(b) == 0 {
		return values, nil
	}
	var s fileSnapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	for k, v := range s.Values {
		values[k] = v
	}
	return values, nil
}

func (f *File) save(values map[string]string) error {
	s := fileSnapshot{
		Version: fileVersion,
		Values:  values,
		Updated: time.Now().UTC().Unix(),
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := tmp.Write(b); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
