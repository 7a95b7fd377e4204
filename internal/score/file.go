package score

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStore keeps values in a YAML map on disk. Writes replace the file
// atomically so a crash never leaves it half written.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]int // nil until first loaded
	closed bool
}

// NewFileStore returns a store backed by path. The file and its directory
// are created on the first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) load() error {
	if f.values != nil {
		return nil
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.values = make(map[string]int)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", f.path, err)
	}

	values := make(map[string]int)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("decode %s: %w", f.path, err)
	}
	f.values = values
	return nil
}

func (f *FileStore) Int(_ context.Context, key string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, ErrClosed
	}
	if err := f.load(); err != nil {
		return 0, err
	}
	return f.values[key], nil
}

func (f *FileStore) SetInt(_ context.Context, key string, value int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	if err := f.load(); err != nil {
		return err
	}
	f.values[key] = value

	data, err := yaml.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	return writeAtomic(f.path, data)
}

func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// writeAtomic writes data to a temp file next to path and renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
