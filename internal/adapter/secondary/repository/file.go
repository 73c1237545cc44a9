package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"drink-reminder/internal/domain"
)

// FileKV implements domain.KeyValueStore as a JSON object on disk.
// This is a secondary adapter.
type FileKV struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewFileKV creates a file-backed store at path on fs.
// Parent directories are created automatically.
func NewFileKV(fs afero.Fs, path string) (*FileKV, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}

	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}

	return &FileKV{fs: fs, path: path}, nil
}

// Path returns the backing file path.
func (f *FileKV) Path() string {
	return f.path
}

// Get returns the value for key, if present.
func (f *FileKV) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Update applies sets and removals with a single atomic file replace.
func (f *FileKV) Update(set map[string]string, remove ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	for k, v := range set {
		values[k] = v
	}
	for _, k := range remove {
		delete(values, k)
	}
	return f.write(values)
}

func (f *FileKV) read() (map[string]string, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return values, nil
}

func (f *FileKV) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Atomic write
	tmp := f.path + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}

var _ domain.KeyValueStore = (*FileKV)(nil)
