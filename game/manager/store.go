package manager

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// HighScoreKey is the store key holding the all-time high score.
const HighScoreKey = "central-snake-hi"

// Store persists integer values by key.
type Store interface {
	Load(key string) (int, error)
	Save(key string, value int) error
}

// FileStore keeps every key in a single JSON object on disk.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns 0 for a missing file or key.
func (fs *FileStore) Load(key string) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.read()
	if err != nil {
		return 0, err
	}
	return values[key], nil
}

func (fs *FileStore) Save(key string, value int) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.read()
	if err != nil {
		// A corrupt file is replaced rather than blocking every future save.
		values = make(map[string]int)
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}
	return writeFileAtomic(fs.path, data)
}

func (fs *FileStore) read() (map[string]int, error) {
	values := make(map[string]int)
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("failed to read scores file: %w", err)
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse scores file %s: %w", fs.path, err)
	}
	return values, nil
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]int
	saves  int
	err    error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]int)}
}

func (ms *MemoryStore) Load(key string) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.err != nil {
		return 0, ms.err
	}
	return ms.values[key], nil
}

func (ms *MemoryStore) Save(key string, value int) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.err != nil {
		return ms.err
	}
	ms.values[key] = value
	ms.saves++
	return nil
}

// SetErr makes every following call fail with err. Pass nil to recover.
func (ms *MemoryStore) SetErr(err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.err = err
}

// Saves returns the number of successful Save calls.
func (ms *MemoryStore) Saves() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.saves
}
