package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// fileStore keeps the session slot in a single JSON file on disk, the
// durable-storage analog for deployments without Redis. Writes go through
// a temp file and rename so a crash never leaves a half-written record.
type fileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed session store at path.
func NewFileStore(path string) Store {
	return &fileStore{path: path}
}

func (f *fileStore) Save(ctx context.Context, s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *fileStore) Load(ctx context.Context) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		// A slot we cannot parse counts as absent.
		return nil, nil
	}

	return &s, nil
}

func (f *fileStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
