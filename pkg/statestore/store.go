package statestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-schemeweave/pkg/workspace"
)

// StorageKey is the entry the snapshot is stored under.
const StorageKey = "schemeweave-storage"

// Store loads and saves workspace snapshots. Load reports false when nothing
// has been saved yet.
type Store interface {
	Load(ctx context.Context) (workspace.Snapshot, bool, error)
	Save(ctx context.Context, snapshot workspace.Snapshot) error
}

// Option customises a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger used for store diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// FileStore persists snapshots in a JSON file.
type FileStore struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store writing to path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{path: path, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Path returns the state file location.
func (s *FileStore) Path() string { return s.path }

// Load reads the snapshot from the state file. A missing file or entry is not
// an error.
func (s *FileStore) Load(ctx context.Context) (workspace.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return workspace.Snapshot{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readEntries()
	if err != nil {
		return workspace.Snapshot{}, false, err
	}
	raw, ok := entries[StorageKey]
	if !ok {
		return workspace.Snapshot{}, false, nil
	}

	var snap workspace.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return workspace.Snapshot{}, false, fmt.Errorf("statestore: decode %s: %w", StorageKey, err)
	}
	s.logger.Debug("state loaded", "path", s.path, "documents", len(snap.Documents))
	return snap, true, nil
}

// Save writes the snapshot atomically, replacing only the namespaced entry.
func (s *FileStore) Save(ctx context.Context, snapshot workspace.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readEntries()
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("statestore: encode snapshot: %w", err)
	}
	entries[StorageKey] = encoded

	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("statestore: encode state file: %w", err)
	}
	if err := writeAtomic(s.path, payload); err != nil {
		return err
	}
	s.logger.Debug("state saved", "path", s.path, "bytes", len(payload))
	return nil
}

func (s *FileStore) readEntries() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("statestore: read %s: %w", s.path, err)
	}
	entries := map[string]json.RawMessage{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("statestore: decode %s: %w", s.path, err)
	}
	return entries, nil
}

func writeAtomic(path string, payload []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("statestore: create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("statestore: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("statestore: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("statestore: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("statestore: replace %s: %w", path, err)
	}
	return nil
}

// MemoryStore keeps the last saved snapshot encoded in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(ctx context.Context) (workspace.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return workspace.Snapshot{}, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return workspace.Snapshot{}, false, nil
	}
	var snap workspace.Snapshot
	if err := json.Unmarshal(m.data, &snap); err != nil {
		return workspace.Snapshot{}, false, fmt.Errorf("statestore: decode snapshot: %w", err)
	}
	return snap, true, nil
}

func (m *MemoryStore) Save(ctx context.Context, snapshot workspace.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("statestore: encode snapshot: %w", err)
	}
	m.mu.Lock()
	m.data = encoded
	m.mu.Unlock()
	return nil
}
