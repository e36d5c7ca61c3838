// Package filestore implements application/ports.Store against the local
// filesystem: a single structural JSON dump written atomically via a
// write-temp-then-rename, generalized from the teacher's DynamoDB
// conditional-write persistence (infrastructure/persistence/dynamodb) down
// to filesystem rename-atomicity, since there is exactly one writer and
// one file rather than a replicated table.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"backend2/domain/config"
	"backend2/domain/core/aggregates"
	"backend2/infrastructure/persistence/statedto"
	"backend2/pkg/utils"
)

const (
	rootMarker = ".memcore-root"
	stateFile  = "memcore-state.json"
)

// Store is a file-backed application/ports.Store.
type Store struct {
	path   string
	logger *zap.Logger
}

// New resolves the state file's directory and returns a Store. If dir is
// empty, ResolveStateDir walks up from the working directory looking for
// a .memcore-root marker, falling back to the working directory itself.
func New(dir string, logger *zap.Logger) (*Store, error) {
	resolved, err := ResolveStateDir(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(resolved, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create state dir: %w", err)
	}
	return &Store{path: filepath.Join(resolved, stateFile), logger: logger}, nil
}

// ResolveStateDir honors an explicit dir (MEMORY_STATE_DIR), otherwise
// walks parent directories from the working directory looking for a
// .memcore-root marker file, falling back to the working directory.
func ResolveStateDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("filestore: resolve working directory: %w", err)
	}

	for candidate := cwd; ; {
		if _, err := os.Stat(filepath.Join(candidate, rootMarker)); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(candidate)
		if parent == candidate {
			break
		}
		candidate = parent
	}

	return cwd, nil
}

// Load restores the persisted state, or a fresh empty state seeded with
// policy if no state file exists yet.
func (s *Store) Load(ctx context.Context, policy *config.Policy) (*aggregates.State, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return aggregates.NewState(policy, utils.NowMillis()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: read state file: %w", err)
	}

	var dto statedto.State
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("filestore: decode state file: %w", err)
	}
	if dto.Policy == nil {
		dto.Policy = policy
	}

	state, err := statedto.ToState(&dto)
	if err != nil {
		return nil, fmt.Errorf("filestore: reconstruct state: %w", err)
	}
	return state, nil
}

// Save atomically persists state: write to a temp sibling file, fsync,
// then rename over the target, so a reader never observes a partial
// write and a crash mid-write leaves the prior file intact.
func (s *Store) Save(ctx context.Context, state *aggregates.State) error {
	raw, err := json.MarshalIndent(statedto.FromState(state), "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".memcore-state-*.tmp")
	if err != nil {
		return fmt.Errorf("filestore: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("filestore: close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("filestore: rename into place: %w", err)
	}
	s.logger.Debug("persisted state", zap.String("path", s.path), zap.Int("items", len(state.Items())))
	return nil
}

// Close is a no-op for the file store; nothing is held open between calls.
func (s *Store) Close(ctx context.Context) error { return nil }
