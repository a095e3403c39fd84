package incremental

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/entrhq/contextpack/pkg/pack"
)

// ErrNoPreviousContext reports that no usable previously persisted pack
// exists at the given path. Callers fall back to full extraction.
var ErrNoPreviousContext = errors.New("incremental: no previous context")

// SavePack persists a context pack as an indented JSON document. It writes
// atomically via a temporary file and creates parent directories as needed.
func SavePack(p pack.Pack, path string) error {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("incremental: encode pack: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("incremental: init directory %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("incremental: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("incremental: atomic rename %s: %w", path, err)
	}
	return nil
}

// LoadPreviousPack reads a previously persisted context pack. A missing,
// unreadable, or corrupt file is reported as ErrNoPreviousContext rather
// than a hard failure; corruption is logged.
func LoadPreviousPack(path string) (*pack.Pack, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoPreviousContext
	}
	if err != nil {
		slog.Warn("incremental: previous pack unreadable, treating as absent", "path", path, "err", err)
		return nil, ErrNoPreviousContext
	}
	var p pack.Pack
	if err := json.Unmarshal(b, &p); err != nil {
		slog.Warn("incremental: previous pack corrupt, treating as absent", "path", path, "err", err)
		return nil, ErrNoPreviousContext
	}
	return &p, nil
}
