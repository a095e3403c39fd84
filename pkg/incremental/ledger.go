package incremental

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/entrhq/contextpack/pkg/pack"
)

// DefaultLedgerFileName is the conventional version-ledger file name inside
// an output directory.
const DefaultLedgerFileName = "version_history.json"

// Ledger is the append-only, order-normalized record of produced context
// pack summaries. The stored sequence is re-sorted by parsed version on
// every write so reads are always ascending regardless of write order.
//
// Access assumes a single writer; concurrent writers can lose updates.
type Ledger struct {
	path string
}

// NewLedger opens a ledger backed by the given file path.
func NewLedger(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the ledger's backing file path.
func (l *Ledger) Path() string {
	return l.path
}

// Append records the pack's summary entry and rewrites the ledger in
// ascending parsed-version order. Unparseable versions sort last.
func (l *Ledger) Append(p pack.Pack) error {
	entries := l.Entries()
	entries = append(entries, p.LedgerSummary())
	sort.SliceStable(entries, func(i, j int) bool {
		return pack.CompareVersions(entries[i].Version, entries[j].Version) < 0
	})

	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("incremental: encode ledger: %w", err)
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("incremental: init directory %s: %w", dir, err)
		}
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("incremental: write temp ledger: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("incremental: atomic rename %s: %w", l.path, err)
	}
	return nil
}

// Entries returns the stored ledger entries. A missing, unreadable, or
// corrupt ledger is treated as empty; corruption is logged, never fatal.
func (l *Ledger) Entries() []pack.LedgerEntry {
	b, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		slog.Warn("incremental: ledger unreadable, starting fresh", "path", l.path, "err", err)
		return nil
	}
	var entries []pack.LedgerEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		slog.Warn("incremental: ledger corrupt, starting fresh", "path", l.path, "err", err)
		return nil
	}
	return entries
}
