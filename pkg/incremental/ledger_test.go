package incremental

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/contextpack/pkg/pack"
)

func packWithVersion(version string) pack.Pack {
	p := existingPack()
	p.Version = version
	return p
}

func TestLedgerAppendKeepsAscendingOrder(t *testing.T) {
	ledger := NewLedger(filepath.Join(t.TempDir(), DefaultLedgerFileName))

	// Written out of order on purpose
	for _, v := range []string{"1.0", "1.2", "1.1"} {
		require.NoError(t, ledger.Append(packWithVersion(v)))
	}

	entries := ledger.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "1.0", entries[0].Version)
	assert.Equal(t, "1.1", entries[1].Version)
	assert.Equal(t, "1.2", entries[2].Version)
}

func TestLedgerNumericOrdering(t *testing.T) {
	ledger := NewLedger(filepath.Join(t.TempDir(), DefaultLedgerFileName))

	for _, v := range []string{"1.10", "1.9", "1.2"} {
		require.NoError(t, ledger.Append(packWithVersion(v)))
	}

	entries := ledger.Entries()
	require.Len(t, entries, 3)
	// Numeric, not lexicographic: 1.9 < 1.10
	assert.Equal(t, []string{"1.2", "1.9", "1.10"}, versionsOf(entries))
}

func TestLedgerUnparseableVersionsSortLast(t *testing.T) {
	ledger := NewLedger(filepath.Join(t.TempDir(), DefaultLedgerFileName))

	for _, v := range []string{"corrupted-version", "1.1", "1.0"} {
		require.NoError(t, ledger.Append(packWithVersion(v)))
	}

	entries := ledger.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"1.0", "1.1", "corrupted-version"}, versionsOf(entries))
}

func TestLedgerEntriesMissingFile(t *testing.T) {
	ledger := NewLedger(filepath.Join(t.TempDir(), "absent.json"))
	assert.Empty(t, ledger.Entries())
}

func TestLedgerEntriesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultLedgerFileName)
	require.NoError(t, os.WriteFile(path, []byte("[{broken"), 0o600))

	ledger := NewLedger(path)
	assert.Empty(t, ledger.Entries(), "corrupt ledger reads as empty")

	// A fresh sequence can be started over it
	require.NoError(t, ledger.Append(packWithVersion("1.0")))
	entries := ledger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "1.0", entries[0].Version)
}

func TestLedgerEntrySummaryFields(t *testing.T) {
	ledger := NewLedger(filepath.Join(t.TempDir(), DefaultLedgerFileName))
	p := existingPack()
	require.NoError(t, ledger.Append(p))

	entries := ledger.Entries()
	require.Len(t, entries, 1)
	entry := entries[0]

	assert.Equal(t, p.Version, entry.Version)
	assert.Equal(t, p.SourcePlatform, entry.SourcePlatform)
	assert.Equal(t, len(p.Projects), entry.ProjectsCount)
	assert.Equal(t, len(p.TechnicalContext.Languages), entry.LanguagesCount)
	assert.Equal(t, len(p.TechnicalContext.Frameworks), entry.FrameworksCount)
}

func versionsOf(entries []pack.LedgerEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Version
	}
	return out
}
