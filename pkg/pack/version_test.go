package pack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    []int
		ok      bool
	}{
		{"two components", "1.0", []int{1, 0}, true},
		{"three components", "2.13.4", []int{2, 13, 4}, true},
		{"single component", "7", []int{7}, true},
		{"empty", "", nil, false},
		{"delta marker", "delta-20240115-093000", nil, false},
		{"non-numeric component", "1.x", nil, false},
		{"trailing dot", "1.", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseVersion(tt.version)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionSortKey(t *testing.T) {
	assert.Equal(t, []int{1, 2}, VersionSortKey("1.2"))

	// Unparseable and delta versions sort after every real version
	assert.Equal(t, []int{999, 999, 999}, VersionSortKey("garbage"))
	assert.Equal(t, []int{999, 999, 999}, VersionSortKey("delta-20240115-093000"))
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.1", -1},
		{"1.1", "1.0", 1},
		{"1.0", "1.0", 0},
		{"1.9", "1.10", -1},
		{"2.0", "1.99", 1},
		{"1.0", "1.0.1", -1}, // missing components treated as zero
		{"1.0.0", "1.0", 0},
		{"1.2", "delta-20240115-093000", -1},
		{"delta-a", "delta-b", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CompareVersions(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}

func TestBumpMinor(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"1.0", "1.1"},
		{"1.1", "1.2"},
		{"1.9", "1.10"},
		{"2.13.4", "2.14"},
		{"garbage", "1.1"},
		{"", "1.1"},
		{"7", "7.1"},
		{"2", "2.1"},
		{"delta-20240115-093000", "1.1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BumpMinor(tt.version), "bump %q", tt.version)
	}

	// The bump is strictly increasing for every parseable input
	for _, v := range []string{"1.0", "1.9", "2", "2.13.4"} {
		assert.Equal(t, -1, CompareVersions(v, BumpMinor(v)), "bump %q", v)
	}
}

func TestDeltaVersion(t *testing.T) {
	ts := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	got := DeltaVersion(ts)

	assert.Equal(t, "delta-20240115-093000", got)
	_, ok := ParseVersion(got)
	assert.False(t, ok, "delta versions are outside the dotted-integer sequence")
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, ClampScore(-0.5))
	assert.Equal(t, 0.0, ClampScore(0))
	assert.Equal(t, 0.42, ClampScore(0.42))
	assert.Equal(t, 1.0, ClampScore(1))
	assert.Equal(t, 1.0, ClampScore(3.7))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "task tracker", NormalizeName("Task Tracker"))
	assert.Equal(t, "task tracker", NormalizeName("  TASK TRACKER  "))
	assert.Equal(t, NormalizeName("Django App"), NormalizeName("django app"))
}

func TestPackProject(t *testing.T) {
	p := Pack{
		Projects: []ProjectBrief{
			{Name: "Task Tracker", RelevanceScore: 0.8},
			{Name: "Blog Engine", RelevanceScore: 0.3},
		},
	}

	got := p.Project("task tracker")
	require.NotNil(t, got)
	assert.Equal(t, "Task Tracker", got.Name)

	assert.Nil(t, p.Project("unknown"))
}

func TestLedgerSummary(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p := Pack{
		Version:        "1.2",
		CreatedAt:      created,
		SourcePlatform: "chatgpt",
		Projects:       []ProjectBrief{{Name: "A"}, {Name: "B"}},
		TechnicalContext: TechnicalContext{
			Languages:  []string{"python", "go"},
			Frameworks: []string{"django"},
		},
		Metadata: map[string]interface{}{"run_id": "abc"},
	}

	entry := p.LedgerSummary()
	assert.Equal(t, "1.2", entry.Version)
	assert.Equal(t, created, entry.CreatedAt)
	assert.Equal(t, "chatgpt", entry.SourcePlatform)
	assert.Equal(t, 2, entry.ProjectsCount)
	assert.Equal(t, 2, entry.LanguagesCount)
	assert.Equal(t, 1, entry.FrameworksCount)

	// Summary metadata is a copy, not an alias
	entry.Metadata["run_id"] = "mutated"
	assert.Equal(t, "abc", p.Metadata["run_id"])
}
