package pack

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DeltaVersionPrefix marks transient delta-pack versions. Delta versions are
// timestamp markers, not part of the dotted-integer sequence.
const DeltaVersionPrefix = "delta-"

// unparseableKey sorts unparseable and delta versions after every real
// dotted-integer version.
var unparseableKey = []int{999, 999, 999}

// ParseVersion parses a dotted-integer version string ("1.0", "2.13.4").
// Delta markers and malformed strings return ok == false; they never raise.
func ParseVersion(v string) ([]int, bool) {
	if v == "" || strings.HasPrefix(v, DeltaVersionPrefix) {
		return nil, false
	}
	parts := strings.Split(v, ".")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// VersionSortKey returns the comparable tuple for a version string.
// Unparseable versions sort last.
func VersionSortKey(v string) []int {
	if key, ok := ParseVersion(v); ok {
		return key
	}
	return unparseableKey
}

// CompareVersions orders two version strings by their parsed tuples,
// element-wise, with missing components treated as zero.
func CompareVersions(a, b string) int {
	ka, kb := VersionSortKey(a), VersionSortKey(b)
	for i := 0; i < len(ka) || i < len(kb); i++ {
		var na, nb int
		if i < len(ka) {
			na = ka[i]
		}
		if i < len(kb) {
			nb = kb[i]
		}
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
	}
	return 0
}

// BumpMinor increments the minor component of a dotted-integer version
// ("1.0" -> "1.1"). A version without a minor component treats it as zero
// ("2" -> "2.1"), and an unparseable version falls back to "1.1", so that
// successive merges always produce a strictly increasing, parseable sequence.
func BumpMinor(v string) string {
	key, ok := ParseVersion(v)
	if !ok {
		return "1.1"
	}
	if len(key) == 1 {
		return fmt.Sprintf("%d.1", key[0])
	}
	return fmt.Sprintf("%d.%d", key[0], key[1]+1)
}

// DeltaVersion builds the timestamp-marker version for a delta pack.
func DeltaVersion(t time.Time) string {
	return DeltaVersionPrefix + t.Format("20060102-150405")
}
