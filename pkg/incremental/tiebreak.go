package incremental

import "time"

// Scalar conflict-resolution rules used by the merge engine. Each is an
// isolated, named, swappable pure function so it can be unit-tested
// independently of the overall merge. The "longer wins" and "last write
// wins" rules are order-sensitive approximations, accepted as such.

// longerString keeps whichever string is longer, treating length as a proxy
// for detail. The existing value wins ties.
func longerString(existing, incoming string) string {
	if len(incoming) > len(existing) {
		return incoming
	}
	return existing
}

// newNonEmpty keeps the incoming value when it is non-empty, otherwise the
// existing one.
func newNonEmpty(existing, incoming string) string {
	if incoming != "" {
		return incoming
	}
	return existing
}

// laterTime keeps the more recent of two timestamps.
func laterTime(existing, incoming time.Time) time.Time {
	if incoming.After(existing) {
		return incoming
	}
	return existing
}

// maxScore keeps the higher of two relevance scores.
func maxScore(existing, incoming float64) float64 {
	if incoming > existing {
		return incoming
	}
	return existing
}
