package extract

import (
	"sort"
	"strings"

	"github.com/entrhq/contextpack/pkg/pack"
)

// Communication-style buckets derived from average user message length.
const (
	styleDetailed = "Detailed and thorough"
	styleClear    = "Clear and comprehensive"
	styleConcise  = "Concise and direct"
	styleUnknown  = "Unknown"
)

// ExtractPreferences extracts coding style, communication style, preferred
// tools, and work patterns.
func (e *Extractor) ExtractPreferences(conversations []pack.Conversation) pack.UserPreferences {
	text := userText(conversations)

	codingStyle := make(map[string]string)
	if lang := modalTerm(countTerms(text, languageTerms)); lang != "" {
		codingStyle["primary_language"] = titleCase(lang)
	}
	if strings.Contains(text, "functional") {
		codingStyle["paradigm"] = "functional"
	} else if strings.Contains(text, "object-oriented") || countTerm(text, "oop") > 0 {
		codingStyle["paradigm"] = "object-oriented"
	}
	if strings.Contains(text, "test-driven") || countTerm(text, "tdd") > 0 {
		codingStyle["testing_approach"] = "test-driven"
	} else if strings.Contains(text, "unit test") {
		codingStyle["testing_approach"] = "unit testing"
	}

	return pack.UserPreferences{
		CodingStyle:        codingStyle,
		CommunicationStyle: communicationStyle(conversations),
		PreferredTools:     sortedTerms(matchTerms(text, toolTerms)),
		WorkPatterns:       workPatterns(conversations),
	}
}

// modalTerm returns the most frequent term, ties broken alphabetically.
func modalTerm(counts map[string]int) string {
	best := ""
	bestCount := 0
	for term, n := range counts {
		if n > bestCount || (n == bestCount && (best == "" || term < best)) {
			best = term
			bestCount = n
		}
	}
	return best
}

// communicationStyle buckets the average user message word count.
func communicationStyle(conversations []pack.Conversation) string {
	total, count := 0, 0
	for _, conv := range conversations {
		for _, msg := range conv.Messages {
			if msg.Role != pack.RoleUser {
				continue
			}
			total += len(strings.Fields(msg.Content))
			count++
		}
	}
	if count == 0 {
		return styleUnknown
	}
	avg := float64(total) / float64(count)
	switch {
	case avg > 50:
		return styleDetailed
	case avg > 20:
		return styleClear
	default:
		return styleConcise
	}
}

// workPatterns infers the user's schedule from the modal hour of their
// messages and their usage frequency from conversation volume.
func workPatterns(conversations []pack.Conversation) map[string]interface{} {
	patterns := make(map[string]interface{})

	hourCounts := make(map[int]int)
	for _, conv := range conversations {
		for _, msg := range conv.Messages {
			if msg.Role == pack.RoleUser {
				hourCounts[msg.Timestamp.Hour()]++
			}
		}
	}
	if len(hourCounts) > 0 {
		hours := make([]int, 0, len(hourCounts))
		for h := range hourCounts {
			hours = append(hours, h)
		}
		sort.Slice(hours, func(i, j int) bool {
			if hourCounts[hours[i]] != hourCounts[hours[j]] {
				return hourCounts[hours[i]] > hourCounts[hours[j]]
			}
			return hours[i] < hours[j]
		})
		switch h := hours[0]; {
		case h >= 9 && h <= 17:
			patterns["work_schedule"] = "business_hours"
		case h >= 18 && h <= 23:
			patterns["work_schedule"] = "evening"
		default:
			patterns["work_schedule"] = "flexible"
		}
	}

	switch n := len(conversations); {
	case n > 100:
		patterns["usage_frequency"] = "heavy"
	case n > 20:
		patterns["usage_frequency"] = "regular"
	default:
		patterns["usage_frequency"] = "occasional"
	}

	return patterns
}
