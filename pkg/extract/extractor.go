// Package extract turns an ordered sequence of conversations into a context
// pack using fixed term lexicons and phrase-pattern heuristics. Extraction is
// pure and total: malformed or empty input yields zero-value components,
// never an error.
package extract

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/contextpack/pkg/pack"
)

// DefaultSourcePlatform labels packs whose origin the caller did not set.
const DefaultSourcePlatform = "chatgpt"

const extractorVersion = "1.0"

// Extractor analyzes conversations and extracts structured knowledge:
// projects, the user's technical profile, and working preferences.
type Extractor struct {
	sourcePlatform string

	// injected for deterministic tests
	now      func() time.Time
	newRunID func() string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSourcePlatform overrides the source-platform label stamped on packs.
func WithSourcePlatform(platform string) Option {
	return func(e *Extractor) {
		if platform != "" {
			e.sourcePlatform = platform
		}
	}
}

// WithClock fixes the extractor's clock.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// WithRunID fixes the run-identifier generator.
func WithRunID(gen func() string) Option {
	return func(e *Extractor) { e.newRunID = gen }
}

// NewExtractor creates an extractor with the default lexicons.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		sourcePlatform: DefaultSourcePlatform,
		now:            time.Now,
		newRunID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractContext extracts a full context pack from the given conversations.
func (e *Extractor) ExtractContext(conversations []pack.Conversation) pack.Pack {
	now := e.now()
	return pack.Pack{
		Version:          "1.0",
		CreatedAt:        now,
		SourcePlatform:   e.sourcePlatform,
		UserProfile:      e.ExtractProfile(conversations),
		Projects:         e.ExtractProjects(conversations),
		Preferences:      e.ExtractPreferences(conversations),
		TechnicalContext: e.ExtractTechnicalContext(conversations),
		Metadata: map[string]interface{}{
			"total_conversations": len(conversations),
			"extraction_date":     now.Format(time.RFC3339),
			"extractor_version":   extractorVersion,
			"run_id":              e.newRunID(),
		},
	}
}

// ExtractProfile extracts the user's role, expertise areas, and a synthesized
// background summary.
func (e *Extractor) ExtractProfile(conversations []pack.Conversation) pack.UserProfile {
	text := userText(conversations)

	role := findRole(text)

	counts := countTerms(text, languageTerms)
	for term, n := range countTerms(text, frameworkTerms) {
		counts[term] += n
	}
	expertise := topTerms(counts, 10)

	return pack.UserProfile{
		Role:              role,
		ExpertiseAreas:    expertise,
		BackgroundSummary: backgroundSummary(len(conversations), role, expertise),
	}
}

// ExtractTechnicalContext extracts the four technical term sets.
func (e *Extractor) ExtractTechnicalContext(conversations []pack.Conversation) pack.TechnicalContext {
	text := userText(conversations)
	return pack.TechnicalContext{
		Languages:  sortedTerms(matchTerms(text, languageTerms)),
		Frameworks: sortedTerms(matchTerms(text, frameworkTerms)),
		Tools:      sortedTerms(matchTerms(text, toolTerms)),
		Domains:    identifyDomains(conversations),
	}
}

// findRole returns the first role the user claims for themselves, preferring
// the longest matching phrase at any given position.
func findRole(text string) string {
	best := -1
	role := ""
	for _, phrase := range rolePhrases {
		for from := 0; from < len(text); {
			idx := strings.Index(text[from:], phrase)
			if idx < 0 {
				break
			}
			at := from + idx + len(phrase)
			for _, term := range roleTerms {
				if strings.HasPrefix(text[at:], term) && boundedAt(text, at, at+len(term)) {
					if best == -1 || from+idx < best {
						best = from + idx
						role = term
					}
					break
				}
			}
			from = from + idx + 1
		}
	}
	return role
}

// topTerms returns up to limit terms ordered by descending count, ties broken
// alphabetically so output is deterministic.
func topTerms(counts map[string]int, limit int) []string {
	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}

func backgroundSummary(totalConversations int, role string, expertise []string) string {
	var parts []string
	if role != "" {
		parts = append(parts, "Works as a "+role)
	}
	if len(expertise) > 0 {
		top := expertise
		if len(top) > 5 {
			top = top[:5]
		}
		parts = append(parts, "with expertise in "+strings.Join(top, ", "))
	}
	if totalConversations > 50 {
		parts = append(parts, "Active user with "+strconv.Itoa(totalConversations)+" conversations")
	}
	if len(parts) == 0 {
		return "No background information available."
	}
	return strings.Join(parts, ". ") + "."
}

func identifyDomains(conversations []pack.Conversation) []string {
	var sb strings.Builder
	for _, conv := range conversations {
		sb.WriteString(conv.Title)
		sb.WriteString(" ")
		for _, msg := range conv.Messages {
			sb.WriteString(msg.Content)
			sb.WriteString(" ")
		}
	}
	text := strings.ToLower(sb.String())

	var domains []string
	for _, d := range domainKeywords {
		for _, kw := range d.Keywords {
			if strings.Contains(text, kw) {
				domains = append(domains, d.Domain)
				break
			}
		}
	}
	sort.Strings(domains)
	return domains
}

// userText concatenates all user-authored message content, lowercased, with
// messages taken in timestamp order within each conversation.
func userText(conversations []pack.Conversation) string {
	var sb strings.Builder
	for _, conv := range conversations {
		for _, msg := range sortedMessages(conv) {
			if msg.Role != pack.RoleUser {
				continue
			}
			sb.WriteString(msg.Content)
			sb.WriteString(" ")
		}
	}
	return strings.ToLower(sb.String())
}

// sortedMessages returns the conversation's messages ordered by timestamp
// without mutating the conversation itself.
func sortedMessages(conv pack.Conversation) []pack.Message {
	msgs := make([]pack.Message, len(conv.Messages))
	copy(msgs, conv.Messages)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return msgs
}

func sortedTerms(terms []string) []string {
	out := make([]string, len(terms))
	copy(out, terms)
	sort.Strings(out)
	return out
}
