package extract

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/entrhq/contextpack/pkg/pack"
)

// unnamedProject is the placeholder when no candidate name can be derived.
const unnamedProject = "Unnamed Project"

// maxChallenges caps the challenge snippets kept per project.
const maxChallenges = 3

// ExtractProjects identifies projects across conversations and returns their
// briefs sorted by relevance score, highest first.
func (e *Extractor) ExtractProjects(conversations []pack.Conversation) []pack.ProjectBrief {
	type group struct {
		name  string
		convs []pack.Conversation
	}
	groups := make(map[string]*group)
	var order []string

	for _, conv := range conversations {
		name, ok := identifyProject(conv)
		if !ok {
			continue
		}
		key := pack.NormalizeName(name)
		g, exists := groups[key]
		if !exists {
			g = &group{name: name}
			groups[key] = g
			order = append(order, key)
		}
		g.convs = append(g.convs, conv)
	}

	now := e.now()
	briefs := make([]pack.ProjectBrief, 0, len(order))
	for _, key := range order {
		g := groups[key]
		briefs = append(briefs, buildBrief(g.name, g.convs, now))
	}

	sort.SliceStable(briefs, func(i, j int) bool {
		if briefs[i].RelevanceScore != briefs[j].RelevanceScore {
			return briefs[i].RelevanceScore > briefs[j].RelevanceScore
		}
		return briefs[i].Name < briefs[j].Name
	})
	return briefs
}

// identifyProject derives a candidate project name from a conversation.
// Generic placeholder titles fall back to creation-intent phrases in the
// earliest few user messages.
func identifyProject(conv pack.Conversation) (string, bool) {
	hasUser := false
	for _, msg := range conv.Messages {
		if msg.Role == pack.RoleUser {
			hasUser = true
			break
		}
	}
	if !hasUser {
		return "", false
	}

	title := strings.ToLower(conv.Title)
	generic := false
	for _, g := range genericTitles {
		if strings.Contains(title, g) {
			generic = true
			break
		}
	}
	if !generic && strings.TrimSpace(conv.Title) != "" {
		return titleCase(title), true
	}

	msgs := sortedMessages(conv)
	if len(msgs) > 5 {
		msgs = msgs[:5]
	}
	for _, msg := range msgs {
		if msg.Role != pack.RoleUser {
			continue
		}
		lower := strings.ToLower(msg.Content)
		for _, phrase := range intentPhrases {
			if strings.Contains(lower, phrase) {
				return projectNameFromText(msg.Content), true
			}
		}
	}
	return "", false
}

// projectNameFromText takes a bounded phrase after the first creation-intent
// trigger word, strips function words and punctuation, and falls back to the
// leading capitalized words when no trigger matches.
func projectNameFromText(text string) string {
	words := strings.Fields(text)

	for i, word := range words {
		if !nameTriggerWords[strings.ToLower(strings.Trim(word, ".,!?;:"))] {
			continue
		}
		if i+1 >= len(words) {
			break
		}
		end := i + 4
		if end > len(words) {
			end = len(words)
		}
		var kept []string
		for _, w := range words[i+1 : end] {
			w = strings.Trim(w, ".,!?;:\"'")
			if w == "" || nameStopWords[strings.ToLower(w)] {
				continue
			}
			kept = append(kept, w)
		}
		if len(kept) > 0 {
			return titleCase(strings.Join(kept, " "))
		}
		break
	}

	var capitalized []string
	for _, word := range words {
		w := strings.Trim(word, ".,!?;:\"'")
		if len(w) > 2 && w[0] >= 'A' && w[0] <= 'Z' {
			capitalized = append(capitalized, w)
			if len(capitalized) == 3 {
				break
			}
		}
	}
	if len(capitalized) > 0 {
		return strings.Join(capitalized, " ")
	}
	return unnamedProject
}

// buildBrief assembles a project brief from the conversations grouped under
// one candidate name.
func buildBrief(name string, conversations []pack.Conversation, now time.Time) pack.ProjectBrief {
	var sb strings.Builder
	lastDiscussed := time.Time{}
	for _, conv := range conversations {
		if conv.UpdatedAt.After(lastDiscussed) {
			lastDiscussed = conv.UpdatedAt
		}
		for _, msg := range sortedMessages(conv) {
			if msg.Role == pack.RoleUser {
				sb.WriteString(msg.Content)
				sb.WriteString(" ")
			}
		}
	}
	text := strings.ToLower(sb.String())

	techStack := sortedTerms(append(matchTerms(text, languageTerms), matchTerms(text, frameworkTerms)...))

	description := "Project involving development"
	if len(techStack) > 0 {
		top := techStack
		if len(top) > 3 {
			top = top[:3]
		}
		description = "Project involving " + strings.Join(top, ", ")
	}

	return pack.ProjectBrief{
		Name:           name,
		Description:    description,
		TechStack:      techStack,
		KeyChallenges:  extractChallenges(conversations),
		CurrentStatus:  "Active",
		LastDiscussed:  lastDiscussed,
		RelevanceScore: relevanceScore(len(conversations), lastDiscussed, now),
	}
}

// relevanceScore combines discussion frequency and recency:
// min(1, 0.1*conversations + max(0, 1 - days/365)), clamped to [0, 1].
// It is monotone in both inputs.
func relevanceScore(conversationCount int, lastDiscussed, now time.Time) float64 {
	days := now.Sub(lastDiscussed).Hours() / 24
	if days < 0 {
		days = 0
	}
	recency := 1 - days/365
	if recency < 0 {
		recency = 0
	}
	return pack.ClampScore(float64(conversationCount)*0.1 + recency)
}

// extractChallenges mines problem statements around fixed trigger phrases,
// keeping a bounded context window per match, deduplicated, capped.
//
// Trigger positions are found in an ASCII-lowered copy whose byte offsets
// match the original content, so the snippet window can slice the original
// without drifting on multi-byte cased runes.
func extractChallenges(conversations []pack.Conversation) []string {
	var challenges []string
	seen := make(map[string]bool)

	for _, conv := range conversations {
		for _, msg := range sortedMessages(conv) {
			if msg.Role != pack.RoleUser {
				continue
			}
			lower := asciiLower(msg.Content)
			for _, trigger := range challengeTriggers {
				for from := 0; from < len(lower); {
					idx := strings.Index(lower[from:], trigger)
					if idx < 0 {
						break
					}
					at := from + idx
					start := at - 20
					if start < 0 {
						start = 0
					}
					end := at + len(trigger) + 50
					if end > len(msg.Content) {
						end = len(msg.Content)
					}
					for start > 0 && !utf8.RuneStart(msg.Content[start]) {
						start--
					}
					for end < len(msg.Content) && !utf8.RuneStart(msg.Content[end]) {
						end++
					}
					snippet := strings.TrimSpace(msg.Content[start:end])
					if len(snippet) > 10 && len(snippet) < 100 && !seen[snippet] {
						seen[snippet] = true
						challenges = append(challenges, snippet)
					}
					from = at + 1
				}
			}
		}
	}

	if len(challenges) > maxChallenges {
		challenges = challenges[:maxChallenges]
	}
	return challenges
}

// asciiLower lowercases ASCII letters only. It preserves byte length, so
// positions found in the result index the input safely. The trigger phrases
// it serves are all ASCII.
func asciiLower(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}

// titleCase capitalizes the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
