package filter

import (
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/entrhq/contextpack/pkg/pack"
)

// Engine applies filter configs to context packs and conversation lists.
type Engine struct {
	now func() time.Time // injected for testability
}

// NewEngine creates a filter engine.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// topicMatcher matches items against excluded topics. Topics compile as glob
// patterns; a topic that fails to compile, or that matches as a plain
// case-insensitive substring, still excludes.
type topicMatcher struct {
	topics []string
	globs  []glob.Glob
}

func newTopicMatcher(topics []string) *topicMatcher {
	m := &topicMatcher{}
	for _, topic := range topics {
		lower := strings.ToLower(strings.TrimSpace(topic))
		if lower == "" {
			continue
		}
		m.topics = append(m.topics, lower)
		if g, err := glob.Compile(lower); err == nil {
			m.globs = append(m.globs, g)
		} else {
			m.globs = append(m.globs, nil)
		}
	}
	return m
}

func (m *topicMatcher) excluded(item string) bool {
	lower := strings.ToLower(item)
	for i, topic := range m.topics {
		if topic == lower || strings.Contains(lower, topic) {
			return true
		}
		if m.globs[i] != nil && m.globs[i].Match(lower) {
			return true
		}
	}
	return false
}

// Apply returns a same-shape pack with the config's exclusions applied. The
// input pack is not modified and extraction is never re-invoked. The profile
// and scalar preferences pass through unfiltered.
func (e *Engine) Apply(p pack.Pack, cfg Config) pack.Pack {
	topics := newTopicMatcher(cfg.ExcludedTopics)

	out := p.Clone()
	out.Projects = e.filterProjects(p.Projects, cfg, topics)
	out.TechnicalContext = pack.TechnicalContext{
		Languages:  keepTerms(p.TechnicalContext.Languages, topics),
		Frameworks: keepTerms(p.TechnicalContext.Frameworks, topics),
		Tools:      keepTerms(p.TechnicalContext.Tools, topics),
		Domains:    keepTerms(p.TechnicalContext.Domains, topics),
	}

	metadata := make(map[string]interface{}, len(p.Metadata)+6)
	for k, v := range p.Metadata {
		metadata[k] = v
	}
	metadata["filtered"] = true
	metadata["filter_applied_at"] = e.now().Format(time.RFC3339)
	metadata["original_project_count"] = len(p.Projects)
	metadata["filtered_project_count"] = len(out.Projects)
	metadata["excluded_topics"] = append([]string(nil), cfg.ExcludedTopics...)
	metadata["min_relevance_score"] = cfg.MinRelevanceScore
	out.Metadata = metadata

	return out
}

// ApplyConversationExclusions drops conversations whose ID is excluded. This
// runs before extraction, when raw conversation data is still available.
func (e *Engine) ApplyConversationExclusions(conversations []pack.Conversation, cfg Config) []pack.Conversation {
	if len(cfg.ExcludedConversationIDs) == 0 {
		return conversations
	}
	excluded := make(map[string]bool, len(cfg.ExcludedConversationIDs))
	for _, id := range cfg.ExcludedConversationIDs {
		excluded[id] = true
	}
	var out []pack.Conversation
	for _, conv := range conversations {
		if !excluded[conv.ID] {
			out = append(out, conv)
		}
	}
	return out
}

// Summary describes what filtering removed.
func (e *Engine) Summary(original, filtered pack.Pack) map[string]interface{} {
	kept := make(map[string]bool, len(filtered.Projects))
	for _, p := range filtered.Projects {
		kept[pack.NormalizeName(p.Name)] = true
	}
	var removed []string
	for _, p := range original.Projects {
		if !kept[pack.NormalizeName(p.Name)] {
			removed = append(removed, p.Name)
		}
	}
	return map[string]interface{}{
		"projects_removed":      len(original.Projects) - len(filtered.Projects),
		"projects_remaining":    len(filtered.Projects),
		"removed_project_names": removed,
		"filter_applied_at":     filtered.Metadata["filter_applied_at"],
		"coherence_maintained":  len(filtered.Projects) > 0,
	}
}

func (e *Engine) filterProjects(projects []pack.ProjectBrief, cfg Config, topics *topicMatcher) []pack.ProjectBrief {
	var out []pack.ProjectBrief
	for _, p := range projects {
		if projectExcluded(p, topics) {
			continue
		}
		if p.RelevanceScore < cfg.MinRelevanceScore {
			continue
		}
		if cfg.DateRange != nil && !cfg.DateRange.Contains(p.LastDiscussed) {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}

func projectExcluded(p pack.ProjectBrief, topics *topicMatcher) bool {
	if topics.excluded(p.Name) {
		return true
	}
	for _, tech := range p.TechStack {
		if topics.excluded(tech) {
			return true
		}
	}
	for _, challenge := range p.KeyChallenges {
		if topics.excluded(challenge) {
			return true
		}
	}
	return false
}

func keepTerms(terms []string, topics *topicMatcher) []string {
	var out []string
	for _, term := range terms {
		if !topics.excluded(term) {
			out = append(out, term)
		}
	}
	return out
}
