package pack

import (
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single message in a conversation. Immutable once created.
type Message struct {
	Role      Role                   `json:"role"`
	Content   string                 `json:"content"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Conversation is a single conversation thread. Conversations are owned by
// the import collaborator and are read-only to this module.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// ParsedExport is a raw parsed conversation export, as produced by the
// external import collaborator.
type ParsedExport struct {
	FormatVersion string                 `json:"format_version"`
	ExportDate    time.Time              `json:"export_date"`
	Conversations []Conversation         `json:"conversations"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// UserProfile captures the user's background and role.
type UserProfile struct {
	Role              string   `json:"role,omitempty"`
	ExpertiseAreas    []string `json:"expertise_areas"`
	BackgroundSummary string   `json:"background_summary"`
}

// ProjectBrief summarizes a single project. Name is the unique key within a
// pack, compared case-insensitively.
type ProjectBrief struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	TechStack      []string  `json:"tech_stack"`
	KeyChallenges  []string  `json:"key_challenges"`
	CurrentStatus  string    `json:"current_status"`
	LastDiscussed  time.Time `json:"last_discussed"`
	RelevanceScore float64   `json:"relevance_score"`
}

// UserPreferences captures working patterns and preferences.
type UserPreferences struct {
	CodingStyle        map[string]string      `json:"coding_style"`
	CommunicationStyle string                 `json:"communication_style"`
	PreferredTools     []string               `json:"preferred_tools"`
	WorkPatterns       map[string]interface{} `json:"work_patterns"`
}

// TechnicalContext holds the four term sets extracted from conversations.
type TechnicalContext struct {
	Languages  []string `json:"languages"`
	Frameworks []string `json:"frameworks"`
	Tools      []string `json:"tools"`
	Domains    []string `json:"domains"`
}

// Pack is a context pack. A pack is immutable once persisted: a merge
// produces a new pack and never mutates the prior one in place.
type Pack struct {
	Version          string                 `json:"version"`
	CreatedAt        time.Time              `json:"created_at"`
	SourcePlatform   string                 `json:"source_platform"`
	UserProfile      UserProfile            `json:"user_profile"`
	Projects         []ProjectBrief         `json:"projects"`
	Preferences      UserPreferences        `json:"preferences"`
	TechnicalContext TechnicalContext       `json:"technical_context"`
	Metadata         map[string]interface{} `json:"metadata"`
}

// LedgerEntry is one record in the version ledger.
type LedgerEntry struct {
	Version         string                 `json:"version"`
	CreatedAt       time.Time              `json:"created_at"`
	SourcePlatform  string                 `json:"source_platform"`
	ProjectsCount   int                    `json:"projects_count"`
	LanguagesCount  int                    `json:"languages_count"`
	FrameworksCount int                    `json:"frameworks_count"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// ClampScore clamps a relevance score into the [0, 1] range. Every write of
// RelevanceScore goes through this helper.
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// NormalizeName is the case-insensitive, trimmed project-name key used for
// grouping, merging, and delta computation.
func NormalizeName(name string) string {
	return lowerTrim(name)
}

// Project returns the project with the given name (case-insensitive), or nil.
func (p *Pack) Project(name string) *ProjectBrief {
	key := NormalizeName(name)
	for i := range p.Projects {
		if NormalizeName(p.Projects[i].Name) == key {
			return &p.Projects[i]
		}
	}
	return nil
}

// LedgerSummary derives the ledger record for this pack.
func (p *Pack) LedgerSummary() LedgerEntry {
	return LedgerEntry{
		Version:         p.Version,
		CreatedAt:       p.CreatedAt,
		SourcePlatform:  p.SourcePlatform,
		ProjectsCount:   len(p.Projects),
		LanguagesCount:  len(p.TechnicalContext.Languages),
		FrameworksCount: len(p.TechnicalContext.Frameworks),
		Metadata:        copyAnyMap(p.Metadata),
	}
}
