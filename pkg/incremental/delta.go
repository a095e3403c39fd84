package incremental

import (
	"time"

	"github.com/entrhq/contextpack/pkg/pack"
)

// GenerateDelta derives a transient pack containing only the information in
// the incoming pack that is absent from the existing one: new projects (by
// normalized name), new technical-context terms, preference entries whose
// key is unknown, and new expertise areas. Every item in the delta appears
// with an equal value in MergeContexts(existing, incoming).
//
// The delta version is a timestamp marker, not part of the dotted-integer
// sequence, and delta packs are never persisted as the current pack.
func GenerateDelta(existing, incoming pack.Pack) pack.Pack {
	now := timeNow()

	existingNames := make(map[string]bool, len(existing.Projects))
	for _, p := range existing.Projects {
		existingNames[pack.NormalizeName(p.Name)] = true
	}
	var newProjects []pack.ProjectBrief
	for _, p := range incoming.Projects {
		if !existingNames[pack.NormalizeName(p.Name)] {
			newProjects = append(newProjects, p.Clone())
		}
	}

	deltaTechnical := pack.TechnicalContext{
		Languages:  onlyNew(existing.TechnicalContext.Languages, incoming.TechnicalContext.Languages),
		Frameworks: onlyNew(existing.TechnicalContext.Frameworks, incoming.TechnicalContext.Frameworks),
		Tools:      onlyNew(existing.TechnicalContext.Tools, incoming.TechnicalContext.Tools),
		Domains:    onlyNew(existing.TechnicalContext.Domains, incoming.TechnicalContext.Domains),
	}

	deltaPreferences := pack.UserPreferences{
		CodingStyle:        onlyNewKeys(existing.Preferences.CodingStyle, incoming.Preferences.CodingStyle),
		CommunicationStyle: incoming.Preferences.CommunicationStyle,
		PreferredTools:     onlyNew(existing.Preferences.PreferredTools, incoming.Preferences.PreferredTools),
		WorkPatterns:       onlyNewAnyKeys(existing.Preferences.WorkPatterns, incoming.Preferences.WorkPatterns),
	}

	deltaProfile := pack.UserProfile{
		Role:              incoming.UserProfile.Role,
		ExpertiseAreas:    onlyNew(existing.UserProfile.ExpertiseAreas, incoming.UserProfile.ExpertiseAreas),
		BackgroundSummary: incoming.UserProfile.BackgroundSummary,
	}

	return pack.Pack{
		Version:          pack.DeltaVersion(now),
		CreatedAt:        now,
		SourcePlatform:   incoming.SourcePlatform,
		UserProfile:      deltaProfile,
		Projects:         newProjects,
		Preferences:      deltaPreferences,
		TechnicalContext: deltaTechnical,
		Metadata: map[string]interface{}{
			"delta_from_version":   existing.Version,
			"delta_to_version":     incoming.Version,
			"delta_created":        now.Format(time.RFC3339),
			"new_projects_count":   len(newProjects),
			"new_languages_count":  len(deltaTechnical.Languages),
			"new_frameworks_count": len(deltaTechnical.Frameworks),
		},
	}
}

// onlyNew returns the items of incoming that are absent from existing,
// preserving incoming order.
func onlyNew(existing, incoming []string) []string {
	known := make(map[string]bool, len(existing))
	for _, s := range existing {
		known[s] = true
	}
	var out []string
	for _, s := range incoming {
		if !known[s] {
			out = append(out, s)
		}
	}
	return out
}

func onlyNewKeys(existing, incoming map[string]string) map[string]string {
	out := make(map[string]string)
	for k, v := range incoming {
		if _, known := existing[k]; !known {
			out[k] = v
		}
	}
	return out
}

func onlyNewAnyKeys(existing, incoming map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for k, v := range incoming {
		if _, known := existing[k]; !known {
			out[k] = v
		}
	}
	return out
}
