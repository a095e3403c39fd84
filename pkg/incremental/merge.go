package incremental

import (
	"sort"
	"time"

	"github.com/entrhq/contextpack/pkg/pack"
)

var timeNow = time.Now // injected for testability

// MergeContexts combines an existing context pack with one derived from new
// or changed conversations. Neither input is mutated; the result is a new
// pack with the minor version bumped.
//
// Fields backed by set union (technical context, tech stacks, tool and
// expertise sets) converge under repeated incremental merges to the same
// result as one full re-extraction. The scalar tie-breaks do not carry that
// guarantee; they are order-sensitive by design.
func MergeContexts(existing, incoming pack.Pack) pack.Pack {
	merged := pack.Pack{
		Version:        pack.BumpMinor(existing.Version),
		CreatedAt:      existing.CreatedAt, // original creation date is retained
		SourcePlatform: existing.SourcePlatform,
		UserProfile:    mergeProfiles(existing.UserProfile, incoming.UserProfile),
		Projects:       mergeProjects(existing.Projects, incoming.Projects),
		Preferences:    mergePreferences(existing.Preferences, incoming.Preferences),
		TechnicalContext: pack.TechnicalContext{
			Languages:  unionSorted(existing.TechnicalContext.Languages, incoming.TechnicalContext.Languages),
			Frameworks: unionSorted(existing.TechnicalContext.Frameworks, incoming.TechnicalContext.Frameworks),
			Tools:      unionSorted(existing.TechnicalContext.Tools, incoming.TechnicalContext.Tools),
			Domains:    unionSorted(existing.TechnicalContext.Domains, incoming.TechnicalContext.Domains),
		},
	}

	metadata := make(map[string]interface{}, len(existing.Metadata)+len(incoming.Metadata)+3)
	for k, v := range existing.Metadata {
		metadata[k] = v
	}
	for k, v := range incoming.Metadata {
		metadata[k] = v
	}
	metadata["merge_date"] = timeNow().Format(time.RFC3339)
	metadata["previous_version"] = existing.Version
	metadata["merge_source"] = "incremental_update"
	merged.Metadata = metadata

	return merged
}

func mergeProfiles(existing, incoming pack.UserProfile) pack.UserProfile {
	return pack.UserProfile{
		Role:              newNonEmpty(existing.Role, incoming.Role),
		ExpertiseAreas:    unionSorted(existing.ExpertiseAreas, incoming.ExpertiseAreas),
		BackgroundSummary: longerString(existing.BackgroundSummary, incoming.BackgroundSummary),
	}
}

// mergeProjects merges project lists keyed by case-insensitive name. Keys
// present in both are merged field-wise; keys only in the incoming list are
// added unchanged. The result is re-sorted by relevance score descending.
func mergeProjects(existing, incoming []pack.ProjectBrief) []pack.ProjectBrief {
	byKey := make(map[string]pack.ProjectBrief, len(existing)+len(incoming))
	var order []string

	for _, p := range existing {
		key := pack.NormalizeName(p.Name)
		byKey[key] = p.Clone()
		order = append(order, key)
	}
	for _, p := range incoming {
		key := pack.NormalizeName(p.Name)
		if prev, ok := byKey[key]; ok {
			byKey[key] = mergeProject(prev, p)
		} else {
			byKey[key] = p.Clone()
			order = append(order, key)
		}
	}

	out := make([]pack.ProjectBrief, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RelevanceScore != out[j].RelevanceScore {
			return out[i].RelevanceScore > out[j].RelevanceScore
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func mergeProject(existing, incoming pack.ProjectBrief) pack.ProjectBrief {
	return pack.ProjectBrief{
		Name:           existing.Name, // original name casing is kept
		Description:    longerString(existing.Description, incoming.Description),
		TechStack:      unionSorted(existing.TechStack, incoming.TechStack),
		KeyChallenges:  unionSorted(existing.KeyChallenges, incoming.KeyChallenges),
		CurrentStatus:  newNonEmpty(existing.CurrentStatus, incoming.CurrentStatus),
		LastDiscussed:  laterTime(existing.LastDiscussed, incoming.LastDiscussed),
		RelevanceScore: pack.ClampScore(maxScore(existing.RelevanceScore, incoming.RelevanceScore)),
	}
}

func mergePreferences(existing, incoming pack.UserPreferences) pack.UserPreferences {
	codingStyle := make(map[string]string, len(existing.CodingStyle)+len(incoming.CodingStyle))
	for k, v := range existing.CodingStyle {
		codingStyle[k] = v
	}
	for k, v := range incoming.CodingStyle {
		codingStyle[k] = v // incoming overrides on collision
	}

	workPatterns := make(map[string]interface{}, len(existing.WorkPatterns)+len(incoming.WorkPatterns))
	for k, v := range existing.WorkPatterns {
		workPatterns[k] = v
	}
	for k, v := range incoming.WorkPatterns {
		workPatterns[k] = v
	}

	return pack.UserPreferences{
		CodingStyle:        codingStyle,
		CommunicationStyle: newNonEmpty(existing.CommunicationStyle, incoming.CommunicationStyle),
		PreferredTools:     unionSorted(existing.PreferredTools, incoming.PreferredTools),
		WorkPatterns:       workPatterns,
	}
}

// unionSorted returns the deduplicated union of two string sets in sorted
// order, so merge output does not depend on input ordering.
func unionSorted(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}
