package incremental

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/contextpack/pkg/pack"
)

var mergeTime = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func withFixedClock(t *testing.T, fixed time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = prev })
}

func existingPack() pack.Pack {
	return pack.Pack{
		Version:        "1.0",
		CreatedAt:      mergeTime.Add(-30 * 24 * time.Hour),
		SourcePlatform: "chatgpt",
		UserProfile: pack.UserProfile{
			Role:              "developer",
			ExpertiseAreas:    []string{"python"},
			BackgroundSummary: "Works as a developer.",
		},
		Projects: []pack.ProjectBrief{
			{
				Name:           "Task Tracker",
				Description:    "Project involving python",
				TechStack:      []string{"django", "python"},
				KeyChallenges:  []string{"auth flow"},
				CurrentStatus:  "Active",
				LastDiscussed:  mergeTime.Add(-20 * 24 * time.Hour),
				RelevanceScore: 0.5,
			},
		},
		Preferences: pack.UserPreferences{
			CodingStyle:        map[string]string{"primary_language": "Python"},
			CommunicationStyle: "Concise and direct",
			PreferredTools:     []string{"git"},
			WorkPatterns:       map[string]interface{}{"usage_frequency": "occasional"},
		},
		TechnicalContext: pack.TechnicalContext{
			Languages:  []string{"python"},
			Frameworks: []string{"django"},
			Tools:      []string{"git"},
			Domains:    []string{"web development"},
		},
		Metadata: map[string]interface{}{"total_conversations": 10},
	}
}

func incomingPack() pack.Pack {
	return pack.Pack{
		Version:        "1.0",
		CreatedAt:      mergeTime,
		SourcePlatform: "chatgpt",
		UserProfile: pack.UserProfile{
			Role:              "senior developer",
			ExpertiseAreas:    []string{"react", "python"},
			BackgroundSummary: "Works as a senior developer with expertise in python, react.",
		},
		Projects: []pack.ProjectBrief{
			{
				Name:           "task tracker",
				Description:    "Project involving python, react",
				TechStack:      []string{"python", "react"},
				KeyChallenges:  []string{"state management"},
				CurrentStatus:  "Active",
				LastDiscussed:  mergeTime,
				RelevanceScore: 0.9,
			},
			{
				Name:           "Blog Engine",
				Description:    "Project involving ruby",
				TechStack:      []string{"ruby"},
				CurrentStatus:  "Active",
				LastDiscussed:  mergeTime,
				RelevanceScore: 0.7,
			},
		},
		Preferences: pack.UserPreferences{
			CodingStyle:        map[string]string{"paradigm": "functional"},
			CommunicationStyle: "Clear and comprehensive",
			PreferredTools:     []string{"docker", "git"},
			WorkPatterns:       map[string]interface{}{"work_schedule": "evening"},
		},
		TechnicalContext: pack.TechnicalContext{
			Languages:  []string{"python", "ruby"},
			Frameworks: []string{"react"},
			Tools:      []string{"docker"},
			Domains:    []string{"web development"},
		},
		Metadata: map[string]interface{}{"total_conversations": 2},
	}
}

func TestMergeContexts(t *testing.T) {
	withFixedClock(t, mergeTime)

	existing := existingPack()
	incoming := incomingPack()
	merged := MergeContexts(existing, incoming)

	assert.Equal(t, "1.1", merged.Version)
	assert.Equal(t, existing.CreatedAt, merged.CreatedAt, "original creation date survives merges")
	assert.Equal(t, "chatgpt", merged.SourcePlatform)

	// Profile: role takes the new non-empty value, expertise unions
	assert.Equal(t, "senior developer", merged.UserProfile.Role)
	assert.Equal(t, []string{"python", "react"}, merged.UserProfile.ExpertiseAreas)
	assert.Equal(t, incoming.UserProfile.BackgroundSummary, merged.UserProfile.BackgroundSummary,
		"longer summary wins")

	// Technical context is a sorted union per category
	assert.Equal(t, []string{"python", "ruby"}, merged.TechnicalContext.Languages)
	assert.Equal(t, []string{"django", "react"}, merged.TechnicalContext.Frameworks)
	assert.Equal(t, []string{"docker", "git"}, merged.TechnicalContext.Tools)
	assert.Equal(t, []string{"web development"}, merged.TechnicalContext.Domains)

	// Metadata carries merge provenance
	assert.Equal(t, "1.0", merged.Metadata["previous_version"])
	assert.Equal(t, "incremental_update", merged.Metadata["merge_source"])
	assert.Equal(t, mergeTime.Format(time.RFC3339), merged.Metadata["merge_date"])
	assert.Equal(t, 2, merged.Metadata["total_conversations"], "incoming metadata wins collisions")
}

func TestMergeContextsProjects(t *testing.T) {
	withFixedClock(t, mergeTime)

	merged := MergeContexts(existingPack(), incomingPack())
	require.Len(t, merged.Projects, 2)

	// Re-sorted by relevance descending
	tracker := merged.Projects[0]
	assert.Equal(t, "Task Tracker", tracker.Name, "existing name casing is kept")
	assert.Equal(t, []string{"django", "python", "react"}, tracker.TechStack)
	assert.Equal(t, []string{"auth flow", "state management"}, tracker.KeyChallenges)
	assert.Equal(t, "Project involving python, react", tracker.Description)
	assert.Equal(t, mergeTime, tracker.LastDiscussed)
	assert.Equal(t, 0.9, tracker.RelevanceScore, "higher score wins")

	blog := merged.Projects[1]
	assert.Equal(t, "Blog Engine", blog.Name)
	assert.Equal(t, 0.7, blog.RelevanceScore)
}

func TestMergeContextsPreferences(t *testing.T) {
	withFixedClock(t, mergeTime)

	merged := MergeContexts(existingPack(), incomingPack())

	assert.Equal(t, map[string]string{
		"primary_language": "Python",
		"paradigm":         "functional",
	}, merged.Preferences.CodingStyle)
	assert.Equal(t, "Clear and comprehensive", merged.Preferences.CommunicationStyle)
	assert.Equal(t, []string{"docker", "git"}, merged.Preferences.PreferredTools)
	assert.Equal(t, map[string]interface{}{
		"usage_frequency": "occasional",
		"work_schedule":   "evening",
	}, merged.Preferences.WorkPatterns)
}

func TestMergeContextsDoesNotMutateInputs(t *testing.T) {
	withFixedClock(t, mergeTime)

	existing := existingPack()
	incoming := incomingPack()
	existingSnapshot := existing.Clone()
	incomingSnapshot := incoming.Clone()

	_ = MergeContexts(existing, incoming)

	assert.Equal(t, existingSnapshot, existing)
	assert.Equal(t, incomingSnapshot, incoming)
}

func TestMergeContextsVersionSequence(t *testing.T) {
	withFixedClock(t, mergeTime)

	p := existingPack()
	for _, want := range []string{"1.1", "1.2", "1.3"} {
		p = MergeContexts(p, incomingPack())
		assert.Equal(t, want, p.Version)
	}
}

func TestMergeContextsClampsScores(t *testing.T) {
	withFixedClock(t, mergeTime)

	existing := existingPack()
	incoming := incomingPack()
	incoming.Projects[0].RelevanceScore = 7.5

	merged := MergeContexts(existing, incoming)
	assert.Equal(t, 1.0, merged.Projects[0].RelevanceScore)
}

func TestTieBreakRules(t *testing.T) {
	assert.Equal(t, "longer value", longerString("short", "longer value"))
	assert.Equal(t, "existing", longerString("existing", "incoming"), "existing wins ties")

	assert.Equal(t, "new", newNonEmpty("old", "new"))
	assert.Equal(t, "old", newNonEmpty("old", ""))

	earlier := mergeTime.Add(-time.Hour)
	assert.Equal(t, mergeTime, laterTime(earlier, mergeTime))
	assert.Equal(t, mergeTime, laterTime(mergeTime, earlier))

	assert.Equal(t, 0.9, maxScore(0.5, 0.9))
	assert.Equal(t, 0.9, maxScore(0.9, 0.5))
}

func TestUnionSorted(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, unionSorted([]string{"c", "a"}, []string{"b", "a"}))
	assert.Empty(t, unionSorted(nil, nil))
}
