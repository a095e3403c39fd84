package pack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProjectBriefClone(t *testing.T) {
	original := ProjectBrief{
		Name:          "Task Tracker",
		TechStack:     []string{"python", "django"},
		KeyChallenges: []string{"auth flow"},
	}

	clone := original.Clone()
	clone.TechStack[0] = "rust"
	clone.KeyChallenges[0] = "mutated"

	assert.Equal(t, "python", original.TechStack[0])
	assert.Equal(t, "auth flow", original.KeyChallenges[0])
}

func TestPackClone(t *testing.T) {
	original := Pack{
		Version:   "1.0",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UserProfile: UserProfile{
			Role:           "developer",
			ExpertiseAreas: []string{"python"},
		},
		Projects: []ProjectBrief{
			{Name: "Task Tracker", TechStack: []string{"python"}},
		},
		Preferences: UserPreferences{
			CodingStyle:    map[string]string{"primary_language": "Python"},
			PreferredTools: []string{"git"},
			WorkPatterns:   map[string]interface{}{"usage_frequency": "regular"},
		},
		TechnicalContext: TechnicalContext{
			Languages: []string{"python"},
		},
		Metadata: map[string]interface{}{"run_id": "abc"},
	}

	clone := original.Clone()
	assert.Equal(t, original, clone)

	clone.UserProfile.ExpertiseAreas[0] = "mutated"
	clone.Projects[0].TechStack[0] = "mutated"
	clone.Preferences.CodingStyle["primary_language"] = "mutated"
	clone.Preferences.WorkPatterns["usage_frequency"] = "mutated"
	clone.TechnicalContext.Languages[0] = "mutated"
	clone.Metadata["run_id"] = "mutated"

	assert.Equal(t, "python", original.UserProfile.ExpertiseAreas[0])
	assert.Equal(t, "python", original.Projects[0].TechStack[0])
	assert.Equal(t, "Python", original.Preferences.CodingStyle["primary_language"])
	assert.Equal(t, "regular", original.Preferences.WorkPatterns["usage_frequency"])
	assert.Equal(t, "python", original.TechnicalContext.Languages[0])
	assert.Equal(t, "abc", original.Metadata["run_id"])
}

func TestCloneNilSlicesStayNil(t *testing.T) {
	clone := Pack{}.Clone()
	assert.Nil(t, clone.Projects)
	assert.Nil(t, clone.Metadata)
	assert.Nil(t, clone.TechnicalContext.Languages)
}
