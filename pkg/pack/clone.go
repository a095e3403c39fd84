package pack

import "strings"

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyAnyMap(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy of the project brief.
func (b ProjectBrief) Clone() ProjectBrief {
	out := b
	out.TechStack = copyStrings(b.TechStack)
	out.KeyChallenges = copyStrings(b.KeyChallenges)
	return out
}

// Clone returns a deep copy of the profile.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.ExpertiseAreas = copyStrings(p.ExpertiseAreas)
	return out
}

// Clone returns a deep copy of the preferences.
func (p UserPreferences) Clone() UserPreferences {
	out := p
	out.CodingStyle = copyStringMap(p.CodingStyle)
	out.PreferredTools = copyStrings(p.PreferredTools)
	out.WorkPatterns = copyAnyMap(p.WorkPatterns)
	return out
}

// Clone returns a deep copy of the technical context.
func (t TechnicalContext) Clone() TechnicalContext {
	return TechnicalContext{
		Languages:  copyStrings(t.Languages),
		Frameworks: copyStrings(t.Frameworks),
		Tools:      copyStrings(t.Tools),
		Domains:    copyStrings(t.Domains),
	}
}

// Clone returns a deep copy of the pack. Merge and filter operations work on
// clones so that an input pack is never mutated.
func (p Pack) Clone() Pack {
	out := p
	out.UserProfile = p.UserProfile.Clone()
	out.Preferences = p.Preferences.Clone()
	out.TechnicalContext = p.TechnicalContext.Clone()
	out.Metadata = copyAnyMap(p.Metadata)
	if p.Projects != nil {
		out.Projects = make([]ProjectBrief, len(p.Projects))
		for i, b := range p.Projects {
			out.Projects[i] = b.Clone()
		}
	}
	return out
}
