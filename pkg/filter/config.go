// Package filter applies user-defined exclusions to an already-built context
// pack. It is a downstream consumer of the extraction core: filtering never
// re-invokes extraction.
package filter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DateRange bounds project last-discussed timestamps, inclusive.
type DateRange struct {
	Start time.Time `yaml:"start"`
	End   time.Time `yaml:"end"`
}

// Contains reports whether t falls within the range, inclusive.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Config is the predicate set applied to a pack. Excluded topics accept glob
// syntax ("react*"); patterns that fail to compile fall back to exact or
// substring matching.
type Config struct {
	ExcludedConversationIDs []string   `yaml:"excluded_conversation_ids,omitempty"`
	ExcludedTopics          []string   `yaml:"excluded_topics,omitempty"`
	DateRange               *DateRange `yaml:"date_range,omitempty"`
	MinRelevanceScore       float64    `yaml:"min_relevance_score"`
}

// NewDateRangeConfig builds a config that keeps only projects last discussed
// within [start, end].
func NewDateRangeConfig(start, end time.Time) (Config, error) {
	if !start.Before(end) {
		return Config{}, fmt.Errorf("filter: start date must be before end date")
	}
	return Config{DateRange: &DateRange{Start: start, End: end}}, nil
}

// NewRelevanceConfig builds a config with a minimum relevance score.
func NewRelevanceConfig(minScore float64) (Config, error) {
	if minScore < 0 || minScore > 1 {
		return Config{}, fmt.Errorf("filter: relevance score must be between 0.0 and 1.0")
	}
	return Config{MinRelevanceScore: minScore}, nil
}

// SavePreferences persists a filter config as YAML for future runs.
func SavePreferences(cfg Config, path string) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("filter: encode preferences: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("filter: init directory %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("filter: write temp preferences: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("filter: atomic rename %s: %w", path, err)
	}
	return nil
}

// LoadPreferences loads a previously saved filter config. A missing,
// unreadable, or corrupt file yields an empty config; failures are logged
// rather than surfaced, so filtering always proceeds.
func LoadPreferences(path string) Config {
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("filter: preferences unreadable, using empty config", "path", path, "err", err)
		}
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		slog.Warn("filter: preferences corrupt, using empty config", "path", path, "err", err)
		return Config{}
	}
	return cfg
}
