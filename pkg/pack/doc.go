// Package pack defines the data model for context packs: the structured,
// platform-agnostic summary of a user's projects, preferences, and technical
// profile derived from conversation history. It also owns the persisted JSON
// document shape and the dotted-integer version arithmetic used by the
// incremental merge pipeline.
package pack
