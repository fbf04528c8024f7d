package tutor

import "strings"

// Level grades the learner's proficiency and steers the tutor prompt.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// ParseLevel normalises free-form input to a known level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return LevelBeginner, true
	case "intermediate", "":
		return LevelIntermediate, true
	case "advanced":
		return LevelAdvanced, true
	}
	return "", false
}

// Guidance returns the per-level instruction appended to the system prompt.
func (l Level) Guidance() string {
	switch l {
	case LevelBeginner:
		return "Use simple vocabulary and short sentences. Correct every mistake gently and repeat the corrected sentence slowly."
	case LevelAdvanced:
		return "Use rich, idiomatic English. Only flag mistakes that a fluent speaker would notice, and discuss nuance."
	default:
		return "Use everyday conversational English. Correct mistakes that impede clarity and suggest more natural phrasing."
	}
}

// NoTopic is stored when the learner picked no conversation topic.
const NoTopic = "none selected"

// Topic is a suggested conversation subject shown to the learner.
type Topic struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PromptHint string `json:"promptHint"`
}
