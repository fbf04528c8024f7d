package chat

import (
	"errors"
	"strings"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var (
	ErrInvalidRole  = errors.New("invalid turn role")
	ErrEmptyContent = errors.New("turn content is empty")
)

// Turn is one utterance in the conversation. Turns are append-only and
// never edited in place; ordering is insertion order.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewTurn validates role and content at construction time.
func NewTurn(role Role, content string) (Turn, error) {
	if role != RoleUser && role != RoleAssistant {
		return Turn{}, ErrInvalidRole
	}
	if strings.TrimSpace(content) == "" {
		return Turn{}, ErrEmptyContent
	}
	return Turn{Role: role, Content: content}, nil
}

// Correction flags a grammar fix located inside an assistant turn.
// At most one correction is derived per assistant turn.
type Correction struct {
	Timestamp   string `json:"timestamp"` // time of day, HH:MM:SS
	UserMessage string `json:"userMessage"`
	Text        string `json:"correction"`
}
