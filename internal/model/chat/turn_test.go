package chat_test

import (
	"errors"
	"testing"

	chat "github.com/mvoisin/english-buddy/backend/internal/model/chat"
)

func TestNewTurnValidation(t *testing.T) {
	if _, err := chat.NewTurn("system", "hello"); !errors.Is(err, chat.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := chat.NewTurn(chat.RoleUser, "  \n "); !errors.Is(err, chat.ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}

	turn, err := chat.NewTurn(chat.RoleAssistant, "Nice to meet you!")
	if err != nil {
		t.Fatalf("NewTurn err: %v", err)
	}
	if turn.Role != chat.RoleAssistant || turn.Content != "Nice to meet you!" {
		t.Fatalf("unexpected turn: %+v", turn)
	}
}
