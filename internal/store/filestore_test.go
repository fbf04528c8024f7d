package store

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	chatmodel "github.com/mvoisin/english-buddy/backend/internal/model/chat"
	"github.com/mvoisin/english-buddy/backend/internal/model/tutor"
)

func sampleSession() chatmodel.Session {
	return chatmodel.Session{
		Title:      "Travel talk",
		CreatedAt:  time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
		ModifiedAt: time.Date(2025, 3, 10, 9, 45, 0, 0, time.UTC),
		Level:      tutor.LevelIntermediate,
		Topic:      "Travel",
		Turns: []chatmodel.Turn{
			{Role: chatmodel.RoleUser, Content: "I go to Rome last summer"},
			{Role: chatmodel.RoleAssistant, Content: "✏️ Correction: say 'I went to Rome'.\nWhat did you see there?"},
		},
		Corrections: []chatmodel.Correction{
			{Timestamp: "09:44:58", UserMessage: "I go to Rome last summer", Text: "✏️ Correction: say 'I went to Rome'."},
		},
		MessageCount: 2,
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore err: %v", err)
	}

	session := sampleSession()
	path, err := fs.Write(session)
	if err != nil {
		t.Fatalf("Write err: %v", err)
	}

	name := filepath.Base(path)
	if !strings.HasPrefix(name, "20250310-094500_Travel_talk") {
		t.Fatalf("unexpected file name %q", name)
	}

	doc, err := fs.Read(path)
	if err != nil {
		t.Fatalf("Read err: %v", err)
	}
	got := doc.Session()
	if got.Title != session.Title || got.Level != session.Level || got.Topic != session.Topic {
		t.Fatalf("metadata mismatch: %+v", got)
	}
	if len(got.Turns) != 2 || got.Turns[1].Content != session.Turns[1].Content {
		t.Fatalf("turns mismatch: %+v", got.Turns)
	}
	if len(got.Corrections) != 1 || got.Corrections[0].Text != session.Corrections[0].Text {
		t.Fatalf("corrections mismatch: %+v", got.Corrections)
	}
}

func TestFileStoreRemoveMissingIsNotAnError(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore err: %v", err)
	}
	if err := fs.Remove(filepath.Join(t.TempDir(), "gone.json")); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
}

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Travel talk", "Travel_talk"},
		{"café & croissants!", "caf__croissants"},
		{"a-b_c 1", "a-b_c_1"},
		{"", "untitled"},
		{"!!!", "untitled"},
		{strings.Repeat("x", 60), strings.Repeat("x", 40)},
	}
	for _, tc := range cases {
		if got := sanitizeTitle(tc.in); got != tc.want {
			t.Fatalf("sanitizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
