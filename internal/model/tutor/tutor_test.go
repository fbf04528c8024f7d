package tutor_test

import (
	"testing"

	"github.com/mvoisin/english-buddy/backend/internal/model/tutor"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want tutor.Level
		ok   bool
	}{
		{"beginner", tutor.LevelBeginner, true},
		{"  Advanced ", tutor.LevelAdvanced, true},
		{"INTERMEDIATE", tutor.LevelIntermediate, true},
		{"", tutor.LevelIntermediate, true},
		{"fluent", "", false},
	}
	for _, tc := range cases {
		got, ok := tutor.ParseLevel(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseLevel(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCatalogFindByID(t *testing.T) {
	store := tutor.Catalog()

	if _, ok := store.FindByID("travel"); !ok {
		t.Fatal("built-in topic not found")
	}
	if _, ok := store.FindByID("quantum-physics"); ok {
		t.Fatal("unexpected topic found")
	}
	if len(store.List()) == 0 {
		t.Fatal("catalog is empty")
	}
}
