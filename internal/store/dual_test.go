package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	chatmodel "github.com/mvoisin/english-buddy/backend/internal/model/chat"
	"github.com/mvoisin/english-buddy/backend/internal/model/tutor"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	files, err := NewFileStore(filepath.Join(dir, "conversations"))
	if err != nil {
		t.Fatalf("NewFileStore err: %v", err)
	}
	db, err := NewSQLite(filepath.Join(dir, "conversations.db"))
	if err != nil {
		t.Fatalf("NewSQLite err: %v", err)
	}
	st := New(files, db)
	t.Cleanup(func() { st.Close() })
	return st, filepath.Join(dir, "conversations")
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	session := sampleSession()
	id, err := st.Save(ctx, session)
	if err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if id == "" {
		t.Fatal("expected an assigned id")
	}

	got, err := st.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if got.ID != id {
		t.Fatalf("id changed across round-trip: %q vs %q", got.ID, id)
	}
	if got.Title != session.Title || got.Level != session.Level || got.Topic != session.Topic {
		t.Fatalf("metadata mismatch: %+v", got)
	}
	if len(got.Turns) != len(session.Turns) {
		t.Fatalf("turn count mismatch: %d vs %d", len(got.Turns), len(session.Turns))
	}
	for i := range got.Turns {
		if got.Turns[i] != session.Turns[i] {
			t.Fatalf("turn %d mismatch: %+v vs %+v", i, got.Turns[i], session.Turns[i])
		}
	}
	if len(got.Corrections) != 1 || got.Corrections[0].Text != session.Corrections[0].Text {
		t.Fatalf("corrections mismatch: %+v", got.Corrections)
	}
}

func TestStoreSaveRequiresTitle(t *testing.T) {
	st, _ := newTestStore(t)

	session := sampleSession()
	session.Title = "   "
	if _, err := st.Save(context.Background(), session); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestStoreSaveWritesBackingFile(t *testing.T) {
	st, dir := newTestStore(t)
	ctx := context.Background()

	id, err := st.Save(ctx, sampleSession())
	if err != nil {
		t.Fatalf("Save err: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir err: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one session file, found %d", len(entries))
	}

	loaded, err := st.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if loaded.FilePath == "" {
		t.Fatal("row should reference the backing file")
	}
}

func TestStoreUpdateDoesNotFork(t *testing.T) {
	st, dir := newTestStore(t)
	ctx := context.Background()

	session := sampleSession()
	id, err := st.Save(ctx, session)
	if err != nil {
		t.Fatalf("Save err: %v", err)
	}

	updated := session
	updated.ID = id
	updated.Turns = append(updated.Turns, chatmodel.Turn{Role: chatmodel.RoleUser, Content: "one more thing"})
	again, err := st.Save(ctx, updated)
	if err != nil {
		t.Fatalf("re-Save err: %v", err)
	}
	if again != id {
		t.Fatalf("update forked the record: %q vs %q", again, id)
	}

	summaries, err := st.List(ctx, "")
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected a single record after update, got %d", len(summaries))
	}
	if summaries[0].MessageCount != 3 {
		t.Fatalf("summary not refreshed: %+v", summaries[0])
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir err: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("update should rewrite the backing file in place, found %d files", len(entries))
	}
}

func TestStoreUpdateMissingID(t *testing.T) {
	st, _ := newTestStore(t)

	session := sampleSession()
	session.ID = "no-such-id"
	if _, err := st.Save(context.Background(), session); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreDeleteRemovesRowAndFile(t *testing.T) {
	st, dir := newTestStore(t)
	ctx := context.Background()

	id, err := st.Save(ctx, sampleSession())
	if err != nil {
		t.Fatalf("Save err: %v", err)
	}

	if err := st.Delete(ctx, id); err != nil {
		t.Fatalf("Delete err: %v", err)
	}

	if _, err := st.Load(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	summaries, err := st.List(ctx, "")
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("deleted session still listed: %+v", summaries)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir err: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("backing file not removed, found %d files", len(entries))
	}

	if err := st.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestStoreLoadFallsBackToRowBlobs(t *testing.T) {
	st, dir := newTestStore(t)
	ctx := context.Background()

	id, err := st.Save(ctx, sampleSession())
	if err != nil {
		t.Fatalf("Save err: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir err: %v", err)
	}
	for _, entry := range entries {
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			t.Fatalf("remove backing file: %v", err)
		}
	}

	got, err := st.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load with missing file should fall back, got %v", err)
	}
	if len(got.Turns) != 2 || got.Title != "Travel talk" {
		t.Fatalf("row-blob fallback incomplete: %+v", got)
	}
}

func TestStoreSearchFilter(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	travel := sampleSession()
	travel.Title = "Travel talk"
	if _, err := st.Save(ctx, travel); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	daily := sampleSession()
	daily.Title = "Daily life"
	daily.Topic = "Daily life"
	daily.Level = tutor.LevelBeginner
	if _, err := st.Save(ctx, daily); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	got, err := st.List(ctx, "trav")
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Travel talk" {
		t.Fatalf("substring filter failed: %+v", got)
	}
}
