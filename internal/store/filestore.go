package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	chatmodel "github.com/mvoisin/english-buddy/backend/internal/model/chat"
	"github.com/mvoisin/english-buddy/backend/internal/model/tutor"
)

// Document is the on-disk (and export) shape of one session file.
type Document struct {
	Title       string                 `json:"title"`
	Date        string                 `json:"date"` // RFC3339
	Level       string                 `json:"level"`
	Topic       string                 `json:"topic"`
	Messages    []chatmodel.Turn       `json:"messages"`
	Corrections []chatmodel.Correction `json:"corrections"`
}

// NewDocument projects a session into the file format.
func NewDocument(session chatmodel.Session) Document {
	return Document{
		Title:       session.Title,
		Date:        session.ModifiedAt.Format(time.RFC3339),
		Level:       string(session.Level),
		Topic:       session.Topic,
		Messages:    session.Turns,
		Corrections: session.Corrections,
	}
}

// Session expands a document back into session content. Identity and
// timestamps stay with the relational row.
func (d Document) Session() chatmodel.Session {
	return chatmodel.Session{
		Title:        d.Title,
		Level:        tutor.Level(d.Level),
		Topic:        d.Topic,
		Turns:        d.Messages,
		Corrections:  d.Corrections,
		MessageCount: len(d.Messages),
	}
}

// FileStore keeps one self-contained JSON file per session, named after
// the save time plus a sanitized title so the directory stays browsable.
type FileStore struct {
	dir string
}

// NewFileStore creates the store directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Write persists the session to a freshly named file and returns its path.
func (fs *FileStore) Write(session chatmodel.Session) (string, error) {
	name := fmt.Sprintf("%s_%s.json", session.ModifiedAt.Format("20060102-150405"), sanitizeTitle(session.Title))
	path := filepath.Join(fs.dir, name)
	if err := fs.writeTo(path, session); err != nil {
		return "", err
	}
	return path, nil
}

// Rewrite overwrites an existing backing file in place, keeping the
// original name stable across updates.
func (fs *FileStore) Rewrite(path string, session chatmodel.Session) error {
	return fs.writeTo(path, session)
}

func (fs *FileStore) writeTo(path string, session chatmodel.Session) error {
	data, err := json.MarshalIndent(NewDocument(session), "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Read loads a session document from its backing file.
func (fs *FileStore) Read(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read session file: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode session file: %w", err)
	}
	return doc, nil
}

// Remove deletes a backing file. A missing file is not an error.
func (fs *FileStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// sanitizeTitle keeps letters, digits, spaces, hyphens and underscores,
// truncates to 40 runes and turns spaces into underscores.
func sanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > 40 {
		out = out[:40]
	}
	if out == "" {
		out = "untitled"
	}
	return out
}
