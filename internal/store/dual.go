package store

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	chatmodel "github.com/mvoisin/english-buddy/backend/internal/model/chat"
)

// Store coordinates the file and relational backends. The two writes are
// deliberately not transactional: a row-insert failure after a successful
// file write leaves an orphaned file behind, which is accepted and logged
// rather than retried.
type Store struct {
	files *FileStore
	db    *SQLiteStore
}

// New wires the two backends together.
func New(files *FileStore, db *SQLiteStore) *Store {
	return &Store{files: files, db: db}
}

// Close releases the relational backend.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a session and returns its id. An empty id inserts a new
// record under a fresh identifier; a non-empty id updates the existing
// record in place, so re-saving a loaded session does not fork it.
// The file is written first, then the row referencing its path.
func (s *Store) Save(ctx context.Context, session chatmodel.Session) (string, error) {
	session.Title = strings.TrimSpace(session.Title)
	if session.Title == "" {
		return "", ErrTitleRequired
	}
	session.MessageCount = len(session.Turns)
	session.ModifiedAt = time.Now().UTC()

	if session.ID == "" {
		return s.insert(ctx, session)
	}
	return s.update(ctx, session)
}

func (s *Store) insert(ctx context.Context, session chatmodel.Session) (string, error) {
	session.ID = uuid.NewString()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.ModifiedAt
	}

	path, err := s.files.Write(session)
	if err != nil {
		// File-backend failures must not block persistence: the row
		// blobs still carry the full content.
		log.Printf("[store] file write failed for %q: %v", session.Title, err)
		path = ""
	}
	session.FilePath = path

	if err := s.db.Insert(ctx, session); err != nil {
		if path != "" {
			log.Printf("[store] row insert failed, orphaned file left at %s", path)
		}
		return "", err
	}
	return session.ID, nil
}

func (s *Store) update(ctx context.Context, session chatmodel.Session) (string, error) {
	existing, err := s.db.Get(ctx, session.ID)
	if err != nil {
		return "", err
	}
	session.CreatedAt = existing.CreatedAt
	session.FilePath = existing.FilePath

	if session.FilePath != "" {
		if err := s.files.Rewrite(session.FilePath, session); err != nil {
			log.Printf("[store] file rewrite failed for %s: %v", session.ID, err)
		}
	} else {
		path, err := s.files.Write(session)
		if err != nil {
			log.Printf("[store] file write failed for %s: %v", session.ID, err)
		} else {
			session.FilePath = path
		}
	}

	if err := s.db.Update(ctx, session); err != nil {
		return "", err
	}
	return session.ID, nil
}

// List returns summaries most-recently-modified first, optionally
// filtered by a case-insensitive substring over title and topic.
func (s *Store) List(ctx context.Context, query string) ([]chatmodel.Summary, error) {
	return s.db.List(ctx, query)
}

// Load reconstructs a full session. The backing file is the source of
// truth for conversation content; when it is missing or unreadable the
// row blobs serve as fallback.
func (s *Store) Load(ctx context.Context, id string) (chatmodel.Session, error) {
	session, err := s.db.Get(ctx, id)
	if err != nil {
		return chatmodel.Session{}, err
	}

	if session.FilePath != "" {
		doc, err := s.files.Read(session.FilePath)
		if err != nil {
			log.Printf("[store] backing file unreadable for %s, using row blobs: %v", id, err)
			return session, nil
		}
		content := doc.Session()
		session.Title = content.Title
		session.Level = content.Level
		session.Topic = content.Topic
		session.Turns = content.Turns
		session.Corrections = content.Corrections
		session.MessageCount = content.MessageCount
	}

	return session, nil
}

// Delete removes the row, then best-effort removes the backing file.
// A missing file is fine; a permission failure is logged but does not
// resurrect the row.
func (s *Store) Delete(ctx context.Context, id string) error {
	filePath, err := s.db.Delete(ctx, id)
	if err != nil {
		return err
	}
	if filePath != "" {
		if err := s.files.Remove(filePath); err != nil {
			log.Printf("[store] could not remove backing file %s: %v", filePath, err)
		}
	}
	return nil
}

// Statistics aggregates the relational store.
func (s *Store) Statistics(ctx context.Context) (chatmodel.Statistics, error) {
	return s.db.Statistics(ctx)
}

// Export returns the file-format document for one session, for the
// download endpoint. Purely outbound; nothing is written.
func (s *Store) Export(ctx context.Context, id string) (Document, error) {
	session, err := s.Load(ctx, id)
	if err != nil {
		return Document{}, err
	}
	doc := NewDocument(session)
	if doc.Date == "" || session.ModifiedAt.IsZero() {
		doc.Date = time.Now().UTC().Format(time.RFC3339)
	}
	return doc, nil
}
