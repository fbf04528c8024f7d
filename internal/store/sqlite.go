package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	chatmodel "github.com/mvoisin/english-buddy/backend/internal/model/chat"
	"github.com/mvoisin/english-buddy/backend/internal/model/tutor"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the relational half of the persistence layer. Summary
// columns are denormalised so listing and filtering never touch the turn
// blobs.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database and applies the schema.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// modernc applies _pragma values on every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		date_created INTEGER NOT NULL,
		date_modified INTEGER NOT NULL,
		level TEXT NOT NULL,
		topic TEXT NOT NULL,
		message_count INTEGER NOT NULL,
		correction_count INTEGER NOT NULL,
		messages_blob TEXT NOT NULL,
		corrections_blob TEXT NOT NULL,
		file_path TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_conversations_modified ON conversations(date_modified);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Insert writes a new conversation row.
func (s *SQLiteStore) Insert(ctx context.Context, session chatmodel.Session) error {
	messagesBlob, correctionsBlob, err := encodeBlobs(session)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO conversations
		(id, title, date_created, date_modified, level, topic,
		 message_count, correction_count, messages_blob, corrections_blob, file_path)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		session.ID, session.Title,
		session.CreatedAt.Unix(), session.ModifiedAt.Unix(),
		string(session.Level), session.Topic,
		session.MessageCount, len(session.Corrections),
		messagesBlob, correctionsBlob, nullable(session.FilePath),
	)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

// Update rewrites an existing row in place, keeping id and date_created.
func (s *SQLiteStore) Update(ctx context.Context, session chatmodel.Session) error {
	messagesBlob, correctionsBlob, err := encodeBlobs(session)
	if err != nil {
		return err
	}

	query := `
	UPDATE conversations SET
		title = ?, date_modified = ?, level = ?, topic = ?,
		message_count = ?, correction_count = ?,
		messages_blob = ?, corrections_blob = ?, file_path = ?
	WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		session.Title, session.ModifiedAt.Unix(),
		string(session.Level), session.Topic,
		session.MessageCount, len(session.Corrections),
		messagesBlob, correctionsBlob, nullable(session.FilePath),
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Get loads one full row, blobs included.
func (s *SQLiteStore) Get(ctx context.Context, id string) (chatmodel.Session, error) {
	query := `
	SELECT id, title, date_created, date_modified, level, topic,
	       message_count, messages_blob, corrections_blob, file_path
	FROM conversations WHERE id = ?`

	row := s.db.QueryRowContext(ctx, query, id)

	var session chatmodel.Session
	var created, modified int64
	var level, messagesBlob, correctionsBlob string
	var filePath sql.NullString

	err := row.Scan(
		&session.ID, &session.Title, &created, &modified, &level, &session.Topic,
		&session.MessageCount, &messagesBlob, &correctionsBlob, &filePath,
	)
	if err == sql.ErrNoRows {
		return chatmodel.Session{}, ErrNotFound
	}
	if err != nil {
		return chatmodel.Session{}, fmt.Errorf("scan conversation row: %w", err)
	}

	session.CreatedAt = time.Unix(created, 0).UTC()
	session.ModifiedAt = time.Unix(modified, 0).UTC()
	session.Level = tutor.Level(level)
	session.FilePath = filePath.String

	if err := json.Unmarshal([]byte(messagesBlob), &session.Turns); err != nil {
		return chatmodel.Session{}, fmt.Errorf("decode messages blob: %w", err)
	}
	if err := json.Unmarshal([]byte(correctionsBlob), &session.Corrections); err != nil {
		return chatmodel.Session{}, fmt.Errorf("decode corrections blob: %w", err)
	}

	return session, nil
}

// List returns summaries most-recently-modified first. A non-empty query
// filters case-insensitively over title and topic. Rows that fail to scan
// are skipped with a warning rather than failing the whole listing.
func (s *SQLiteStore) List(ctx context.Context, query string) ([]chatmodel.Summary, error) {
	stmt := `
	SELECT id, title, date_created, date_modified, level, topic, message_count, correction_count
	FROM conversations`
	args := []any{}
	if query != "" {
		stmt += ` WHERE lower(title) LIKE ? OR lower(topic) LIKE ?`
		pattern := "%" + strings.ToLower(query) + "%"
		args = append(args, pattern, pattern)
	}
	stmt += ` ORDER BY date_modified DESC`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	summaries := make([]chatmodel.Summary, 0, 16)
	for rows.Next() {
		var sum chatmodel.Summary
		var created, modified int64
		var level string
		if err := rows.Scan(&sum.ID, &sum.Title, &created, &modified, &level, &sum.Topic,
			&sum.MessageCount, &sum.CorrectionCount); err != nil {
			log.Printf("[store] skipping unreadable conversation row: %v", err)
			continue
		}
		sum.CreatedAt = time.Unix(created, 0).UTC()
		sum.ModifiedAt = time.Unix(modified, 0).UTC()
		sum.Level = tutor.Level(level)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}
	return summaries, nil
}

// Delete removes the row and returns the backing file path it referenced.
func (s *SQLiteStore) Delete(ctx context.Context, id string) (string, error) {
	var filePath sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT file_path FROM conversations WHERE id = ?`, id).Scan(&filePath)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select conversation: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return "", fmt.Errorf("delete conversation: %w", err)
	}
	return filePath.String, nil
}

// Statistics scans the table and aggregates counts. Recomputed on every
// call; the table stays small enough that caching buys nothing.
func (s *SQLiteStore) Statistics(ctx context.Context) (chatmodel.Statistics, error) {
	stats := chatmodel.Statistics{
		ByLevel: make(map[string]int),
		ByTopic: make(map[string]int),
	}

	row := s.db.QueryRowContext(ctx, `
	SELECT COUNT(*), COALESCE(SUM(message_count), 0), COALESCE(SUM(correction_count), 0)
	FROM conversations`)
	if err := row.Scan(&stats.TotalSessions, &stats.TotalTurns, &stats.TotalCorrections); err != nil {
		return chatmodel.Statistics{}, fmt.Errorf("aggregate totals: %w", err)
	}

	if err := s.countBy(ctx, `SELECT level, COUNT(*) FROM conversations GROUP BY level`, stats.ByLevel); err != nil {
		return chatmodel.Statistics{}, err
	}
	if err := s.countBy(ctx, `SELECT topic, COUNT(*) FROM conversations GROUP BY topic`, stats.ByTopic); err != nil {
		return chatmodel.Statistics{}, err
	}

	activity, err := s.activity(ctx, 30)
	if err != nil {
		return chatmodel.Statistics{}, err
	}
	stats.Activity = activity

	return stats, nil
}

func (s *SQLiteStore) countBy(ctx context.Context, query string, out map[string]int) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("count grouped: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan grouped count: %w", err)
		}
		out[key] = count
	}
	return rows.Err()
}

// activity buckets sessions by modification day over the trailing window.
func (s *SQLiteStore) activity(ctx context.Context, days int) ([]chatmodel.DayActivity, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Unix()
	rows, err := s.db.QueryContext(ctx,
		`SELECT date_modified FROM conversations WHERE date_modified >= ? ORDER BY date_modified`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	order := make([]string, 0, days)
	for rows.Next() {
		var modified int64
		if err := rows.Scan(&modified); err != nil {
			return nil, fmt.Errorf("scan activity row: %w", err)
		}
		day := time.Unix(modified, 0).UTC().Format("2006-01-02")
		if _, seen := counts[day]; !seen {
			order = append(order, day)
		}
		counts[day]++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}

	activity := make([]chatmodel.DayActivity, 0, len(order))
	for _, day := range order {
		activity = append(activity, chatmodel.DayActivity{Day: day, Count: counts[day]})
	}
	return activity, nil
}

func encodeBlobs(session chatmodel.Session) (string, string, error) {
	turns := session.Turns
	if turns == nil {
		turns = []chatmodel.Turn{}
	}
	corrections := session.Corrections
	if corrections == nil {
		corrections = []chatmodel.Correction{}
	}

	messagesBlob, err := json.Marshal(turns)
	if err != nil {
		return "", "", fmt.Errorf("encode messages blob: %w", err)
	}
	correctionsBlob, err := json.Marshal(corrections)
	if err != nil {
		return "", "", fmt.Errorf("encode corrections blob: %w", err)
	}
	return string(messagesBlob), string(correctionsBlob), nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
