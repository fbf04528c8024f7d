// Package store persists conversation sessions across two cooperating
// backends: a file-per-session JSON store and a SQLite table. The file is
// the source of truth for conversation content, the table for indexing,
// search and statistics.
package store

import "errors"

var (
	// ErrNotFound is returned when no session exists under the given id.
	ErrNotFound = errors.New("session not found")
	// ErrTitleRequired rejects saving an untitled session.
	ErrTitleRequired = errors.New("session title is required")
)
