package chat

import (
	"time"

	"github.com/mvoisin/english-buddy/backend/internal/model/tutor"
)

// Session is the unit of persistence: a titled conversation together with
// its turns, corrections and metadata. ID is assigned by the store and
// stays stable for the record's lifetime.
type Session struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	CreatedAt   time.Time    `json:"createdAt"`
	ModifiedAt  time.Time    `json:"modifiedAt"`
	Level       tutor.Level  `json:"level"`
	Topic       string       `json:"topic"`
	Turns       []Turn       `json:"messages"`
	Corrections []Correction `json:"corrections"`
	// MessageCount is denormalised at save time; it is not kept live.
	MessageCount int `json:"messageCount"`
	// FilePath references the backing file written by the file store.
	FilePath string `json:"filePath,omitempty"`
}

// Summary is the listing row: everything needed to render the saved
// conversations sidebar without deserialising turn blobs.
type Summary struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	CreatedAt       time.Time   `json:"createdAt"`
	ModifiedAt      time.Time   `json:"modifiedAt"`
	Level           tutor.Level `json:"level"`
	Topic           string      `json:"topic"`
	MessageCount    int         `json:"messageCount"`
	CorrectionCount int         `json:"correctionCount"`
}

// DayActivity counts sessions touched on one calendar day.
type DayActivity struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// Statistics aggregates the saved-session store for the stats view.
type Statistics struct {
	TotalSessions    int            `json:"totalSessions"`
	TotalTurns       int            `json:"totalTurns"`
	TotalCorrections int            `json:"totalCorrections"`
	ByLevel          map[string]int `json:"byLevel"`
	ByTopic          map[string]int `json:"byTopic"`
	Activity         []DayActivity  `json:"activity"` // trailing 30 days
}
