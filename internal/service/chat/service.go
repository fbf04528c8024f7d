package chat

import (
	"sync"
	"time"

	chatmodel "github.com/mvoisin/english-buddy/backend/internal/model/chat"
	"github.com/mvoisin/english-buddy/backend/internal/model/tutor"
)

// Service owns the live conversation state: the append-only turn log, the
// corrections collected so far and the running turns-sent counter shown in
// the stats panel. One interactive actor mutates it at a time; reads may
// come from concurrent HTTP requests, so access is guarded.
type Service struct {
	mu          sync.RWMutex
	turns       []chatmodel.Turn
	corrections []chatmodel.Correction
	level       tutor.Level
	topic       string
	turnsSent   int
	startedAt   time.Time
}

// Stats summarises the live session for display.
type Stats struct {
	TurnCount       int       `json:"turnCount"`
	CorrectionCount int       `json:"correctionCount"`
	TurnsSent       int       `json:"turnsSent"`
	StartedAt       time.Time `json:"startedAt"`
}

// NewService bootstraps an empty live session.
func NewService() *Service {
	return &Service{
		turns:     make([]chatmodel.Turn, 0, 16),
		level:     tutor.LevelIntermediate,
		topic:     tutor.NoTopic,
		startedAt: time.Now().UTC(),
	}
}

// Append adds a turn to the tail of the log. Every append bumps the
// turns-sent counter; the counter survives Reset.
func (s *Service) Append(turn chatmodel.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	s.turnsSent++
}

// AddCorrection records a correction extracted from an assistant turn.
func (s *Service) AddCorrection(c chatmodel.Correction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corrections = append(s.corrections, c)
}

// Turns returns the full ordered turn sequence.
func (s *Service) Turns() []chatmodel.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]chatmodel.Turn, len(s.turns))
	copy(copied, s.turns)
	return copied
}

// Corrections returns the corrections in extraction order.
func (s *Service) Corrections() []chatmodel.Correction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]chatmodel.Correction, len(s.corrections))
	copy(copied, s.corrections)
	return copied
}

// Window returns the trailing k turns in original order, or all of them
// when fewer than k exist. This bounds the history sent to the model.
func (s *Service) Window(k int) []chatmodel.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if k <= 0 {
		return nil
	}
	start := 0
	if len(s.turns) > k {
		start = len(s.turns) - k
	}
	copied := make([]chatmodel.Turn, len(s.turns)-start)
	copy(copied, s.turns[start:])
	return copied
}

// SetProfile updates the level and topic driving the tutor prompt.
func (s *Service) SetProfile(level tutor.Level, topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
	if topic == "" {
		topic = tutor.NoTopic
	}
	s.topic = topic
}

// Profile returns the current level and topic.
func (s *Service) Profile() (tutor.Level, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level, s.topic
}

// Stats reports the live session counters.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		TurnCount:       len(s.turns),
		CorrectionCount: len(s.corrections),
		TurnsSent:       s.turnsSent,
		StartedAt:       s.startedAt,
	}
}

// Reset clears the transcript and corrections. The turns-sent counter
// keeps running so the stats panel reflects the whole app lifetime.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = s.turns[:0]
	s.corrections = s.corrections[:0]
	s.startedAt = time.Now().UTC()
}

// Snapshot packages the live state into a Session ready for persistence.
// MessageCount is fixed at snapshot time.
func (s *Service) Snapshot(title string) chatmodel.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := make([]chatmodel.Turn, len(s.turns))
	copy(turns, s.turns)
	corrections := make([]chatmodel.Correction, len(s.corrections))
	copy(corrections, s.corrections)

	now := time.Now().UTC()
	return chatmodel.Session{
		Title:        title,
		CreatedAt:    now,
		ModifiedAt:   now,
		Level:        s.level,
		Topic:        s.topic,
		Turns:        turns,
		Corrections:  corrections,
		MessageCount: len(turns),
	}
}

// Restore replaces the live state with a stored session, discarding any
// unsaved turns.
func (s *Service) Restore(session chatmodel.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns[:0], session.Turns...)
	s.corrections = append(s.corrections[:0], session.Corrections...)
	s.level = session.Level
	s.topic = session.Topic
	if s.topic == "" {
		s.topic = tutor.NoTopic
	}
	s.startedAt = time.Now().UTC()
}
