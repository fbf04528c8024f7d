// Package correction locates the grammar-fix snippet inside an assistant
// reply. The actual grammar judgment is made by the language model; this
// package only finds the line the UI should highlight.
package correction

import (
	"strings"
	"time"

	chatmodel "github.com/mvoisin/english-buddy/backend/internal/model/chat"
)

// Extractor finds at most one correction in an assistant reply. Kept as an
// interface so a structured model output can replace the marker heuristic
// without touching the chat flow or the stores.
type Extractor interface {
	Extract(userMessage, reply string) (chatmodel.Correction, bool)
}

// pencil is the glyph the tutor prompt asks the model to prefix
// corrections with.
const pencil = "✏️"

// MarkerExtractor scans reply lines for the pencil glyph or the substring
// "correction" (case-insensitive). First matching line wins.
type MarkerExtractor struct {
	now func() time.Time
}

// NewMarkerExtractor returns the default heuristic extractor.
func NewMarkerExtractor() *MarkerExtractor {
	return &MarkerExtractor{now: time.Now}
}

// Extract returns the first qualifying line verbatim, stamped with the
// time of day, or false when no line matches.
func (e *MarkerExtractor) Extract(userMessage, reply string) (chatmodel.Correction, bool) {
	for _, line := range strings.Split(reply, "\n") {
		if line == "" {
			continue
		}
		if strings.Contains(line, pencil) || strings.Contains(strings.ToLower(line), "correction") {
			return chatmodel.Correction{
				Timestamp:   e.now().Format("15:04:05"),
				UserMessage: userMessage,
				Text:        line,
			}, true
		}
	}
	return chatmodel.Correction{}, false
}
