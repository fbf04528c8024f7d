package tutor

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mvoisin/english-buddy/backend/internal/model/tutor"
	"github.com/mvoisin/english-buddy/backend/pkg/utils"
)

// Handler serves the fixed level and topic catalog.
type Handler struct {
	topics tutor.Store
}

// New creates the tutor catalog handler.
func New(topics tutor.Store) *Handler {
	return &Handler{topics: topics}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/topics", h.handleTopics)
}

func (h *Handler) handleTopics(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"topics": h.topics.List(),
		"levels": []tutor.Level{tutor.LevelBeginner, tutor.LevelIntermediate, tutor.LevelAdvanced},
	})
}
