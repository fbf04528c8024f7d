package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatservice "github.com/mvoisin/english-buddy/backend/internal/service/chat"
	"github.com/mvoisin/english-buddy/backend/internal/store"
	"github.com/mvoisin/english-buddy/backend/pkg/utils"
)

// Handler exposes the persistence layer: save, list, load, delete,
// export and statistics over saved conversations.
type Handler struct {
	store   *store.Store
	chatSvc *chatservice.Service
}

// New creates the session handler.
func New(st *store.Store, chatSvc *chatservice.Service) *Handler {
	return &Handler{store: st, chatSvc: chatSvc}
}

// RegisterRoutes registers the session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.handleSave)
		r.Get("/", h.handleList)
		r.Get("/stats", h.handleStatistics)
		r.Get("/{id}", h.handleLoad)
		r.Delete("/{id}", h.handleDelete)
		r.Get("/{id}/export", h.handleExport)
	})
}

// handleSave snapshots the live session under the given title. Passing
// the id of a previously saved session updates that record instead of
// forking a duplicate.
func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session := h.chatSvc.Snapshot(payload.Title)
	session.ID = payload.ID

	id, err := h.store.Save(r.Context(), session)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrTitleRequired):
			utils.RespondError(w, http.StatusBadRequest, "title is required")
		case errors.Is(err, store.ErrNotFound):
			utils.RespondError(w, http.StatusNotFound, "session not found")
		default:
			utils.RespondError(w, http.StatusInternalServerError, "failed to save session")
		}
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// handleList returns summaries, newest modification first. The q query
// parameter filters case-insensitively over title and topic.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.store.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	utils.RespondJSON(w, http.StatusOK, summaries)
}

// handleLoad returns a saved session. With ?activate=1 it also replaces
// the live transcript, discarding unsaved turns.
func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := h.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	if r.URL.Query().Get("activate") == "1" {
		h.chatSvc.Restore(session)
	}

	utils.RespondJSON(w, http.StatusOK, session)
}

// handleDelete removes the record and its backing file. The live session
// is untouched.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleExport offers the session in the stored-file shape as a download.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := h.store.Export(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to export session")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "conversation-"+id+".json"))
	utils.RespondJSON(w, http.StatusOK, doc)
}

// handleStatistics returns the aggregate counters over the saved store.
func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Statistics(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	utils.RespondJSON(w, http.StatusOK, stats)
}
