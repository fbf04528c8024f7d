package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatmodel "github.com/mvoisin/english-buddy/backend/internal/model/chat"
	"github.com/mvoisin/english-buddy/backend/internal/model/tutor"
	"github.com/mvoisin/english-buddy/backend/internal/service/ai"
	chatservice "github.com/mvoisin/english-buddy/backend/internal/service/chat"
	"github.com/mvoisin/english-buddy/backend/internal/service/correction"
	"github.com/mvoisin/english-buddy/backend/pkg/utils"
)

// Replier abstracts the conversation collaborator so tests can fake it.
type Replier interface {
	Reply(ctx context.Context, level tutor.Level, topic string, window []chatmodel.Turn) (string, error)
	HistoryWindow() int
}

// Handler drives the message round-trip against the live session.
type Handler struct {
	chatSvc   *chatservice.Service
	replier   Replier // nil when no credential is configured
	extractor correction.Extractor
	topics    tutor.Store
}

// New creates the chat handler.
func New(chatSvc *chatservice.Service, replier Replier, extractor correction.Extractor, topics tutor.Store) *Handler {
	return &Handler{
		chatSvc:   chatSvc,
		replier:   replier,
		extractor: extractor,
		topics:    topics,
	}
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/message", h.handleMessage)
		r.Get("/history", h.handleHistory)
		r.Post("/reset", h.handleReset)
	})
}

// handleMessage appends the user turn, asks the collaborator for a reply
// and scans it for a correction. On collaborator failure the user turn
// stays recorded and no assistant turn is written.
func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text    string `json:"text"`
		Level   string `json:"level"`
		TopicID string `json:"topicId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Level != "" || payload.TopicID != "" {
		if !h.applyProfile(w, payload.Level, payload.TopicID) {
			return
		}
	}

	turn, err := chatmodel.NewTurn(chatmodel.RoleUser, payload.Text)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}
	h.chatSvc.Append(turn)

	if h.replier == nil {
		utils.RespondError(w, http.StatusUnauthorized, "no API key configured; set OPENAI_API_KEY to enable chat")
		return
	}

	level, topic := h.chatSvc.Profile()
	window := h.chatSvc.Window(h.replier.HistoryWindow())

	reply, err := h.replier.Reply(r.Context(), level, topic, window)
	if err != nil {
		utils.RespondError(w, replyStatus(err), err.Error())
		return
	}

	assistantTurn, err := chatmodel.NewTurn(chatmodel.RoleAssistant, reply)
	if err != nil {
		utils.RespondError(w, http.StatusBadGateway, "empty reply from provider")
		return
	}
	h.chatSvc.Append(assistantTurn)

	response := map[string]any{"reply": reply}
	if c, ok := h.extractor.Extract(payload.Text, reply); ok {
		h.chatSvc.AddCorrection(c)
		response["correction"] = c
	}

	utils.RespondJSON(w, http.StatusOK, response)
}

// handleHistory returns the live transcript and counters.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	level, topic := h.chatSvc.Profile()
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"turns":       h.chatSvc.Turns(),
		"corrections": h.chatSvc.Corrections(),
		"stats":       h.chatSvc.Stats(),
		"level":       level,
		"topic":       topic,
	})
}

// handleReset clears the live session. Saved records are untouched.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.chatSvc.Reset()
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) applyProfile(w http.ResponseWriter, levelRaw, topicID string) bool {
	level, currentTopic := h.chatSvc.Profile()

	if levelRaw != "" {
		parsed, ok := tutor.ParseLevel(levelRaw)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "unknown level")
			return false
		}
		level = parsed
	}

	topic := currentTopic
	if topicID != "" {
		found, ok := h.topics.FindByID(topicID)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "unknown topic")
			return false
		}
		topic = found.Name
	}

	h.chatSvc.SetProfile(level, topic)
	return true
}

func replyStatus(err error) int {
	switch {
	case errors.Is(err, ai.ErrCredentialMissing), errors.Is(err, ai.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ai.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ai.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ai.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
