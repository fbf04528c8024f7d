package speech

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mvoisin/english-buddy/backend/internal/service/ai"
	speechsvc "github.com/mvoisin/english-buddy/backend/internal/service/speech"
	"github.com/mvoisin/english-buddy/backend/pkg/utils"
)

// uploads are bounded well above any realistic voice note
const maxAudioBytes = 25 << 20

// Transcriber abstracts the speech collaborator so tests can fake it.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Handler exposes transcription and synthesis over HTTP.
type Handler struct {
	speechSvc Transcriber
}

// New creates the speech handler.
func New(speechSvc Transcriber) *Handler {
	return &Handler{speechSvc: speechSvc}
}

// RegisterRoutes registers the speech routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/speech", func(r chi.Router) {
		r.Post("/transcribe", h.handleTranscribe)
		r.Post("/synthesize", h.handleSynthesize)
		r.Get("/health", h.handleHealth)
	})
}

// handleTranscribe accepts a multipart upload under the "audio" field and
// returns the recognised text.
func (h *Handler) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read audio upload")
		return
	}

	text, err := h.speechSvc.Transcribe(r.Context(), header.Filename, audio)
	if err != nil {
		utils.RespondError(w, transcribeStatus(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"text": text})
}

// handleSynthesize renders text to audio. Synthesis is additive: callers
// already have the reply text, so any failure here is theirs to ignore.
func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text  string `json:"text"`
		Voice string `json:"voice"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	audio, err := h.speechSvc.Synthesize(r.Context(), payload.Text, payload.Voice)
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		return
	}
}

// handleHealth reports that the speech collaborator is configured.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func transcribeStatus(err error) int {
	switch {
	case errors.Is(err, speechsvc.ErrUnintelligible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ai.ErrUnauthorized), errors.Is(err, ai.ErrCredentialMissing):
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
