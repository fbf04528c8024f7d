package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	speechsvc "github.com/mvoisin/english-buddy/backend/internal/service/speech"
)

type fakeSpeech struct {
	text  string
	audio []byte
	err   error
}

func (f *fakeSpeech) Transcribe(_ context.Context, _ string, _ []byte) (string, error) {
	return f.text, f.err
}

func (f *fakeSpeech) Synthesize(_ context.Context, _ string, _ string) ([]byte, error) {
	return f.audio, f.err
}

func setupRouter(svc Transcriber) *chi.Mux {
	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	return r
}

func multipartAudio(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile err: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part err: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer err: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestTranscribe(t *testing.T) {
	r := setupRouter(&fakeSpeech{text: "hello how are you"})

	body, contentType := multipartAudio(t, "audio", "note.wav", []byte("fake-wav-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/speech/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["text"] != "hello how are you" {
		t.Fatalf("unexpected transcript %q", got["text"])
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	r := setupRouter(&fakeSpeech{})

	body, contentType := multipartAudio(t, "wrong-field", "note.wav", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/speech/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestTranscribeUnintelligible(t *testing.T) {
	r := setupRouter(&fakeSpeech{err: speechsvc.ErrUnintelligible})

	body, contentType := multipartAudio(t, "audio", "note.wav", []byte("static"))
	req := httptest.NewRequest(http.MethodPost, "/speech/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestSynthesize(t *testing.T) {
	audio := []byte{0xff, 0xf3, 0x01, 0x02}
	r := setupRouter(&fakeSpeech{audio: audio})

	payload, _ := json.Marshal(map[string]string{"text": "Good morning!"})
	req := httptest.NewRequest(http.MethodPost, "/speech/synthesize", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Fatalf("expected audio/mpeg, got %q", got)
	}
	if !bytes.Equal(resp.Body.Bytes(), audio) {
		t.Fatal("audio bytes not passed through")
	}
}

func TestSynthesizeUnavailable(t *testing.T) {
	r := setupRouter(&fakeSpeech{err: speechsvc.ErrUnavailable})

	payload, _ := json.Marshal(map[string]string{"text": "Good morning!"})
	req := httptest.NewRequest(http.MethodPost, "/speech/synthesize", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	r := setupRouter(&fakeSpeech{audio: []byte{1}})

	payload := []byte(`{"text": ""}`)
	req := httptest.NewRequest(http.MethodPost, "/speech/synthesize", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
