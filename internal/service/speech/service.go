// Package speech adapts the hosted transcription and synthesis endpoints.
// Both operations are strictly additive to the text flow: a synthesis
// failure never blocks displaying a reply.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mvoisin/english-buddy/backend/internal/config"
	"github.com/mvoisin/english-buddy/backend/internal/service/ai"
)

var (
	// ErrUnintelligible means the audio decoded but produced no words.
	ErrUnintelligible = errors.New("audio could not be transcribed")
	// ErrUnavailable means synthesis is down or rejected the request.
	ErrUnavailable = errors.New("speech synthesis unavailable")
)

// Service wraps the whisper and tts endpoints behind one client.
type Service struct {
	client *openai.Client
	cfg    config.SpeechConfig
}

// NewService creates the speech collaborator from configuration.
func NewService(cfg config.SpeechConfig) (*Service, error) {
	if !cfg.Enabled {
		return nil, ai.ErrCredentialMissing
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Service{client: openai.NewClientWithConfig(clientCfg), cfg: cfg}, nil
}

// Transcribe turns uploaded audio bytes into text. The filename carries
// the container format hint for the provider.
func (s *Service) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", ErrUnintelligible
	}

	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.cfg.TranscribeModel,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", ai.Classify(err))
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrUnintelligible
	}

	log.Printf("[speech] transcribed %d bytes into %d chars", len(audio), len(text))
	return text, nil
}

// Synthesize renders text to audio bytes using the requested voice, or
// the configured default when voice is empty.
func (s *Service) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", ErrUnavailable)
	}
	if voice == "" {
		voice = s.cfg.Voice
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(s.cfg.SynthesisModel),
		Input: text,
		Voice: openai.SpeechVoice(voice),
		Speed: s.cfg.Speed,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	log.Printf("[speech] synthesized %d chars into %d bytes, voice=%s", len(text), len(audio), voice)
	return audio, nil
}
