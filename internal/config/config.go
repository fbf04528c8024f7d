package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config aggregates every runtime setting for the service.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Speech  SpeechConfig
	Storage StorageConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	speech, err := loadSpeechConfig(ai)
	if err != nil {
		return nil, err
	}

	storage := loadStorageConfig()

	return &Config{Server: server, AI: ai, Speech: speech, Storage: storage}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the chat-completion collaborator.
type AIConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	Temperature   float32
	MaxTokens     int
	HistoryWindow int
	Timeout       int // seconds; 0 disables the client-side deadline
}

// Enabled reports whether the chat collaborator has a credential.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("OPENAI_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	temp := float32(0.7)
	if temperature != nil {
		temp = float32(*temperature)
	}

	maxTokens := 800
	if override, err := parseOptionalIntEnv("OPENAI_MAX_TOKENS"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		maxTokens = *override
	}

	window := 10
	if override, err := parseOptionalIntEnv("CHAT_HISTORY_WINDOW"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		if *override < 1 {
			window = 1
		} else {
			window = *override
		}
	}

	timeout := 60
	if override, err := parseOptionalIntEnv("OPENAI_TIMEOUT"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		timeout = *override
	}

	return AIConfig{
		APIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		BaseURL:       strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
		Model:         getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		Temperature:   temp,
		MaxTokens:     maxTokens,
		HistoryWindow: window,
		Timeout:       timeout,
	}, nil
}

// SpeechConfig describes the transcription and synthesis collaborators.
type SpeechConfig struct {
	APIKey          string
	BaseURL         string
	TranscribeModel string
	SynthesisModel  string
	Voice           string
	Speed           float64
	Enabled         bool
}

func loadSpeechConfig(ai AIConfig) (SpeechConfig, error) {
	speed, err := parseOptionalFloatEnv("SPEECH_TTS_SPEED")
	if err != nil {
		return SpeechConfig{}, err
	}
	ttsSpeed := 1.0
	if speed != nil {
		ttsSpeed = *speed
	}

	// Dedicated speech credential, falling back to the chat credential:
	// the hosted provider serves chat, whisper and tts behind one key.
	apiKey := strings.TrimSpace(os.Getenv("SPEECH_API_KEY"))
	baseURL := strings.TrimSpace(os.Getenv("SPEECH_BASE_URL"))
	if apiKey == "" {
		apiKey = ai.APIKey
		baseURL = ai.BaseURL
	}

	return SpeechConfig{
		APIKey:          apiKey,
		BaseURL:         baseURL,
		TranscribeModel: getEnvOrDefault("SPEECH_ASR_MODEL", "whisper-1"),
		SynthesisModel:  getEnvOrDefault("SPEECH_TTS_MODEL", "tts-1"),
		Voice:           getEnvOrDefault("SPEECH_TTS_VOICE", "alloy"),
		Speed:           ttsSpeed,
		Enabled:         apiKey != "",
	}, nil
}

// StorageConfig locates the persistence backends.
type StorageConfig struct {
	DataDir string // session files live here
	DBPath  string // sqlite database file
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		DataDir: getEnvOrDefault("STORAGE_DATA_DIR", "data/conversations"),
		DBPath:  getEnvOrDefault("STORAGE_DB_PATH", "data/conversations.db"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
