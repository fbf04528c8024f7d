package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mvoisin/english-buddy/backend/internal/config"
	"github.com/mvoisin/english-buddy/backend/internal/handler"
	chathandler "github.com/mvoisin/english-buddy/backend/internal/handler/chat"
	speechhandler "github.com/mvoisin/english-buddy/backend/internal/handler/speech"
	"github.com/mvoisin/english-buddy/backend/internal/model/tutor"
	"github.com/mvoisin/english-buddy/backend/internal/service/ai"
	"github.com/mvoisin/english-buddy/backend/internal/service/chat"
	"github.com/mvoisin/english-buddy/backend/internal/service/speech"
	"github.com/mvoisin/english-buddy/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	topicStore := tutor.Catalog()
	chatService := chat.NewService()

	fileStore, err := store.NewFileStore(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("failed to open session file store: %v", err)
	}
	sqliteStore, err := store.NewSQLite(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("failed to open sqlite store: %v", err)
	}
	sessionStore := store.New(fileStore, sqliteStore)
	defer func() {
		if err := sessionStore.Close(); err != nil {
			log.Printf("warning: closing store: %v", err)
		}
	}()

	var replier chathandler.Replier
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(topicStore, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without chat functionality")
		} else {
			replier = aiService
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("OPENAI_API_KEY not set, chat replies disabled")
	}

	var speechService speechhandler.Transcriber
	if cfg.Speech.Enabled {
		svc, err := speech.NewService(cfg.Speech)
		if err != nil {
			log.Printf("warning: failed to initialize speech service: %v", err)
		} else {
			speechService = svc
			log.Println("Speech service initialized successfully")
		}
	} else {
		log.Println("speech credential not set, transcription and synthesis disabled")
	}

	router := handler.NewRouter(topicStore, chatService, replier, speechService, sessionStore)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("English Buddy backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
