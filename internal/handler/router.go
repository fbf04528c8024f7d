package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chathandler "github.com/mvoisin/english-buddy/backend/internal/handler/chat"
	sessionhandler "github.com/mvoisin/english-buddy/backend/internal/handler/session"
	speechhandler "github.com/mvoisin/english-buddy/backend/internal/handler/speech"
	tutorhandler "github.com/mvoisin/english-buddy/backend/internal/handler/tutor"
	middlewarePkg "github.com/mvoisin/english-buddy/backend/internal/middleware"
	tutormodel "github.com/mvoisin/english-buddy/backend/internal/model/tutor"
	chatservice "github.com/mvoisin/english-buddy/backend/internal/service/chat"
	"github.com/mvoisin/english-buddy/backend/internal/service/correction"
	"github.com/mvoisin/english-buddy/backend/internal/store"
	"github.com/mvoisin/english-buddy/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. The replier and speech
// service may be nil when no credential is configured; the matching
// endpoints then answer with an actionable error while the rest of the
// app keeps working.
func NewRouter(topics tutormodel.Store, chatSvc *chatservice.Service, replier chathandler.Replier, speechSvc speechhandler.Transcriber, st *store.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	extractor := correction.NewMarkerExtractor()

	tutorHandler := tutorhandler.New(topics)
	chatHandler := chathandler.New(chatSvc, replier, extractor, topics)
	sessionHandler := sessionhandler.New(st, chatSvc)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		tutorHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		sessionHandler.RegisterRoutes(api)

		if speechSvc != nil {
			speechhandler.New(speechSvc).RegisterRoutes(api)
		} else {
			api.Route("/speech", func(sp chi.Router) {
				sp.HandleFunc("/*", func(w http.ResponseWriter, _ *http.Request) {
					utils.RespondError(w, http.StatusServiceUnavailable, "speech service not configured")
				})
			})
		}
	})

	return r
}
