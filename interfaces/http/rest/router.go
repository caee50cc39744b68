package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"contentforge-backend/application/services"
	"contentforge-backend/infrastructure/config"
	"contentforge-backend/infrastructure/observability"
	"contentforge-backend/interfaces/http/rest/handlers"
	"contentforge-backend/interfaces/http/rest/middleware"
	"contentforge-backend/pkg/auth"
	apperrors "contentforge-backend/pkg/errors"
)

// Router assembles the HTTP surface from its handlers and middleware.
type Router struct {
	cfg      *config.Config
	verifier *auth.Verifier
	metrics  *observability.Recorder
	logger   *zap.Logger

	authHandler      *handlers.AuthHandler
	projectHandler   *handlers.ProjectHandler
	topicHandler     *handlers.TopicHandler
	scriptHandler    *handlers.ScriptHandler
	videoHandler     *handlers.VideoHandler
	dashboardHandler *handlers.DashboardHandler
}

// NewRouter wires every handler against the application services.
func NewRouter(
	cfg *config.Config,
	identity *auth.IdentityService,
	verifier *auth.Verifier,
	projects *services.ProjectService,
	topics *services.TopicService,
	scripts *services.ScriptService,
	videos *services.VideoService,
	dashboard *services.DashboardService,
	metrics *observability.Recorder,
	logger *zap.Logger,
) *Router {
	errHandler := apperrors.NewHTTPHandler(logger)
	return &Router{
		cfg:      cfg,
		verifier: verifier,
		metrics:  metrics,
		logger:   logger,

		authHandler:      handlers.NewAuthHandler(identity, errHandler, logger),
		projectHandler:   handlers.NewProjectHandler(projects, errHandler, logger),
		topicHandler:     handlers.NewTopicHandler(topics, errHandler, logger),
		scriptHandler:    handlers.NewScriptHandler(scripts, errHandler, logger),
		videoHandler:     handlers.NewVideoHandler(videos, errHandler, logger),
		dashboardHandler: handlers.NewDashboardHandler(dashboard, errHandler, logger),
	}
}

// Setup builds the full route tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", rt.healthCheck)
	r.Get("/ready", rt.healthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", rt.authHandler.Login)
			r.Post("/refresh", rt.authHandler.Refresh)
			r.Get("/me", rt.authHandler.Me)
			r.Post("/logout", rt.authHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.verifier, rt.metrics, rt.logger))

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", rt.projectHandler.Create)
				r.Get("/", rt.projectHandler.List)

				r.Route("/{projectID}", func(r chi.Router) {
					r.Get("/", rt.projectHandler.Get)
					r.Patch("/", rt.projectHandler.Update)
					r.Delete("/", rt.projectHandler.Delete)
					r.Post("/topic", rt.projectHandler.SelectTopic)
					r.Get("/topics/suggestions", rt.topicHandler.SuggestForProject)
					r.Get("/dashboard", rt.dashboardHandler.Overview)

					r.Route("/scripts", func(r chi.Router) {
						r.Post("/", rt.scriptHandler.Generate)
						r.Get("/", rt.scriptHandler.List)

						r.Route("/{scriptID}", func(r chi.Router) {
							r.Get("/", rt.scriptHandler.Get)
							r.Patch("/", rt.scriptHandler.Update)
							r.Delete("/", rt.scriptHandler.Delete)
							r.Post("/sections", rt.scriptHandler.RegenerateSection)
							r.Post("/analysis", rt.scriptHandler.Analyze)
							r.Get("/analysis", rt.scriptHandler.GetAnalysis)
						})
					})

					r.Route("/videos", func(r chi.Router) {
						r.Post("/", rt.videoHandler.Register)
						r.Get("/", rt.videoHandler.List)

						r.Route("/{videoID}", func(r chi.Router) {
							r.Get("/", rt.videoHandler.Get)
							r.Delete("/", rt.videoHandler.Delete)
							r.Post("/confirm", rt.videoHandler.Confirm)
							r.Get("/download", rt.videoHandler.Download)
							r.Get("/clips", rt.videoHandler.Clips)
						})
					})
				})
			})

			r.Post("/topics/suggestions", rt.topicHandler.Suggest)
		})
	})

	// Pipeline callbacks; deployment keeps these off the public listener.
	r.Route("/internal/projects/{projectID}/videos/{videoID}", func(r chi.Router) {
		r.Put("/status", rt.videoHandler.UpdateStatus)
		r.Post("/transcript", rt.videoHandler.AttachTranscript)
	})

	return r
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
