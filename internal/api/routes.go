package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yegors/skytrack/internal/config"
	"github.com/yegors/skytrack/internal/render"
	"github.com/yegors/skytrack/internal/views"
	"github.com/yegors/skytrack/pkg/logger"
)

// Router is the HTTP router
type Router struct {
	handler    *Handler
	middleware *Middleware
	views      *views.Registry
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new router
func NewRouter(handler *Handler, registry *views.Registry, config *config.Config, logger *logger.Logger) *Router {
	return &Router{
		handler:    handler,
		middleware: NewMiddleware(logger),
		views:      registry,
		config:     config,
		logger:     logger.Named("api-router"),
	}
}

// Routes returns the application routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)

	// Pages
	router.Group(func(router chi.Router) {
		router.Use(r.middleware.NoStore)

		router.Get("/", r.handler.GetHome)
		for _, view := range r.views.All() {
			router.Get("/"+view.Slug, r.handler.GetSearch(view))
			router.Post("/"+view.Slug, r.handler.PostSearch(view))
		}
	})

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))
		router.Use(r.middleware.NoStore)

		router.Get("/search/{view}", r.handler.SearchAPI)

		// Health check
		router.Get("/health", r.handler.GetHealth)
	})

	// Embedded stylesheet
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(render.Static()))))

	r.logger.Debug("Routes registered", logger.Int("views", len(r.views.All())))

	return router
}
