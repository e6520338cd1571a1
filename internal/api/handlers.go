package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yegors/skytrack/internal/config"
	"github.com/yegors/skytrack/internal/lookup"
	"github.com/yegors/skytrack/internal/render"
	"github.com/yegors/skytrack/internal/views"
	"github.com/yegors/skytrack/pkg/logger"
)

// navigation is the landing page menu, as (group, label, view slug) entries
var navigation = []struct {
	group string
	links [][2]string
}{
	{group: "Search a Plane", links: [][2]string{{"Helicopter", "helicopter"}, {"Aircraft", "aircraft"}}},
	{group: "Track a Flight", links: [][2]string{{"Track a Plane", "track"}}},
	{group: "Search an Airline", links: [][2]string{{"Airlines", "airline"}}},
}

// Handler contains the HTTP handlers
type Handler struct {
	views     *views.Registry
	sessions  *SessionStore
	fetchers  map[views.Provider]lookup.Fetcher
	renderer  *render.Renderer
	formatter *render.Formatter
	config    *config.Config
	logger    *logger.Logger

	// background is the parent of submissions started from a form post. They
	// outlive the request that started them and stop on shutdown.
	background context.Context
}

// NewHandler creates a new handler
func NewHandler(background context.Context, registry *views.Registry, sessions *SessionStore, fetchers map[views.Provider]lookup.Fetcher, renderer *render.Renderer, config *config.Config, logger *logger.Logger) *Handler {
	return &Handler{
		views:      registry,
		sessions:   sessions,
		fetchers:   fetchers,
		renderer:   renderer,
		formatter:  render.NewFormatter(),
		config:     config,
		logger:     logger.Named("api-handler"),
		background: background,
	}
}

// GetHome renders the landing page
func (h *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	page := render.HomePage{Chrome: render.Chrome{PageTitle: "SkyTrack"}}
	for _, g := range navigation {
		group := render.NavGroup{Title: g.group}
		for _, l := range g.links {
			if _, ok := h.views.Get(l[1]); !ok {
				continue
			}
			group.Links = append(group.Links, render.NavLink{Label: l[0], Href: "/" + l[1]})
		}
		page.Groups = append(page.Groups, group)
	}

	h.writeHTML(w, r, func(buf *bytes.Buffer) error {
		return h.renderer.Home(buf, page)
	})
}

// GetSearch renders the visitor's current state of a view
func (h *Handler) GetSearch(view *views.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl := h.controller(w, r, view)
		page := h.formatter.NewSearchPage(view, ctrl.State(), h.config.Sessions.RefreshSeconds)

		h.writeHTML(w, r, func(buf *bytes.Buffer) error {
			return h.renderer.Search(buf, page)
		})
	}
}

// PostSearch starts a submission of the posted form and redirects back to
// the view, which shows the loading state until the response arrives.
func (h *Handler) PostSearch(view *views.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}

		ctrl := h.controller(w, r, view)
		query := lookup.NewQuery(view.Endpoint.Fields, r.PostForm)
		gen := ctrl.SubmitAsync(h.background, query)

		h.logger.WithRequestID(middleware.GetReqID(r.Context())).Debug("Search submitted",
			logger.String("view", view.Slug),
			logger.Uint64("generation", gen),
		)

		http.Redirect(w, r, "/"+view.Slug, http.StatusSeeOther)
	}
}

// SearchAPI runs one synchronous search and returns the resulting state as
// JSON. Every lifecycle outcome is a 200; only an unknown view is a 404.
func (h *Handler) SearchAPI(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "view")
	view, ok := h.views.Get(slug)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown view: " + slug})
		return
	}

	ctrl := lookup.NewController(view.Endpoint, h.fetchers[view.Provider], h.logger)
	state := ctrl.Submit(r.Context(), lookup.NewQuery(view.Endpoint.Fields, r.URL.Query()))

	writeJSON(w, http.StatusOK, state)
}

// GetHealth reports liveness and which credentials are configured
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	credentials := map[string]bool{
		string(views.ProviderReference):      h.config.Reference.APIKey != "",
		string(views.ProviderFlightTracking): h.config.FlightTracking.APIKey != "",
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"credentials": credentials,
		"sessions":    h.sessions.Len(),
	})
}

// controller returns the visitor's controller for view, starting a session
// and setting its cookie when needed
func (h *Handler) controller(w http.ResponseWriter, r *http.Request, view *views.View) *lookup.Controller {
	var id string
	if cookie, err := r.Cookie(h.config.Sessions.CookieName); err == nil {
		id = cookie.Value
	}

	sess, created := h.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     h.config.Sessions.CookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	ctrl, _ := sess.Controller(view.Slug)
	return ctrl
}

func (h *Handler) writeHTML(w http.ResponseWriter, r *http.Request, fn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		h.logger.WithRequestID(middleware.GetReqID(r.Context())).Error("Failed to render page",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
