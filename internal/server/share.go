package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/cinefav/internal/models"
	"github.com/desertthunder/cinefav/internal/shared"
	"github.com/desertthunder/cinefav/internal/tasks"
	"github.com/desertthunder/cinefav/internal/web"
)

// SharedListGetter fetches lists through the backend's public share endpoint.
type SharedListGetter interface {
	GetShared(ctx context.Context, id string) (*models.FavoriteList, error)
}

// SharedListHandler renders shared favorite lists.
type SharedListHandler struct {
	store    SharedListGetter
	renderer *web.Renderer
	logger   *log.Logger
	timeout  time.Duration
}

var _ Handler = (*SharedListHandler)(nil)

// NewSharedListHandler creates a handler. timeout bounds each backend fetch; 0 means none.
func NewSharedListHandler(store SharedListGetter, renderer *web.Renderer, logger *log.Logger, timeout time.Duration) *SharedListHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SharedListHandler{
		store:    store,
		renderer: renderer,
		logger:   shared.WithLogger(logger, "component", "share"),
		timeout:  timeout,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *SharedListHandler) Routes() []string {
	return []string{"GET /shared/{id}", "GET /shared/{id}/"}
}

// ServeHTTP handles GET /shared/{id}.
func (h *SharedListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	asJSON := wantsJSON(r)

	if id == "" {
		h.writeError(w, asJSON, http.StatusBadRequest, "Missing list id", "A list id is required.")
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	list, err := h.store.GetShared(ctx, id)
	if err != nil {
		status := statusFor(err)
		h.logger.Warn("shared list lookup failed", "list_id", id, "status", status, "error", err)
		title := "Something went wrong"
		if status == http.StatusNotFound {
			title = "List not found"
		}
		h.writeError(w, asJSON, status, title, tasks.UserMessage(err))
		return
	}

	if asJSON {
		writeJSON(w, http.StatusOK, list)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Shared(w, list); err != nil {
		h.logger.Error("render failed", "list_id", id, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *SharedListHandler) writeError(w http.ResponseWriter, asJSON bool, status int, title, message string) {
	if asJSON {
		writeJSON(w, status, map[string]string{"error": message})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.renderer.Error(w, title, message); err != nil {
		h.logger.Error("render failed", "error", err)
	}
}

// HealthHandler reports liveness.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// NewShareRouter wires the share viewer routes and middleware.
func NewShareRouter(handler *SharedListHandler, logger *log.Logger) *BasicRouter {
	router := NewBasicRouter()
	router.Use(RequestID(), Logging(logger), Recover(logger))
	router.Handle(http.MethodGet, "/health", HealthHandler())
	router.Handler(handler)
	return router
}

func wantsJSON(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "json") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrListNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, shared.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
