// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/threatscope/core/internal/httpapi"
	"github.com/threatscope/core/internal/scenario"
	"github.com/threatscope/core/internal/service"
)

// UserHeader carries the caller identity set by the upstream auth proxy.
const UserHeader = "X-User-ID"

const maxBodyBytes = 4 << 20

type Handler struct {
	scoring   *service.Scoring
	scenarios *scenario.Catalog
	logger    *slog.Logger
}

func New(scoring *service.Scoring, scenarios *scenario.Catalog, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{scoring: scoring, scenarios: scenarios, logger: logger}
}

// Register mounts every endpoint on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/rules", h.Rules)
	mux.HandleFunc("/scenarios", h.Scenarios)
	mux.HandleFunc("/evaluate", h.Evaluate)
	mux.HandleFunc("/diagrams", h.CreateDiagram)
	mux.HandleFunc("/validate", h.Validate)
	mux.HandleFunc("/score", h.Score)
	mux.HandleFunc("/scores/history", h.History)
	mux.HandleFunc("/scores/feedback", h.Feedback)
	mux.HandleFunc("/stats", h.Stats)
	mux.HandleFunc("/leaderboard", h.Leaderboard)
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	httpapi.WriteError(w, http.StatusMethodNotAllowed, httpapi.ErrMethodNotAllowed, "Method not allowed", nil)
	return false
}

// requireUser returns the caller id or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	user := r.Header.Get(UserHeader)
	if user == "" {
		httpapi.WriteError(w, http.StatusUnauthorized, httpapi.ErrUnauthorized, "Missing "+UserHeader+" header", nil)
		return "", false
	}
	return user, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.ErrInvalidRequest, "Failed to read body", nil)
		return nil, false
	}
	return body, true
}

// intParam reads a non-negative integer query parameter.
func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}

func requiredParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.ErrInvalidRequest, "Missing "+name+" parameter", nil)
		return "", false
	}
	return v, true
}

func badRequest(w http.ResponseWriter, err error) {
	httpapi.WriteError(w, http.StatusBadRequest, httpapi.ErrInvalidRequest, err.Error(), nil)
}

func (h *Handler) ok(w http.ResponseWriter, r *http.Request, status int, data any, meta *httpapi.Meta) {
	if err := httpapi.WriteOK(w, status, data, meta, r.URL.Query().Get("pretty") == "true"); err != nil {
		h.logger.Error("encode response", "path", r.URL.Path, "error", err)
	}
}

// fail maps service errors onto status codes. Unexpected errors are logged
// and reported with a generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, scenario.ErrNotFound):
		httpapi.WriteError(w, http.StatusNotFound, httpapi.ErrNotFound, notFound, nil)
	case errors.Is(err, service.ErrAccessDenied):
		httpapi.WriteError(w, http.StatusForbidden, httpapi.ErrForbidden, "Access denied", nil)
	case errors.Is(err, service.ErrInvalidInput):
		httpapi.WriteError(w, http.StatusBadRequest, httpapi.ErrInvalidRequest, err.Error(), nil)
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
		httpapi.WriteError(w, http.StatusInternalServerError, httpapi.ErrInternal, "Scoring failed", nil)
	}
}
