package handlers

import (
	"net/http"

	"github.com/threatscope/core/internal/httpapi"
	"github.com/threatscope/core/internal/scenario"
)

// Rules lists the rule catalog in evaluation order.
func (h *Handler) Rules(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	rs := h.scoring.Rules()
	h.ok(w, r, http.StatusOK, rs, &httpapi.Meta{Count: len(rs)})
}

// Scenarios lists published scenarios, filtered by category, difficulty,
// tag and search.
func (h *Handler) Scenarios(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	list := h.scenarios.List(scenario.Filter{
		Category:   q.Get("category"),
		Difficulty: q.Get("difficulty"),
		Tag:        q.Get("tag"),
		Search:     q.Get("search"),
	})
	h.ok(w, r, http.StatusOK, list, &httpapi.Meta{Count: len(list)})
}
