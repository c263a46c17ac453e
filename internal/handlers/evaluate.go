package handlers

import (
	"net/http"

	"github.com/threatscope/core/internal/parser"
)

// Evaluate scores the diagram data in the request body without storing it.
// Query parameters: scenario_id, time_spent (seconds), pretty.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}

	diagram, err := parser.ParseDiagram(body)
	if err != nil {
		badRequest(w, err)
		return
	}

	timeSpent, err := intParam(r, "time_spent", 0)
	if err != nil {
		badRequest(w, err)
		return
	}

	eval, err := h.scoring.Evaluate(r.Context(), diagram, r.URL.Query().Get("scenario_id"), timeSpent)
	if err != nil {
		h.fail(w, r, err, "Scenario not found")
		return
	}
	h.ok(w, r, http.StatusOK, eval, nil)
}
