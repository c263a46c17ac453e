package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/threatscope/core/internal/models"
)

type createDiagramRequest struct {
	Title       string                 `json:"title"`
	ScenarioID  string                 `json:"scenario_id"`
	DiagramData *models.DiagramData    `json:"diagram_data"`
	Metadata    models.DiagramMetadata `json:"metadata"`
}

func (h *Handler) CreateDiagram(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	var req createDiagramRequest
	if err := json.Unmarshal(body, &req); err != nil {
		badRequest(w, errors.New("invalid diagram document"))
		return
	}
	if req.DiagramData == nil {
		badRequest(w, errors.New("missing diagram_data"))
		return
	}

	doc := &models.DiagramDocument{
		Title:       req.Title,
		ScenarioID:  req.ScenarioID,
		DiagramData: *req.DiagramData,
		Metadata:    req.Metadata,
	}
	if err := h.scoring.CreateDiagram(r.Context(), user, doc); err != nil {
		h.fail(w, r, err, "Diagram not found")
		return
	}
	h.ok(w, r, http.StatusCreated, doc, nil)
}

type validateResponse struct {
	DiagramID         string           `json:"diagram_id"`
	ValidationResults []models.Finding `json:"validation_results"`
}

// Validate runs the rule catalog against a stored diagram of the caller.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	diagramID, ok := requiredParam(w, r, "diagram_id")
	if !ok {
		return
	}

	findings, err := h.scoring.Validate(r.Context(), diagramID, user)
	if err != nil {
		h.fail(w, r, err, "Diagram not found")
		return
	}
	h.ok(w, r, http.StatusOK, validateResponse{DiagramID: diagramID, ValidationResults: findings}, nil)
}

// Score scores a stored diagram and appends the result to the caller's history.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	diagramID, ok := requiredParam(w, r, "diagram_id")
	if !ok {
		return
	}
	timeSpent, err := intParam(r, "time_spent", 0)
	if err != nil {
		badRequest(w, err)
		return
	}

	rec, err := h.scoring.ScoreDiagram(r.Context(), diagramID, user, timeSpent)
	if err != nil {
		h.fail(w, r, err, "Diagram not found")
		return
	}
	h.ok(w, r, http.StatusCreated, rec, nil)
}
