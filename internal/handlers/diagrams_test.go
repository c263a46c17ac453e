package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/threatscope/core/internal/models"
)

func TestCreateDiagramHandler(t *testing.T) {
	mux := newTestMux(t)

	t.Run("stores the diagram for the caller", func(t *testing.T) {
		body := `{"title": "Shop", "scenario_id": "web-app-security", "diagram_data": ` + webDiagramJSON + `}`

		w := do(t, mux, http.MethodPost, "/diagrams", "alice", body)

		require.Equal(t, http.StatusCreated, w.Code)
		var doc models.DiagramDocument
		decode(t, w, &doc)
		assert.NotEmpty(t, doc.ID)
		assert.Equal(t, "alice", doc.UserID)
		assert.Equal(t, models.StatusDraft, doc.Status)
		assert.Len(t, doc.DiagramData.Nodes, 2)
	})

	t.Run("requires a user", func(t *testing.T) {
		w := do(t, mux, http.MethodPost, "/diagrams", "", `{"diagram_data": {"nodes": []}}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("requires diagram data", func(t *testing.T) {
		w := do(t, mux, http.MethodPost, "/diagrams", "alice", `{"title": "x"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed elements", func(t *testing.T) {
		w := do(t, mux, http.MethodPost, "/diagrams", "alice", `{"diagram_data": {"edges": [{"source": "a"}]}}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		w := do(t, mux, http.MethodPost, "/diagrams", "alice", `not json`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestValidateHandler(t *testing.T) {
	mux := newTestMux(t)
	id := createDiagram(t, mux, "alice", "web-app-security")

	t.Run("returns findings", func(t *testing.T) {
		w := do(t, mux, http.MethodPost, "/validate?diagram_id="+id, "alice", "")

		require.Equal(t, http.StatusOK, w.Code)
		var resp validateResponse
		decode(t, w, &resp)
		assert.Equal(t, id, resp.DiagramID)
		assert.NotEmpty(t, resp.ValidationResults)
		assert.Equal(t, "SEC001", resp.ValidationResults[0].RuleID)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		w := do(t, mux, http.MethodPost, "/validate?diagram_id="+id, "bob", "")

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decode(t, w, nil)
		assert.Equal(t, "forbidden", env.Error.Code)
	})

	t.Run("unknown diagram", func(t *testing.T) {
		w := do(t, mux, http.MethodPost, "/validate?diagram_id=missing", "alice", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing diagram_id", func(t *testing.T) {
		w := do(t, mux, http.MethodPost, "/validate", "alice", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestScoreHandler(t *testing.T) {
	mux := newTestMux(t)
	id := createDiagram(t, mux, "alice", "web-app-security")

	t.Run("creates a score record", func(t *testing.T) {
		w := do(t, mux, http.MethodPost, "/score?diagram_id="+id+"&time_spent=900", "alice", "")

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var rec models.ScoreRecord
		decode(t, w, &rec)
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, "alice", rec.UserID)
		assert.Equal(t, 900, rec.TimeSpent)
		assert.Equal(t, "web-app-security", rec.ScenarioID)
		require.NotNil(t, rec.Feedback)
		assert.NotEmpty(t, rec.Feedback.Summary)
	})

	t.Run("bad time_spent", func(t *testing.T) {
		w := do(t, mux, http.MethodPost, "/score?diagram_id="+id+"&time_spent=abc", "alice", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		w := do(t, mux, http.MethodPost, "/score?diagram_id="+id, "bob", "")

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("rejects GET", func(t *testing.T) {
		w := do(t, mux, http.MethodGet, "/score?diagram_id="+id, "alice", "")

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
