package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/threatscope/core/internal/models"
	"github.com/threatscope/core/internal/rules"
)

func TestRulesHandler(t *testing.T) {
	mux := newTestMux(t)

	w := do(t, mux, http.MethodGet, "/rules", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	var rs []rules.Rule
	env := decode(t, w, &rs)
	assert.Len(t, rs, 27)
	assert.Equal(t, 27, env.Meta["count"])
	assert.Equal(t, "SEC001", rs[0].ID)
	assert.Equal(t, rules.GroupSTRIDE, rs[len(rs)-1].Group)
}

func TestScenariosHandler(t *testing.T) {
	mux := newTestMux(t)

	t.Run("published only", func(t *testing.T) {
		w := do(t, mux, http.MethodGet, "/scenarios", "", "")

		require.Equal(t, http.StatusOK, w.Code)
		var list []models.Scenario
		decode(t, w, &list)
		assert.Len(t, list, 3)
	})

	t.Run("filtered", func(t *testing.T) {
		w := do(t, mux, http.MethodGet, "/scenarios?category=cloud&difficulty=intermediate", "", "")

		var list []models.Scenario
		decode(t, w, &list)
		require.Len(t, list, 1)
		assert.Equal(t, "cloud-infrastructure", list[0].ID)
		assert.Equal(t, 90, list[0].TimeLimit)
	})

	t.Run("rejects POST", func(t *testing.T) {
		w := do(t, mux, http.MethodPost, "/scenarios", "", "{}")

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
