package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/threatscope/core/internal/scenario"
	"github.com/threatscope/core/internal/service"
	"github.com/threatscope/core/internal/store"
	"github.com/threatscope/core/internal/validation"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "threatscope.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	catalog := scenario.Default()
	svc := service.NewScoring(st, catalog, st, validation.New(nil),
		service.WithClock(func() time.Time { return testNow }))
	return New(svc, catalog, nil)
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	newTestHandler(t).Register(mux)
	return mux
}

func do(t *testing.T, h http.Handler, method, target, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// envelope decodes a response body, placing data into out when non-nil.
type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]int  `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

const webDiagramJSON = `{
	"nodes": [
		{"id": "fe", "type": "frontend", "position": {"x": 0, "y": 0}, "data": {"label": "Web UI"}},
		{"id": "db", "type": "database", "data": {"encrypted_at_rest": true}}
	],
	"edges": [
		{"id": "e1", "source": "fe", "target": "db", "data": {"protocol": "http"}}
	]
}`

func createDiagram(t *testing.T, mux http.Handler, user, scenarioID string) string {
	t.Helper()
	body := `{"title": "Shop", "scenario_id": "` + scenarioID + `", "diagram_data": ` + webDiagramJSON + `}`
	w := do(t, mux, http.MethodPost, "/diagrams", user, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var doc struct {
		ID string `json:"id"`
	}
	decode(t, w, &doc)
	require.NotEmpty(t, doc.ID)
	return doc.ID
}
