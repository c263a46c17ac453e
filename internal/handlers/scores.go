package handlers

import (
	"net/http"

	"github.com/threatscope/core/internal/httpapi"
	"github.com/threatscope/core/internal/service"
	"github.com/threatscope/core/internal/store"
)

const (
	defaultHistoryLimit     = 20
	defaultLeaderboardLimit = 10
	maxPageLimit            = 100
)

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	skip, err := intParam(r, "skip", 0)
	if err != nil {
		badRequest(w, err)
		return
	}
	limit, err := intParam(r, "limit", defaultHistoryLimit)
	if err != nil {
		badRequest(w, err)
		return
	}
	limit = min(max(limit, 1), maxPageLimit)

	records, err := h.scoring.History(r.Context(), store.HistoryQuery{
		UserID:     user,
		ScenarioID: r.URL.Query().Get("scenario_id"),
		Skip:       skip,
		Limit:      limit,
	})
	if err != nil {
		h.fail(w, r, err, "Scores not found")
		return
	}
	h.ok(w, r, http.StatusOK, records, &httpapi.Meta{Skip: skip, Limit: limit, Count: len(records)})
}

func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	scoreID, ok := requiredParam(w, r, "score_id")
	if !ok {
		return
	}

	fb, err := h.scoring.DetailedFeedback(r.Context(), scoreID, user)
	if err != nil {
		h.fail(w, r, err, "Score not found")
		return
	}
	h.ok(w, r, http.StatusOK, fb, nil)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	report, err := h.scoring.UserReport(r.Context(), user)
	if err != nil {
		h.fail(w, r, err, "Stats not found")
		return
	}
	h.ok(w, r, http.StatusOK, report, nil)
}

// Leaderboard is public. Query parameters: category, difficulty,
// timeframe (all|week|month|year), limit.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	limit, err := intParam(r, "limit", defaultLeaderboardLimit)
	if err != nil {
		badRequest(w, err)
		return
	}
	limit = min(max(limit, 1), maxPageLimit)

	q := r.URL.Query()
	board, err := h.scoring.Leaderboard(r.Context(), service.LeaderboardQuery{
		Category:   q.Get("category"),
		Difficulty: q.Get("difficulty"),
		Timeframe:  q.Get("timeframe"),
		Limit:      limit,
	})
	if err != nil {
		h.fail(w, r, err, "Leaderboard not found")
		return
	}
	h.ok(w, r, http.StatusOK, board, &httpapi.Meta{Limit: limit, Count: len(board)})
}
