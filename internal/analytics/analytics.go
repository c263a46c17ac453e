// Package analytics derives progress statistics from a user's score history.
// Every function is pure over the records it is given; callers load them.
package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/threatscope/core/internal/models"
)

const (
	passingScore  = 70.0
	weakThreshold = 70.0
	trendWindow   = 5
	trendBand     = 5.0
	streakWindow  = 30 * 24 * time.Hour
	dayLayout     = "2006-01-02"
)

const (
	TrendImproving     = "Improving"
	TrendDeclining     = "Declining"
	TrendStable        = "Stable"
	TrendNotEnoughData = "Not enough data"
)

type UserStats struct {
	TotalScenarios     int     `json:"total_scenarios"`
	CompletedScenarios int     `json:"completed_scenarios"`
	AverageScore       float64 `json:"average_score"`
	BestScore          float64 `json:"best_score"`
	TotalTimeSpent     int     `json:"total_time_spent"`
	CurrentStreak      int     `json:"current_streak"`
}

// Stats summarizes records. A submission scoring at least 70 counts as completed.
func Stats(records []models.ScoreRecord, now time.Time) UserStats {
	st := UserStats{TotalScenarios: len(records), CurrentStreak: Streak(records, now)}
	if len(records) == 0 {
		return st
	}
	var sum float64
	for _, r := range records {
		total := r.Scores.TotalScore
		sum += total
		st.BestScore = max(st.BestScore, total)
		st.TotalTimeSpent += r.TimeSpent
		if total >= passingScore {
			st.CompletedScenarios++
		}
	}
	st.AverageScore = sum / float64(len(records))
	return st
}

// Streak counts consecutive UTC days with at least one submission, ending
// today. Only the last 30 days are considered.
func Streak(records []models.ScoreRecord, now time.Time) int {
	now = now.UTC()
	cutoff := now.Add(-streakWindow)
	active := map[string]bool{}
	for _, r := range records {
		if r.SubmissionTime.Before(cutoff) {
			continue
		}
		active[r.SubmissionTime.UTC().Format(dayLayout)] = true
	}

	streak := 0
	for day := now; active[day.Format(dayLayout)]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// WeakAreas names the categories whose average score is below 70, in
// category order.
func WeakAreas(records []models.ScoreRecord) []string {
	out := []string{}
	if len(records) == 0 {
		return out
	}
	for _, c := range models.Categories {
		var sum float64
		for _, r := range records {
			sum += r.Scores.Category(c)
		}
		if sum/float64(len(records)) < weakThreshold {
			out = append(out, categoryName(c))
		}
	}
	return out
}

// Trend compares the last five totals with everything before them. records
// must be oldest first.
func Trend(records []models.ScoreRecord) string {
	if len(records) < 2 {
		return TrendNotEnoughData
	}
	split := max(0, len(records)-trendWindow)
	recent, older := records[split:], records[:split]

	if len(older) == 0 {
		if recent[len(recent)-1].Scores.TotalScore > recent[0].Scores.TotalScore {
			return TrendImproving
		}
		return TrendStable
	}

	recentAvg, olderAvg := averageTotal(recent), averageTotal(older)
	switch {
	case recentAvg > olderAvg+trendBand:
		return TrendImproving
	case recentAvg < olderAvg-trendBand:
		return TrendDeclining
	}
	return TrendStable
}

// UserAnalytics is the per-user progress report.
type UserAnalytics struct {
	DailyScores         map[string]float64 `json:"daily_scores"`
	CategoryPerformance map[string]float64 `json:"category_performance"`
	ImprovementTrend    string             `json:"improvement_trend"`
	WeakAreas           []string           `json:"weak_areas"`
}

// Summarize builds the progress report for records (oldest first).
// categoryOf maps a scenario id to its category; unknown scenarios report "".
func Summarize(records []models.ScoreRecord, categoryOf func(scenarioID string) string) UserAnalytics {
	daily := map[string][]float64{}
	byCategory := map[string][]float64{}
	for _, r := range records {
		day := r.SubmissionTime.UTC().Format(dayLayout)
		daily[day] = append(daily[day], r.Scores.TotalScore)
		if r.ScenarioID == "" || categoryOf == nil {
			continue
		}
		if cat := categoryOf(r.ScenarioID); cat != "" {
			byCategory[cat] = append(byCategory[cat], r.Scores.TotalScore)
		}
	}
	return UserAnalytics{
		DailyScores:         averages(daily),
		CategoryPerformance: averages(byCategory),
		ImprovementTrend:    Trend(records),
		WeakAreas:           WeakAreas(records),
	}
}

type LeaderboardEntry struct {
	Rank               int     `json:"rank"`
	UserID             string  `json:"user_id"`
	TotalScore         float64 `json:"total_score"`
	AverageScore       float64 `json:"average_score"`
	BestScore          float64 `json:"best_score"`
	ScenariosCompleted int     `json:"scenarios_completed"`
}

// Leaderboard ranks users by average total score, highest first. Ties are
// broken by user id. limit <= 0 returns every user.
func Leaderboard(records []models.ScoreRecord, limit int) []LeaderboardEntry {
	byUser := map[string]*LeaderboardEntry{}
	for _, r := range records {
		e, ok := byUser[r.UserID]
		if !ok {
			e = &LeaderboardEntry{UserID: r.UserID}
			byUser[r.UserID] = e
		}
		e.TotalScore += r.Scores.TotalScore
		e.BestScore = max(e.BestScore, r.Scores.TotalScore)
		e.ScenariosCompleted++
	}

	entries := make([]LeaderboardEntry, 0, len(byUser))
	for _, e := range byUser {
		e.AverageScore = e.TotalScore / float64(e.ScenariosCompleted)
		entries = append(entries, *e)
	}
	slices.SortFunc(entries, func(a, b LeaderboardEntry) int {
		if c := cmp.Compare(b.AverageScore, a.AverageScore); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Since converts a leaderboard timeframe into its cutoff. "all" and "" return
// the zero time.
func Since(timeframe string, now time.Time) (time.Time, error) {
	days := map[string]int{"week": 7, "month": 30, "year": 365}
	if timeframe == "" || timeframe == "all" {
		return time.Time{}, nil
	}
	d, ok := days[timeframe]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown timeframe %q", timeframe)
	}
	return now.AddDate(0, 0, -d), nil
}

func averageTotal(records []models.ScoreRecord) float64 {
	var sum float64
	for _, r := range records {
		sum += r.Scores.TotalScore
	}
	return sum / float64(len(records))
}

func averages(groups map[string][]float64) map[string]float64 {
	out := make(map[string]float64, len(groups))
	for k, vs := range groups {
		var sum float64
		for _, v := range vs {
			sum += v
		}
		out[k] = sum / float64(len(vs))
	}
	return out
}

func categoryName(c models.Category) string {
	switch c {
	case models.CategorySecurity:
		return "Security"
	case models.CategoryArchitecture:
		return "Architecture"
	case models.CategoryPerformance:
		return "Performance"
	case models.CategoryCompleteness:
		return "Completeness"
	}
	return string(c)
}
