package scoring

import (
	"github.com/threatscope/core/internal/models"
)

const (
	suggestionThreshold = 70.0
	efficientSeconds    = 1800
)

type ValidationSummary struct {
	TotalIssues int `json:"total_issues"`
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Info        int `json:"info"`
}

type PerformanceMetrics struct {
	TimeSpentMinutes int    `json:"time_spent_minutes"`
	EfficiencyRating string `json:"efficiency_rating"`
}

type DetailedAnalysis struct {
	ScoreBreakdown     models.ScoreBreakdown `json:"score_breakdown"`
	ValidationSummary  ValidationSummary     `json:"validation_summary"`
	PerformanceMetrics PerformanceMetrics    `json:"performance_metrics"`
}

// Analyze summarizes a stored score record.
func Analyze(record models.ScoreRecord) DetailedAnalysis {
	rating := "Average"
	if record.TimeSpent < efficientSeconds {
		rating = "Good"
	}
	return DetailedAnalysis{
		ScoreBreakdown: record.Scores,
		ValidationSummary: ValidationSummary{
			TotalIssues: len(record.ValidationResults),
			Errors:      models.CountSeverity(record.ValidationResults, models.SeverityError),
			Warnings:    models.CountSeverity(record.ValidationResults, models.SeverityWarning),
			Info:        models.CountSeverity(record.ValidationResults, models.SeverityInfo),
		},
		PerformanceMetrics: PerformanceMetrics{
			TimeSpentMinutes: record.TimeSpent / 60,
			EfficiencyRating: rating,
		},
	}
}

var categorySuggestions = map[models.Category][]string{
	models.CategorySecurity: {
		"Focus on implementing proper authentication and authorization",
		"Ensure all communications use secure protocols (HTTPS/TLS)",
	},
	models.CategoryArchitecture: {
		"Review architectural patterns and separation of concerns",
		"Consider implementing proper layered architecture",
	},
	models.CategoryPerformance: {
		"Add load balancing and caching mechanisms",
		"Review database design and query optimization",
	},
	models.CategoryCompleteness: {
		"Ensure all required components are included",
		"Review system integration and data flows",
	},
}

// Suggestions returns improvement hints for every category below 70.
func Suggestions(scores models.ScoreBreakdown) []string {
	out := []string{}
	for _, c := range models.Categories {
		if scores.Category(c) < suggestionThreshold {
			out = append(out, categorySuggestions[c]...)
		}
	}
	return out
}
