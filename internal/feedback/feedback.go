// Package feedback builds the human-readable report returned with a score.
package feedback

import (
	"fmt"

	"github.com/threatscope/core/internal/models"
)

const strengthThreshold = 80.0

type categoryText struct {
	strength       string
	weakness       string
	recommendation string
}

var categoryTexts = map[models.Category]categoryText{
	models.CategorySecurity: {
		strength:       "Strong security implementation",
		weakness:       "Security implementation needs improvement",
		recommendation: "Review authentication and encryption mechanisms",
	},
	models.CategoryArchitecture: {
		strength:       "Well-structured architecture",
		weakness:       "Architecture could be better organized",
		recommendation: "Consider separation of concerns and layered architecture",
	},
	models.CategoryPerformance: {
		strength:       "Good performance considerations",
		weakness:       "Performance could be optimized",
		recommendation: "Consider load balancing, caching and database indexing",
	},
	models.CategoryCompleteness: {
		strength:       "Comprehensive system design",
		weakness:       "Design is missing components or connections",
		recommendation: "Make sure every required component is present and connected",
	},
}

var nextSteps = []string{
	"Review the validation results",
	"Implement suggested improvements",
	"Test your updated design",
	"Try more advanced scenarios",
}

// Generate builds the report for a scored diagram. The graph is accepted for
// element-specific wording and is not modified.
func Generate(_ *models.Graph, findings []models.Finding, scores models.ScoreBreakdown) models.FeedbackReport {
	report := models.FeedbackReport{
		Strengths:       []string{},
		Weaknesses:      []string{},
		Recommendations: []string{},
		NextSteps:       append([]string(nil), nextSteps...),
	}

	for _, c := range models.Categories {
		text := categoryTexts[c]
		if scores.Category(c) >= strengthThreshold {
			report.Strengths = append(report.Strengths, text.strength)
			continue
		}
		report.Weaknesses = append(report.Weaknesses, text.weakness)
		report.Recommendations = append(report.Recommendations, text.recommendation)
	}

	errs := models.CountSeverity(findings, models.SeverityError)
	warnings := models.CountSeverity(findings, models.SeverityWarning)
	if errs == 0 {
		report.Strengths = append(report.Strengths, "No critical security or architectural errors")
	}
	if warnings > 0 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Address %d improvement opportunities", warnings))
	}

	report.Summary = fmt.Sprintf("%s design with a score of %.1f/100. Found %d errors and %d warnings.",
		Tier(scores.TotalScore), scores.TotalScore, errs, warnings)
	return report
}

// Tier names the quality band of a total score.
func Tier(total float64) string {
	switch {
	case total >= 90:
		return "Excellent"
	case total >= 70:
		return "Good"
	case total >= 50:
		return "Needs Improvement"
	}
	return "Poor"
}
