// Package scoring turns validation findings into category and total scores.
package scoring

import (
	"github.com/threatscope/core/internal/models"
)

const (
	maxScore = 100.0

	penError   = 20.0
	penWarning = 10.0
	penInfo    = 5.0

	// Finishing under earlyFinishRatio of the limit earns the bonus.
	earlyFinishRatio = 0.8
	earlyBonus       = 1.10
	overtimePenalty  = 0.90
)

// Deduction returns the points a finding of severity s removes from its
// category. Unknown severities count as info.
func Deduction(s models.Severity) float64 {
	switch s {
	case models.SeverityError:
		return penError
	case models.SeverityWarning:
		return penWarning
	}
	return penInfo
}

// Score computes the breakdown for one submission. timeLimitMinutes <= 0
// means the scenario has no limit and no time adjustment applies. Zero
// criteria fall back to equal weights; weights are otherwise used as given.
func Score(findings []models.Finding, criteria models.ScoringCriteria, timeSpentSeconds, timeLimitMinutes int) models.ScoreBreakdown {
	if criteria.IsZero() {
		criteria = models.DefaultCriteria()
	}

	scores := map[models.Category]float64{}
	for _, c := range models.Categories {
		scores[c] = maxScore
	}
	for _, f := range findings {
		current, ok := scores[f.Category]
		if !ok {
			continue
		}
		scores[f.Category] = max(0, current-Deduction(f.Severity))
	}

	total := scores[models.CategorySecurity]*criteria.SecurityWeight +
		scores[models.CategoryArchitecture]*criteria.ArchitectureWeight +
		scores[models.CategoryPerformance]*criteria.PerformanceWeight +
		scores[models.CategoryCompleteness]*criteria.CompletenessWeight

	total *= TimeMultiplier(timeSpentSeconds, timeLimitMinutes)

	return models.ScoreBreakdown{
		SecurityScore:     scores[models.CategorySecurity],
		ArchitectureScore: scores[models.CategoryArchitecture],
		PerformanceScore:  scores[models.CategoryPerformance],
		CompletenessScore: scores[models.CategoryCompleteness],
		TotalScore:        min(maxScore, max(0, total)),
	}
}

// TimeMultiplier is 1.10 for finishing before 80% of the limit, 0.90 for
// exceeding it and 1 otherwise or when there is no limit.
func TimeMultiplier(timeSpentSeconds, timeLimitMinutes int) float64 {
	if timeLimitMinutes <= 0 {
		return 1
	}
	limit := float64(timeLimitMinutes) * 60
	spent := float64(timeSpentSeconds)
	switch {
	case spent < limit*earlyFinishRatio:
		return earlyBonus
	case spent > limit:
		return overtimePenalty
	}
	return 1
}
