// Package models defines the core data structures shared by the scoring pipeline.
// It includes the diagram graph, findings, scores and persisted documents.
package models

import (
	"fmt"
	"math"
	"time"
)

type ScoreBreakdown struct {
	SecurityScore     float64 `json:"security_score"`
	ArchitectureScore float64 `json:"architecture_score"`
	PerformanceScore  float64 `json:"performance_score"`
	CompletenessScore float64 `json:"completeness_score"`
	TotalScore        float64 `json:"total_score"`
}

// Category returns the score of a single category, or 0 for unknown names.
func (s ScoreBreakdown) Category(c Category) float64 {
	switch c {
	case CategorySecurity:
		return s.SecurityScore
	case CategoryArchitecture:
		return s.ArchitectureScore
	case CategoryPerformance:
		return s.PerformanceScore
	case CategoryCompleteness:
		return s.CompletenessScore
	}
	return 0
}

// ScoringCriteria weights are used as given; they need not sum to 1.
type ScoringCriteria struct {
	SecurityWeight     float64 `json:"security_weight" yaml:"security_weight"`
	ArchitectureWeight float64 `json:"architecture_weight" yaml:"architecture_weight"`
	PerformanceWeight  float64 `json:"performance_weight" yaml:"performance_weight"`
	CompletenessWeight float64 `json:"completeness_weight" yaml:"completeness_weight"`
}

func DefaultCriteria() ScoringCriteria {
	return ScoringCriteria{
		SecurityWeight:     0.25,
		ArchitectureWeight: 0.25,
		PerformanceWeight:  0.25,
		CompletenessWeight: 0.25,
	}
}

// Validate rejects negative and non-finite weights.
func (c ScoringCriteria) Validate() error {
	weights := []struct {
		name string
		v    float64
	}{
		{"security_weight", c.SecurityWeight},
		{"architecture_weight", c.ArchitectureWeight},
		{"performance_weight", c.PerformanceWeight},
		{"completeness_weight", c.CompletenessWeight},
	}
	for _, w := range weights {
		if math.IsNaN(w.v) || math.IsInf(w.v, 0) || w.v < 0 {
			return fmt.Errorf("invalid %s %v: must be a finite non-negative number", w.name, w.v)
		}
	}
	return nil
}

// IsZero reports whether no weight is set.
func (c ScoringCriteria) IsZero() bool {
	return c.SecurityWeight == 0 && c.ArchitectureWeight == 0 &&
		c.PerformanceWeight == 0 && c.CompletenessWeight == 0
}

type FeedbackReport struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
	NextSteps       []string `json:"next_steps"`
}

// ScoreRecord is the append-only historical entry written after scoring.
type ScoreRecord struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	ScenarioID        string          `json:"scenario_id"`
	DiagramID         string          `json:"diagram_id"`
	Scores            ScoreBreakdown  `json:"scores"`
	TimeSpent         int             `json:"time_spent"`
	SubmissionTime    time.Time       `json:"submission_time"`
	ValidationResults []Finding       `json:"validation_results"`
	Feedback          *FeedbackReport `json:"feedback,omitempty"`
}
