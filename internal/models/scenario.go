// Package models defines the core data structures shared by the scoring pipeline.
// It includes the diagram graph, findings, scores and persisted documents.
package models

// Scenario is a threat-modeling exercise a diagram is submitted against.
// TimeLimit is in minutes; zero means no limit.
type Scenario struct {
	ID              string          `json:"id" yaml:"id"`
	Title           string          `json:"title" yaml:"title"`
	Description     string          `json:"description,omitempty" yaml:"description"`
	Category        string          `json:"category" yaml:"category"`
	Difficulty      string          `json:"difficulty" yaml:"difficulty"`
	Tags            []string        `json:"tags,omitempty" yaml:"tags"`
	TimeLimit       int             `json:"time_limit,omitempty" yaml:"time_limit"`
	ScoringCriteria ScoringCriteria `json:"scoring_criteria" yaml:"scoring_criteria"`
	Published       bool            `json:"published" yaml:"published"`
}
