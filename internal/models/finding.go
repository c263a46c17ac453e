// Package models defines the core data structures shared by the scoring pipeline.
// It includes the diagram graph, findings, scores and persisted documents.
package models

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

type Category string

const (
	CategorySecurity     Category = "security"
	CategoryArchitecture Category = "architecture"
	CategoryPerformance  Category = "performance"
	CategoryCompleteness Category = "completeness"
)

// Categories lists the four scoring dimensions in report order.
var Categories = []Category{
	CategorySecurity,
	CategoryArchitecture,
	CategoryPerformance,
	CategoryCompleteness,
}

// Finding is one rule violation produced during validation.
type Finding struct {
	RuleID      string   `json:"rule_id"`
	RuleName    string   `json:"rule_name"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Category    Category `json:"category"`
	ElementID   string   `json:"element_id,omitempty"`
	ElementType string   `json:"element_type,omitempty"`
}

// CountSeverity returns how many findings carry severity s.
func CountSeverity(findings []Finding, s Severity) int {
	n := 0
	for _, f := range findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}
