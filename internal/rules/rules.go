// Package rules holds the diagram rule catalog: security, architecture,
// performance, completeness, OWASP and STRIDE checks over a models.Graph.
//
// Every rule is a pure function of the graph and the scenario context. Rules
// never mutate their input and treat elements with missing or mistyped
// attributes as non-matching.
package rules

import (
	"github.com/threatscope/core/internal/models"
)

type Group string

const (
	GroupSecurity     Group = "security"
	GroupArchitecture Group = "architecture"
	GroupPerformance  Group = "performance"
	GroupCompleteness Group = "completeness"
	GroupOWASP        Group = "owasp"
	GroupSTRIDE       Group = "stride"
)

// Groups is the fixed evaluation order.
var Groups = []Group{
	GroupSecurity,
	GroupArchitecture,
	GroupPerformance,
	GroupCompleteness,
	GroupOWASP,
	GroupSTRIDE,
}

// Context is the optional scenario information some rules consult.
type Context struct {
	Category string
}

// CheckFunc evaluates one rule. Findings are returned in match order.
type CheckFunc func(g *models.Graph, ctx Context) []models.Finding

type Rule struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category models.Category `json:"category"`
	Group    Group           `json:"group"`
	Check    CheckFunc       `json:"-"`
}

func (r Rule) finding(sev models.Severity, msg, elementID, elementType string) models.Finding {
	return models.Finding{
		RuleID:      r.ID,
		RuleName:    r.Name,
		Severity:    sev,
		Message:     msg,
		Category:    r.Category,
		ElementID:   elementID,
		ElementType: elementType,
	}
}

// Catalog is an ordered, immutable rule list. It is safe for concurrent use.
type Catalog struct {
	rules    []Rule
	keywords *Keywords
}

// NewCatalog builds the built-in rules over the given keyword sets.
func NewCatalog(kw *Keywords) *Catalog {
	if kw == nil {
		kw = DefaultKeywords()
	}
	c := &Catalog{keywords: kw}
	for _, group := range Groups {
		c.rules = append(c.rules, groupRules(group, kw)...)
	}
	return c
}

// Default returns the catalog over the embedded keyword sets.
func Default() *Catalog {
	return NewCatalog(DefaultKeywords())
}

// Rules returns a copy of the rules in evaluation order.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Rule looks up a rule by id.
func (c *Catalog) Rule(id string) (Rule, bool) {
	for _, r := range c.rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

func (c *Catalog) Keywords() *Keywords {
	return c.keywords
}

func groupRules(group Group, kw *Keywords) []Rule {
	switch group {
	case GroupSecurity:
		return securityRules(kw)
	case GroupArchitecture:
		return architectureRules(kw)
	case GroupPerformance:
		return performanceRules(kw)
	case GroupCompleteness:
		return completenessRules(kw)
	case GroupOWASP:
		return owaspRules(kw)
	case GroupSTRIDE:
		return strideRules()
	}
	return nil
}

// nodesMatching returns the nodes whose type matches set, in graph order.
func nodesMatching(g *models.Graph, kw *Keywords, set string) []models.Node {
	var out []models.Node
	for _, n := range g.Nodes {
		if kw.Match(set, n.Type) {
			out = append(out, n)
		}
	}
	return out
}

func anyNode(g *models.Graph, pred func(models.Node) bool) bool {
	for _, n := range g.Nodes {
		if pred(n) {
			return true
		}
	}
	return false
}
