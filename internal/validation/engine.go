// Package validation runs the rule catalog against a diagram graph.
package validation

import (
	"log/slog"

	"github.com/threatscope/core/internal/models"
	"github.com/threatscope/core/internal/rules"
)

// Engine evaluates an immutable rule catalog. It holds no per-request state
// and may be shared between goroutines.
type Engine struct {
	catalog *rules.Catalog
	logger  *slog.Logger
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func New(catalog *rules.Catalog, opts ...Option) *Engine {
	if catalog == nil {
		catalog = rules.Default()
	}
	e := &Engine{catalog: catalog, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Rules() []rules.Rule {
	return e.catalog.Rules()
}

// Evaluate runs every rule in catalog order and concatenates the findings.
// A rule that panics contributes nothing and the run continues.
func (e *Engine) Evaluate(g *models.Graph, ctx rules.Context) []models.Finding {
	findings := []models.Finding{}
	if g == nil {
		g = &models.Graph{}
	}
	for _, r := range e.catalog.Rules() {
		findings = append(findings, e.run(r, g, ctx)...)
	}
	return findings
}

func (e *Engine) run(r rules.Rule, g *models.Graph, ctx rules.Context) (out []models.Finding) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Warn("rule evaluation failed", "rule", r.ID, "panic", rec)
			out = nil
		}
	}()
	return r.Check(g, ctx)
}
