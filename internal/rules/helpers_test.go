package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/threatscope/core/internal/models"
)

func node(id, typ string, flags ...string) models.Node {
	attrs := models.Attributes{}
	for _, f := range flags {
		attrs[f] = models.Bool(true)
	}
	return models.Node{ID: id, Type: typ, Attributes: attrs}
}

func edge(id, source, target string, attrs models.Attributes) models.Edge {
	return models.Edge{ID: id, Source: source, Target: target, Attributes: attrs}
}

func graph(nodes []models.Node, edges ...models.Edge) *models.Graph {
	return &models.Graph{Nodes: nodes, Edges: edges}
}

func runRule(t *testing.T, id string, g *models.Graph, ctx Context) []models.Finding {
	t.Helper()
	r, ok := Default().Rule(id)
	require.True(t, ok, "rule %s not registered", id)
	return r.Check(g, ctx)
}

func ids(nodes []models.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}
