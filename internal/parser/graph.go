// Package parser provides utilities for parsing and transforming input data.
// It turns submitted diagram JSON into the immutable graph used for scoring.
package parser

import (
	"fmt"
	"strings"

	"github.com/threatscope/core/internal/models"
)

// BuildGraph converts persisted diagram data into a scoring snapshot. Node
// ids are deduplicated keeping the first occurrence; edges without an id get
// a positional one.
func BuildGraph(diagram *models.DiagramData) *models.Graph {
	graph := &models.Graph{
		Nodes: []models.Node{},
		Edges: []models.Edge{},
	}

	nodeMap := make(map[string]bool)
	byType := make(map[string]int)

	for _, n := range diagram.Nodes {
		if nodeMap[n.ID] {
			continue
		}
		graph.Nodes = append(graph.Nodes, models.Node{
			ID:         n.ID,
			Type:       n.Type,
			Attributes: buildAttributes(n.Data),
		})
		nodeMap[n.ID] = true
		byType[strings.ToLower(n.Type)]++
	}

	for i, e := range diagram.Edges {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("edge-%d", i)
		}
		graph.Edges = append(graph.Edges, models.Edge{
			ID:         id,
			Source:     e.Source,
			Target:     e.Target,
			Type:       e.Type,
			Attributes: buildAttributes(e.Data),
		})
	}

	graph.Stats = &models.Stats{
		TotalNodes:  len(graph.Nodes),
		TotalEdges:  len(graph.Edges),
		NodesByType: byType,
	}

	return graph
}

func buildAttributes(data map[string]any) models.Attributes {
	attrs := make(models.Attributes, len(data))
	for key, raw := range data {
		if v, ok := models.ValueOf(raw); ok {
			attrs[key] = v
		}
	}
	return attrs
}
