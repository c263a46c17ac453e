// Package parser provides utilities for parsing and transforming input data.
// It turns submitted diagram JSON into the immutable graph used for scoring.
package parser

import (
	"encoding/json"
	"fmt"

	"github.com/threatscope/core/internal/models"
)

// ParseDiagram decodes the diagram_data part of a submission. An empty node
// list is accepted; completeness rules report it.
func ParseDiagram(data []byte) (*models.DiagramData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty diagram data")
	}

	var diagram models.DiagramData
	if err := json.Unmarshal(data, &diagram); err != nil {
		return nil, fmt.Errorf("failed to unmarshal diagram: %w", err)
	}

	if err := CheckDiagram(&diagram); err != nil {
		return nil, err
	}

	return &diagram, nil
}

// CheckDiagram verifies the fields every element must carry. Edge endpoints
// are not resolved here: dangling references are tolerated downstream.
func CheckDiagram(diagram *models.DiagramData) error {
	for i, n := range diagram.Nodes {
		if n.ID == "" {
			return fmt.Errorf("invalid diagram: node %d missing id field", i)
		}
	}
	for i, e := range diagram.Edges {
		if e.Source == "" || e.Target == "" {
			return fmt.Errorf("invalid diagram: edge %d missing source or target", i)
		}
	}
	return nil
}
