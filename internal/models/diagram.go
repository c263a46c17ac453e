// Package models defines the core data structures shared by the scoring pipeline.
// It includes the diagram graph, findings, scores and persisted documents.
package models

import "time"

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusReviewed  = "reviewed"
)

// DiagramDocument is the persisted form of a user-authored diagram.
type DiagramDocument struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	ScenarioID  string          `json:"scenario_id,omitempty"`
	Title       string          `json:"title"`
	DiagramData DiagramData     `json:"diagram_data"`
	Metadata    DiagramMetadata `json:"metadata"`
	Status      string          `json:"status"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type DiagramData struct {
	Nodes []DiagramNode `json:"nodes"`
	Edges []DiagramEdge `json:"edges"`
}

type DiagramNode struct {
	ID       string             `json:"id"`
	Type     string             `json:"type"`
	Position map[string]float64 `json:"position,omitempty"`
	Data     map[string]any     `json:"data,omitempty"`
}

type DiagramEdge struct {
	ID     string         `json:"id"`
	Source string         `json:"source"`
	Target string         `json:"target"`
	Type   string         `json:"type,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

type DiagramMetadata struct {
	TrustBoundaries  []TrustBoundary   `json:"trust_boundaries,omitempty"`
	DataFlows        []DataFlow        `json:"data_flows,omitempty"`
	SecurityControls []SecurityControl `json:"security_controls,omitempty"`
}

type TrustBoundary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Nodes       []string `json:"nodes,omitempty"`
}

type DataFlow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SourceNode  string `json:"source_node"`
	TargetNode  string `json:"target_node"`
	DataType    string `json:"data_type,omitempty"`
	Encryption  bool   `json:"encryption,omitempty"`
	Protocol    string `json:"protocol,omitempty"`
}

type SecurityControl struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	AppliedTo   []string `json:"applied_to,omitempty"`
}
