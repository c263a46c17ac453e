// Package models defines the core data structures shared by the scoring pipeline.
// It includes the diagram graph, findings, scores and persisted documents.
package models

import (
	"encoding/json"
	"strings"
)

// Graph is the immutable snapshot of a diagram handed to the validation engine.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Stats *Stats `json:"stats,omitempty"`
}

type Node struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Attributes Attributes `json:"attributes,omitempty"`
}

type Edge struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	Type       string     `json:"type,omitempty"`
	Attributes Attributes `json:"attributes,omitempty"`
}

type Stats struct {
	TotalNodes  int            `json:"total_nodes"`
	TotalEdges  int            `json:"total_edges"`
	NodesByType map[string]int `json:"nodes_by_type,omitempty"`
}

// Node looks up a node by id. Dangling edge endpoints simply report false.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// LowerType returns the node type lower-cased for keyword matching.
func (n Node) LowerType() string {
	return strings.ToLower(n.Type)
}

// Label returns the human label of the node, falling back to its id.
func (n Node) Label() string {
	return n.Attributes.Label(n.ID)
}

type ValueKind int

const (
	KindNone ValueKind = iota
	KindBool
	KindString
	KindNumber
)

// Value is one attribute value. Only booleans, strings and numbers are kept;
// anything else decodes to KindNone and reads as missing.
type Value struct {
	kind ValueKind
	b    bool
	s    string
	n    float64
}

func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

func String(v string) Value { return Value{kind: KindString, s: v} }

func Number(v float64) Value { return Value{kind: KindNumber, n: v} }

func (v Value) Kind() ValueKind { return v.kind }

// ValueOf converts a decoded JSON value into a Value. The second result is
// false for nulls, objects, arrays and other unsupported kinds.
func ValueOf(raw any) (Value, bool) {
	switch x := raw.(type) {
	case bool:
		return Bool(x), true
	case string:
		return String(x), true
	case float64:
		return Number(x), true
	case float32:
		return Number(float64(x)), true
	case int:
		return Number(float64(x)), true
	case int64:
		return Number(float64(x)), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, false
		}
		return Number(f), true
	}
	return Value{}, false
}

// Interface returns the Go value held, or nil for KindNone.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindString:
		return v.s
	case KindNumber:
		return v.n
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	val, _ := ValueOf(raw)
	*v = val
	return nil
}

// Attributes is the typed key/value store attached to nodes and edges.
type Attributes map[string]Value

// Bool reports whether key holds boolean true. Missing keys and values of
// other kinds read as false.
func (a Attributes) Bool(key string) bool {
	v, ok := a[key]
	return ok && v.kind == KindBool && v.b
}

// String returns the string held by key, or "" when missing or not a string.
func (a Attributes) String(key string) string {
	v, ok := a[key]
	if !ok || v.kind != KindString {
		return ""
	}
	return v.s
}

// Number returns the number held by key and whether one was present.
func (a Attributes) Number(key string) (float64, bool) {
	v, ok := a[key]
	if !ok || v.kind != KindNumber {
		return 0, false
	}
	return v.n, true
}

// Label returns the non-empty "label" attribute or fallback.
func (a Attributes) Label(fallback string) string {
	if l := a.String("label"); l != "" {
		return l
	}
	return fallback
}
