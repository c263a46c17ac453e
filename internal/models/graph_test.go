// Package models defines the core data structures shared by the scoring pipeline.
// It includes the diagram graph, findings, scores and persisted documents.
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphUnmarshal(t *testing.T) {
	t.Run("empty graph", func(t *testing.T) {
		jsonData := `{
			"nodes": [],
			"edges": []
		}`

		var graph Graph
		err := json.Unmarshal([]byte(jsonData), &graph)

		require.NoError(t, err)
		assert.Empty(t, graph.Nodes)
		assert.Empty(t, graph.Edges)
	})

	t.Run("graph with nodes and edges", func(t *testing.T) {
		jsonData := `{
			"nodes": [
				{
					"id": "web",
					"type": "Frontend",
					"attributes": {"label": "Web App", "input_validation": true}
				},
				{
					"id": "db",
					"type": "database",
					"attributes": {"encrypted_at_rest": false, "replicas": 3}
				}
			],
			"edges": [
				{
					"id": "e1",
					"source": "web",
					"target": "db",
					"attributes": {"protocol": "https"}
				}
			]
		}`

		var graph Graph
		err := json.Unmarshal([]byte(jsonData), &graph)

		require.NoError(t, err)
		assert.Len(t, graph.Nodes, 2)
		assert.Len(t, graph.Edges, 1)
		assert.Equal(t, "Web App", graph.Nodes[0].Label())
		assert.True(t, graph.Nodes[0].Attributes.Bool("input_validation"))
		assert.False(t, graph.Nodes[1].Attributes.Bool("encrypted_at_rest"))
		replicas, ok := graph.Nodes[1].Attributes.Number("replicas")
		assert.True(t, ok)
		assert.Equal(t, 3.0, replicas)
		assert.Equal(t, "https", graph.Edges[0].Attributes.String("protocol"))
	})

	t.Run("unsupported attribute values read as missing", func(t *testing.T) {
		jsonData := `{
			"nodes": [
				{
					"id": "api",
					"type": "api",
					"attributes": {"requires_auth": {"nested": true}, "rate_limited": null, "tags": ["a"]}
				}
			],
			"edges": []
		}`

		var graph Graph
		err := json.Unmarshal([]byte(jsonData), &graph)

		require.NoError(t, err)
		attrs := graph.Nodes[0].Attributes
		assert.False(t, attrs.Bool("requires_auth"))
		assert.False(t, attrs.Bool("rate_limited"))
		assert.Equal(t, KindNone, attrs["tags"].Kind())
	})
}

func TestGraphMarshal(t *testing.T) {
	t.Run("marshal empty graph", func(t *testing.T) {
		graph := Graph{Nodes: []Node{}, Edges: []Edge{}}

		data, err := json.Marshal(graph)

		require.NoError(t, err)
		assert.JSONEq(t, `{"nodes":[],"edges":[]}`, string(data))
	})

	t.Run("marshal attributes as plain JSON values", func(t *testing.T) {
		graph := Graph{
			Nodes: []Node{{
				ID:   "db",
				Type: "database",
				Attributes: Attributes{
					"indexed": Bool(true),
					"label":   String("Orders"),
					"shards":  Number(4),
				},
			}},
			Edges: []Edge{},
		}

		data, err := json.Marshal(graph)

		require.NoError(t, err)
		assert.JSONEq(t, `{
			"nodes": [{"id":"db","type":"database","attributes":{"indexed":true,"label":"Orders","shards":4}}],
			"edges": []
		}`, string(data))
	})

	t.Run("omitempty stats when not set", func(t *testing.T) {
		data, err := json.Marshal(Graph{})

		require.NoError(t, err)
		assert.NotContains(t, string(data), "stats")
	})
}

func TestGraphNode(t *testing.T) {
	graph := &Graph{
		Nodes: []Node{{ID: "a", Type: "frontend"}, {ID: "b", Type: "api"}},
	}

	t.Run("finds existing node", func(t *testing.T) {
		n, ok := graph.Node("b")
		assert.True(t, ok)
		assert.Equal(t, "api", n.Type)
	})

	t.Run("dangling id reports false", func(t *testing.T) {
		_, ok := graph.Node("missing")
		assert.False(t, ok)
	})
}

func TestValueOf(t *testing.T) {
	t.Run("supported kinds", func(t *testing.T) {
		v, ok := ValueOf(true)
		assert.True(t, ok)
		assert.Equal(t, KindBool, v.Kind())

		v, ok = ValueOf("https")
		assert.True(t, ok)
		assert.Equal(t, KindString, v.Kind())

		v, ok = ValueOf(2.5)
		assert.True(t, ok)
		assert.Equal(t, KindNumber, v.Kind())

		v, ok = ValueOf(7)
		assert.True(t, ok)
		assert.Equal(t, 7.0, v.Interface())
	})

	t.Run("unsupported kinds", func(t *testing.T) {
		for _, raw := range []any{nil, map[string]any{}, []any{1}} {
			_, ok := ValueOf(raw)
			assert.False(t, ok)
		}
	})
}

func TestAttributes(t *testing.T) {
	attrs := Attributes{
		"encrypted": String("true"),
		"indexed":   Bool(true),
		"protocol":  Bool(true),
		"label":     String(""),
	}

	t.Run("bool only matches boolean true", func(t *testing.T) {
		assert.False(t, attrs.Bool("encrypted"))
		assert.True(t, attrs.Bool("indexed"))
		assert.False(t, attrs.Bool("absent"))
	})

	t.Run("string ignores other kinds", func(t *testing.T) {
		assert.Equal(t, "", attrs.String("protocol"))
		assert.Equal(t, "true", attrs.String("encrypted"))
	})

	t.Run("empty label falls back", func(t *testing.T) {
		assert.Equal(t, "node-1", attrs.Label("node-1"))
	})

	t.Run("nil attributes are safe", func(t *testing.T) {
		var none Attributes
		assert.False(t, none.Bool("x"))
		assert.Equal(t, "", none.String("x"))
		_, ok := none.Number("x")
		assert.False(t, ok)
	})
}
