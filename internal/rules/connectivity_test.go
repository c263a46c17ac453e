package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/threatscope/core/internal/models"
)

func TestDegrees(t *testing.T) {
	g := graph(
		[]models.Node{node("a", "frontend"), node("b", "api"), node("c", "database")},
		edge("e1", "a", "b", nil),
		edge("e2", "b", "c", nil),
		edge("e3", "b", "b", nil),
		edge("e4", "c", "ghost", nil),
	)

	deg := Degrees(g)

	assert.Equal(t, 1, deg["a"])
	assert.Equal(t, 3, deg["b"])
	assert.Equal(t, 2, deg["c"])
	assert.NotContains(t, deg, "ghost")
}

func TestCriticalNodes(t *testing.T) {
	t.Run("hub of a star is critical", func(t *testing.T) {
		g := graph(
			[]models.Node{node("hub", "api"), node("a", "x"), node("b", "x"), node("c", "x"), node("d", "x")},
			edge("e1", "hub", "a", nil),
			edge("e2", "hub", "b", nil),
			edge("e3", "hub", "c", nil),
			edge("e4", "hub", "d", nil),
		)

		assert.Equal(t, []string{"hub"}, ids(CriticalNodes(g)))
	})

	t.Run("chain has no critical node", func(t *testing.T) {
		g := graph(
			[]models.Node{node("a", "x"), node("b", "x"), node("c", "x")},
			edge("e1", "a", "b", nil),
			edge("e2", "b", "c", nil),
		)

		assert.Empty(t, CriticalNodes(g))
	})

	t.Run("empty graph", func(t *testing.T) {
		assert.Empty(t, CriticalNodes(graph(nil)))
	})
}

func TestMutualDependencies(t *testing.T) {
	t.Run("direct two-node cycle reported once", func(t *testing.T) {
		g := graph(
			[]models.Node{node("a", "x"), node("b", "x")},
			edge("e1", "a", "b", nil),
			edge("e2", "b", "a", nil),
			edge("e3", "a", "b", nil),
		)

		assert.Equal(t, []string{"a <-> b"}, MutualDependencies(g))
	})

	t.Run("longer cycles are not detected", func(t *testing.T) {
		g := graph(
			[]models.Node{node("a", "x"), node("b", "x"), node("c", "x")},
			edge("e1", "a", "b", nil),
			edge("e2", "b", "c", nil),
			edge("e3", "c", "a", nil),
		)

		assert.Empty(t, MutualDependencies(g))
	})

	t.Run("self loops and dangling sources are ignored", func(t *testing.T) {
		g := graph(
			[]models.Node{node("a", "x")},
			edge("e1", "a", "a", nil),
			edge("e2", "ghost", "a", nil),
			edge("e3", "a", "ghost", nil),
		)

		assert.Empty(t, MutualDependencies(g))
	})

	t.Run("pairs follow node order", func(t *testing.T) {
		g := graph(
			[]models.Node{node("c", "x"), node("a", "x"), node("b", "x")},
			edge("e1", "a", "b", nil),
			edge("e2", "b", "a", nil),
			edge("e3", "c", "a", nil),
			edge("e4", "a", "c", nil),
		)

		assert.Equal(t, []string{"c <-> a", "a <-> b"}, MutualDependencies(g))
	})
}

func TestOrphans(t *testing.T) {
	g := graph(
		[]models.Node{node("A", "x"), node("B", "x"), node("C", "x")},
		edge("e1", "A", "B", nil),
	)

	assert.Equal(t, []string{"C"}, ids(Orphans(g)))
}

func TestHasCompleteDataFlow(t *testing.T) {
	kw := DefaultKeywords()

	t.Run("input and storage with enough edges", func(t *testing.T) {
		g := graph(
			[]models.Node{node("ui", "frontend"), node("api", "api"), node("db", "database")},
			edge("e1", "ui", "api", nil),
			edge("e2", "api", "db", nil),
		)

		assert.True(t, HasCompleteDataFlow(g, kw))
	})

	t.Run("too few edges", func(t *testing.T) {
		g := graph(
			[]models.Node{node("ui", "frontend"), node("api", "api"), node("db", "database")},
			edge("e1", "ui", "api", nil),
		)

		assert.False(t, HasCompleteDataFlow(g, kw))
	})

	t.Run("no storage", func(t *testing.T) {
		g := graph([]models.Node{node("ui", "frontend")})

		assert.False(t, HasCompleteDataFlow(g, kw))
	})
}
