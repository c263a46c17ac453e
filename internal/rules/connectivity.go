package rules

import (
	"github.com/threatscope/core/internal/models"
)

const criticalDegreeFactor = 1.5

// Degrees counts, for every node, the edges that touch it. A self-loop
// counts once.
func Degrees(g *models.Graph) map[string]int {
	deg := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		deg[n.ID] = 0
	}
	for _, e := range g.Edges {
		if _, ok := deg[e.Source]; ok {
			deg[e.Source]++
		}
		if e.Target != e.Source {
			if _, ok := deg[e.Target]; ok {
				deg[e.Target]++
			}
		}
	}
	return deg
}

// CriticalNodes returns, in graph order, the nodes whose degree exceeds
// 1.5 times the average degree.
func CriticalNodes(g *models.Graph) []models.Node {
	if len(g.Nodes) == 0 {
		return nil
	}
	deg := Degrees(g)
	total := 0
	for _, n := range g.Nodes {
		total += deg[n.ID]
	}
	threshold := float64(total) / float64(len(g.Nodes)) * criticalDegreeFactor

	var out []models.Node
	for _, n := range g.Nodes {
		if float64(deg[n.ID]) > threshold {
			out = append(out, n)
		}
	}
	return out
}

// MutualDependencies lists node pairs joined by edges in both directions,
// formatted "A <-> B" and reported once per pair in first-seen order.
//
// Only direct two-node cycles are detected. Longer cycles (A->B->C->A) are
// not reported.
func MutualDependencies(g *models.Graph) []string {
	adj := make(map[string]map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		adj[n.ID] = map[string]bool{}
	}
	var order []string
	targets := make(map[string][]string)
	for _, e := range g.Edges {
		out, ok := adj[e.Source]
		if !ok || e.Source == e.Target || out[e.Target] {
			continue
		}
		out[e.Target] = true
		targets[e.Source] = append(targets[e.Source], e.Target)
	}

	seen := make(map[[2]string]bool)
	for _, n := range g.Nodes {
		for _, t := range targets[n.ID] {
			if !adj[t][n.ID] {
				continue
			}
			key := [2]string{n.ID, t}
			if t < n.ID {
				key = [2]string{t, n.ID}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			order = append(order, n.ID+" <-> "+t)
		}
	}
	return order
}

// Orphans returns the nodes that are neither source nor target of any edge.
func Orphans(g *models.Graph) []models.Node {
	connected := make(map[string]bool)
	for _, e := range g.Edges {
		connected[e.Source] = true
		connected[e.Target] = true
	}
	var out []models.Node
	for _, n := range g.Nodes {
		if !connected[n.ID] {
			out = append(out, n)
		}
	}
	return out
}

// HasCompleteDataFlow is a coarse reachability check: an input-like node and
// a storage-like node must exist and there must be enough edges to connect
// every node.
func HasCompleteDataFlow(g *models.Graph, kw *Keywords) bool {
	if len(nodesMatching(g, kw, SetDataInput)) == 0 || len(nodesMatching(g, kw, SetStorage)) == 0 {
		return false
	}
	return len(g.Edges) >= len(g.Nodes)-1
}
