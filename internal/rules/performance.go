package rules

import (
	"fmt"

	"github.com/threatscope/core/internal/models"
)

// loadBalancerNodeThreshold is the node count above which a load balancer is expected.
const loadBalancerNodeThreshold = 5

func performanceRules(kw *Keywords) []Rule {
	lb := Rule{ID: "PERF001", Name: "Missing Load Balancer", Category: models.CategoryPerformance, Group: GroupPerformance}
	lb.Check = func(g *models.Graph, _ Context) []models.Finding {
		if len(g.Nodes) <= loadBalancerNodeThreshold || len(nodesMatching(g, kw, SetLoadBalancer)) > 0 {
			return nil
		}
		return []models.Finding{lb.finding(models.SeverityWarning,
			"Complex systems should implement load balancing for scalability.",
			"", "system")}
	}

	cache := Rule{ID: "PERF002", Name: "Missing Caching Layer", Category: models.CategoryPerformance, Group: GroupPerformance}
	cache.Check = func(g *models.Graph, _ Context) []models.Finding {
		if len(nodesMatching(g, kw, SetDatabase)) == 0 || len(nodesMatching(g, kw, SetCache)) > 0 {
			return nil
		}
		return []models.Finding{cache.finding(models.SeverityWarning,
			"Consider adding caching to improve database performance.",
			"", "system")}
	}

	cdn := Rule{ID: "PERF003", Name: "Missing CDN", Category: models.CategoryPerformance, Group: GroupPerformance}
	cdn.Check = func(g *models.Graph, _ Context) []models.Finding {
		if len(nodesMatching(g, kw, SetPublicFrontend)) == 0 || len(nodesMatching(g, kw, SetCDN)) > 0 {
			return nil
		}
		return []models.Finding{cdn.finding(models.SeverityInfo,
			"Consider using a CDN for static assets to improve loading times.",
			"", "system")}
	}

	indexing := Rule{ID: "PERF004", Name: "Database Indexing", Category: models.CategoryPerformance, Group: GroupPerformance}
	indexing.Check = func(g *models.Graph, _ Context) []models.Finding {
		var out []models.Finding
		for _, n := range nodesMatching(g, kw, SetDatabase) {
			if n.Attributes.Bool("indexed") {
				continue
			}
			out = append(out, indexing.finding(models.SeverityWarning,
				fmt.Sprintf("Database '%s' should have proper indexing.", n.Label()),
				n.ID, "database"))
		}
		return out
	}

	return []Rule{lb, cache, cdn, indexing}
}
