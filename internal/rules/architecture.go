package rules

import (
	"fmt"
	"strings"

	"github.com/threatscope/core/internal/models"
)

// serviceTopologyThreshold is the service count above which a gateway is expected.
const serviceTopologyThreshold = 3

func architectureRules(kw *Keywords) []Rule {
	businessLayer := Rule{ID: "ARCH001", Name: "Missing Business Layer", Category: models.CategoryArchitecture, Group: GroupArchitecture}
	businessLayer.Check = func(g *models.Graph, _ Context) []models.Finding {
		layers := Layers(g, kw)
		if len(layers[LayerPresentation]) == 0 || len(layers[LayerBusiness]) > 0 {
			return nil
		}
		return []models.Finding{businessLayer.finding(models.SeverityWarning,
			"Consider adding a business/service layer between presentation and data layers.",
			"", "system")}
	}

	spof := Rule{ID: "ARCH002", Name: "Single Point of Failure", Category: models.CategoryArchitecture, Group: GroupArchitecture}
	spof.Check = func(g *models.Graph, _ Context) []models.Finding {
		var out []models.Finding
		for _, n := range CriticalNodes(g) {
			if n.Attributes.Bool("redundancy") {
				continue
			}
			out = append(out, spof.finding(models.SeverityError,
				fmt.Sprintf("Critical component '%s' lacks redundancy.", n.Label()),
				n.ID, n.Type))
		}
		return out
	}

	circular := Rule{ID: "ARCH003", Name: "Circular Dependencies", Category: models.CategoryArchitecture, Group: GroupArchitecture}
	circular.Check = func(g *models.Graph, _ Context) []models.Finding {
		pairs := MutualDependencies(g)
		if len(pairs) == 0 {
			return nil
		}
		return []models.Finding{circular.finding(models.SeverityWarning,
			"Detected circular dependencies between: "+strings.Join(pairs, ", "),
			"", "system")}
	}

	gateway := Rule{ID: "ARCH004", Name: "Missing API Gateway", Category: models.CategoryArchitecture, Group: GroupArchitecture}
	gateway.Check = func(g *models.Graph, _ Context) []models.Finding {
		if len(nodesMatching(g, kw, SetService)) <= serviceTopologyThreshold {
			return nil
		}
		if len(nodesMatching(g, kw, SetGateway)) > 0 {
			return nil
		}
		return []models.Finding{gateway.finding(models.SeverityWarning,
			"Microservices architecture should include an API Gateway or service mesh.",
			"", "system")}
	}

	separation := Rule{ID: "ARCH005", Name: "Separation of Concerns", Category: models.CategoryArchitecture, Group: GroupArchitecture}
	separation.Check = func(g *models.Graph, _ Context) []models.Finding {
		for _, e := range g.Edges {
			src, ok := g.Node(e.Source)
			if !ok || !kw.Match(SetFrontend, src.Type) {
				continue
			}
			if dst, ok := g.Node(e.Target); ok && kw.Match(SetDatabase, dst.Type) {
				return []models.Finding{separation.finding(models.SeverityError,
					"Frontend should not connect directly to database",
					"", "system")}
			}
		}
		return nil
	}

	return []Rule{businessLayer, spof, circular, gateway, separation}
}

type Layer string

const (
	LayerPresentation Layer = "presentation"
	LayerBusiness     Layer = "business"
	LayerData         Layer = "data"
)

// Layers assigns each node to the first layer its type matches, checking
// presentation, then business, then data. Unmatched nodes are left out.
func Layers(g *models.Graph, kw *Keywords) map[Layer][]models.Node {
	layers := map[Layer][]models.Node{
		LayerPresentation: nil,
		LayerBusiness:     nil,
		LayerData:         nil,
	}
	for _, n := range g.Nodes {
		switch {
		case kw.Match(SetPresentationLayer, n.Type):
			layers[LayerPresentation] = append(layers[LayerPresentation], n)
		case kw.Match(SetBusinessLayer, n.Type):
			layers[LayerBusiness] = append(layers[LayerBusiness], n)
		case kw.Match(SetDataLayer, n.Type):
			layers[LayerData] = append(layers[LayerData], n)
		}
	}
	return layers
}
