package rules

import (
	"fmt"

	"github.com/threatscope/core/internal/models"
)

func strideRules() []Rule {
	spoofing := Rule{ID: "STRIDE001", Name: "Spoofing Threat", Category: models.CategorySecurity, Group: GroupSTRIDE}
	spoofing.Check = func(g *models.Graph, _ Context) []models.Finding {
		if anyNode(g, func(n models.Node) bool { return n.Attributes.Bool("authentication") }) {
			return nil
		}
		return []models.Finding{spoofing.finding(models.SeverityError,
			"System vulnerable to spoofing - implement strong authentication.",
			"", "system")}
	}

	tampering := Rule{ID: "STRIDE002", Name: "Tampering Threat", Category: models.CategorySecurity, Group: GroupSTRIDE}
	tampering.Check = func(g *models.Graph, _ Context) []models.Finding {
		for _, e := range g.Edges {
			if !e.Attributes.Bool("integrity_protection") {
				return []models.Finding{tampering.finding(models.SeverityWarning,
					"Communications lack integrity protection - use digital signatures or HMAC.",
					"", "connection")}
			}
		}
		return nil
	}

	repudiation := Rule{ID: "STRIDE003", Name: "Repudiation Threat", Category: models.CategorySecurity, Group: GroupSTRIDE}
	repudiation.Check = func(g *models.Graph, _ Context) []models.Finding {
		audited := anyNode(g, func(n models.Node) bool {
			return n.Attributes.Bool("logging") || n.Attributes.Bool("audit_trail")
		})
		if audited {
			return nil
		}
		return []models.Finding{repudiation.finding(models.SeverityWarning,
			"System lacks audit logging - implement comprehensive logging.",
			"", "system")}
	}

	disclosure := Rule{ID: "STRIDE004", Name: "Information Disclosure Threat", Category: models.CategorySecurity, Group: GroupSTRIDE}
	disclosure.Check = func(g *models.Graph, _ Context) []models.Finding {
		var out []models.Finding
		for _, n := range g.Nodes {
			if !n.Attributes.Bool("public_facing") || n.Attributes.Bool("data_minimization") {
				continue
			}
			out = append(out, disclosure.finding(models.SeverityWarning,
				fmt.Sprintf("Public component '%s' should minimize exposed data.", n.Label()),
				n.ID, n.Type))
		}
		return out
	}

	return []Rule{spoofing, tampering, repudiation, disclosure}
}
