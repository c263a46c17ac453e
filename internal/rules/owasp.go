package rules

import (
	"fmt"

	"github.com/threatscope/core/internal/models"
)

func owaspRules(kw *Keywords) []Rule {
	accessControl := Rule{ID: "OWASP001", Name: "Broken Access Control (A01)", Category: models.CategorySecurity, Group: GroupOWASP}
	accessControl.Check = func(g *models.Graph, _ Context) []models.Finding {
		controlled := anyNode(g, func(n models.Node) bool {
			return kw.Match(SetAccessControl, n.Type) || n.Attributes.Bool("access_control")
		})
		if controlled {
			return nil
		}
		return []models.Finding{accessControl.finding(models.SeverityError,
			"System lacks proper access control mechanisms.",
			"", "system")}
	}

	crypto := Rule{ID: "OWASP002", Name: "Cryptographic Failures (A02)", Category: models.CategorySecurity, Group: GroupOWASP}
	crypto.Check = func(g *models.Graph, _ Context) []models.Finding {
		var out []models.Finding
		for _, n := range g.Nodes {
			if !n.Attributes.Bool("stores_sensitive_data") || n.Attributes.Bool("encrypted") {
				continue
			}
			out = append(out, crypto.finding(models.SeverityError,
				fmt.Sprintf("Sensitive data in '%s' should be encrypted.", n.Label()),
				n.ID, n.Type))
		}
		return out
	}

	injection := Rule{ID: "OWASP003", Name: "Injection Vulnerabilities (A03)", Category: models.CategorySecurity, Group: GroupOWASP}
	injection.Check = func(g *models.Graph, _ Context) []models.Finding {
		var out []models.Finding
		for _, n := range nodesMatching(g, kw, SetInjectionSurface) {
			if n.Attributes.Bool("input_validation") || n.Attributes.Bool("prepared_statements") {
				continue
			}
			out = append(out, injection.finding(models.SeverityError,
				fmt.Sprintf("'%s' needs input validation and prepared statements.", n.Label()),
				n.ID, n.Type))
		}
		return out
	}

	return []Rule{accessControl, crypto, injection}
}
