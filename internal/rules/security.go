package rules

import (
	"fmt"
	"strings"

	"github.com/threatscope/core/internal/models"
)

var insecureProtocols = map[string]bool{
	"http":   true,
	"ftp":    true,
	"telnet": true,
}

func securityRules(kw *Keywords) []Rule {
	missingAuth := Rule{ID: "SEC001", Name: "Missing Authentication", Category: models.CategorySecurity, Group: GroupSecurity}
	missingAuth.Check = func(g *models.Graph, _ Context) []models.Finding {
		if len(nodesMatching(g, kw, SetAuth)) > 0 {
			return nil
		}
		return []models.Finding{missingAuth.finding(models.SeverityError,
			"No authentication mechanism detected. All systems need user authentication.",
			"", "system")}
	}

	unencrypted := Rule{ID: "SEC002", Name: "Unencrypted Communication", Category: models.CategorySecurity, Group: GroupSecurity}
	unencrypted.Check = func(g *models.Graph, _ Context) []models.Finding {
		count := 0
		for _, e := range g.Edges {
			if isUnencrypted(e) {
				count++
			}
		}
		if count == 0 {
			return nil
		}
		sev := models.SeverityWarning
		if float64(count) > float64(len(g.Edges))*0.5 {
			sev = models.SeverityError
		}
		return []models.Finding{unencrypted.finding(sev,
			fmt.Sprintf("Found %d unencrypted connections. Use HTTPS/TLS for all communications.", count),
			"", "connection")}
	}

	dbEncryption := Rule{ID: "SEC003", Name: "Database Encryption", Category: models.CategorySecurity, Group: GroupSecurity}
	dbEncryption.Check = func(g *models.Graph, _ Context) []models.Finding {
		var out []models.Finding
		for _, n := range nodesMatching(g, kw, SetDatastore) {
			if n.Attributes.Bool("encrypted_at_rest") {
				continue
			}
			out = append(out, dbEncryption.finding(models.SeverityWarning,
				fmt.Sprintf("Database '%s' should have encryption at rest enabled.", n.Label()),
				n.ID, "database"))
		}
		return out
	}

	directAccess := Rule{ID: "SEC004", Name: "Direct Database Access", Category: models.CategorySecurity, Group: GroupSecurity}
	directAccess.Check = func(g *models.Graph, _ Context) []models.Finding {
		var out []models.Finding
		for _, db := range nodesMatching(g, kw, SetDatastore) {
			if !hasIncomingFrom(g, db.ID, func(src models.Node) bool { return kw.Match(SetFrontend, src.Type) }) {
				continue
			}
			out = append(out, directAccess.finding(models.SeverityError,
				"Frontend components should not connect directly to databases. Use API layers.",
				db.ID, "database"))
		}
		return out
	}

	apiAuth := Rule{ID: "SEC005", Name: "API Authentication", Category: models.CategorySecurity, Group: GroupSecurity}
	apiAuth.Check = func(g *models.Graph, _ Context) []models.Finding {
		var out []models.Finding
		for _, n := range nodesMatching(g, kw, SetAPI) {
			if n.Attributes.Bool("requires_auth") {
				continue
			}
			out = append(out, apiAuth.finding(models.SeverityError,
				fmt.Sprintf("API '%s' should require authentication.", n.Label()),
				n.ID, "api"))
		}
		return out
	}

	rateLimit := Rule{ID: "SEC006", Name: "API Rate Limiting", Category: models.CategorySecurity, Group: GroupSecurity}
	rateLimit.Check = func(g *models.Graph, _ Context) []models.Finding {
		var out []models.Finding
		for _, n := range nodesMatching(g, kw, SetAPI) {
			if n.Attributes.Bool("rate_limited") {
				continue
			}
			out = append(out, rateLimit.finding(models.SeverityWarning,
				fmt.Sprintf("API '%s' should implement rate limiting.", n.Label()),
				n.ID, "api"))
		}
		return out
	}

	inputValidation := Rule{ID: "SEC007", Name: "Input Validation", Category: models.CategorySecurity, Group: GroupSecurity}
	inputValidation.Check = func(g *models.Graph, _ Context) []models.Finding {
		var out []models.Finding
		for _, n := range nodesMatching(g, kw, SetUserInput) {
			if n.Attributes.Bool("input_validation") {
				continue
			}
			out = append(out, inputValidation.finding(models.SeverityError,
				fmt.Sprintf("Component '%s' should validate all user inputs.", n.Label()),
				n.ID, "frontend"))
		}
		return out
	}

	return []Rule{missingAuth, unencrypted, dbEncryption, directAccess, apiAuth, rateLimit, inputValidation}
}

// isUnencrypted flags plaintext protocols, and edges that name no protocol
// and are not marked encrypted.
func isUnencrypted(e models.Edge) bool {
	protocol := strings.ToLower(e.Attributes.String("protocol"))
	if insecureProtocols[protocol] {
		return true
	}
	return protocol == "" && !e.Attributes.Bool("encrypted")
}

func hasIncomingFrom(g *models.Graph, target string, pred func(models.Node) bool) bool {
	for _, e := range g.Edges {
		if e.Target != target {
			continue
		}
		if src, ok := g.Node(e.Source); ok && pred(src) {
			return true
		}
	}
	return false
}
