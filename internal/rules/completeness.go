package rules

import (
	"fmt"
	"strings"

	"github.com/threatscope/core/internal/models"
)

const minComponents = 3

func completenessRules(kw *Keywords) []Rule {
	insufficient := Rule{ID: "COMP001", Name: "Insufficient Components", Category: models.CategoryCompleteness, Group: GroupCompleteness}
	insufficient.Check = func(g *models.Graph, _ Context) []models.Finding {
		if len(g.Nodes) >= minComponents {
			return nil
		}
		return []models.Finding{insufficient.finding(models.SeverityError,
			fmt.Sprintf("A complete system design should have at least %d components.", minComponents),
			"", "system")}
	}

	essential := Rule{ID: "COMP002", Name: "Missing Essential Components", Category: models.CategoryCompleteness, Group: GroupCompleteness}
	essential.Check = func(g *models.Graph, ctx Context) []models.Finding {
		if ctx.Category == "" {
			return nil
		}
		var missing []string
		for _, component := range kw.RequiredFor(ctx.Category) {
			found := anyNode(g, func(n models.Node) bool {
				return strings.Contains(n.LowerType(), component)
			})
			if !found {
				missing = append(missing, component)
			}
		}
		if len(missing) == 0 {
			return nil
		}
		return []models.Finding{essential.finding(models.SeverityError,
			fmt.Sprintf("%s application missing: %s", categoryTitle(ctx.Category), strings.Join(missing, ", ")),
			"", "system")}
	}

	orphaned := Rule{ID: "COMP003", Name: "Orphaned Components", Category: models.CategoryCompleteness, Group: GroupCompleteness}
	orphaned.Check = func(g *models.Graph, _ Context) []models.Finding {
		orphans := Orphans(g)
		if len(orphans) == 0 {
			return nil
		}
		return []models.Finding{orphaned.finding(models.SeverityWarning,
			fmt.Sprintf("%d components are not connected to the system.", len(orphans)),
			"", "system")}
	}

	dataFlow := Rule{ID: "COMP004", Name: "Incomplete Data Flow", Category: models.CategoryCompleteness, Group: GroupCompleteness}
	dataFlow.Check = func(g *models.Graph, _ Context) []models.Finding {
		if HasCompleteDataFlow(g, kw) {
			return nil
		}
		return []models.Finding{dataFlow.finding(models.SeverityWarning,
			"The system should show complete data flow from user input to data storage.",
			"", "system")}
	}

	return []Rule{insufficient, essential, orphaned, dataFlow}
}

func categoryTitle(category string) string {
	c := strings.ToLower(category)
	if c == "" {
		return c
	}
	return strings.ToUpper(c[:1]) + c[1:]
}
