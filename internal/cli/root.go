// Package cli implements the threatscope command line: offline validation and
// scoring of diagram files with the same engine the API uses.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/threatscope/core/internal/models"
	"github.com/threatscope/core/internal/parser"
	"github.com/threatscope/core/internal/rules"
	"github.com/threatscope/core/internal/validation"
)

func Execute() error {
	return NewRoot().Execute()
}

type rootOptions struct {
	keywordsFile string
}

func NewRoot() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "threatscope",
		Short:         "Validate and score threat-model diagrams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.keywordsFile, "keywords", "", "YAML file extending the rule keyword sets")
	root.AddCommand(
		RulesCmd(opts),
		ValidateCmd(opts),
		ScoreCmd(opts),
	)
	return root
}

func (o *rootOptions) engine() (*validation.Engine, error) {
	kw, err := rules.LoadKeywords(o.keywordsFile)
	if err != nil {
		return nil, err
	}
	return validation.New(rules.NewCatalog(kw)), nil
}

// loadDiagram reads a diagram file. Both bare {nodes, edges} data and a full
// document with a diagram_data field are accepted.
func loadDiagram(path string) (*models.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc struct {
		DiagramData json.RawMessage `json:"diagram_data"`
	}
	if json.Unmarshal(data, &doc) == nil && len(doc.DiagramData) > 0 {
		data = doc.DiagramData
	}

	diagram, err := parser.ParseDiagram(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return parser.BuildGraph(diagram), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printFindings(w io.Writer, findings []models.Finding) {
	for _, f := range findings {
		element := f.ElementID
		if element == "" {
			element = "-"
		}
		fmt.Fprintf(w, "%-7s %-9s %-12s %s\n", f.Severity, f.RuleID, element, f.Message)
	}
	fmt.Fprintf(w, "%d findings: %d errors, %d warnings, %d info\n",
		len(findings),
		models.CountSeverity(findings, models.SeverityError),
		models.CountSeverity(findings, models.SeverityWarning),
		models.CountSeverity(findings, models.SeverityInfo))
}
