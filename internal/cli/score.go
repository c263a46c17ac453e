package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/threatscope/core/internal/feedback"
	"github.com/threatscope/core/internal/models"
	"github.com/threatscope/core/internal/rules"
	"github.com/threatscope/core/internal/scenario"
	"github.com/threatscope/core/internal/scoring"
)

type scoreResult struct {
	ScenarioID        string                `json:"scenario_id,omitempty"`
	Scores            models.ScoreBreakdown `json:"scores"`
	Feedback          models.FeedbackReport `json:"feedback"`
	ValidationResults []models.Finding      `json:"validation_results"`
}

func ScoreCmd(opts *rootOptions) *cobra.Command {
	var (
		scenarioID    string
		scenariosFile string
		category      string
		timeSpent     int
		timeLimit     int
		weights       string
		asJSON        bool
	)
	cmd := &cobra.Command{
		Use:   "score FILE",
		Short: "Validate and score a diagram file",
		Long: "Validate and score a diagram file. With --scenario the scenario supplies\n" +
			"the weights, time limit and category; explicit flags override it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria := models.DefaultCriteria()
			ctx := rules.Context{}

			if scenarioID != "" {
				catalog, err := scenario.Load(scenariosFile)
				if err != nil {
					return fmt.Errorf("score failed: %w", err)
				}
				sc, err := catalog.Scenario(context.Background(), scenarioID)
				if err != nil {
					return fmt.Errorf("score failed: %w", err)
				}
				criteria = sc.ScoringCriteria
				ctx.Category = sc.Category
				if !cmd.Flags().Changed("time-limit") {
					timeLimit = sc.TimeLimit
				}
			}
			if cmd.Flags().Changed("category") {
				ctx.Category = category
			}
			if weights != "" {
				parsed, err := parseWeights(weights)
				if err != nil {
					return fmt.Errorf("score failed: %w", err)
				}
				criteria = parsed
			}
			if timeSpent < 0 {
				return fmt.Errorf("score failed: --time-spent must not be negative")
			}

			engine, err := opts.engine()
			if err != nil {
				return fmt.Errorf("score failed: %w", err)
			}
			graph, err := loadDiagram(args[0])
			if err != nil {
				return fmt.Errorf("score failed: %w", err)
			}

			findings := engine.Evaluate(graph, ctx)
			scores := scoring.Score(findings, criteria, timeSpent, timeLimit)
			result := scoreResult{
				ScenarioID:        scenarioID,
				Scores:            scores,
				Feedback:          feedback.Generate(graph, findings, scores),
				ValidationResults: findings,
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			printScore(cmd, result)
			return nil
		},
	}
	cmd.Flags().StringVar(&scenarioID, "scenario", "", "Scenario id supplying weights and time limit")
	cmd.Flags().StringVar(&scenariosFile, "scenarios", "", "YAML scenario catalog (defaults to the built-in one)")
	cmd.Flags().StringVar(&category, "category", "", "Scenario category override")
	cmd.Flags().IntVar(&timeSpent, "time-spent", 0, "Seconds spent on the diagram")
	cmd.Flags().IntVar(&timeLimit, "time-limit", 0, "Time limit in minutes (0 = none)")
	cmd.Flags().StringVar(&weights, "weights", "", "Category weights as security,architecture,performance,completeness")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func parseWeights(s string) (models.ScoringCriteria, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return models.ScoringCriteria{}, fmt.Errorf("--weights needs 4 comma-separated values, got %d", len(parts))
	}
	var w [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return models.ScoringCriteria{}, fmt.Errorf("invalid weight %q", p)
		}
		w[i] = v
	}
	c := models.ScoringCriteria{
		SecurityWeight:     w[0],
		ArchitectureWeight: w[1],
		PerformanceWeight:  w[2],
		CompletenessWeight: w[3],
	}
	if err := c.Validate(); err != nil {
		return models.ScoringCriteria{}, err
	}
	return c, nil
}

func printScore(cmd *cobra.Command, r scoreResult) {
	out := cmd.OutOrStdout()
	printFindings(out, r.ValidationResults)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "security      %6.1f\n", r.Scores.SecurityScore)
	fmt.Fprintf(out, "architecture  %6.1f\n", r.Scores.ArchitectureScore)
	fmt.Fprintf(out, "performance   %6.1f\n", r.Scores.PerformanceScore)
	fmt.Fprintf(out, "completeness  %6.1f\n", r.Scores.CompletenessScore)
	fmt.Fprintf(out, "total         %6.1f\n", r.Scores.TotalScore)
	fmt.Fprintln(out)
	fmt.Fprintln(out, r.Feedback.Summary)
	for _, s := range r.Feedback.Strengths {
		fmt.Fprintf(out, "  + %s\n", s)
	}
	for _, s := range r.Feedback.Weaknesses {
		fmt.Fprintf(out, "  - %s\n", s)
	}
	for _, s := range r.Feedback.Recommendations {
		fmt.Fprintf(out, "  > %s\n", s)
	}
}
