// Package service orchestrates validation, scoring, feedback and persistence
// for a single user request.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/threatscope/core/internal/analytics"
	"github.com/threatscope/core/internal/feedback"
	"github.com/threatscope/core/internal/models"
	"github.com/threatscope/core/internal/parser"
	"github.com/threatscope/core/internal/rules"
	"github.com/threatscope/core/internal/scenario"
	"github.com/threatscope/core/internal/scoring"
	"github.com/threatscope/core/internal/store"
	"github.com/threatscope/core/internal/validation"
)

var (
	ErrNotFound     = store.ErrNotFound
	ErrAccessDenied = store.ErrAccessDenied
	ErrInvalidInput = errors.New("invalid input")
)

// DiagramStore persists diagrams and enforces ownership on read.
type DiagramStore interface {
	CreateDiagram(ctx context.Context, doc *models.DiagramDocument) error
	Diagram(ctx context.Context, id, userID string) (*models.DiagramDocument, error)
}

type ScenarioProvider interface {
	Scenario(ctx context.Context, id string) (*models.Scenario, error)
}

// ScoreStore is the append-only score history.
type ScoreStore interface {
	AppendScore(ctx context.Context, rec *models.ScoreRecord) error
	Score(ctx context.Context, id, userID string) (*models.ScoreRecord, error)
	ScoreHistory(ctx context.Context, q store.HistoryQuery) ([]models.ScoreRecord, error)
	UserScores(ctx context.Context, userID string) ([]models.ScoreRecord, error)
	ScoresSince(ctx context.Context, since time.Time) ([]models.ScoreRecord, error)
}

type Scoring struct {
	diagrams  DiagramStore
	scenarios ScenarioProvider
	scores    ScoreStore
	engine    *validation.Engine
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Scoring)

func WithLogger(l *slog.Logger) Option {
	return func(s *Scoring) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Scoring) { s.now = now }
}

func NewScoring(diagrams DiagramStore, scenarios ScenarioProvider, scores ScoreStore, engine *validation.Engine, opts ...Option) *Scoring {
	if engine == nil {
		engine = validation.New(nil)
	}
	s := &Scoring{
		diagrams:  diagrams,
		scenarios: scenarios,
		scores:    scores,
		engine:    engine,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the rule catalog in evaluation order.
func (s *Scoring) Rules() []rules.Rule {
	return s.engine.Rules()
}

// Evaluation is the stateless result of scoring a diagram.
type Evaluation struct {
	ScenarioID        string                `json:"scenario_id,omitempty"`
	ValidationResults []models.Finding      `json:"validation_results"`
	Scores            models.ScoreBreakdown `json:"scores"`
	Feedback          models.FeedbackReport `json:"feedback"`
	Stats             *models.Stats         `json:"stats"`
}

// DetailedFeedback is a stored score with its analysis.
type DetailedFeedback struct {
	Score                  models.ScoreRecord       `json:"score"`
	DetailedAnalysis       scoring.DetailedAnalysis `json:"detailed_analysis"`
	ImprovementSuggestions []string                 `json:"improvement_suggestions"`
}

// CreateDiagram stores a new diagram owned by userID.
func (s *Scoring) CreateDiagram(ctx context.Context, userID string, doc *models.DiagramDocument) error {
	if userID == "" {
		return fmt.Errorf("missing user: %w", ErrInvalidInput)
	}
	if err := parser.CheckDiagram(&doc.DiagramData); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	doc.ID = ""
	doc.UserID = userID
	if err := s.diagrams.CreateDiagram(ctx, doc); err != nil {
		return fmt.Errorf("create diagram: %w", err)
	}
	return nil
}

// Validate runs the rule catalog against a stored diagram of userID.
func (s *Scoring) Validate(ctx context.Context, diagramID, userID string) ([]models.Finding, error) {
	doc, err := s.diagrams.Diagram(ctx, diagramID, userID)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	sc := s.scenario(ctx, doc.ScenarioID)
	return s.engine.Evaluate(parser.BuildGraph(&doc.DiagramData), contextFor(sc)), nil
}

// ScoreDiagram validates and scores a stored diagram, then appends the result
// to the history.
func (s *Scoring) ScoreDiagram(ctx context.Context, diagramID, userID string, timeSpent int) (*models.ScoreRecord, error) {
	if timeSpent < 0 {
		return nil, fmt.Errorf("negative time spent: %w", ErrInvalidInput)
	}
	doc, err := s.diagrams.Diagram(ctx, diagramID, userID)
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}

	sc := s.scenario(ctx, doc.ScenarioID)
	eval := s.evaluate(&doc.DiagramData, sc, timeSpent)

	rec := &models.ScoreRecord{
		UserID:            userID,
		ScenarioID:        doc.ScenarioID,
		DiagramID:         doc.ID,
		Scores:            eval.Scores,
		TimeSpent:         timeSpent,
		SubmissionTime:    s.now().UTC(),
		ValidationResults: eval.ValidationResults,
		Feedback:          &eval.Feedback,
	}
	if err := s.scores.AppendScore(ctx, rec); err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}
	s.logger.Info("diagram scored",
		"diagram", doc.ID, "user", userID, "score", rec.Scores.TotalScore, "findings", len(rec.ValidationResults))
	return rec, nil
}

// Evaluate scores diagram data without persisting anything. An unknown or
// empty scenario id scores with equal weights and no time limit.
func (s *Scoring) Evaluate(ctx context.Context, data *models.DiagramData, scenarioID string, timeSpent int) (*Evaluation, error) {
	if data == nil {
		return nil, fmt.Errorf("missing diagram: %w", ErrInvalidInput)
	}
	if timeSpent < 0 {
		return nil, fmt.Errorf("negative time spent: %w", ErrInvalidInput)
	}
	if err := parser.CheckDiagram(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.evaluate(data, s.scenario(ctx, scenarioID), timeSpent), nil
}

// DetailedFeedback returns a stored score of userID with its analysis.
func (s *Scoring) DetailedFeedback(ctx context.Context, scoreID, userID string) (*DetailedFeedback, error) {
	rec, err := s.scores.Score(ctx, scoreID, userID)
	if err != nil {
		return nil, fmt.Errorf("feedback: %w", err)
	}
	return &DetailedFeedback{
		Score:                  *rec,
		DetailedAnalysis:       scoring.Analyze(*rec),
		ImprovementSuggestions: scoring.Suggestions(rec.Scores),
	}, nil
}

// History returns a page of the user's scores, newest first.
func (s *Scoring) History(ctx context.Context, q store.HistoryQuery) ([]models.ScoreRecord, error) {
	records, err := s.scores.ScoreHistory(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return records, nil
}

// UserReport combines the headline stats with the progress analytics.
type UserReport struct {
	Stats     analytics.UserStats     `json:"stats"`
	Analytics analytics.UserAnalytics `json:"analytics"`
}

func (s *Scoring) UserReport(ctx context.Context, userID string) (*UserReport, error) {
	records, err := s.scores.UserScores(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &UserReport{
		Stats:     analytics.Stats(records, s.now()),
		Analytics: analytics.Summarize(records, s.categoryOf(ctx)),
	}, nil
}

// LeaderboardQuery filters the leaderboard. Category and difficulty match the
// scenario a score was submitted against.
type LeaderboardQuery struct {
	Category   string
	Difficulty string
	Timeframe  string
	Limit      int
}

func (s *Scoring) Leaderboard(ctx context.Context, q LeaderboardQuery) ([]analytics.LeaderboardEntry, error) {
	since, err := analytics.Since(q.Timeframe, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	records, err := s.scores.ScoresSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	if q.Category != "" || q.Difficulty != "" {
		cache := map[string]*models.Scenario{}
		filtered := records[:0]
		for _, r := range records {
			sc, seen := cache[r.ScenarioID]
			if !seen {
				sc = s.scenario(ctx, r.ScenarioID)
				cache[r.ScenarioID] = sc
			}
			if sc == nil {
				continue
			}
			if q.Category != "" && !strings.EqualFold(sc.Category, q.Category) {
				continue
			}
			if q.Difficulty != "" && !strings.EqualFold(sc.Difficulty, q.Difficulty) {
				continue
			}
			filtered = append(filtered, r)
		}
		records = filtered
	}
	return analytics.Leaderboard(records, q.Limit), nil
}

func (s *Scoring) evaluate(data *models.DiagramData, sc *models.Scenario, timeSpent int) *Evaluation {
	graph := parser.BuildGraph(data)
	findings := s.engine.Evaluate(graph, contextFor(sc))

	criteria := models.DefaultCriteria()
	limit := 0
	eval := &Evaluation{ValidationResults: findings, Stats: graph.Stats}
	if sc != nil {
		criteria = sc.ScoringCriteria
		limit = sc.TimeLimit
		eval.ScenarioID = sc.ID
	}

	eval.Scores = scoring.Score(findings, criteria, timeSpent, limit)
	eval.Feedback = feedback.Generate(graph, findings, eval.Scores)
	return eval
}

// scenario resolves id, returning nil when it is empty or cannot be loaded.
func (s *Scoring) scenario(ctx context.Context, id string) *models.Scenario {
	if id == "" || s.scenarios == nil {
		return nil
	}
	sc, err := s.scenarios.Scenario(ctx, id)
	if err != nil {
		if !errors.Is(err, scenario.ErrNotFound) {
			s.logger.Warn("scenario lookup failed", "scenario", id, "error", err)
		}
		return nil
	}
	return sc
}

func (s *Scoring) categoryOf(ctx context.Context) func(string) string {
	return func(id string) string {
		if sc := s.scenario(ctx, id); sc != nil {
			return sc.Category
		}
		return ""
	}
}

func contextFor(sc *models.Scenario) rules.Context {
	if sc == nil {
		return rules.Context{}
	}
	return rules.Context{Category: sc.Category}
}
