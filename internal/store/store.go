// Package store persists diagrams and the append-only score history in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/threatscope/core/internal/models"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrAccessDenied = errors.New("access denied")
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const defaultHistoryLimit = 20

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("store: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS diagrams (
			id          TEXT PRIMARY KEY,
			user_id     TEXT    NOT NULL,
			scenario_id TEXT    NOT NULL DEFAULT '',
			document    TEXT    NOT NULL,
			created_at  INTEGER NOT NULL,
			updated_at  INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_diagrams_user ON diagrams(user_id);

		CREATE TABLE IF NOT EXISTS scores (
			seq          INTEGER PRIMARY KEY AUTOINCREMENT,
			id           TEXT    NOT NULL UNIQUE,
			user_id      TEXT    NOT NULL,
			scenario_id  TEXT    NOT NULL DEFAULT '',
			diagram_id   TEXT    NOT NULL,
			total_score  REAL    NOT NULL,
			submitted_at INTEGER NOT NULL,
			record       TEXT    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scores_user ON scores(user_id, submitted_at);
		CREATE INDEX IF NOT EXISTS idx_scores_time ON scores(submitted_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateDiagram stores a new diagram. ID, timestamps, version and status are
// filled in when empty; doc is updated in place.
func (s *Store) CreateDiagram(ctx context.Context, doc *models.DiagramDocument) error {
	if doc.UserID == "" {
		return errors.New("store: diagram without owner")
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	now := s.now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.Status == "" {
		doc.Status = models.StatusDraft
	}
	if doc.Version == 0 {
		doc.Version = 1
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode diagram: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO diagrams (id, user_id, scenario_id, document, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.UserID, doc.ScenarioID, string(body), now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("store: insert diagram: %w", err)
	}
	return nil
}

// Diagram returns the diagram owned by userID. A diagram owned by someone
// else yields ErrAccessDenied.
func (s *Store) Diagram(ctx context.Context, id, userID string) (*models.DiagramDocument, error) {
	var owner, body string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, document FROM diagrams WHERE id = ?`, id,
	).Scan(&owner, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("diagram %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load diagram: %w", err)
	}
	if owner != userID {
		return nil, fmt.Errorf("diagram %s: %w", id, ErrAccessDenied)
	}

	var doc models.DiagramDocument
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("store: decode diagram %s: %w", id, err)
	}
	return &doc, nil
}

// AppendScore writes a score record. Records are never updated.
func (s *Store) AppendScore(ctx context.Context, rec *models.ScoreRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.SubmissionTime.IsZero() {
		rec.SubmissionTime = s.now()
	}
	rec.SubmissionTime = rec.SubmissionTime.UTC()
	if rec.ValidationResults == nil {
		rec.ValidationResults = []models.Finding{}
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: encode score: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scores (id, user_id, scenario_id, diagram_id, total_score, submitted_at, record)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.ScenarioID, rec.DiagramID, rec.Scores.TotalScore,
		rec.SubmissionTime.UnixNano(), string(body),
	)
	if err != nil {
		return fmt.Errorf("store: insert score: %w", err)
	}
	return nil
}

// Score returns one record of userID. Records of other users read as missing.
func (s *Store) Score(ctx context.Context, id, userID string) (*models.ScoreRecord, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM scores WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("score %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load score: %w", err)
	}
	return decodeRecord(body)
}

// HistoryQuery selects a page of a user's score history.
type HistoryQuery struct {
	UserID     string
	ScenarioID string
	Skip       int
	Limit      int
}

// ScoreHistory returns records newest first. Limit <= 0 means 20.
func (s *Store) ScoreHistory(ctx context.Context, q HistoryQuery) ([]models.ScoreRecord, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	where := []string{"user_id = ?"}
	args := []any{q.UserID}
	if q.ScenarioID != "" {
		where = append(where, "scenario_id = ?")
		args = append(args, q.ScenarioID)
	}
	args = append(args, limit, max(0, q.Skip))

	query := `SELECT record FROM scores WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY submitted_at DESC, seq DESC LIMIT ? OFFSET ?`
	return s.queryRecords(ctx, query, args...)
}

// UserScores returns every record of userID oldest first.
func (s *Store) UserScores(ctx context.Context, userID string) ([]models.ScoreRecord, error) {
	return s.queryRecords(ctx,
		`SELECT record FROM scores WHERE user_id = ? ORDER BY submitted_at, seq`, userID)
}

// ScoresSince returns every record submitted at or after since, oldest first.
// A zero since returns the whole history.
func (s *Store) ScoresSince(ctx context.Context, since time.Time) ([]models.ScoreRecord, error) {
	var from int64
	if !since.IsZero() {
		from = since.UnixNano()
	}
	return s.queryRecords(ctx,
		`SELECT record FROM scores WHERE submitted_at >= ? ORDER BY submitted_at, seq`, from)
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]models.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query scores: %w", err)
	}
	defer rows.Close()

	records := []models.ScoreRecord{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("store: scan score: %w", err)
		}
		rec, err := decodeRecord(body)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate scores: %w", err)
	}
	return records, nil
}

func decodeRecord(body string) (*models.ScoreRecord, error) {
	var rec models.ScoreRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return nil, fmt.Errorf("store: decode score: %w", err)
	}
	return &rec, nil
}
