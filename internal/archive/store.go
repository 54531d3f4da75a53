// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps composed reports in a local SQLite database for
// later listing and full-text search. Nothing in the archive is fed back
// into a research run.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-agent/pkg/types"
)

const (
	dbFile = "reports.db"

	// timeLayout is fixed-width so created_at sorts correctly as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned when no report has the requested ID.
var ErrNotFound = errors.New("report not found")

// Store manages the report archive database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int

	// fts is false when the sqlite3 driver was built without FTS5; Search
	// then falls back to substring matching.
	fts bool
}

// Open opens or creates the archive at cfg.Dir/reports.db and creates the
// schema if it does not exist.
func Open(cfg types.ArchiveConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			topic TEXT NOT NULL,
			filename TEXT NOT NULL,
			markdown TEXT NOT NULL,
			questions INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='reports_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE reports_fts USING fts5(topic, markdown, content=reports, content_rowid=rowid)`,
		`CREATE TRIGGER reports_ai AFTER INSERT ON reports BEGIN
			INSERT INTO reports_fts(rowid, topic, markdown) VALUES (new.rowid, new.topic, new.markdown);
		END`,
		`CREATE TRIGGER reports_ad AFTER DELETE ON reports BEGIN
			INSERT INTO reports_fts(reports_fts, rowid, topic, markdown) VALUES('delete', old.rowid, old.topic, old.markdown);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := tx.Exec(stmt); err != nil {
			// No FTS5 in this build of the driver.
			return nil
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("creating FTS infrastructure: %w", err)
	}
	s.fts = true
	return nil
}

// Save stores r and returns it with its assigned ID. A report that already
// carries an ID keeps it.
func (s *Store) Save(ctx context.Context, r types.Report) (types.Report, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (id, topic, filename, markdown, questions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Topic, r.Filename, r.Markdown, r.Questions,
		r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return types.Report{}, fmt.Errorf("inserting report: %w", err)
	}
	return r, nil
}

// Get returns the report with the given ID.
func (s *Store) Get(ctx context.Context, id string) (types.Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, topic, filename, markdown, questions, created_at
		 FROM reports WHERE id = ?`, id)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Report{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// Delete removes the report with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// List returns up to limit reports, newest first. Zero uses the store default.
func (s *Store) List(ctx context.Context, limit int) ([]types.Report, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, filename, markdown, questions, created_at
		 FROM reports ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()
	return scanReports(rows)
}

// Search finds reports whose topic or body matches every term in query.
// Results are ranked by relevance when full-text search is available and
// by recency otherwise.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]types.Report, error) {
	terms := strings.Fields(strings.ReplaceAll(query, `"`, " "))
	if len(terms) == 0 {
		return nil, fmt.Errorf("search query is empty")
	}
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		rows *sql.Rows
		err  error
	)
	if s.fts {
		rows, err = s.db.QueryContext(ctx,
			`SELECT r.id, r.topic, r.filename, r.markdown, r.questions, r.created_at
			 FROM reports_fts
			 JOIN reports r ON r.rowid = reports_fts.rowid
			 WHERE reports_fts MATCH ?
			 ORDER BY reports_fts.rank LIMIT ?`,
			ftsQuery(terms), limit)
	} else {
		var qb strings.Builder
		var args []any
		qb.WriteString(`SELECT id, topic, filename, markdown, questions, created_at FROM reports WHERE 1=1`)
		for _, term := range terms {
			qb.WriteString(` AND (topic LIKE ? OR markdown LIKE ?)`)
			pattern := "%" + term + "%"
			args = append(args, pattern, pattern)
		}
		qb.WriteString(` ORDER BY created_at DESC, rowid DESC LIMIT ?`)
		args = append(args, limit)
		rows, err = s.db.QueryContext(ctx, qb.String(), args...)
	}
	if err != nil {
		return nil, fmt.Errorf("searching reports: %w", err)
	}
	defer rows.Close()
	return scanReports(rows)
}

// ftsQuery quotes each term so user input is never parsed as FTS5 syntax.
// Terms must not contain double quotes.
func ftsQuery(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + t + `"`
	}
	return strings.Join(quoted, " ")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (types.Report, error) {
	var (
		r       types.Report
		created string
	)
	if err := row.Scan(&r.ID, &r.Topic, &r.Filename, &r.Markdown, &r.Questions, &created); err != nil {
		return types.Report{}, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return types.Report{}, fmt.Errorf("parsing created_at for %s: %w", r.ID, err)
	}
	r.CreatedAt = t
	return r, nil
}

func scanReports(rows *sql.Rows) ([]types.Report, error) {
	reports := []types.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
