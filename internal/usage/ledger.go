// Package usage keeps a local SQLite ledger of LLM spend. Community data
// lives in the hosted BaaS; this ledger is purely operational accounting
// for the admin dashboard.
package usage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Kinds of metered LLM calls.
const (
	KindLesson = "lesson"
	KindTutor  = "tutor"
)

const schema = `
CREATE TABLE IF NOT EXISTS llm_usage (
    id TEXT PRIMARY KEY,
    client_key TEXT NOT NULL,
    kind TEXT NOT NULL,
    model TEXT NOT NULL,
    prompt_tokens INTEGER NOT NULL DEFAULT 0,
    completion_tokens INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_llm_usage_created_at ON llm_usage(created_at);
CREATE INDEX IF NOT EXISTS idx_llm_usage_kind ON llm_usage(kind);
`

// Initialize opens the SQLite ledger and creates the schema
func Initialize(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping ledger: %w", err)
	}

	// WAL mode for better concurrency
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// RunMigrations creates the ledger schema.
func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create ledger schema: %w", err)
	}
	return nil
}

// Record is one metered LLM call.
type Record struct {
	ID               string
	ClientKey        string
	Kind             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	CreatedAt        time.Time
}

// Insert writes one record. An empty ID is assigned a fresh UUID.
func Insert(db *sql.DB, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	_, err := db.Exec(
		`INSERT INTO llm_usage (id, client_key, kind, model, prompt_tokens, completion_tokens)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ClientKey, rec.Kind, rec.Model, rec.PromptTokens, rec.CompletionTokens,
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage record: %w", err)
	}

	return nil
}

// Summary aggregates ledger rows for the admin dashboard.
type Summary struct {
	TotalRequests    int            `json:"total_requests"`
	PromptTokens     int            `json:"prompt_tokens"`
	CompletionTokens int            `json:"completion_tokens"`
	ByKind           map[string]int `json:"by_kind"`
}

// Summarize aggregates all records created at or after since.
func Summarize(db *sql.DB, since time.Time) (*Summary, error) {
	summary := &Summary{ByKind: make(map[string]int)}

	err := db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(prompt_tokens), 0), COALESCE(SUM(completion_tokens), 0)
		 FROM llm_usage WHERE created_at >= ?`,
		since.UTC().Format("2006-01-02 15:04:05"),
	).Scan(&summary.TotalRequests, &summary.PromptTokens, &summary.CompletionTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize usage: %w", err)
	}

	rows, err := db.Query(
		`SELECT kind, COUNT(*) FROM llm_usage WHERE created_at >= ? GROUP BY kind`,
		since.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize usage by kind: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		summary.ByKind[kind] = count
	}

	return summary, rows.Err()
}
