// Package testutil provides shared helpers for package tests.
package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/homeroomapp/homeroom/internal/usage"
)

// SetupLedger creates an in-memory usage ledger for testing.
func SetupLedger(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test ledger: %v", err)
	}

	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)

	if err := usage.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test ledger: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

// ValidLessonJSON is a minimal lesson body that satisfies the generation
// contract, for stubbing provider responses.
const ValidLessonJSON = `{
  "title": "The Water Cycle",
  "grade_level": "4th",
  "subject": "Science",
  "type": "lesson",
  "content": {
    "hook": "Where does rain come from?",
    "activity": "Build a mini water cycle in a plastic bag.",
    "resources": [{"label": "NASA Climate Kids", "url": "https://climatekids.nasa.gov/water-cycle/"}]
  },
  "interactive_data": {
    "questions": [
      {"id": 1, "text": "What turns water into vapor?", "type": "multiple-choice", "options": ["Evaporation", "Condensation", "Precipitation", "Collection"], "answer": "Evaporation"},
      {"id": 2, "text": "Where have you seen condensation at home?", "type": "reflection"}
    ]
  }
}`
