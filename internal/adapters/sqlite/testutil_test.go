// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/whisper/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every pooled connection would get its own empty in-memory database
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedUser inserts a test user and returns its ID.
func seedUser(t *testing.T, testDB *sql.DB, id, nickname string) string {
	t.Helper()
	if nickname == "" {
		nickname = "user_" + id
	}
	_, err := testDB.Exec(
		"INSERT INTO users (id, nickname, name, created_at) VALUES (?, ?, ?, ?)",
		id, nickname, nickname, time.Now().UTC().Format(db.TimeLayout),
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

// stepClock returns a clock starting at start and advancing by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}

// fixedClock returns a clock that always reports the same instant.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
