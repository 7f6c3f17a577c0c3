package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// schemaSQL describes the forum tables. The application does not own the
// schema; this copy exists so tooling and tests can create an empty database.
const schemaSQL = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		fname TEXT NOT NULL,
		lname TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		author_id INTEGER NOT NULL REFERENCES users(id)
	);

	-- parent_reply_id is NULL for replies posted directly under the question
	CREATE TABLE IF NOT EXISTS replies (
		id INTEGER PRIMARY KEY,
		body TEXT NOT NULL,
		question_id INTEGER NOT NULL REFERENCES questions(id),
		parent_reply_id INTEGER REFERENCES replies(id),
		author_id INTEGER NOT NULL REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS question_follows (
		id INTEGER PRIMARY KEY,
		question_id INTEGER NOT NULL REFERENCES questions(id),
		user_id INTEGER NOT NULL REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS question_likes (
		id INTEGER PRIMARY KEY,
		question_id INTEGER NOT NULL REFERENCES questions(id),
		user_id INTEGER NOT NULL REFERENCES users(id)
	);
`

// EnsureSchema creates any missing forum table
func (db *DB) EnsureSchema() error {
	log.Info().Msg("Ensuring forum schema")

	return db.Transaction(func(tx *sql.Tx) error {
		for i, stmt := range splitSQLStatements(schemaSQL) {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("schema statement %d failed: %w", i+1, err)
			}
		}
		return nil
	})
}

// splitSQLStatements splits a SQL string into individual statements.
// Comment lines are dropped and only non-empty statements are returned.
func splitSQLStatements(sql string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSpace(current.String())
			if stmt != "" && stmt != ";" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	if remaining := strings.TrimSpace(current.String()); remaining != "" {
		statements = append(statements, remaining)
	}

	return statements
}
