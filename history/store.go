// Package history keeps a rolling, de-duplicated list of answered lookups in
// SQLite, newest first.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"word_etymology/etymology"
)

const defaultMaxEntries = 50

// Entry is one remembered question and the answer that was shown for it.
type Entry struct {
	Question  string           `json:"question"`
	Answer    etymology.Record `json:"answer"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Store is safe for concurrent use.
type Store struct {
	db         *sql.DB
	maxEntries int
	now        func() time.Time
}

// Open creates or opens the database at path (":memory:" works for tests).
func Open(ctx context.Context, path string, maxEntries int) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path is required")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if path == ":memory:" {
		// Every new connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := initDB(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Store{db: db, maxEntries: maxEntries, now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Key folds case so that "Word" and "WORD" share one entry.
func Key(question string) string {
	return cases.Fold().String(question)
}

// Record stores question/answer as the newest entry, replacing any entry with
// the same case-insensitive question, and trims the list to its maximum size.
func (s *Store) Record(ctx context.Context, question string, answer etymology.Record) error {
	if strings.TrimSpace(question) == "" {
		return errors.New("question must be non-empty")
	}
	body, err := json.Marshal(answer)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO lookups (question_key, question, answer, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(question_key)
		 DO UPDATE SET question = excluded.question, answer = excluded.answer, updated_at = excluded.updated_at`,
		Key(question), question, string(body), s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("upsert lookup: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM lookups WHERE id NOT IN (
			SELECT id FROM lookups ORDER BY updated_at DESC, id DESC LIMIT ?
		)`, s.maxEntries)
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return tx.Commit()
}

// List returns the entries newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question, answer, updated_at FROM lookups ORDER BY updated_at DESC, id DESC LIMIT ?`, s.maxEntries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			answer  string
			updated int64
		)
		if err := rows.Scan(&e.Question, &answer, &updated); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answer), &e.Answer); err != nil {
			return nil, fmt.Errorf("decode answer for %q: %w", e.Question, err)
		}
		e.UpdatedAt = time.Unix(0, updated)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM lookups`)
	return err
}
