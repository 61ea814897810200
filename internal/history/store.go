// Package history keeps a per-user log of searches in SQLite.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Entry struct {
	ID        string
	UserID    int64
	Kind      string
	Query     string
	Results   int
	CreatedAt time.Time
}

type Store struct {
	db  *DB
	now func() time.Time
}

func NewStore(db *DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Record saves e, filling in its id and timestamp when missing.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (id, user_id, kind, query, results, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Kind, e.Query, e.Results, e.CreatedAt.UnixMilli())
	if err != nil {
		return Entry{}, fmt.Errorf("record search: %w", err)
	}
	return e, nil
}

// Recent returns the newest entries of userID first.
func (s *Store) Recent(ctx context.Context, userID int64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, kind, query, results, created_at FROM searches
		 WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			ms int64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Query, &e.Results, &ms); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.CreatedAt = time.UnixMilli(ms)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Clear deletes the history of userID and reports how many entries went.
func (s *Store) Clear(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM searches WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}
