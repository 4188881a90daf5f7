package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"

	"teamsync/database"
)

// SQLiteStore is the default backend. All collections share the single
// records table owned by the database package. Writes are serialized so that
// the snapshot published after each write reflects that write and nothing
// newer.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.Mutex
	subs *notifier
}

// NewSQLiteStore wraps the database opened by database.InitDB.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{
		db:   database.DB,
		subs: newNotifier(),
	}
}

func (s *SQLiteStore) ReadAll(ctx context.Context, collection string) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, value FROM records WHERE collection = ?", collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	snap := make(Snapshot)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		snap[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return snap, nil
}

func (s *SQLiteStore) WriteAll(ctx context.Context, collection string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM records WHERE collection = ?", collection); err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	for key, value := range snap {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO records (collection, key, value) VALUES (?, ?, ?)",
			collection, key, string(value)); err != nil {
			tx.Rollback()
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.subs.publish(collection, snap.Clone())
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, collection string, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO records (collection, key, value) VALUES (?, ?, ?)",
		collection, ulid.Make().String(), string(raw)); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	snap, err := s.ReadAll(ctx, collection)
	if err != nil {
		return err
	}
	s.subs.publish(collection, snap)
	return nil
}

func (s *SQLiteStore) Subscribe(collection string, fn func(Snapshot)) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.ReadAll(context.Background(), collection)
	if err != nil {
		return nil, err
	}
	return s.subs.subscribe(collection, fn, snap), nil
}
