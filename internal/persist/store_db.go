package persist

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// SQLStore keeps records in a two-column kv table. The same statements run
// on SQLite and Postgres; only the placeholder style differs.
type SQLStore struct {
	db    *sql.DB
	stmts sqlDialect
	owned bool
}

type sqlDialect struct {
	create string
	get    string
	put    string
	del    string
}

var postgresDialect = sqlDialect{
	create: `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value BYTEA NOT NULL)`,
	get:    `SELECT value FROM kv WHERE key = $1`,
	put:    `INSERT INTO kv (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
	del:    `DELETE FROM kv WHERE key = $1`,
}

var sqliteDialect = sqlDialect{
	create: `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value BLOB NOT NULL)`,
	get:    `SELECT value FROM kv WHERE key = ?`,
	put:    `INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
	del:    `DELETE FROM kv WHERE key = ?`,
}

// NewPostgresStore uses a pool owned by the caller; Close leaves it open.
func NewPostgresStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	return newSQLStore(ctx, db, postgresDialect, false)
}

func newSQLStore(ctx context.Context, db *sql.DB, d sqlDialect, owned bool) (*SQLStore, error) {
	s := &SQLStore{db: db, stmts: d, owned: owned}

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, d.create)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, s.stmts.get, key).Scan(&v)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, s.stmts.put, key, value)
		return err
	})
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, s.stmts.del, key)
		return err
	})
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *SQLStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
