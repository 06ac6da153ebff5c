package persist

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	SQLitePath string

	// Postgres is an open pool; the caller keeps ownership.
	Postgres *sql.DB
}

// Open builds the configured backend and checks that it answers.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)

	switch opts.Driver {
	case DriverMemory, "":
		return NewMemStore(), nil
	case DriverRedis:
		prefix := opts.RedisPrefix
		if prefix == "" {
			prefix = DefaultRedisPrefix
		}
		s = NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		}), prefix)
	case DriverSQLite:
		s, err = OpenSQLiteStore(ctx, opts.SQLitePath)
	case DriverPostgres:
		if opts.Postgres == nil {
			return nil, fmt.Errorf("postgres driver: no database handle")
		}
		s, err = NewPostgresStore(ctx, opts.Postgres)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := s.Ping(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%s ping: %w", opts.Driver, err)
	}
	return s, nil
}
