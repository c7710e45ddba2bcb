package exec

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shrek82/sieve/core"
	"github.com/shrek82/sieve/dialect"
	"github.com/shrek82/sieve/logger"
	"github.com/shrek82/sieve/pool"
	"github.com/shrek82/sieve/query"
)

// Options defines the configuration for the DB connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SelectBuilder is what the exec layer needs from a query value. It is
// implemented by *query.Builder.
type SelectBuilder interface {
	BuildSelect() (string, []any)
}

// DB runs composed queries against a database. It owns the connection
// pool, the dialect used by builders it hands out, and the middleware
// chain statements pass through.
type DB struct {
	pool        pool.Pool
	dialect     dialect.Dialect
	logger      logger.Logger
	middlewares []QueryMiddleware
}

// Open initializes a new DB for the given driver and DSN.
func Open(driver, dsn string, opts *Options) (*DB, error) {
	d, ok := dialect.Get(driver)
	if !ok {
		return nil, fmt.Errorf("unknown dialect %s", driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	p := pool.NewStdPool(sqlDB)

	if opts != nil {
		if opts.MaxOpenConns > 0 {
			p.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			p.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxLifetime > 0 {
			p.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}

	if err := p.Ping(); err != nil {
		return nil, err
	}

	return &DB{
		pool:    p,
		dialect: d,
		logger:  logger.NewStdLogger(),
	}, nil
}

// Close shuts down registered middleware and closes the connection pool.
func (db *DB) Close() error {
	for _, mw := range db.middlewares {
		if err := mw.Shutdown(); err != nil {
			db.logger.Warn("middleware %s shutdown: %v", mw.Name(), err)
		}
	}
	return db.pool.Close()
}

// SetLogger sets a custom logger for the DB.
func (db *DB) SetLogger(l logger.Logger) {
	db.logger = l
}

// Dialect returns the dialect the DB was opened with.
func (db *DB) Dialect() dialect.Dialect {
	return db.dialect
}

// Use initializes a middleware and appends it to the chain.
func (db *DB) Use(mw QueryMiddleware) error {
	if err := mw.Init(db); err != nil {
		return fmt.Errorf("init middleware %s: %w", mw.Name(), err)
	}
	db.middlewares = append(db.middlewares, mw)
	return nil
}

// Builder starts a new query builder for the given table using the DB's
// dialect, ready to be used as a session's query value.
func (db *DB) Builder(table string) *query.Builder {
	return query.NewBuilder(db.dialect).Table(table)
}

// Exec executes a raw SQL statement without returning any rows.
func (db *DB) Exec(ctx context.Context, sqlStr string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := db.pool.ExecContext(ctx, sqlStr, args...)
	db.logger.SQL(sqlStr, time.Since(start), args...)
	return res, err
}

// Select coerces src into a runnable SELECT and scans all rows into dest.
// src is either a SelectBuilder (a *query.Builder) or a *core.Session whose
// final query value is one; applying the session is the coercion step.
func (db *DB) Select(ctx context.Context, src any, dest any) error {
	b, err := db.coerce(src)
	if err != nil {
		return err
	}

	sqlStr, args := b.BuildSelect()
	stmt := &Statement{SQL: sqlStr, Args: args, Dest: dest}

	next := db.runStatement
	for i := len(db.middlewares) - 1; i >= 0; i-- {
		mw := db.middlewares[i]
		inner := next
		next = func(ctx context.Context, stmt *Statement) (*Result, error) {
			return mw.Process(ctx, stmt, inner)
		}
	}

	_, err = next(ctx, stmt)
	return err
}

func (db *DB) coerce(src any) (SelectBuilder, error) {
	switch v := src.(type) {
	case SelectBuilder:
		return v, nil
	case *core.Session:
		q, err := core.Apply(v)
		if err != nil {
			return nil, err
		}
		b, ok := q.(SelectBuilder)
		if !ok {
			return nil, fmt.Errorf("session produced %T, which cannot build a SELECT", q)
		}
		return b, nil
	}
	return nil, fmt.Errorf("cannot build a SELECT from %T", src)
}
