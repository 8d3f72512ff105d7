package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	sqlbuilder "github.com/huandu/go-sqlbuilder"
	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options describes how to reach the database. Path is used by SQLite, the
// remaining fields by PostgreSQL.
type Options struct {
	Driver string

	Path string

	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// DB handles all database operations with a shared connection pool
type DB struct {
	db     *sql.DB
	flavor sqlbuilder.Flavor
}

func (o Options) flavor() (sqlbuilder.Flavor, error) {
	switch o.Driver {
	case DriverSQLite:
		return sqlbuilder.SQLite, nil
	case DriverPostgres:
		return sqlbuilder.PostgreSQL, nil
	}
	return sqlbuilder.DefaultFlavor, fmt.Errorf("unsupported database driver %q", o.Driver)
}

func (o Options) postgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(o.User, o.Password),
		Host:     o.Host + ":" + strconv.Itoa(o.Port),
		Path:     "/" + o.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (o Options) dsn() string {
	if o.Driver == DriverPostgres {
		return o.postgresURL()
	}
	// Enable foreign keys and WAL mode
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", o.Path)
}

func (o Options) migrationURL() string {
	if o.Driver == DriverPostgres {
		return o.postgresURL()
	}
	return "sqlite://" + o.Path
}

// String describes the target without credentials, for logging
func (o Options) String() string {
	if o.Driver == DriverPostgres {
		return fmt.Sprintf("postgres %s:%d/%s", o.Host, o.Port, o.Name)
	}
	return "sqlite " + o.Path
}

// Open connects to the database, retrying with exponential backoff until it
// answers a ping or ctx is done.
func Open(ctx context.Context, opts Options) (*DB, error) {
	flavor, err := opts.flavor()
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(opts.Driver, opts.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if opts.Driver == DriverSQLite {
		conn.SetMaxOpenConns(1) // SQLite only supports one writer at a time
		conn.SetMaxIdleConns(1)
	} else {
		conn.SetMaxOpenConns(20) // Allow multiple concurrent operations
		conn.SetMaxIdleConns(10) // Keep some connections ready
	}
	conn.SetConnMaxLifetime(time.Hour) // Recreate connections after an hour
	conn.SetConnMaxIdleTime(time.Hour) // Close idle connections after an hour

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	err = backoff.RetryNotify(func() error {
		return conn.PingContext(ctx)
	}, bo, func(err error, next time.Duration) {
		log.WithFields(log.Fields{
			"database": opts.String(),
			"error":    err,
			"retry":    next,
		}).Warn("Database not ready, retrying")
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return &DB{db: conn, flavor: flavor}, nil
}

func (db *DB) Close() error {
	return db.db.Close()
}
