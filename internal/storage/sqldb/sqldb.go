// Package sqldb implements the postgres and sqlite storage backends over
// database/sql.
//
// URLs carry a precomputed cursor_value column with a unique index so
// listings are keyset scans. Blob payloads are split into fixed-size rows of
// the chunk table. HAR logs are kept as one JSON document per row.
package sqldb

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/kenbun-app/kenbundata/internal/storage"
)

// Schema version tracking:
// 1 - url, blob, chunk, screenshot and har tables
const currentSchemaVersion = 1

// ChunkSize is the largest payload slice kept in one chunk row.
const ChunkSize = 4 << 20

// Store is the relational backend.
type Store struct {
	db      *sql.DB
	dialect Dialect
	log     logrus.FieldLogger
	clock   storage.Clock
}

var _ storage.Storage = (*Store)(nil)

// Open connects to dsn with the driver for dialect, then applies pragmas
// (sqlite only) and the schema. It is safe to call repeatedly on the same
// database.
func Open(ctx context.Context, dialect Dialect, dsn string, opts ...storage.Option) (*Store, error) {
	if !dialect.valid() {
		return nil, errors.Errorf("unsupported dialect %q", dialect)
	}

	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if dialect == SQLite {
		// SQLite allows one writer at a time.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "failed to apply pragmas")
		}
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}

	o := storage.NewOptions(opts...)
	s := &Store{
		db:      db,
		dialect: dialect,
		log:     o.Logger.WithField("storage", dialect),
		clock:   o.Clock,
	}

	if err := s.applySchema(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to apply schema")
	}

	s.log.Info("opened sql storage")
	return s, nil
}

// OpenSQLite opens the sqlite database file at path.
func OpenSQLite(ctx context.Context, cfg storage.SQLiteConfig, opts ...storage.Option) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	return Open(ctx, SQLite, cfg.Path, opts...)
}

// OpenPostgres opens the database described by cfg.
func OpenPostgres(ctx context.Context, cfg storage.PostgresConfig, opts ...storage.Option) (*Store, error) {
	return Open(ctx, Postgres, cfg.ConnString(), opts...)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Dialect returns the SQL flavor of the connection.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return errors.Wrapf(err, "failed to execute %q", pragma)
		}
	}
	return nil
}

// applySchema creates missing tables and records the schema version.
func (s *Store) applySchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema()); err != nil {
		return errors.Wrap(err, "failed to execute schema")
	}

	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.exec(ctx, "INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
			return errors.Wrap(err, "failed to record schema version")
		}
	case err != nil:
		return errors.Wrap(err, "failed to read schema version")
	case version > currentSchemaVersion:
		return errors.Errorf("database schema version %d is newer than supported version %d",
			version, currentSchemaVersion)
	}
	return nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
}

// upsertSQL returns an insert that overwrites every column but id on
// conflict. Both dialects accept the same syntax.
func upsertSQL(table string, columns ...string) string {
	q := "INSERT INTO " + table + " (id"
	for _, c := range columns {
		q += ", " + c
	}
	q += ") VALUES (?"
	for range columns {
		q += ", ?"
	}
	q += ") ON CONFLICT (id) DO UPDATE SET "
	for i, c := range columns {
		if i > 0 {
			q += ", "
		}
		q += c + " = excluded." + c
	}
	return q
}
