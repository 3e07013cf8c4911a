// Package factory opens the storage backend selected by configuration.
package factory

import (
	"context"

	"github.com/pkg/errors"

	"github.com/kenbun-app/kenbundata/internal/storage"
	"github.com/kenbun-app/kenbundata/internal/storage/local"
	"github.com/kenbun-app/kenbundata/internal/storage/sqldb"
)

// Open returns the backend named by cfg.Kind. The caller closes it.
func Open(ctx context.Context, cfg storage.Config, opts ...storage.Option) (storage.Storage, error) {
	var (
		s   storage.Storage
		err error
	)
	switch cfg.Kind {
	case storage.KindLocalFile:
		s, err = local.Open(cfg.Local.Path, opts...)
	case storage.KindPostgres:
		s, err = sqldb.OpenPostgres(ctx, cfg.Postgres, opts...)
	case storage.KindSQLite:
		s, err = sqldb.OpenSQLite(ctx, cfg.SQLite, opts...)
	case "":
		return nil, errors.New("storage kind is not set")
	default:
		return nil, errors.Errorf("unknown storage kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s storage", cfg.Kind)
	}
	return s, nil
}
