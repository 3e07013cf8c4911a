package sqldb

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/kenbun-app/kenbundata/internal/fields"
	"github.com/kenbun-app/kenbundata/internal/paging"
	"github.com/kenbun-app/kenbundata/internal/schema"
	"github.com/kenbun-app/kenbundata/internal/storage"
)

const urlColumns = "id, url, created_at, updated_at"

// GetURL implements storage.Storage.
func (s *Store) GetURL(ctx context.Context, id fields.ID) (*schema.URL, error) {
	row := s.queryRow(ctx, "SELECT "+urlColumns+" FROM url WHERE id = ?", id)
	u, err := scanURL(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Kind: schema.KindURL, ID: id}
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read url")
	}
	s.log.WithField("id", id).Debug("read url")
	return &u, nil
}

// StoreURL implements storage.Storage. The cursor_value column is
// recomputed on every write.
func (s *Store) StoreURL(ctx context.Context, u *schema.URL) error {
	if err := storage.Prepare(u, s.clock.Now()); err != nil {
		return err
	}
	cv, err := u.CursorValue()
	if err != nil {
		return errors.Wrap(err, "failed to compute cursor value")
	}

	_, err = s.exec(ctx, upsertSQL("url", "url", "created_at", "updated_at", "cursor_value"),
		u.ID, u.URL, u.CreatedAt, u.UpdatedAt, cv)
	if err != nil {
		return errors.Wrap(err, "failed to store url")
	}

	s.log.WithFields(logrus.Fields{"id": u.ID, "cursor": cv}).Info("stored url")
	return nil
}

// ListURLs implements storage.Storage.
func (s *Store) ListURLs(ctx context.Context, limit int, cursor *fields.Cursor) (*paging.Page[schema.URL], error) {
	return paging.Paginate(ctx, urlSource{s}, schema.URLKey, limit, cursor)
}

// urlSource runs keyset scans over the cursor_value index.
type urlSource struct {
	s *Store
}

var _ paging.Source[schema.URL] = urlSource{}

func (src urlSource) Scan(ctx context.Context, order paging.Order, bound *paging.Bound, limit int) ([]schema.URL, error) {
	urls := []schema.URL{}
	if limit <= 0 {
		return urls, nil
	}

	q := "SELECT " + urlColumns + " FROM url"
	var args []any
	if bound != nil {
		q += " WHERE cursor_value " + bound.Op.String() + " ?"
		args = append(args, bound.Value)
	}
	q += " ORDER BY cursor_value " + order.String() + " LIMIT ?"
	args = append(args, limit)

	rows, err := src.s.query(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query urls")
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanURL(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan url")
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate urls")
	}
	return urls, nil
}

func (src urlSource) Exists(ctx context.Context, bound paging.Bound) (bool, error) {
	var ok bool
	q := "SELECT EXISTS (SELECT 1 FROM url WHERE cursor_value " + bound.Op.String() + " ?)"
	if err := src.s.queryRow(ctx, q, bound.Value).Scan(&ok); err != nil {
		return false, errors.Wrap(err, "failed to probe urls")
	}
	return ok, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanURL(row rowScanner) (schema.URL, error) {
	var u schema.URL
	err := row.Scan(&u.ID, &u.URL, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
