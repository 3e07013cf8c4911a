package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/kenbun-app/kenbundata/internal/fields"
	"github.com/kenbun-app/kenbundata/internal/schema"
	"github.com/kenbun-app/kenbundata/internal/storage"
)

// GetScreenshot implements storage.Storage.
func (s *Store) GetScreenshot(ctx context.Context, id fields.ID) (*schema.Screenshot, error) {
	var (
		sc  schema.Screenshot
		enc string
	)
	err := s.queryRow(ctx, "SELECT id, encoded_image, created_at, updated_at FROM screenshot WHERE id = ?", id).
		Scan(&sc.ID, &enc, &sc.CreatedAt, &sc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Kind: schema.KindScreenshot, ID: id}
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read screenshot")
	}

	sc.EncodedImage, err = fields.ParseEncodedImage(enc)
	if err != nil {
		return nil, errors.Wrapf(err, "screenshot %s holds an invalid image", id)
	}
	s.log.WithField("id", id).Debug("read screenshot")
	return &sc, nil
}

// StoreScreenshot implements storage.Storage.
func (s *Store) StoreScreenshot(ctx context.Context, sc *schema.Screenshot) error {
	if err := storage.Prepare(sc, s.clock.Now()); err != nil {
		return err
	}
	_, err := s.exec(ctx, upsertSQL("screenshot", "encoded_image", "created_at", "updated_at"),
		sc.ID, sc.EncodedImage.String(), sc.CreatedAt, sc.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to store screenshot")
	}
	s.log.WithField("id", sc.ID).Info("stored screenshot")
	return nil
}

// GetHAR implements storage.Storage.
func (s *Store) GetHAR(ctx context.Context, id fields.ID) (*schema.HAR, error) {
	var (
		h   schema.HAR
		doc []byte
	)
	err := s.queryRow(ctx, "SELECT id, log, created_at, updated_at FROM har WHERE id = ?", id).
		Scan(&h.ID, &doc, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Kind: schema.KindHAR, ID: id}
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read har")
	}

	if err := json.Unmarshal(doc, &h.Log); err != nil {
		return nil, errors.Wrapf(err, "failed to decode har %s", id)
	}
	s.log.WithField("id", id).Debug("read har")
	return &h, nil
}

// StoreHAR implements storage.Storage. The log is kept as a JSON document.
func (s *Store) StoreHAR(ctx context.Context, h *schema.HAR) error {
	if err := storage.Prepare(h, s.clock.Now()); err != nil {
		return err
	}
	doc, err := json.Marshal(h.Log)
	if err != nil {
		return errors.Wrap(err, "failed to encode har log")
	}
	_, err = s.exec(ctx, upsertSQL("har", "log", "created_at", "updated_at"),
		h.ID, string(doc), h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to store har")
	}
	s.log.WithField("id", h.ID).Info("stored har")
	return nil
}
