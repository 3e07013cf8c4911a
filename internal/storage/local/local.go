// Package local stores entities as JSON documents on the local filesystem.
//
// Layout:
//
//	<root>/urls/<id>.json
//	<root>/blobs/<id>.json
//	<root>/screenshots/<id>.json
//	<root>/hars/<id>.json
//
// Each file holds one compact JSON document terminated by a newline. Writes
// go to a temporary file that is renamed into place, so readers never see a
// partial document.
package local

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/kenbun-app/kenbundata/internal/fields"
	"github.com/kenbun-app/kenbundata/internal/paging"
	"github.com/kenbun-app/kenbundata/internal/schema"
	"github.com/kenbun-app/kenbundata/internal/storage"
)

const (
	fileExt   = ".json"
	tmpPrefix = ".tmp-"
)

// Store is the local_file backend.
type Store struct {
	root  string
	log   logrus.FieldLogger
	clock storage.Clock
}

var _ storage.Storage = (*Store)(nil)

// Open prepares root (creating it if needed) and returns a Store over it.
func Open(root string, opts ...storage.Option) (*Store, error) {
	if root == "" {
		return nil, errors.New("local storage path is empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve local storage path")
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create local storage root")
	}

	o := storage.NewOptions(opts...)
	s := &Store{
		root:  abs,
		log:   o.Logger.WithField("storage", storage.KindLocalFile),
		clock: o.Clock,
	}
	s.log.WithField("path", abs).Info("opened local storage")
	return s, nil
}

// Root returns the absolute root directory.
func (s *Store) Root() string {
	return s.root
}

// Close implements storage.Storage. It holds no resources.
func (s *Store) Close() error {
	return nil
}

func (s *Store) dir(kind schema.Kind) string {
	return filepath.Join(s.root, string(kind)+"s")
}

func (s *Store) path(kind schema.Kind, id fields.ID) string {
	return filepath.Join(s.dir(kind), id.String()+fileExt)
}

func (s *Store) put(ctx context.Context, e schema.Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := storage.Prepare(e, s.clock.Now()); err != nil {
		return err
	}

	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", e.EntityKind())
	}
	data = append(data, '\n')

	dir := s.dir(e.EntityKind())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create directories for entity")
	}

	tmp, err := os.CreateTemp(dir, tmpPrefix+"*")
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write entity to file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close file")
	}
	if err := os.Rename(tmp.Name(), s.path(e.EntityKind(), e.EntityID())); err != nil {
		return errors.Wrap(err, "failed to move file into place")
	}

	s.log.WithFields(logrus.Fields{
		"kind": e.EntityKind(),
		"id":   e.EntityID(),
	}).Info("stored entity")
	return nil
}

func (s *Store) get(ctx context.Context, kind schema.Kind, id fields.ID, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(s.path(kind, id))
	if err != nil {
		if os.IsNotExist(err) {
			return &storage.NotFoundError{Kind: kind, ID: id}
		}
		return errors.Wrapf(err, "failed to read %s", kind)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s %s", kind, id)
	}

	s.log.WithFields(logrus.Fields{"kind": kind, "id": id}).Debug("read entity")
	return nil
}

// GetURL implements storage.Storage.
func (s *Store) GetURL(ctx context.Context, id fields.ID) (*schema.URL, error) {
	var u schema.URL
	if err := s.get(ctx, schema.KindURL, id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// StoreURL implements storage.Storage.
func (s *Store) StoreURL(ctx context.Context, u *schema.URL) error {
	return s.put(ctx, u)
}

// ListURLs implements storage.Storage. It loads every URL document and
// pages over them in memory.
func (s *Store) ListURLs(ctx context.Context, limit int, cursor *fields.Cursor) (*paging.Page[schema.URL], error) {
	urls, err := s.readAllURLs(ctx)
	if err != nil {
		return nil, err
	}
	src, err := paging.NewSliceSource(urls, schema.URLKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to index urls")
	}
	return paging.Paginate(ctx, src, schema.URLKey, limit, cursor)
}

func (s *Store) readAllURLs(ctx context.Context) ([]schema.URL, error) {
	entries, err := os.ReadDir(s.dir(schema.KindURL))
	if err != nil {
		if os.IsNotExist(err) {
			return []schema.URL{}, nil
		}
		return nil, errors.Wrap(err, "failed to list urls")
	}

	urls := make([]schema.URL, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, tmpPrefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		id, err := fields.ParseID(strings.TrimSuffix(name, fileExt))
		if err != nil {
			s.log.WithField("file", name).Warn("skipping file with invalid id")
			continue
		}
		var u schema.URL
		if err := s.get(ctx, schema.KindURL, id, &u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// GetBlob implements storage.Storage.
func (s *Store) GetBlob(ctx context.Context, id fields.ID) (*schema.Blob, error) {
	var b schema.Blob
	if err := s.get(ctx, schema.KindBlob, id, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// StoreBlob implements storage.Storage.
func (s *Store) StoreBlob(ctx context.Context, b *schema.Blob) error {
	return s.put(ctx, b)
}

// GetScreenshot implements storage.Storage.
func (s *Store) GetScreenshot(ctx context.Context, id fields.ID) (*schema.Screenshot, error) {
	var sc schema.Screenshot
	if err := s.get(ctx, schema.KindScreenshot, id, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// StoreScreenshot implements storage.Storage.
func (s *Store) StoreScreenshot(ctx context.Context, sc *schema.Screenshot) error {
	return s.put(ctx, sc)
}

// GetHAR implements storage.Storage.
func (s *Store) GetHAR(ctx context.Context, id fields.ID) (*schema.HAR, error) {
	var h schema.HAR
	if err := s.get(ctx, schema.KindHAR, id, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// StoreHAR implements storage.Storage.
func (s *Store) StoreHAR(ctx context.Context, h *schema.HAR) error {
	return s.put(ctx, h)
}
