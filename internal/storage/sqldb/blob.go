package sqldb

import (
	"bytes"
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/kenbun-app/kenbundata/internal/fields"
	"github.com/kenbun-app/kenbundata/internal/schema"
	"github.com/kenbun-app/kenbundata/internal/storage"
)

// splitChunks cuts data into ChunkSize slices. Empty data has no chunks.
func splitChunks(data []byte) [][]byte {
	var chunks [][]byte
	for len(data) > 0 {
		n := min(len(data), ChunkSize)
		chunks = append(chunks, data[:n])
		data = data[n:]
	}
	return chunks
}

// GetBlob implements storage.Storage.
func (s *Store) GetBlob(ctx context.Context, id fields.ID) (*schema.Blob, error) {
	var (
		b    schema.Blob
		size int64
	)
	err := s.queryRow(ctx, "SELECT id, mime_type, size, created_at, updated_at FROM blob WHERE id = ?", id).
		Scan(&b.ID, &b.MimeType, &size, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Kind: schema.KindBlob, ID: id}
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read blob")
	}
	if size < 0 {
		return nil, errors.Errorf("blob %s has invalid size %d", id, size)
	}

	rows, err := s.query(ctx, "SELECT body_chunk FROM chunk WHERE blob_id = ? ORDER BY idx ASC", id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query chunks")
	}
	defer rows.Close()

	var buf bytes.Buffer
	buf.Grow(int(size))
	for rows.Next() {
		var chunk []byte
		if err := rows.Scan(&chunk); err != nil {
			return nil, errors.Wrap(err, "failed to scan chunk")
		}
		buf.Write(chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate chunks")
	}
	if int64(buf.Len()) != size {
		return nil, errors.Errorf("blob %s is truncated: have %d of %d bytes", id, buf.Len(), size)
	}

	b.Data = fields.Bytes(buf.Bytes())
	s.log.WithFields(logrus.Fields{"id": id, "size": size}).Debug("read blob")
	return &b, nil
}

// StoreBlob implements storage.Storage. The blob row and its chunks are
// replaced in one transaction.
func (s *Store) StoreBlob(ctx context.Context, b *schema.Blob) error {
	if err := storage.Prepare(b, s.clock.Now()); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.dialect.rebind(upsertSQL("blob", "mime_type", "size", "created_at", "updated_at")),
		b.ID, b.MimeType, len(b.Data), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to store blob")
	}
	if _, err := tx.ExecContext(ctx, s.dialect.rebind("DELETE FROM chunk WHERE blob_id = ?"), b.ID); err != nil {
		return errors.Wrap(err, "failed to clear chunks")
	}

	insert := s.dialect.rebind("INSERT INTO chunk (blob_id, idx, body_chunk) VALUES (?, ?, ?)")
	chunks := splitChunks(b.Data)
	for i, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, insert, b.ID, i, chunk); err != nil {
			return errors.Wrapf(err, "failed to store chunk %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit blob")
	}

	s.log.WithFields(logrus.Fields{
		"id":     b.ID,
		"size":   len(b.Data),
		"chunks": len(chunks),
	}).Info("stored blob")
	return nil
}
