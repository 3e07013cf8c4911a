package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenbun-app/kenbundata/internal/fields"
	"github.com/kenbun-app/kenbundata/internal/schema"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"local_file", KindLocalFile},
		{"localFile", KindLocalFile},
		{"LocalFile", KindLocalFile},
		{"LOCAL_FILE", KindLocalFile},
		{" local_file ", KindLocalFile},
		{"postgres", KindPostgres},
		{"Postgres", KindPostgres},
		{"sqlite", KindSQLite},
		{"SQLite", KindSQLite},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKind_Unknown(t *testing.T) {
	for _, input := range []string{"", "mysql", "local-file", "localfile"} {
		_, err := ParseKind(input)
		assert.Error(t, err, input)
	}
}

func TestNotFoundError(t *testing.T) {
	id := fields.MustParseID("z1dDLoCeQ1OtvZ1cDXM4aA")
	var err error = &NotFoundError{Kind: schema.KindURL, ID: id}

	assert.Equal(t, "url with ID z1dDLoCeQ1OtvZ1cDXM4aA not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, ErrNotFound)

	wrapped := fmt.Errorf("get url: %w", err)
	assert.True(t, IsNotFound(wrapped))
	assert.ErrorIs(t, wrapped, ErrNotFound)

	assert.False(t, IsNotFound(errors.New("other")))
}

func TestPostgresConfig_ConnString(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db",
		Port:     5432,
		Username: "postgres",
		Password: "p@ss",
		Database: "postgres",
	}
	assert.Equal(t, "postgres://postgres:p%40ss@db:5432/postgres", cfg.ConnString())

	cfg.SSLMode = "disable"
	assert.Equal(t, "postgres://postgres:p%40ss@db:5432/postgres?sslmode=disable", cfg.ConnString())

	cfg.Password = ""
	cfg.SSLMode = ""
	assert.Equal(t, "postgres://postgres@db:5432/postgres", cfg.ConnString())

	cfg.DSN = "postgres://other/x"
	assert.Equal(t, "postgres://other/x", cfg.ConnString())
}

type fixedClock fields.Timestamp

func (c fixedClock) Now() fields.Timestamp { return fields.Timestamp(c) }

func TestPrepare(t *testing.T) {
	u := schema.NewURL("https://kenbun.app")
	require.NoError(t, Prepare(u, fields.TimestampFromMicros(42_000)))
	assert.Equal(t, int64(42_000), u.CreatedAt.Micros())
	assert.Equal(t, int64(42_000), u.UpdatedAt.Micros())

	bad := schema.NewURL("mailto:someone@kenbun.app")
	err := Prepare(bad, fields.TimestampFromMicros(42_000))
	assert.ErrorIs(t, err, schema.ErrInvalidEntity)
	assert.True(t, bad.UpdatedAt.IsZero(), "rejected entities are not stamped")
}

func TestNewOptions(t *testing.T) {
	o := NewOptions()
	assert.NotNil(t, o.Logger)
	assert.IsType(t, SystemClock{}, o.Clock)

	clock := fixedClock(fields.TimestampFromMicros(7))
	o = NewOptions(WithClock(clock), WithClock(nil))
	assert.IsType(t, SystemClock{}, o.Clock)

	o = NewOptions(WithClock(clock))
	assert.Equal(t, int64(7), o.Clock.Now().Micros())
}
