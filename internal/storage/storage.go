package storage

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/kenbun-app/kenbundata/internal/fields"
	"github.com/kenbun-app/kenbundata/internal/paging"
	"github.com/kenbun-app/kenbundata/internal/schema"
)

// Storage persists kenbun entities.
type Storage interface {
	GetURL(ctx context.Context, id fields.ID) (*schema.URL, error)
	StoreURL(ctx context.Context, u *schema.URL) error

	// ListURLs returns URLs newest first, at most limit per page.
	ListURLs(ctx context.Context, limit int, cursor *fields.Cursor) (*paging.Page[schema.URL], error)

	GetBlob(ctx context.Context, id fields.ID) (*schema.Blob, error)
	StoreBlob(ctx context.Context, b *schema.Blob) error

	GetScreenshot(ctx context.Context, id fields.ID) (*schema.Screenshot, error)
	StoreScreenshot(ctx context.Context, s *schema.Screenshot) error

	GetHAR(ctx context.Context, id fields.ID) (*schema.HAR, error)
	StoreHAR(ctx context.Context, h *schema.HAR) error

	Close() error
}

// Kind tags a storage backend.
type Kind string

const (
	KindLocalFile Kind = "local_file"
	KindPostgres  Kind = "postgres"
	KindSQLite    Kind = "sqlite"
)

// Kinds lists every supported backend.
var Kinds = []Kind{KindLocalFile, KindPostgres, KindSQLite}

// ParseKind accepts a backend tag in snake case ("local_file"), camel case
// ("localFile") or any letter case ("LOCAL_FILE").
func ParseKind(s string) (Kind, error) {
	k := Kind(cases.Fold().String(snake(strings.TrimSpace(s))))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown storage kind %q", s)
}

// snake inserts '_' at lower-to-upper boundaries.
func snake(s string) string {
	var b strings.Builder
	prev := utf8.RuneError
	for _, r := range s {
		if unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteByte('_')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func (k Kind) String() string {
	return string(k)
}

// Prepare validates e and stamps it with now. It is called by every backend
// before a write.
func Prepare(e schema.Entity, now fields.Timestamp) error {
	if err := schema.Validate(e); err != nil {
		return err
	}
	e.Touch(now)
	return nil
}
