package paging

import "github.com/kenbun-app/kenbundata/internal/fields"

const (
	// DefaultLimit is the page size used when none is requested.
	DefaultLimit = 20

	// MaxLimit caps the page size a caller may request.
	MaxLimit = 1000
)

// Params holds the caller-facing pagination parameters.
type Params struct {
	Cursor string `json:"cursor,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// NormalizeLimit maps a requested page size into [1, MaxLimit].
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// Normalize returns a copy of p with the limit clamped.
func (p Params) Normalize() Params {
	p.Limit = NormalizeLimit(p.Limit)
	return p
}

// ParsedCursor decodes the cursor token, returning nil when none was given.
// An invalid token is an error; it never falls back to the first page.
func (p Params) ParsedCursor() (*fields.Cursor, error) {
	if p.Cursor == "" {
		return nil, nil
	}
	c, err := fields.ParseCursor(p.Cursor)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
