package fields

import (
	"database/sql/driver"
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// maxCursorMillis is the first millisecond value that no longer fits in
	// the 13-digit field.
	maxCursorMillis = 10_000_000_000_000

	cursorValueLen = 13 + 1 + encodedIDLen
)

var (
	cursorValueRegex   = regexp.MustCompile(`^\d{13}\|[A-Za-z0-9_-]{22}$`)
	cursorPayloadRegex = regexp.MustCompile(`^[<>]\|\d{13}\|[A-Za-z0-9_-]{22}$`)
)

// CursorValue is the sortable composite key "<13-digit millis>|<ID>".
//
// The timestamp field is fixed width and zero padded, so comparing two
// CursorValues as strings is the same as comparing (millis, id) pairs. SQL
// backends rely on this to page over a plain string index.
type CursorValue struct {
	value string
}

// NewCursorValue builds the key for an entity last touched at ts.
// The millisecond view of ts must lie in [0, 10^13).
func NewCursorValue(ts Timestamp, id ID) (CursorValue, error) {
	ms := ts.Millis()
	if ms < 0 || ms >= maxCursorMillis {
		return CursorValue{}, newValidationError(CodeInvalidCursorValue, strconv.FormatInt(ms, 10),
			fmt.Errorf("millisecond timestamp does not fit in 13 digits"))
	}
	return CursorValue{value: fmt.Sprintf("%013d|%s", ms, id)}, nil
}

// ParseCursorValue validates the textual key.
func ParseCursorValue(s string) (CursorValue, error) {
	if !cursorValueRegex.MatchString(s) {
		return CursorValue{}, newValidationError(CodeInvalidCursorValue, s, nil)
	}
	return CursorValue{value: s}, nil
}

// MustParseCursorValue is like ParseCursorValue but panics on invalid input.
func MustParseCursorValue(s string) CursorValue {
	v, err := ParseCursorValue(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Millis returns the millisecond component.
func (v CursorValue) Millis() int64 {
	if len(v.value) != cursorValueLen {
		return 0
	}
	ms, _ := strconv.ParseInt(v.value[:13], 10, 64)
	return ms
}

// IDString returns the 22-character identifier component as written.
func (v CursorValue) IDString() string {
	_, id, _ := strings.Cut(v.value, "|")
	return id
}

// ID parses the identifier component. It fails if the component is not a
// canonical ID spelling.
func (v CursorValue) ID() (ID, error) {
	return ParseID(v.IDString())
}

// Compare returns -1, 0 or +1 following the key order.
func (v CursorValue) Compare(other CursorValue) int {
	return strings.Compare(v.value, other.value)
}

// IsZero reports whether v is unset.
func (v CursorValue) IsZero() bool {
	return v.value == ""
}

// String returns the textual key.
func (v CursorValue) String() string {
	return v.value
}

// MarshalText implements encoding.TextMarshaler.
func (v CursorValue) MarshalText() ([]byte, error) {
	return []byte(v.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *CursorValue) UnmarshalText(text []byte) error {
	parsed, err := ParseCursorValue(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Value implements driver.Valuer.
func (v CursorValue) Value() (driver.Value, error) {
	return v.value, nil
}

// Scan implements sql.Scanner.
func (v *CursorValue) Scan(src any) error {
	switch s := src.(type) {
	case string:
		return v.UnmarshalText([]byte(s))
	case []byte:
		return v.UnmarshalText(s)
	default:
		return newValidationError(CodeInvalidCursorValue, fmt.Sprintf("%T", src),
			fmt.Errorf("unsupported scan source"))
	}
}

// Direction tells the pager which way to walk from a cursor.
type Direction byte

const (
	// Next asks for the page of entries strictly older than the cursor.
	Next Direction = '>'

	// Prev asks for the page of entries strictly newer than the cursor.
	Prev Direction = '<'
)

// String returns the one-character marker.
func (d Direction) String() string {
	return string(rune(d))
}

// Cursor is an opaque resume token: padded base64url of "<dir>|<value>".
//
// Tokens are safe in URL paths. In query strings the '=' padding must be
// percent-encoded by the caller.
type Cursor struct {
	token     string
	direction Direction
	value     CursorValue
}

// EncodeCursor mints a token for v. d must be Next or Prev.
func EncodeCursor(v CursorValue, d Direction) Cursor {
	if d != Next && d != Prev {
		panic(fmt.Sprintf("fields: invalid cursor direction %q", byte(d)))
	}
	payload := d.String() + "|" + v.String()
	return Cursor{
		token:     base64.URLEncoding.EncodeToString([]byte(payload)),
		direction: d,
		value:     v,
	}
}

// ParseCursor decodes and validates a token. Only the canonical encoding
// EncodeCursor produces is accepted.
func ParseCursor(token string) (Cursor, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, newValidationError(CodeInvalidCursor, token, err)
	}
	if base64.URLEncoding.EncodeToString(raw) != token {
		return Cursor{}, newValidationError(CodeInvalidCursor, token, fmt.Errorf("non-canonical encoding"))
	}
	payload := string(raw)
	if !cursorPayloadRegex.MatchString(payload) {
		return Cursor{}, newValidationError(CodeInvalidCursor, token, nil)
	}
	return Cursor{
		token:     token,
		direction: Direction(payload[0]),
		value:     CursorValue{value: payload[2:]},
	}, nil
}

// Value returns the boundary key.
func (c Cursor) Value() CursorValue {
	return c.value
}

// Direction returns the traversal direction.
func (c Cursor) Direction() Direction {
	return c.direction
}

// IsNext reports whether the cursor asks for older entries.
func (c Cursor) IsNext() bool {
	return c.direction == Next
}

// IsPrev reports whether the cursor asks for newer entries.
func (c Cursor) IsPrev() bool {
	return c.direction == Prev
}

// String returns the opaque token.
func (c Cursor) String() string {
	return c.token
}

// MarshalText implements encoding.TextMarshaler.
func (c Cursor) MarshalText() ([]byte, error) {
	return []byte(c.token), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Cursor) UnmarshalText(text []byte) error {
	parsed, err := ParseCursor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
