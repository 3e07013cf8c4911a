package fields

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strings"
)

var (
	mimeTypeRegex  = regexp.MustCompile(`^[a-z]+/[a-z0-9+.\-]+(;\s?[a-zA-Z0-9+.\-]+=[a-zA-Z0-9+.\-]+)*$`)
	mimeParamSpace = regexp.MustCompile(`;\s`)
)

// MimeType is a validated "type/subtype[;name=value]*" media type.
//
// The empty MimeType is a permitted sentinel meaning "unknown". Values are
// kept in normalized form (no whitespace after ';'), so == compares the
// normalized strings.
type MimeType struct {
	value string
}

// ParseMimeType validates s against the media type grammar.
func ParseMimeType(s string) (MimeType, error) {
	if s == "" {
		return MimeType{}, nil
	}
	if !mimeTypeRegex.MatchString(s) {
		return MimeType{}, newValidationError(CodeInvalidMimeType, s, nil)
	}
	return MimeType{value: mimeParamSpace.ReplaceAllString(s, ";")}, nil
}

// MustParseMimeType is like ParseMimeType but panics on invalid input.
func MustParseMimeType(s string) MimeType {
	mt, err := ParseMimeType(s)
	if err != nil {
		panic(err)
	}
	return mt
}

// Type returns the top-level type ("text" in "text/plain").
func (m MimeType) Type() string {
	typ, _, _ := strings.Cut(m.essence(), "/")
	return typ
}

// Subtype returns the subtype ("plain" in "text/plain").
func (m MimeType) Subtype() string {
	_, sub, _ := strings.Cut(m.essence(), "/")
	return sub
}

// Params returns the parameters as a fresh map. Later duplicates win.
func (m MimeType) Params() map[string]string {
	params := make(map[string]string)
	parts := strings.Split(m.value, ";")
	for _, p := range parts[1:] {
		k, v, _ := strings.Cut(p, "=")
		params[k] = v
	}
	return params
}

// IsEmpty reports whether m is the empty sentinel.
func (m MimeType) IsEmpty() bool {
	return m.value == ""
}

// Equal reports whether both values have the same normalized form.
func (m MimeType) Equal(other MimeType) bool {
	return m.value == other.value
}

// String returns the normalized form.
func (m MimeType) String() string {
	return m.value
}

func (m MimeType) essence() string {
	essence, _, _ := strings.Cut(m.value, ";")
	return essence
}

// MarshalText implements encoding.TextMarshaler.
func (m MimeType) MarshalText() ([]byte, error) {
	return []byte(m.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MimeType) UnmarshalText(text []byte) error {
	parsed, err := ParseMimeType(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer.
func (m MimeType) Value() (driver.Value, error) {
	return m.value, nil
}

// Scan implements sql.Scanner.
func (m *MimeType) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = MimeType{}
		return nil
	case string:
		return m.UnmarshalText([]byte(v))
	case []byte:
		return m.UnmarshalText(v)
	default:
		return newValidationError(CodeInvalidMimeType, fmt.Sprintf("%T", src),
			fmt.Errorf("unsupported scan source"))
	}
}
