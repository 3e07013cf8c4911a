package fields

import (
	"database/sql/driver"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// encodedIDLen is the length of the canonical ID string: 16 bytes of
// unpadded base64url.
const encodedIDLen = 22

// idEncoding rejects non-zero trailing bits so every ID has exactly one
// accepted 22-character spelling.
var idEncoding = base64.RawURLEncoding.Strict()

// ID is a 128-bit entity identifier (UUIDv4 by convention).
//
// Two IDs are equal iff their 128 bits are equal, whichever constructor
// produced them, so ID is safe to use with == and as a map key.
type ID struct {
	u uuid.UUID
}

// NewID returns a fresh random ID.
func NewID() ID {
	return ID{u: uuid.New()}
}

// ParseID accepts the canonical 22-character base64url form or the
// 36-character hyphenated RFC 4122 form.
func ParseID(s string) (ID, error) {
	switch len(s) {
	case encodedIDLen:
		b, err := idEncoding.DecodeString(s)
		if err != nil {
			return ID{}, newValidationError(CodeInvalidIdentifier, s, err)
		}
		u, err := uuid.FromBytes(b)
		if err != nil {
			return ID{}, newValidationError(CodeInvalidIdentifier, s, err)
		}
		return ID{u: u}, nil
	case 36:
		u, err := uuid.Parse(s)
		if err != nil {
			return ID{}, newValidationError(CodeInvalidIdentifier, s, err)
		}
		return ID{u: u}, nil
	default:
		return ID{}, newValidationError(CodeInvalidIdentifier, s,
			fmt.Errorf("length %d, want %d or 36", len(s), encodedIDLen))
	}
}

// MustParseID is like ParseID but panics on invalid input.
// Intended for constants and tests.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IDFromBytes builds an ID from exactly 16 raw bytes.
func IDFromBytes(b []byte) (ID, error) {
	u, err := uuid.FromBytes(b)
	if err != nil {
		return ID{}, newValidationError(CodeInvalidIdentifier, hex.EncodeToString(b), err)
	}
	return ID{u: u}, nil
}

// IDFromUUID wraps an existing UUID.
func IDFromUUID(u uuid.UUID) ID {
	return ID{u: u}
}

// IDFromBig builds an ID from a non-negative integer below 2^128,
// interpreted big-endian.
func IDFromBig(n *big.Int) (ID, error) {
	if n == nil || n.Sign() < 0 || n.BitLen() > 128 {
		return ID{}, newValidationError(CodeInvalidIdentifier, fmt.Sprint(n),
			fmt.Errorf("integer out of 128-bit range"))
	}
	var u uuid.UUID
	n.FillBytes(u[:])
	return ID{u: u}, nil
}

// String returns the canonical 22-character form.
func (id ID) String() string {
	return idEncoding.EncodeToString(id.u[:])
}

// UUID returns the underlying UUID.
func (id ID) UUID() uuid.UUID {
	return id.u
}

// Bytes returns a copy of the 16 raw bytes.
func (id ID) Bytes() []byte {
	b := make([]byte, 16)
	copy(b, id.u[:])
	return b
}

// Hex returns the 32-character lowercase hex form without hyphens.
func (id ID) Hex() string {
	return hex.EncodeToString(id.u[:])
}

// Big returns the ID as a big-endian unsigned integer.
func (id ID) Big() *big.Int {
	return new(big.Int).SetBytes(id.u[:])
}

// IsZero reports whether id is the all-zero ID.
func (id ID) IsZero() bool {
	return id.u == uuid.Nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value implements driver.Valuer. IDs are written in hyphenated form so they
// fit native UUID columns.
func (id ID) Value() (driver.Value, error) {
	return id.u.String(), nil
}

// Scan implements sql.Scanner for textual (22 or 36 characters) and raw
// 16-byte columns.
func (id *ID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*id = ID{}
		return nil
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 16 {
			parsed, err := IDFromBytes(v)
			if err != nil {
				return err
			}
			*id = parsed
			return nil
		}
		return id.UnmarshalText(v)
	case [16]byte:
		*id = ID{u: uuid.UUID(v)}
		return nil
	default:
		return newValidationError(CodeInvalidIdentifier, fmt.Sprintf("%T", src),
			fmt.Errorf("unsupported scan source"))
	}
}
