package fields

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Timestamp is a signed count of microseconds since the Unix epoch (UTC).
type Timestamp struct {
	us int64
}

// TimestampFromMicros wraps a microsecond count.
func TimestampFromMicros(us int64) Timestamp {
	return Timestamp{us: us}
}

// microsRange bounds the magnitude of a microsecond count held in an int64.
const microsRange = 1 << 63

// TimestampFromSeconds converts fractional seconds, truncating toward zero.
// NaN, infinities and values whose microsecond count does not fit in an
// int64 are rejected.
func TimestampFromSeconds(sec float64) (Timestamp, error) {
	us := sec * 1e6
	if math.IsNaN(us) || math.Abs(us) >= microsRange {
		return Timestamp{}, newValidationError(CodeInvalidTimestamp,
			strconv.FormatFloat(sec, 'g', -1, 64), fmt.Errorf("seconds out of range"))
	}
	return Timestamp{us: int64(us)}, nil
}

// TimestampFromTime converts a time.Time at microsecond resolution.
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp{us: t.UnixMicro()}
}

// ParseTimestamp parses a free-form date string.
//
// Accepted inputs include RFC 3339 with optional fraction and offset,
// "2006/01/02 15:04:05", RFC 1123 and most other common layouts. Inputs
// without a zone are interpreted as UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, newValidationError(CodeInvalidTimestamp, s, fmt.Errorf("empty string"))
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return Timestamp{}, newValidationError(CodeInvalidTimestamp, s, err)
	}
	return TimestampFromTime(t), nil
}

// Now returns the current UTC time at microsecond resolution.
func Now() Timestamp {
	return TimestampFromTime(time.Now())
}

// Micros returns the microsecond count.
func (t Timestamp) Micros() int64 {
	return t.us
}

// Millis returns the millisecond count, truncated toward zero.
func (t Timestamp) Millis() int64 {
	return t.us / 1000
}

// Time returns the UTC calendar time.
func (t Timestamp) Time() time.Time {
	return time.UnixMicro(t.us).UTC()
}

// IsZero reports whether t is the epoch.
func (t Timestamp) IsZero() bool {
	return t.us == 0
}

// Before reports whether t is strictly earlier than u.
func (t Timestamp) Before(u Timestamp) bool {
	return t.us < u.us
}

// Add returns t shifted by d, truncated to microseconds.
func (t Timestamp) Add(d time.Duration) Timestamp {
	return Timestamp{us: t.us + d.Microseconds()}
}

// String returns the RFC 3339 form with microseconds.
func (t Timestamp) String() string {
	return t.Time().Format("2006-01-02T15:04:05.000000Z07:00")
}

// MarshalJSON encodes the timestamp as integer microseconds.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, t.us, 10), nil
}

// UnmarshalJSON accepts integer microseconds, fractional seconds or a date
// string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return newValidationError(CodeInvalidTimestamp, string(data), err)
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}
	if bytes.ContainsAny(data, ".eE") {
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return newValidationError(CodeInvalidTimestamp, string(data), err)
		}
		parsed, err := TimestampFromSeconds(f)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}
	us, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return newValidationError(CodeInvalidTimestamp, string(data), err)
	}
	*t = TimestampFromMicros(us)
	return nil
}

// Value implements driver.Valuer as integer microseconds.
func (t Timestamp) Value() (driver.Value, error) {
	return t.us, nil
}

// Scan implements sql.Scanner for integer and time columns.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Timestamp{}
	case int64:
		*t = TimestampFromMicros(v)
	case time.Time:
		*t = TimestampFromTime(v)
	case []byte:
		us, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return newValidationError(CodeInvalidTimestamp, string(v), err)
		}
		*t = TimestampFromMicros(us)
	default:
		return newValidationError(CodeInvalidTimestamp, fmt.Sprintf("%T", src),
			fmt.Errorf("unsupported scan source"))
	}
	return nil
}
