package fields

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_Views(t *testing.T) {
	ts := TimestampFromMicros(1674397764479000)

	assert.Equal(t, int64(1674397764479000), ts.Micros())
	assert.Equal(t, int64(1674397764479), ts.Millis())
	assert.Equal(t, time.Date(2023, 1, 22, 14, 29, 24, 479000000, time.UTC), ts.Time())
	assert.Equal(t, "2023-01-22T14:29:24.479000Z", ts.String())
}

func TestTimestamp_MillisTruncates(t *testing.T) {
	assert.Equal(t, int64(1), TimestampFromMicros(1999).Millis())
	assert.Equal(t, int64(0), TimestampFromMicros(999).Millis())
}

func TestTimestampFromTime_DropsNanos(t *testing.T) {
	tm := time.Date(2023, 1, 22, 14, 29, 24, 479000123, time.UTC)
	assert.Equal(t, int64(1674397764479000), TimestampFromTime(tm).Micros())
}

func TestTimestampFromSeconds(t *testing.T) {
	ts, err := TimestampFromSeconds(1.5)
	require.NoError(t, err)
	assert.Equal(t, int64(1500000), ts.Micros())

	ts, err = TimestampFromSeconds(1674397764)
	require.NoError(t, err)
	assert.Equal(t, int64(1674397764000000), ts.Micros())

	ts, err = TimestampFromSeconds(-1.5)
	require.NoError(t, err)
	assert.Equal(t, int64(-1500000), ts.Micros())
}

func TestTimestampFromSeconds_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		sec  float64
	}{
		{"nan", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
		{"huge", 1e300},
		{"huge negative", -1e300},
		{"micros written as exponent", 1.674397764479e+15},
		{"just past int64", 9223372036855},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TimestampFromSeconds(tt.sec)
			assert.ErrorIs(t, err, ErrInvalidTimestamp)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"rfc3339 millis zulu", "2023-01-22T14:29:24.422Z", 1674397764422000},
		{"rfc3339 offset", "2023-01-22T23:29:24.422+09:00", 1674397764422000},
		{"slash layout", "2023/02/12 12:21:12", 1676204472000000},
		{"naive iso is utc", "2009-04-16T15:50:36", 1239897036000000},
		{"surrounding space", "  2023-01-22T14:29:24.422Z ", 1674397764422000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Micros())
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "not a date", "2023-13-45T99:99:99Z"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTimestamp(input)
			assert.ErrorIs(t, err, ErrInvalidTimestamp)
		})
	}
}

func TestTimestamp_Ordering(t *testing.T) {
	a := TimestampFromMicros(1)
	b := TimestampFromMicros(2)

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
	assert.Equal(t, b, a.Add(time.Microsecond))
	assert.Equal(t, a, a.Add(time.Nanosecond))
}

func TestTimestamp_IsZero(t *testing.T) {
	assert.True(t, Timestamp{}.IsZero())
	assert.False(t, TimestampFromMicros(1).IsZero())
}

func TestTimestamp_JSON(t *testing.T) {
	data, err := json.Marshal(TimestampFromMicros(1674397764479000))
	require.NoError(t, err)
	assert.Equal(t, "1674397764479000", string(data))

	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"integer micros", `1674397764479000`, 1674397764479000},
		{"fractional seconds", `1674397764.5`, 1674397764500000},
		{"exponent seconds", `1.5e0`, 1500000},
		{"date string", `"2023-01-22T14:29:24.422Z"`, 1674397764422000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got.Micros())
		})
	}
}

func TestTimestamp_JSONNullLeavesValue(t *testing.T) {
	got := TimestampFromMicros(42)
	require.NoError(t, json.Unmarshal([]byte(`null`), &got))
	assert.Equal(t, int64(42), got.Micros())
}

func TestTimestamp_JSONInvalid(t *testing.T) {
	var got Timestamp
	assert.ErrorIs(t, json.Unmarshal([]byte(`"yesterday-ish"`), &got), ErrInvalidTimestamp)
	assert.Error(t, json.Unmarshal([]byte(`true`), &got))
}

func TestTimestamp_JSONRejectsOverflow(t *testing.T) {
	for _, input := range []string{`1e300`, `-1e300`, `1.674397764479e+15`} {
		t.Run(input, func(t *testing.T) {
			got := TimestampFromMicros(42)
			assert.ErrorIs(t, json.Unmarshal([]byte(input), &got), ErrInvalidTimestamp)
			assert.Equal(t, int64(42), got.Micros())
		})
	}
}

func TestTimestamp_SQL(t *testing.T) {
	ts := TimestampFromMicros(1674397764479000)

	v, err := ts.Value()
	require.NoError(t, err)
	assert.Equal(t, int64(1674397764479000), v)

	var scanned Timestamp
	require.NoError(t, scanned.Scan(int64(1674397764479000)))
	assert.Equal(t, ts, scanned)

	require.NoError(t, scanned.Scan([]byte("1674397764479000")))
	assert.Equal(t, ts, scanned)

	require.NoError(t, scanned.Scan(ts.Time()))
	assert.Equal(t, ts, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())

	assert.ErrorIs(t, scanned.Scan("1674397764479000"), ErrInvalidTimestamp)
	assert.ErrorIs(t, scanned.Scan([]byte("abc")), ErrInvalidTimestamp)
}
