package fields

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCursorValue = "1674397764479|z1dDLoCeQ1OtvZ1cDXM4aA"
	testNextToken   = "PnwxNjc0Mzk3NzY0NDc5fHoxZERMb0NlUTFPdHZaMWNEWE00YUE="
	testPrevToken   = "PHwxNjc0Mzk3NzY0NDc5fHoxZERMb0NlUTFPdHZaMWNEWE00YUE="
)

func TestNewCursorValue(t *testing.T) {
	v, err := NewCursorValue(TimestampFromMicros(1674397764479000), MustParseID(testIDEncoded))
	require.NoError(t, err)

	assert.Equal(t, testCursorValue, v.String())
	assert.Equal(t, int64(1674397764479), v.Millis())
	assert.Equal(t, testIDEncoded, v.IDString())

	id, err := v.ID()
	require.NoError(t, err)
	assert.Equal(t, MustParseID(testUUID), id)
}

func TestNewCursorValue_PadsMillis(t *testing.T) {
	v, err := NewCursorValue(TimestampFromMicros(2_000_000), MustParseID("AAAAAAAAAAAAAAAAAAAAAA"))
	require.NoError(t, err)
	assert.Equal(t, "0000000002000|AAAAAAAAAAAAAAAAAAAAAA", v.String())
}

func TestNewCursorValue_OutOfRange(t *testing.T) {
	id := MustParseID(testIDEncoded)

	_, err := NewCursorValue(TimestampFromMicros(-1000), id)
	assert.ErrorIs(t, err, ErrInvalidCursorValue)

	_, err = NewCursorValue(TimestampFromMicros(10_000_000_000_000*1000), id)
	assert.ErrorIs(t, err, ErrInvalidCursorValue)

	v, err := NewCursorValue(TimestampFromMicros(9_999_999_999_999*1000), id)
	require.NoError(t, err)
	assert.Equal(t, int64(9_999_999_999_999), v.Millis())
}

func TestParseCursorValue_Invalid(t *testing.T) {
	for _, input := range []string{
		"",
		"12345679098|z1dDLoCeQ1OtvZ1cDXM4aA",
		"1674397764479z1dDLoCeQ1OtvZ1cDXM4aA",
		"1674397764479|z1dDLoCeQ1OtvZ1cDXM4a",
		"1674397764479|z1dDLoCeQ1OtvZ1cDXM4a+",
		"-674397764479|z1dDLoCeQ1OtvZ1cDXM4aA",
		"1674397764479|z1dDLoCeQ1OtvZ1cDXM4aA|",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseCursorValue(input)
			assert.ErrorIs(t, err, ErrInvalidCursorValue)
		})
	}
}

func TestCursorValue_OrderMatchesTuples(t *testing.T) {
	ids := []ID{
		MustParseID("AAAAAAAAAAAAAAAAAAAAAA"),
		MustParseID("BBBBBBBBBBBBBBBBBBBBBA"),
		MustParseID("CCCCCCCCCCCCCCCCCCCCCA"),
	}
	stamps := []int64{1, 999, 1000, 1674397764479000}

	var values []CursorValue
	for _, us := range stamps {
		for _, id := range ids {
			v, err := NewCursorValue(TimestampFromMicros(us), id)
			require.NoError(t, err)
			values = append(values, v)
		}
	}

	byString := append([]CursorValue(nil), values...)
	sort.Slice(byString, func(i, j int) bool { return byString[i].String() < byString[j].String() })

	byTuple := append([]CursorValue(nil), values...)
	sort.SliceStable(byTuple, func(i, j int) bool {
		if byTuple[i].Millis() != byTuple[j].Millis() {
			return byTuple[i].Millis() < byTuple[j].Millis()
		}
		return byTuple[i].IDString() < byTuple[j].IDString()
	})

	assert.Equal(t, byTuple, byString)
}

func TestCursorValue_Compare(t *testing.T) {
	a := MustParseCursorValue("0000000001000|AAAAAAAAAAAAAAAAAAAAAA")
	b := MustParseCursorValue("0000000001000|BBBBBBBBBBBBBBBBBBBBBA")
	c := MustParseCursorValue("0000000002000|AAAAAAAAAAAAAAAAAAAAAA")

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(c))
	assert.Equal(t, 1, c.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestCursorValue_IDComponentNeedNotBeCanonical(t *testing.T) {
	v, err := ParseCursorValue("0000000002000|BBBBBBBBBBBBBBBBBBBBBB")
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBBBBBBBBBBBBBBBB", v.IDString())

	_, err = v.ID()
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestCursorValue_SQL(t *testing.T) {
	v := MustParseCursorValue(testCursorValue)

	dv, err := v.Value()
	require.NoError(t, err)
	assert.Equal(t, testCursorValue, dv)

	var scanned CursorValue
	require.NoError(t, scanned.Scan([]byte(testCursorValue)))
	assert.Equal(t, v, scanned)
	assert.ErrorIs(t, scanned.Scan(int64(1)), ErrInvalidCursorValue)
}

func TestEncodeCursor_KnownTokens(t *testing.T) {
	v := MustParseCursorValue(testCursorValue)

	next := EncodeCursor(v, Next)
	assert.Equal(t, testNextToken, next.String())
	assert.True(t, next.IsNext())
	assert.False(t, next.IsPrev())

	prev := EncodeCursor(v, Prev)
	assert.Equal(t, testPrevToken, prev.String())
	assert.True(t, prev.IsPrev())
	assert.Equal(t, Prev, prev.Direction())
}

func TestEncodeCursor_PanicsOnBadDirection(t *testing.T) {
	assert.Panics(t, func() {
		EncodeCursor(MustParseCursorValue(testCursorValue), Direction('x'))
	})
}

func TestParseCursor_RoundTrip(t *testing.T) {
	v := MustParseCursorValue("0000000002000|BBBBBBBBBBBBBBBBBBBBBA")
	for _, d := range []Direction{Next, Prev} {
		c := EncodeCursor(v, d)

		parsed, err := ParseCursor(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
		assert.Equal(t, v, parsed.Value())
		assert.Equal(t, d, parsed.Direction())
	}

	assert.Equal(t, "PnwwMDAwMDAwMDAyMDAwfEJCQkJCQkJCQkJCQkJCQkJCQkJCQkE=", EncodeCursor(v, Next).String())
}

func TestParseCursor_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not base64", "not-base64!!"},
		{"empty", ""},
		// "x|1674397764479|z1dDLoCeQ1OtvZ1cDXM4aA"
		{"bad direction", "eHwxNjc0Mzk3NzY0NDc5fHoxZERMb0NlUTFPdHZaMWNEWE00YUE="},
		// ">|12345679098|z1dDLoCeQ1OtvZ1cDXM4aA"
		{"bad value", "PnwxMjM0NTY3OTA5OHx6MWRETG9DZVExT3R2WjFjRFhNNGFB"},
		{"unpadded", "PnwxNjc0Mzk3NzY0NDc5fHoxZERMb0NlUTFPdHZaMWNEWE00YUE"},
		{"std alphabet", "Pnw+Pj4+"},
		{"trailing crlf", testNextToken + "\r\n"},
		{"embedded newline", testNextToken[:20] + "\n" + testNextToken[20:]},
		{"non-canonical trailing bits", "PnwxNjc0Mzk3NzY0NDc5fHoxZERMb0NlUTFPdHZaMWNEWE00YUF="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCursor(tt.input)
			assert.ErrorIs(t, err, ErrInvalidCursor)
		})
	}
}

func TestCursor_JSON(t *testing.T) {
	type doc struct {
		Next *Cursor `json:"next"`
	}

	c := EncodeCursor(MustParseCursorValue(testCursorValue), Next)
	data, err := json.Marshal(doc{Next: &c})
	require.NoError(t, err)
	assert.JSONEq(t, `{"next":"`+testNextToken+`"}`, string(data))

	var got doc
	require.NoError(t, json.Unmarshal(data, &got))
	require.NotNil(t, got.Next)
	assert.Equal(t, c, *got.Next)
}
