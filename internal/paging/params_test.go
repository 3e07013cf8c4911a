package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenbun-app/kenbundata/internal/fields"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-5))
	assert.Equal(t, 1, NormalizeLimit(1))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))

	assert.Equal(t, Params{Cursor: "x", Limit: DefaultLimit}, Params{Cursor: "x"}.Normalize())
}

func TestParams_ParsedCursor(t *testing.T) {
	c, err := Params{}.ParsedCursor()
	require.NoError(t, err)
	assert.Nil(t, c)

	token := "PnwxNjc0Mzk3NzY0NDc5fHoxZERMb0NlUTFPdHZaMWNEWE00YUE="
	c, err = Params{Cursor: token}.ParsedCursor()
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, c.IsNext())
	assert.Equal(t, "1674397764479|z1dDLoCeQ1OtvZ1cDXM4aA", c.Value().String())

	_, err = Params{Cursor: "not-base64!!"}.ParsedCursor()
	assert.ErrorIs(t, err, fields.ErrInvalidCursor)
}

func TestBound_Admits(t *testing.T) {
	v := fields.MustParseCursorValue("0000000002000|BBBBBBBBBBBBBBBBBBBBBB")
	older := fields.MustParseCursorValue("0000000001000|CCCCCCCCCCCCCCCCCCCCCC")
	newer := fields.MustParseCursorValue("0000000002000|CCCCCCCCCCCCCCCCCCCCCC")

	lt := Bound{Op: LessThan, Value: v}
	assert.True(t, lt.Admits(older))
	assert.False(t, lt.Admits(v))
	assert.False(t, lt.Admits(newer))

	gt := Bound{Op: GreaterThan, Value: v}
	assert.True(t, gt.Admits(newer))
	assert.False(t, gt.Admits(v))
	assert.False(t, gt.Admits(older))

	assert.Equal(t, "<", LessThan.String())
	assert.Equal(t, ">", GreaterThan.String())
	assert.Equal(t, "DESC", Descending.String())
	assert.Equal(t, "ASC", Ascending.String())
}
