package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waverly-lang/bct/text"
)

func TestSubTextStr(t *testing.T) {
	tx := text.New("hello world")
	st, err := tx.Sub(6, 11)
	require.NoError(t, err)
	assert.Equal(t, "world", st.Str())
	assert.Equal(t, 5, st.Len())
}

func TestSubTextInvalidRange(t *testing.T) {
	tx := text.New("abc")

	_, err := tx.Sub(2, 1)
	assert.Error(t, err)

	_, err = tx.Sub(0, 10)
	assert.Error(t, err)
}

func TestSubTextRuneBoundary(t *testing.T) {
	tx := text.New("aéb") // 'é' is 2 bytes (0xC3 0xA9)
	_, err := tx.Sub(0, 2)     // splits the 'é'
	assert.Error(t, err)

	st, err := tx.Sub(0, 3)
	require.NoError(t, err)
	assert.Equal(t, "aé", st.Str())
}

func TestSubTextNested(t *testing.T) {
	tx := text.New("abcdef")
	outer := tx.AsSub()
	inner, err := outer.Sub(2, 4)
	require.NoError(t, err)
	assert.Equal(t, "cd", inner.Str())

	_, err = inner.Sub(0, 6)
	assert.Error(t, err)
}
