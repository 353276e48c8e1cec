package srctext_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waverly-lang/bct/srctext"
)

func TestFromString(t *testing.T) {
	src := srctext.FromString("hello")
	assert.Equal(t, "hello", src.Text())
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mod.bl")
	require.NoError(t, os.WriteFile(path, []byte("a :- b."), 0o644))

	src, err := srctext.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a :- b.", src.Text())
}

func TestFromFileMissing(t *testing.T) {
	_, err := srctext.FromFile("/does/not/exist")
	assert.Error(t, err)
}

func TestDigestStable(t *testing.T) {
	d1 := srctext.DigestOf(srctext.FromString("abc"))
	d2 := srctext.DigestOf(srctext.FromString("abc"))
	d3 := srctext.DigestOf(srctext.FromString("abd"))

	assert.Equal(t, d1, d2)
	assert.NotEqual(t, d1, d3)
	assert.Len(t, d1.String(), 64)
}
