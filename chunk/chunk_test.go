package chunk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waverly-lang/bct/byterange"
	"github.com/waverly-lang/bct/chunk"
	"github.com/waverly-lang/bct/segment"
	"github.com/waverly-lang/bct/srctext"
)

// fragKind tags a literal fixture fragment the way the upstream tests split
// fixtures into typed spans: plain text, comment, string, error, or a
// single '.' anchor.
type fragKind int

const (
	fragText fragKind = iota
	fragComment
	fragString
	fragError
	fragDot
)

type frag struct {
	kind fragKind
	s    string
}

func T(s string) frag { return frag{fragText, s} }
func C(s string) frag { return frag{fragComment, s} }
func S(s string) frag { return frag{fragString, s} }
func E(s string) frag { return frag{fragError, s} }

var dot = frag{fragDot, "."}

func (f frag) text() string {
	if f.kind == fragDot {
		return "."
	}
	return f.s
}

func source(frags []frag) string {
	var b []byte
	for _, f := range frags {
		b = append(b, f.text()...)
	}
	return string(b)
}

// groupByDot splits frags into runs, each ending right after a Dot (the
// last run may have no trailing Dot). This mirrors how the chunker itself
// splits an Unknown region at each anchor character.
func groupByDot(frags []frag) [][]frag {
	var groups [][]frag
	var cur []frag
	for _, f := range frags {
		cur = append(cur, f)
		if f.kind == fragDot {
			groups = append(groups, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups
}

func runChunkFixture(t *testing.T, frags []frag) {
	t.Helper()

	text := source(frags)
	doc := segment.Segment(srctext.FromString(text))
	chunks := chunk.Split(doc)
	groups := groupByDot(frags)

	require.Len(t, chunks, len(groups), "chunk count for %q", text)

	for i, group := range groups {
		c := chunks[i]
		exText := source(group)
		assert.Equal(t, exText, c.Text.Bytes(), "chunk %d text", i)

		var commentIdx, stringIdx, errorIdx int
		pos := 0
		for _, f := range group {
			s := f.text()
			want := byterange.Range{Start: pos, End: pos + len(s)}
			switch f.kind {
			case fragComment:
				if assert.Less(t, commentIdx, len(c.Comments), "chunk %d ran out of comment ranges", i) {
					assert.Equal(t, want, c.Comments[commentIdx])
					commentIdx++
				}
			case fragString:
				if assert.Less(t, stringIdx, len(c.Strings), "chunk %d ran out of string ranges", i) {
					assert.Equal(t, want, c.Strings[stringIdx])
					stringIdx++
				}
			case fragError:
				if assert.Less(t, errorIdx, len(c.Errors), "chunk %d ran out of error ranges", i) {
					assert.Equal(t, want, c.Errors[errorIdx])
					errorIdx++
				}
			}
			pos += len(s)
		}

		assert.Equal(t, len(c.Comments), commentIdx, "chunk %d leftover comment ranges", i)
		assert.Equal(t, len(c.Strings), stringIdx, "chunk %d leftover string ranges", i)
		assert.Equal(t, len(c.Errors), errorIdx, "chunk %d leftover error ranges", i)
	}
}

func TestChunkFixtures(t *testing.T) {
	cases := [][]frag{
		{T("ab"), dot, T("bdd"), C("%")},
		{T("ab"), dot, T("bdd"), C("%"), T("\n")},
		{T("ab"), dot, C("%a"), T("\nbdd"), C("%b"), T("\n"), C("%b")},
		{T("ab"), dot, T("bdd"), S(`"x"`)},
		{T("ab"), dot, T("bdd"), S(`"x"`), S(`"x"`)},
		{T("a"), dot, T("b"), dot, T("c"), dot},
		{T("ab"), E(`"x`)},
		{T("ab"), dot, T("ab"), E(`"x`)},
		{E(`"x . %`)},
		{C(`% " . "`), T("\n")},
		{S(`"% . "`)},
		{T("/ a")},
		{E("/* a")},
		{C("/* */")},
		{C("/*/**/*/")},
		{E("/*/**/ab")},
	}

	for _, frags := range cases {
		runChunkFixture(t, frags)
	}
}
