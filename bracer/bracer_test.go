package bracer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waverly-lang/bct/bracer"
	"github.com/waverly-lang/bct/chunk"
	"github.com/waverly-lang/bct/lexer"
	"github.com/waverly-lang/bct/segment"
	"github.com/waverly-lang/bct/srctext"
)

// buildTree lexes s as a single chunk and runs the bracer over its tokens.
func buildTree(t *testing.T, s string) *bracer.Tree {
	t.Helper()
	doc := segment.Segment(srctext.FromString(s))
	chunks := chunk.Split(doc)
	require.Len(t, chunks, 1, "fixture %q should not contain a chunk anchor", s)
	return bracer.Build(lexer.Lex(chunks[0]))
}

func dbglex(t *testing.T, s string) string {
	t.Helper()
	return bracer.DebugStr(buildTree(t, s).Iter())
}

func TestBracerFixtures(t *testing.T) {
	cases := map[string]string{
		" ":          "ws",
		"a b":        "a ws b",
		"a\nb":       "a ws b",
		"()":         "( )",
		"{}":         "{ }",
		"())":        "( )",
		"(})":        "( )",
		"(()":        "( ( ) )",
		"({)":        "( { } )",
		")":          "",
		"))})":       "",
		"(({(":       "( ( { ( ) } ) )",
		"a(b)c":      "a ( b ) c",
		"a(b(c":      "a ( b ( c ) )",
		"a)b)c":      "a b c",
		"(a}b}c)":    "( a b c )",
		"[]":         "[ ]",
		"<>":         "< >",
		"a[b]c":      "a [ b ] c",
		"a<b>c":      "a < b > c",
		"([{<>}])":   "( [ { < > } ] )",
		"{(}":        "{ ( ) }",
		"{[}":        "{ [ ] }",
		"{<}":        "{ < > }",
		"([)":        "( [ ] )",
		"(<)":        "( < > )",
		"[<]":        "[ < > ]",
	}

	for in, want := range cases {
		assert.Equal(t, want, dbglex(t, in), "input %q", in)
	}
}

func TestBracerRemovedCloses(t *testing.T) {
	cases := map[string]string{
		"a)b":    "a b",
		"a}b":    "a b",
		"a]b":    "a b",
		"a>b":    "a b",
		"a)}]>b": "a b",
		"(a}b)":  "( a b )",
		"(a}b}c)": "( a b c )",
		"(a))":   "( a )",
		"(a)})":  "( a )",
		"((a)})": "( ( a ) )",
	}

	for in, want := range cases {
		assert.Equal(t, want, dbglex(t, in), "input %q", in)
	}
}

// firstBranch finds the first branch a tree's top-level iterator yields.
func firstBranch(tree *bracer.Tree) (*bracer.Iter, bool) {
	it := tree.Iter()
	for {
		tt, ok := it.Next()
		if !ok {
			return nil, false
		}
		if tt.Branch != nil {
			return tt.Branch, true
		}
	}
}

func TestBracerTextSpan(t *testing.T) {
	cases := []struct {
		in, spanned    string
		start, end int
	}{
		{"(a)", "(a)", 0, 3},
		{"()", "()", 0, 2},
		{"x(a)", "(a)", 1, 4},
		{"(a", "(a", 0, 2},
		{"((a))", "((a))", 0, 5},
		{"[x]", "[x]", 0, 3},
		{"{y}", "{y}", 0, 3},
		{"<z>", "<z>", 0, 3},
	}

	for _, c := range cases {
		tree := buildTree(t, c.in)
		branch, ok := firstBranch(tree)
		require.True(t, ok, "input %q should contain a branch", c.in)
		span, ok := branch.TextSpan()
		require.True(t, ok, "input %q branch should report a text span", c.in)
		assert.Equal(t, c.spanned, span.Text, "input %q", c.in)
		assert.Equal(t, c.start, span.Range.Start, "input %q start", c.in)
		assert.Equal(t, c.end, span.Range.End, "input %q end", c.in)
	}
}

func TestBracerWithoutSpace(t *testing.T) {
	tree := buildTree(t, "a b (c)")

	var tokens []bracer.TreeToken
	it := tree.Iter()
	for {
		tt, ok := it.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tt)
	}
	require.Len(t, tokens, 5, "a, ws, b, ws, branch(c)")

	_, ok := tokens[0].WithoutSpace()
	assert.True(t, ok, "word token should survive WithoutSpace")

	_, ok = tokens[1].WithoutSpace()
	assert.False(t, ok, "whitespace token should be dropped by WithoutSpace")

	_, ok = tokens[4].WithoutSpace()
	assert.True(t, ok, "branch should always survive WithoutSpace")
}
