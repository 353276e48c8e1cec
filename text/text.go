// Package text provides the immutable text handles shared by every stage of
// the lexing pipeline: a Text owns a string, and SubText is a cheap
// half-open byte-range view into one.
package text

import (
	"fmt"
	"unicode/utf8"
)

// Text is an opaque owner of an immutable string.
type Text struct {
	s string
}

// New wraps s as a Text. The caller must not mutate s afterwards (Go strings
// are immutable, so this holds automatically as long as s isn't rebuilt from
// a mutable byte slice that's later written to).
func New(s string) *Text {
	return &Text{s: s}
}

// Bytes returns the owned string.
func (t *Text) Bytes() string {
	return t.s
}

// Len returns the byte length of the owned string.
func (t *Text) Len() int {
	return len(t.s)
}

// AsSub returns a SubText spanning the entire text.
func (t *Text) AsSub() SubText {
	return SubText{owner: t, start: 0, end: len(t.s)}
}

// Sub returns a SubText over [start, end) of t, or an error if the range is
// out of bounds or does not fall on rune boundaries.
func (t *Text) Sub(start, end int) (SubText, error) {
	if err := checkRange(t.s, start, end); err != nil {
		return SubText{}, err
	}
	return SubText{owner: t, start: start, end: end}, nil
}

// MustSub is Sub but panics on an invalid range. Reserved for call sites
// that derive the range from the text itself and can never fail in
// practice (every stage in this module computes ranges that way).
func (t *Text) MustSub(start, end int) SubText {
	st, err := t.Sub(start, end)
	if err != nil {
		panic(err)
	}
	return st
}

// SubText is a half-open byte range [Start, End) into an owning Text.
type SubText struct {
	owner      *Text
	start, end int
}

// Owner returns the Text this SubText is a view into.
func (st SubText) Owner() *Text {
	return st.owner
}

// Range returns the half-open [start, end) byte range.
func (st SubText) Range() (start, end int) {
	return st.start, st.end
}

// Len returns the byte length of the sub-range.
func (st SubText) Len() int {
	return st.end - st.start
}

// Str returns the substring text.
func (st SubText) Str() string {
	return st.owner.s[st.start:st.end]
}

// Sub returns a SubText over [start, end) relative to the *owning text*
// (not relative to st), re-validated against st's own bounds.
func (st SubText) Sub(start, end int) (SubText, error) {
	if start < st.start || end > st.end {
		return SubText{}, fmt.Errorf("text: range [%d,%d) escapes parent range [%d,%d)", start, end, st.start, st.end)
	}
	if err := checkRange(st.owner.s, start, end); err != nil {
		return SubText{}, err
	}
	return SubText{owner: st.owner, start: start, end: end}, nil
}

func checkRange(s string, start, end int) error {
	if start < 0 || end < start || end > len(s) {
		return fmt.Errorf("text: invalid range [%d,%d) for text of length %d", start, end, len(s))
	}
	if start != len(s) && !utf8.RuneStart(s[start]) {
		return fmt.Errorf("text: start %d is not a rune boundary", start)
	}
	if end != len(s) && !utf8.RuneStart(s[end]) {
		return fmt.Errorf("text: end %d is not a rune boundary", end)
	}
	return nil
}
