// Package segment implements the source segmenter (spec.md §4.A): it
// partitions raw source text into Comment/String/Error ranges, leaving
// everything else implicitly Unknown, without ever failing.
package segment

import (
	"strings"

	"github.com/waverly-lang/bct/byterange"
	"github.com/waverly-lang/bct/srctext"
	"github.com/waverly-lang/bct/text"
)

// Range is a half-open byte range within a segmented document; its kind is
// given by the list it appears in.
type Range = byterange.Range

// Doc is a Text together with three non-overlapping, ascending-ordered
// range lists. Bytes not covered by any list are implicitly Unknown.
type Doc struct {
	Text     *text.Text
	Comments []Range
	Strings  []Range
	Errors   []Range
}

// Config selects which characters can start a comment or a string, and how
// each is parsed once found. The zero Config is invalid; use Default().
type Config struct {
	CommentStartChars string
	StringStartChars  string
	ParseComment      func(s string) ParseResult
	ParseString       func(s string) ParseResult
}

// ParseResult is the outcome of attempting to parse a comment or string
// starting at the front of s.
//
//   - Matched == false: s's leading character isn't actually a valid start
//     here after all (e.g. a lone '/' not followed by '*'); the segmenter
//     should advance a single byte and keep scanning.
//   - Matched == true, IsError == false: N bytes form a well-formed range.
//   - Matched == true, IsError == true: N bytes form an unterminated
//     (but still total) range, reported as an Error range.
type ParseResult struct {
	Matched bool
	IsError bool
	N       int
}

// Default returns the default configuration: line comments start with '%',
// nested block comments start with "/*", strings start with '"'.
func Default() Config {
	return Config{
		CommentStartChars: "%/",
		StringStartChars:  `"`,
		ParseComment:       parseComment,
		ParseString:        parseString,
	}
}

// Segment runs the segmenter over src using the default configuration.
func Segment(src srctext.Source) *Doc {
	return SegmentWith(src, Default())
}

// SegmentWith runs the segmenter over src using an explicit configuration.
func SegmentWith(src srctext.Source, cfg Config) *Doc {
	all := src.Text()
	startChars := cfg.CommentStartChars + cfg.StringStartChars

	doc := &Doc{Text: text.New(all)}
	pos := 0

	for {
		remaining := all[pos:]
		idx := strings.IndexAny(remaining, startChars)
		if idx < 0 {
			break
		}
		pos += idx
		at := all[pos:]

		ch := at[0]
		var matched bool
		if strings.IndexByte(cfg.CommentStartChars, ch) >= 0 {
			if res := cfg.ParseComment(at); res.Matched {
				matched = true
				end := pos + res.N
				if res.IsError {
					doc.Errors = append(doc.Errors, Range{Start: pos, End: end})
				} else {
					doc.Comments = append(doc.Comments, Range{Start: pos, End: end})
				}
				pos = end
			}
		}
		if !matched && strings.IndexByte(cfg.StringStartChars, ch) >= 0 {
			if res := cfg.ParseString(at); res.Matched {
				matched = true
				end := pos + res.N
				if res.IsError {
					doc.Errors = append(doc.Errors, Range{Start: pos, End: end})
				} else {
					doc.Strings = append(doc.Strings, Range{Start: pos, End: end})
				}
				pos = end
			}
		}

		if !matched {
			// The start char didn't actually begin a comment or string here
			// (e.g. a bare '/'); skip past it and keep scanning.
			pos++
		}
	}

	return doc
}

func parseComment(s string) ParseResult {
	switch {
	case s[0] == '%':
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			return ParseResult{Matched: true, N: nl}
		}
		return ParseResult{Matched: true, N: len(s)}
	case len(s) >= 2 && s[0] == '/' && s[1] == '*':
		return parseNestedComment(s)
	case s[0] == '/':
		return ParseResult{Matched: false}
	default:
		return ParseResult{Matched: false}
	}
}

func parseString(s string) ParseResult {
	if s[0] != '"' {
		return ParseResult{Matched: false}
	}
	if end := strings.IndexByte(s[1:], '"'); end >= 0 {
		return ParseResult{Matched: true, N: end + 2}
	}
	return ParseResult{Matched: true, IsError: true, N: len(s)}
}

// parseNestedComment matches a "/* ... */" comment, tracking a stack so
// "/*" and "*/" nest correctly. Overlapping markers (the "/*/**/*/" case,
// where the middle "*/" and "/*" share no byte) are handled by scanning
// strictly-increasing, non-adjacent marker positions: an opener and closer
// whose occurrences overlap by one byte ("/*/ " at position i, i+1) do not
// both count as separate markers.
func parseNestedComment(s string) ParseResult {
	type marker struct {
		pos   int
		open  bool
	}

	var markers []marker
	prevEnd := -1
	for i := 0; i+1 < len(s); i++ {
		if prevEnd > i {
			continue
		}
		if s[i] == '/' && s[i+1] == '*' {
			markers = append(markers, marker{pos: i, open: true})
			prevEnd = i + 2
		} else if s[i] == '*' && s[i+1] == '/' {
			markers = append(markers, marker{pos: i, open: false})
			prevEnd = i + 2
		}
	}

	depth := 0
	for _, m := range markers {
		if m.open {
			depth++
			continue
		}
		depth--
		if depth == 0 {
			return ParseResult{Matched: true, N: m.pos + 2}
		}
	}

	return ParseResult{Matched: true, IsError: true, N: len(s)}
}
