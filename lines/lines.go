// Package lines implements the line view (spec.md §4.E): it splits a
// bracer tree's top-level token stream into consecutive, non-overlapping
// lines, where a line ends at the first whitespace token whose text
// contains a newline (the terminator is included in that line). A newline
// inside a branch never splits a line — branches are opaque to this view.
package lines

import (
	"strings"

	"github.com/waverly-lang/bct/bracer"
	"github.com/waverly-lang/bct/lexer"
)

// Lines iterates a bracer.Iter one line at a time. Each call to Next
// drains whatever remains of the previous line before starting the next,
// so callers are never required to fully consume a Line themselves.
type Lines struct {
	it  *bracer.Iter
	cur *Line
}

// Over returns a Lines view of it. It consumes it directly; nothing else
// should read from it afterwards.
func Over(it *bracer.Iter) *Lines {
	return &Lines{it: it}
}

// Next returns the next line, or false once the underlying tree iterator
// is exhausted.
func (l *Lines) Next() (*Line, bool) {
	if l.cur != nil {
		l.cur.drain()
	}

	first, ok := l.it.Next()
	if !ok {
		l.cur = nil
		return nil, false
	}

	line := &Line{it: l.it, pending: &first}
	l.cur = line
	return line, true
}

// Line yields the TreeTokens belonging to one line, lazily: it never
// buffers more than the single token it is about to return.
type Line struct {
	it      *bracer.Iter
	pending *bracer.TreeToken
	done    bool
}

// Next returns the line's next token, or false once the line's
// terminating newline (or the tree's end) has been reached.
func (ln *Line) Next() (bracer.TreeToken, bool) {
	if ln.done {
		return bracer.TreeToken{}, false
	}

	var tt bracer.TreeToken
	if ln.pending != nil {
		tt = *ln.pending
		ln.pending = nil
	} else {
		var ok bool
		tt, ok = ln.it.Next()
		if !ok {
			ln.done = true
			return bracer.TreeToken{}, false
		}
	}

	if isWhitespaceNewline(tt) {
		ln.done = true
	}
	return tt, true
}

func (ln *Line) drain() {
	for {
		if _, ok := ln.Next(); !ok {
			return
		}
	}
}

func isWhitespaceNewline(tt bracer.TreeToken) bool {
	if tt.Branch != nil {
		return false
	}
	return tt.Token.Kind == lexer.KindWhitespace && strings.Contains(tt.Token.Str(), "\n")
}
