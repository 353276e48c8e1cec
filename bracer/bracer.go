// Package bracer implements the bracer (spec.md §4.D): it reorganizes a
// flat token stream into a recoverable tree by matching the four bracket
// sigil pairs, synthesizing missing closers and discarding stray ones so
// that every input yields a well-formed tree. The tree is stored as a
// pre-order-flattened set of parallel vectors (Branches, InsertedCloses,
// RemovedCloses, Errors), each branch carrying descendant counts that let
// an iterator skip an entire subtree by index arithmetic alone.
package bracer

import (
	"strings"

	"github.com/waverly-lang/bct/byterange"
	"github.com/waverly-lang/bct/lexer"
)

// Branch is one matched (or synthesized) bracket pair: a half-open index
// range into the token slice, together with the sigils that opened and
// closed it, and the number of entries each flat vector contributes to
// this branch's subtree (itself included where applicable).
type Branch struct {
	RealTokenRange byterange.Range // token-index range [open, close+1)
	Branches       int
	InsertedCloses int
	RemovedCloses  int
	Errors         int
	OpenSigil      lexer.Sigil
	CloseSigil     lexer.Sigil
}

// InsertedClose records a synthesized closer for an opener that was never
// matched, at the token index it would occupy.
type InsertedClose struct {
	Index int
	Sigil lexer.Sigil
}

// RemovedClose records a stray closer with no matching opener, at its
// original token index.
type RemovedClose struct {
	Index int
	Sigil lexer.Sigil
}

// Diagnostic is a single repair, reported as the byte range it covers and
// the sigil identifying the bracket kind involved (the opener for an
// unterminated bracket, the closer for a stray one).
type Diagnostic struct {
	ByteRange byterange.Range
	Sigil     lexer.Sigil
}

// Tree is the bracer's output: the original flat tokens, plus the four
// pre-order-flattened repair vectors.
type Tree struct {
	Tokens         []lexer.Token
	Branches       []Branch
	InsertedCloses []InsertedClose
	RemovedCloses  []RemovedClose
	Errors         []Diagnostic
}

// frame is a stack entry for one still-open bracket while building a Tree.
// Its four slices accumulate descendants in pre-order; when the frame
// closes (matched, or implicitly by an outer closer, or at end of input),
// they are merged into the parent's corresponding slices.
type frame struct {
	openIndex      int
	openSigil      lexer.Sigil
	branches       []Branch
	insertedCloses []InsertedClose
	removedCloses  []RemovedClose
	errors         []Diagnostic
}

func (f *frame) append(child *frame) {
	f.branches = append(f.branches, child.branches...)
	f.insertedCloses = append(f.insertedCloses, child.insertedCloses...)
	f.removedCloses = append(f.removedCloses, child.removedCloses...)
	f.errors = append(f.errors, child.errors...)
}

// Build runs the bracer's matching algorithm over a chunk's tokens.
func Build(tokens []lexer.Token) *Tree {
	top := &frame{openIndex: -1}
	var stack []*frame

	parent := func() *frame {
		if len(stack) == 0 {
			return top
		}
		return stack[len(stack)-1]
	}

	closeBrace := func(index int, openS, closeS lexer.Sigil) {
		seenOpen := false
		for _, f := range stack {
			if f.openSigil == openS {
				seenOpen = true
				break
			}
		}
		if !seenOpen {
			p := parent()
			p.removedCloses = append(p.removedCloses, RemovedClose{Index: index, Sigil: closeS})
			p.errors = append(p.errors, Diagnostic{ByteRange: tokenSpan(tokens, index, index+1), Sigil: closeS})
			return
		}

		for {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			p := parent()

			if f.openSigil == openS {
				p.branches = append(p.branches, Branch{
					RealTokenRange: byterange.Range{Start: f.openIndex, End: index + 1},
					Branches:       len(f.branches),
					InsertedCloses: len(f.insertedCloses),
					RemovedCloses:  len(f.removedCloses),
					Errors:         len(f.errors),
					OpenSigil:      openS,
					CloseSigil:     closeS,
				})
				p.append(f)
				return
			}

			// f's opener was never matched: the enclosing closer at index
			// implicitly terminates it. Synthesize its close and record the
			// unterminated-bracket diagnostic as part of f's own subtree.
			synthClose := f.openSigil.Close()
			f.insertedCloses = append(f.insertedCloses, InsertedClose{Index: index, Sigil: synthClose})
			f.errors = append(f.errors, Diagnostic{ByteRange: tokenSpan(tokens, f.openIndex, index), Sigil: f.openSigil})
			p.branches = append(p.branches, Branch{
				RealTokenRange: byterange.Range{Start: f.openIndex, End: index},
				Branches:       len(f.branches),
				InsertedCloses: len(f.insertedCloses),
				RemovedCloses:  len(f.removedCloses),
				Errors:         len(f.errors),
				OpenSigil:      f.openSigil,
				CloseSigil:     synthClose,
			})
			p.append(f)
		}
	}

	for index, tok := range tokens {
		if tok.Kind != lexer.KindSigil {
			continue
		}
		switch tok.Sigil {
		case lexer.ParenOpen, lexer.BraceOpen, lexer.BracketOpen, lexer.AngleOpen:
			stack = append(stack, &frame{openIndex: index, openSigil: tok.Sigil})
		case lexer.ParenClose:
			closeBrace(index, lexer.ParenOpen, lexer.ParenClose)
		case lexer.BraceClose:
			closeBrace(index, lexer.BraceOpen, lexer.BraceClose)
		case lexer.BracketClose:
			closeBrace(index, lexer.BracketOpen, lexer.BracketClose)
		case lexer.AngleClose:
			closeBrace(index, lexer.AngleOpen, lexer.AngleClose)
		}
	}

	numTokens := len(tokens)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		p := parent()

		f.insertedCloses = append(f.insertedCloses, InsertedClose{Index: numTokens, Sigil: f.openSigil.Close()})
		f.errors = append(f.errors, Diagnostic{ByteRange: tokenSpan(tokens, f.openIndex, numTokens), Sigil: f.openSigil})
		p.branches = append(p.branches, Branch{
			RealTokenRange: byterange.Range{Start: f.openIndex, End: numTokens},
			Branches:       len(f.branches),
			InsertedCloses: len(f.insertedCloses),
			RemovedCloses:  len(f.removedCloses),
			Errors:         len(f.errors),
			OpenSigil:      f.openSigil,
			CloseSigil:     f.openSigil.Close(),
		})
		p.append(f)
	}

	return &Tree{
		Tokens:         tokens,
		Branches:       top.branches,
		InsertedCloses: top.insertedCloses,
		RemovedCloses:  top.removedCloses,
		Errors:         top.errors,
	}
}

// tokenSpan converts a token-index range [start, end) into the byte range
// it covers in the source, from the start of the first token to the end
// of the last.
func tokenSpan(tokens []lexer.Token, start, end int) byterange.Range {
	s, _ := tokens[start].Text.Range()
	e := s
	if end > start {
		_, e = tokens[end-1].Text.Range()
	}
	return byterange.Range{Start: s, End: e}
}

// Iter walks a Tree (or one branch's subtree) in pre-order, yielding real
// tokens and nested branches. Close-sigil tokens are structural and never
// surface directly.
type Iter struct {
	tree *Tree

	tokenStart int
	tokenEnd   int
	branchEnd  int
	insertedEnd int
	removedEnd int

	nextToken    int
	nextBranch   int
	nextInserted int
	nextRemoved  int
}

// Iter returns an iterator over the whole tree.
func (t *Tree) Iter() *Iter {
	return &Iter{
		tree:        t,
		tokenStart:  0,
		tokenEnd:    len(t.Tokens),
		branchEnd:   len(t.Branches),
		insertedEnd: len(t.InsertedCloses),
		removedEnd:  len(t.RemovedCloses),
	}
}

// TreeToken is either a real token or a nested branch with its own
// iterator over the branch's contents.
type TreeToken struct {
	Token  *lexer.Token
	Sigil  lexer.Sigil // meaningful only when Branch != nil
	Branch *Iter
}

// Span is a byte-exact slice of source text, as exposed by a branch's
// TextSpan.
type Span struct {
	Text  string
	Range byterange.Range
}

// TextSpan returns the source text and byte range covering this subtree's
// enclosing opener through its closer, inclusive; for a branch whose closer
// was synthesized, the span ends with the last token the branch covers. It
// reports false for the top-level iterator (no enclosing brackets).
func (it *Iter) TextSpan() (Span, bool) {
	openIdx := it.tokenStart - 1
	closeIdx := it.tokenEnd - 1
	if openIdx < 0 || closeIdx < 0 || closeIdx >= len(it.tree.Tokens) {
		return Span{}, false
	}
	openTok := it.tree.Tokens[openIdx]
	closeTok := it.tree.Tokens[closeIdx]
	start, _ := openTok.Text.Range()
	_, end := closeTok.Text.Range()
	owner := openTok.Text.Owner()
	return Span{Text: owner.Bytes()[start:end], Range: byterange.Range{Start: start, End: end}}, true
}

// Next returns the next token or branch in this subtree, or false once
// the subtree is exhausted.
func (it *Iter) Next() (TreeToken, bool) {
	for {
		var nextToken *lexer.Token
		if it.nextToken < it.tokenEnd {
			nextToken = &it.tree.Tokens[it.nextToken]
		}
		var nextBranch *Branch
		if it.nextBranch < it.branchEnd {
			nextBranch = &it.tree.Branches[it.nextBranch]
		}
		var nextInserted *InsertedClose
		if it.nextInserted < it.insertedEnd {
			nextInserted = &it.tree.InsertedCloses[it.nextInserted]
		}
		var nextRemoved *RemovedClose
		if it.nextRemoved < it.removedEnd {
			nextRemoved = &it.tree.RemovedCloses[it.nextRemoved]
		}

		switch {
		case nextToken != nil && nextBranch == nil && nextRemoved == nil:
			it.nextToken++
			if !nextToken.IsCloseSigil() {
				return TreeToken{Token: nextToken}, true
			}
			continue

		case nextToken != nil && nextBranch == nil && nextRemoved != nil:
			switch {
			case it.nextToken < nextRemoved.Index:
				it.nextToken++
				return TreeToken{Token: nextToken}, true
			case it.nextToken == nextRemoved.Index:
				it.nextToken++
				it.nextRemoved++
				continue
			default:
				panic("bracer: removed close index fell behind the iteration cursor")
			}

		case nextToken != nil && nextBranch != nil:
			switch {
			case it.nextToken < nextBranch.RealTokenRange.Start:
				it.nextToken++
				return TreeToken{Token: nextToken}, true
			case it.nextToken == nextBranch.RealTokenRange.Start:
				it.nextToken++
				it.nextBranch++

				childTokenStart := nextBranch.RealTokenRange.Start + 1
				childBranchStart := it.nextBranch
				childInsertedStart := it.nextInserted
				childRemovedStart := it.nextRemoved

				it.nextToken = nextBranch.RealTokenRange.End
				it.nextBranch += nextBranch.Branches
				it.nextInserted += nextBranch.InsertedCloses
				it.nextRemoved += nextBranch.RemovedCloses

				child := &Iter{
					tree:         it.tree,
					tokenStart:   childTokenStart,
					tokenEnd:     nextBranch.RealTokenRange.End,
					branchEnd:    it.nextBranch,
					insertedEnd:  it.nextInserted,
					removedEnd:   it.nextRemoved,
					nextToken:    childTokenStart,
					nextBranch:   childBranchStart,
					nextInserted: childInsertedStart,
					nextRemoved:  childRemovedStart,
				}

				// Exiting the branch may have jumped the cursor past stray
				// closes recorded inside it; drop them so the parent
				// doesn't reprocess a removed close behind its position.
				for it.nextRemoved < it.removedEnd && it.tree.RemovedCloses[it.nextRemoved].Index < it.nextToken {
					it.nextRemoved++
				}

				return TreeToken{Sigil: nextBranch.OpenSigil, Branch: child}, true
			default:
				panic("bracer: branch start fell behind the iteration cursor")
			}

		case nextToken == nil && nextBranch != nil:
			panic("bracer: branch recorded past the end of the token stream")

		case nextToken == nil && nextInserted != nil:
			it.nextInserted++
			continue

		case nextToken == nil && nextRemoved != nil:
			panic("bracer: dangling removed close past the end of the token stream")

		default:
			return TreeToken{}, false
		}
	}
}

// WithoutSpace drops whitespace tokens, passing branches through
// unchanged. It reports false when tt was a whitespace token.
func (tt TreeToken) WithoutSpace() (TreeToken, bool) {
	if tt.Branch != nil {
		return tt, true
	}
	if tt.Token.Kind == lexer.KindWhitespace {
		return TreeToken{}, false
	}
	return tt, true
}

// DebugStr renders an iterator's output as a flat, whitespace-separated
// string: words and strings print literally, sigils print their lexeme,
// whitespace/comment/error tokens print as "ws"/"cmt"/"err", and branches
// print as "<open> <contents> <close>". Intended for tests and the tree
// subcommand, not for round-tripping source.
func DebugStr(it *Iter) string {
	var b strings.Builder
	writeIter(&b, it)
	return b.String()
}

func writeIter(b *strings.Builder, it *Iter) {
	first := true
	for {
		tt, ok := it.Next()
		if !ok {
			break
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false

		if tt.Branch != nil {
			b.WriteString(tt.Sigil.String())
			b.WriteByte(' ')
			var inner strings.Builder
			writeIter(&inner, tt.Branch)
			innerStr := inner.String()
			b.WriteString(innerStr)
			if innerStr != "" {
				b.WriteByte(' ')
			}
			b.WriteString(tt.Sigil.Close().String())
			continue
		}

		b.WriteString(debugTokenStr(tt.Token))
	}
}

func debugTokenStr(t *lexer.Token) string {
	switch t.Kind {
	case lexer.KindWord, lexer.KindString:
		return t.Str()
	case lexer.KindSigil:
		return t.Sigil.String()
	case lexer.KindWhitespace:
		return "ws"
	case lexer.KindComment:
		return "cmt"
	case lexer.KindError:
		return "err"
	default:
		return "?"
	}
}
