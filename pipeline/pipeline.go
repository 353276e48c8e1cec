// Package pipeline wires the segmenter, chunker, tokenizer, bracer, and
// line view into one memoized whole (spec.md §2/§5, SPEC_FULL.md §4.J):
// a Database exposes one method per stage, each a thin cached wrapper
// around the corresponding package-level pure function.
package pipeline

import (
	"github.com/waverly-lang/bct/bracer"
	"github.com/waverly-lang/bct/chunk"
	"github.com/waverly-lang/bct/lexer"
	"github.com/waverly-lang/bct/lines"
	"github.com/waverly-lang/bct/memo"
	"github.com/waverly-lang/bct/segment"
	"github.com/waverly-lang/bct/srctext"
)

// defaultCapacity bounds each stage's cache the way spec.md §5 asks an
// "outer coordinator" to bound memory; Database plays that role.
const defaultCapacity = 256

// Database bundles one memoized cache per pipeline stage. It holds no
// other state: discarding a Database and building a fresh one only costs
// the re-warming of its caches, matching §5's "storage is owned by the
// incremental substrate."
type Database struct {
	segment *memo.Store[srctext.Digest, *segment.Doc]
	chunk   *memo.Store[chunkKey, chunk.Set]
	lex     *memo.Store[srctext.Digest, lexer.ChunkLex]
	bracer  *memo.Store[srctext.Digest, *bracer.Tree]
}

// NewDatabase returns an empty Database.
func NewDatabase() *Database {
	return &Database{
		segment: memo.New[srctext.Digest, *segment.Doc](defaultCapacity),
		chunk:   memo.New[chunkKey, chunk.Set](defaultCapacity),
		lex:     memo.New[srctext.Digest, lexer.ChunkLex](defaultCapacity),
		bracer:  memo.New[srctext.Digest, *bracer.Tree](defaultCapacity),
	}
}

// Segment runs the source segmenter, memoized by the source's digest.
func (db *Database) Segment(src srctext.Source) *segment.Doc {
	key := srctext.DigestOf(src)
	return db.segment.GetOrCompute(key, func() *segment.Doc {
		return segment.Segment(src)
	})
}

// chunkKey additionally folds in the anchor-character set, since two
// configurations over the same document can chunk it differently.
// TryChunk itself is a closure and cannot participate in a comparable
// cache key; callers that vary TryChunk's behavior without also varying
// ChunkStartChars should bypass the cache (call chunk.SplitWith directly).
type chunkKey struct {
	doc     srctext.Digest
	anchors string
}

// Chunk runs the chunker, memoized by the document's digest and cfg's
// anchor-character set.
func (db *Database) Chunk(doc *segment.Doc, cfg chunk.Config) chunk.Set {
	key := chunkKey{doc: srctext.DigestString(doc.Text.Bytes()), anchors: cfg.ChunkStartChars}
	return db.chunk.GetOrCompute(key, func() chunk.Set {
		return chunk.SplitWith(doc, cfg)
	})
}

// Lex runs the tokenizer over one chunk, memoized by the chunk's text
// digest.
func (db *Database) Lex(c *chunk.Chunk) lexer.ChunkLex {
	key := srctext.DigestString(c.Text.Bytes())
	return db.lex.GetOrCompute(key, func() lexer.ChunkLex {
		return lexer.Lex(c)
	})
}

// Bracer runs the bracer over one chunk's tokens, memoized by the
// underlying chunk text's digest (every token in cl shares that chunk as
// its owning Text, so hashing it identifies cl uniquely).
func (db *Database) Bracer(cl lexer.ChunkLex) *bracer.Tree {
	key := srctext.DigestString(chunkLexText(cl))
	return db.bracer.GetOrCompute(key, func() *bracer.Tree {
		return bracer.Build(cl)
	})
}

func chunkLexText(cl lexer.ChunkLex) string {
	if len(cl) == 0 {
		return ""
	}
	return cl[0].Text.Owner().Bytes()
}

// Lines builds the line view over a tree. Unlike the other stages this is
// not memoized: a *lines.Lines is a live cursor over t, not a value, so
// caching it would hand out an already-partially-consumed iterator on a
// second call.
func (db *Database) Lines(t *bracer.Tree) *lines.Lines {
	return lines.Over(t.Iter())
}
