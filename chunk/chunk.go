// Package chunk implements the chunker (spec.md §4.B): it splits a
// segmented document's Unknown regions at configurable anchor characters,
// producing a sequence of chunks whose segmented ranges are rewritten
// chunk-local.
package chunk

import (
	"strings"

	"github.com/waverly-lang/bct/byterange"
	"github.com/waverly-lang/bct/segment"
	"github.com/waverly-lang/bct/text"
)

// Range is a chunk-local byte range.
type Range = byterange.Range

// Chunk is one piece of a chunked document: its own Text, plus the
// segmented ranges that fall within it, translated to be relative to the
// chunk's own start.
type Chunk struct {
	Text     *text.Text
	Comments []Range
	Strings  []Range
	Errors   []Range
}

// Set is an ordered sequence of chunks whose concatenation reproduces the
// source byte-for-byte.
type Set = []*Chunk

// Ranges returns the chunk's ranges in ascending order, with Unknown gaps
// materialized, exactly like segment.Doc.Ranges.
func (c *Chunk) Ranges() []segment.KindRange {
	return segment.MergeRanges(c.Text.Len(), c.Comments, c.Strings, c.Errors)
}

// Config controls which characters can start a chunk boundary within an
// Unknown region, and how many bytes each one consumes.
type Config struct {
	// ChunkStartChars lists the characters that may begin a chunk split.
	ChunkStartChars string
	// TryChunk is called with the remaining text starting at a matched
	// anchor character. It returns how many bytes the anchor consumes and
	// whether it actually splits here; a false result means the scan skips
	// a single byte and keeps looking within the same Unknown region.
	TryChunk func(s string) (n int, ok bool)
}

// Default returns the default configuration: chunks split on '.', each
// consuming exactly one byte.
func Default() Config {
	return Config{
		ChunkStartChars: ".",
		TryChunk:        basicTryChunk,
	}
}

func basicTryChunk(s string) (int, bool) {
	return 1, true
}

// Split chunks doc using the default configuration.
func Split(doc *segment.Doc) Set {
	return SplitWith(doc, Default())
}

// SplitWith chunks doc using an explicit configuration. Only the Unknown
// regions of doc are scanned for anchor characters; comment, string, and
// error ranges pass through untouched, attributed to whichever chunk their
// bytes end up in.
func SplitWith(doc *segment.Doc, cfg Config) Set {
	textAll := doc.Text.Bytes()

	commentIdx, stringIdx, errorIdx := 0, 0, 0
	chunkStart := 0
	position := 0
	var wipComments, wipStrings, wipErrors []Range
	var chunks []*Chunk

	collect := func(ranges []segment.Range, idx *int, wip *[]Range) {
		for *idx < len(ranges) && ranges[*idx].Start < position {
			*wip = append(*wip, ranges[*idx].Shift(-chunkStart))
			*idx++
		}
	}
	collectRanges := func() {
		collect(doc.Comments, &commentIdx, &wipComments)
		collect(doc.Strings, &stringIdx, &wipStrings)
		collect(doc.Errors, &errorIdx, &wipErrors)
	}

	pushChunk := func(eatBytes int) {
		position += eatBytes
		collectRanges()
		chunkText := textAll[chunkStart:position]
		if len(chunkText) > 0 {
			chunks = append(chunks, &Chunk{
				Text:     text.New(chunkText),
				Comments: wipComments,
				Strings:  wipStrings,
				Errors:   wipErrors,
			})
			wipComments, wipStrings, wipErrors = nil, nil, nil
		}
		chunkStart = position
	}

	for _, kr := range doc.Ranges() {
		if kr.Kind != segment.KindUnknown {
			continue
		}
		position = kr.Range.Start

		for {
			remaining := textAll[position:kr.Range.End]
			idx := strings.IndexAny(remaining, cfg.ChunkStartChars)
			if idx < 0 {
				position = kr.Range.End
				break
			}
			position += idx

			n, ok := cfg.TryChunk(textAll[position:])
			if ok {
				pushChunk(n)
			} else {
				position++
			}
		}
	}

	pushChunk(len(textAll) - position)
	return chunks
}
