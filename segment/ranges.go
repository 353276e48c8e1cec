package segment

import "sort"

// Kind tags a range of bytes within a segmented document or chunk.
type Kind int

const (
	KindUnknown Kind = iota
	KindComment
	KindString
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindString:
		return "string"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// KindRange pairs a range with the segment kind it was classified as.
type KindRange struct {
	Range Range
	Kind  Kind
}

// MergeRanges interleaves three disjoint, ascending-sorted range lists
// (comments, strings, errors) over a text of the given total length,
// filling every gap between them with an Unknown range. The result covers
// [0, length) exactly once.
func MergeRanges(length int, comments, strings_, errors []Range) []KindRange {
	type tagged struct {
		r Range
		k Kind
	}

	items := make([]tagged, 0, len(comments)+len(strings_)+len(errors))
	for _, r := range comments {
		items = append(items, tagged{r, KindComment})
	}
	for _, r := range strings_ {
		items = append(items, tagged{r, KindString})
	}
	for _, r := range errors {
		items = append(items, tagged{r, KindError})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].r.Start < items[j].r.Start
	})

	out := make([]KindRange, 0, len(items)*2+1)
	pos := 0
	for _, it := range items {
		if pos < it.r.Start {
			out = append(out, KindRange{Range: Range{Start: pos, End: it.r.Start}, Kind: KindUnknown})
		}
		out = append(out, KindRange{Range: it.r, Kind: it.k})
		pos = it.r.End
	}
	if pos < length {
		out = append(out, KindRange{Range: Range{Start: pos, End: length}, Kind: KindUnknown})
	}
	return out
}

// Ranges returns the document's ranges in ascending order, with implicit
// Unknown gaps materialized between the classified ones.
func (d *Doc) Ranges() []KindRange {
	return MergeRanges(d.Text.Len(), d.Comments, d.Strings, d.Errors)
}
