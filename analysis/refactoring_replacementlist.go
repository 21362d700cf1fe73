package analysis

import (
	"bytes"
	"fmt"
	"sort"
)

type replacementlist []TextEdit

func (replacements replacementlist) sorted() replacementlist {
	out := make(replacementlist, len(replacements))
	copy(out, replacements)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	return out
}

// applyTo splices the replacements into sdata. Insertions at an offset are
// applied before a replacement that starts at the same offset.
func (replacements replacementlist) applyTo(sdata []byte) ([]byte, error) {
	var b bytes.Buffer
	b.Grow(len(sdata))

	cursor := 0
	for _, replacement := range replacements.sorted() {
		start, end := int(replacement.Start), int(replacement.End)
		if end < start || end > len(sdata) {
			return nil, fmt.Errorf("%w: [%d, %d) in %d bytes", ErrEditOutOfRange, start, end, len(sdata))
		}
		if start < cursor {
			return nil, fmt.Errorf("%w: [%d, %d) starts before %d", ErrEditOverlap, start, end, cursor)
		}

		b.Write(sdata[cursor:start])
		b.WriteString(replacement.NewText)
		cursor = end
	}
	b.Write(sdata[cursor:])

	return b.Bytes(), nil
}
