package analysis

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
)

var (
	ErrEditOverlap    = errors.New("edits overlap")
	ErrEditOutOfRange = errors.New("edit outside of the rewritten element")
)

// TextEdit replaces the half-open byte range [Start, End) of the source the
// pass was run on. Start == End is an insertion.
type TextEdit struct {
	Start   uint32
	End     uint32
	NewText string
}

func (e TextEdit) IsInsertion() bool {
	return e.Start == e.End
}

func Replace(n *sitter.Node, text string) TextEdit {
	return TextEdit{Start: n.StartByte(), End: n.EndByte(), NewText: text}
}

func Insert(at uint32, text string) TextEdit {
	return TextEdit{Start: at, End: at, NewText: text}
}

func Delete(start, end uint32) TextEdit {
	return TextEdit{Start: start, End: end}
}

// ReplaceStringContents rewrites the contents of a string literal and leaves
// its quotes alone.
func ReplaceStringContents(str *sitter.Node, text string) TextEdit {
	return TextEdit{Start: str.StartByte() + 1, End: str.EndByte() - 1, NewText: text}
}

// editsConflict follows half-open range semantics. An insertion conflicts
// with a replacement only when it falls strictly inside it. Two insertions
// at the same offset conflict since their order is ambiguous.
func editsConflict(a, b TextEdit) bool {
	switch {
	case a.IsInsertion() && b.IsInsertion():
		return a.Start == b.Start
	case a.IsInsertion():
		return b.Start < a.Start && a.Start < b.End
	case b.IsInsertion():
		return a.Start < b.Start && b.Start < a.End
	default:
		return a.Start < b.End && b.Start < a.End
	}
}

// EditSetsConflict reports whether any edit of a conflicts with one of b.
func EditSetsConflict(a, b []TextEdit) bool {
	for _, x := range a {
		for _, y := range b {
			if editsConflict(x, y) {
				return true
			}
		}
	}
	return false
}

// ValidateEdits checks that the edits of one set are pairwise compatible and
// stay inside within.
func ValidateEdits(edits []TextEdit, within PointRange) error {
	for i, e := range edits {
		if e.End < e.Start {
			return fmt.Errorf("%w: inverted range [%d, %d)", ErrEditOutOfRange, e.Start, e.End)
		}
		if !within.Contains(e.Start, e.End) {
			return fmt.Errorf("%w: [%d, %d) not in [%d, %d)", ErrEditOutOfRange, e.Start, e.End, within.StartByte, within.EndByte)
		}
		for _, other := range edits[i+1:] {
			if editsConflict(e, other) {
				return fmt.Errorf("%w: [%d, %d) and [%d, %d)", ErrEditOverlap, e.Start, e.End, other.Start, other.End)
			}
		}
	}
	return nil
}

// ApplyEdits splices a validated edit set into src.
func ApplyEdits(src []byte, edits []TextEdit) ([]byte, error) {
	for i, e := range edits {
		for _, other := range edits[i+1:] {
			if editsConflict(e, other) {
				return nil, fmt.Errorf("%w: [%d, %d) and [%d, %d)", ErrEditOverlap, e.Start, e.End, other.Start, other.End)
			}
		}
	}
	return replacementlist(edits).applyTo(src)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// RemovalWithLeadingSpace deletes n together with the run of whitespace
// directly before it, never reaching below floor.
func RemovalWithLeadingSpace(src []byte, n *sitter.Node, floor uint32) TextEdit {
	start := int(n.StartByte())
	for start > int(floor) && isSpace(src[start-1]) {
		start--
	}
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		s = n.StartByte()
	}
	return Delete(s, n.EndByte())
}
