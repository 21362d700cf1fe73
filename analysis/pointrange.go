package analysis

import (
	"bytes"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
)

type PointRange struct {
	StartPoint sitter.Point
	EndPoint   sitter.Point
	StartByte  uint32
	EndByte    uint32
}

func FromNode(n *sitter.Node) PointRange {
	return PointRange{
		StartPoint: n.StartPoint(),
		EndPoint:   n.EndPoint(),
		StartByte:  n.StartByte(),
		EndByte:    n.EndByte(),
	}
}

// FromOffsets builds a range over src, computing rows and columns in bytes.
// Offsets past the end of src are clamped.
func FromOffsets(src []byte, start, end int) PointRange {
	start = min(max(start, 0), len(src))
	end = min(max(end, start), len(src))

	sb, err := safecast.Conv[uint32](start)
	if err != nil {
		sb = 0
	}
	eb, err := safecast.Conv[uint32](end)
	if err != nil {
		eb = sb
	}
	return PointRange{
		StartPoint: pointAt(src, start),
		EndPoint:   pointAt(src, end),
		StartByte:  sb,
		EndByte:    eb,
	}
}

func pointAt(src []byte, offset int) sitter.Point {
	head := src[:offset]
	row := bytes.Count(head, []byte{'\n'})
	col := offset - (bytes.LastIndexByte(head, '\n') + 1)

	r, _ := safecast.Conv[uint32](row)
	c, _ := safecast.Conv[uint32](col)
	return sitter.Point{Row: r, Column: c}
}

func (p PointRange) Contains(start, end uint32) bool {
	return p.StartByte <= start && end <= p.EndByte
}
