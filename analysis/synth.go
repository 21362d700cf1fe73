package analysis

import (
	"errors"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

var errNoCanonical = errors.New("no canonical rewrite")

var breakpointNames = []string{"xs", "sm", "md", "lg", "xl"}

func isBreakpoint(name string) bool {
	for _, bp := range breakpointNames {
		if bp == name {
			return true
		}
	}
	return false
}

type breakpointAttr struct {
	Name  string
	Attr  *sitter.Node
	Value Literal
}

// sizeValue renders a breakpoint literal as the value it takes inside size.
// true means "fill the remaining space", which v7 spells "grow".
func sizeValue(lit Literal) (string, bool) {
	switch lit.Kind {
	case LiteralNumber, LiteralString:
		return lit.Text, true
	case LiteralTrue, LiteralImplicit:
		return `"grow"`, true
	}
	return "", false
}

// sizeAttribute builds the size attribute from breakpoints in source order.
// A single breakpoint gives a scalar value.
func sizeAttribute(bps []breakpointAttr) (string, error) {
	if len(bps) == 0 {
		return "", errNoCanonical
	}
	if len(bps) == 1 {
		bp := bps[0]
		v, ok := sizeValue(bp.Value)
		if !ok {
			return "", errNoCanonical
		}
		if bp.Value.Kind == LiteralImplicit || (bp.Value.Kind == LiteralString && !bp.Value.Braced) {
			return "size=" + v, nil
		}
		return "size={" + v + "}", nil
	}

	var b strings.Builder
	b.WriteString("size={{ ")
	for i, bp := range bps {
		v, ok := sizeValue(bp.Value)
		if !ok {
			return "", errNoCanonical
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(bp.Name)
		b.WriteString(": ")
		b.WriteString(v)
	}
	b.WriteString(" }}")
	return b.String(), nil
}

// SynthesizeSizeProp removes the v6 attributes of a Grid element, each with
// its leading whitespace, and inserts the merged size attribute right after
// the tag name.
func SynthesizeSizeProp(src []byte, tag *sitter.Node, removals []*sitter.Node, bps []breakpointAttr) ([]TextEdit, error) {
	edits := make([]TextEdit, 0, len(removals)+1)
	for _, attr := range removals {
		edits = append(edits, RemovalWithLeadingSpace(src, attr, tag.EndByte()))
	}
	if len(bps) > 0 {
		prop, err := sizeAttribute(bps)
		if err != nil {
			return nil, err
		}
		edits = append(edits, Insert(tag.EndByte(), " "+prop))
	}
	return edits, nil
}

func specifierText(imported, local string) string {
	if imported == local {
		return imported
	}
	return imported + " as " + local
}

func isTypeImport(stmt *sitter.Node) bool {
	for i := 0; i < int(stmt.ChildCount()); i++ {
		c := stmt.Child(i)
		if c.Type() == "type" && !c.IsNamed() {
			return true
		}
	}
	return false
}

// renderNamedImport renders an import of names from source, keeping the
// quote character and terminator of the statement it replaces.
func renderNamedImport(stmt *sitter.Node, src []byte, names []string, source string, quote byte) string {
	var b strings.Builder
	b.WriteString("import ")
	if isTypeImport(stmt) {
		b.WriteString("type ")
	}
	b.WriteString("{ ")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(" } from ")
	b.WriteByte(quote)
	b.WriteString(source)
	b.WriteByte(quote)
	if strings.HasSuffix(strings.TrimRight(stmt.Content(src), " \t"), ";") {
		b.WriteByte(';')
	}
	return b.String()
}
