package analysis

import sitter "github.com/smacker/go-tree-sitter"

// WithheldReason says why a matched pattern was reported without edits.
type WithheldReason string

const (
	WithheldNone          WithheldReason = ""
	WithheldSpread        WithheldReason = "spread-attribute"
	WithheldDynamicValue  WithheldReason = "dynamic-value"
	WithheldAmbiguousName WithheldReason = "ambiguous-name"
	WithheldConflict      WithheldReason = "conflicting-attribute"
	WithheldUnknownSymbol WithheldReason = "unknown-symbol"
	WithheldSyntaxError   WithheldReason = "syntax-error"
	WithheldInvalidEdits  WithheldReason = "invalid-edits"
	WithheldNoCanonical   WithheldReason = "no-canonical-rewrite"
)

type Verdict struct {
	Reason WithheldReason
}

func Allow() Verdict {
	return Verdict{}
}

func Withhold(reason WithheldReason) Verdict {
	return Verdict{Reason: reason}
}

func (v Verdict) Allowed() bool {
	return v.Reason == WithheldNone
}

// Then returns v when it already withholds, otherwise the verdict produced
// by next.
func (v Verdict) Then(next func() Verdict) Verdict {
	if !v.Allowed() {
		return v
	}
	return next()
}

// ClassifyAttributes decides whether a rewrite of the affected attributes of
// element can be generated.
func ClassifyAttributes(element *sitter.Node, affected []*sitter.Node, src []byte) Verdict {
	if hasErrorWithin(element) {
		return Withhold(WithheldSyntaxError)
	}
	if HasSpreadAttribute(element) {
		return Withhold(WithheldSpread)
	}
	for _, attr := range affected {
		if _, ok := SimpleLiteral(attr, src); !ok {
			return Withhold(WithheldDynamicValue)
		}
	}
	return Allow()
}

// ClassifyRename gates renaming attribute names on an element. Values are
// carried over untouched, so only spreads and an existing target matter.
func ClassifyRename(element *sitter.Node, targets []string, src []byte) Verdict {
	if hasErrorWithin(element) {
		return Withhold(WithheldSyntaxError)
	}
	if HasSpreadAttribute(element) {
		return Withhold(WithheldSpread)
	}
	for _, name := range targets {
		if FindAttribute(element, name, src) != nil {
			return Withhold(WithheldConflict)
		}
	}
	return Allow()
}

// ClassifyImport gates rewrites of an import statement.
func ClassifyImport(stmt *sitter.Node) Verdict {
	if hasErrorWithin(stmt) {
		return Withhold(WithheldSyntaxError)
	}
	return Allow()
}
