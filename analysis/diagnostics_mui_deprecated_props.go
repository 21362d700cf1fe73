package analysis

import (
	sitter "github.com/smacker/go-tree-sitter"
)

var backdropClickComponents = map[string]bool{
	"Dialog": true,
	"Modal":  true,
}

var removedComponents = map[string]bool{
	"Hidden":        true,
	"PigmentHidden": true,
}

type DiagnosticsMUIDeprecatedProps struct{}

func (DiagnosticsMUIDeprecatedProps) Key() string   { return "no-deprecated-props" }
func (DiagnosticsMUIDeprecatedProps) Tier() Tier    { return Breaking }
func (DiagnosticsMUIDeprecatedProps) Fixable() bool { return true }
func (DiagnosticsMUIDeprecatedProps) Kinds() []string {
	return []string{"jsx_opening_element", "jsx_self_closing_element"}
}

func (DiagnosticsMUIDeprecatedProps) Analyze(pass *Pass, el *sitter.Node) {
	tag, name, foreign := pass.ComponentTag(el)
	if tag == nil || foreign {
		return
	}

	switch {
	case removedComponents[name]:
		pass.Report(Report{
			Node:      el,
			MessageID: "hiddenComponent",
			Params:    map[string]string{"component": name},
			Verdict:   Withhold(WithheldNoCanonical),
		})

	case backdropClickComponents[name]:
		attr := FindAttribute(el, "onBackdropClick", pass.Body)
		if attr == nil {
			return
		}
		pass.Report(Report{
			Node:      attr,
			MessageID: "backdropClick",
			Params:    map[string]string{"component": name},
			Verdict:   Withhold(WithheldNoCanonical),
		})

	case name == "InputLabel":
		attr := FindAttribute(el, "size", pass.Body)
		if attr == nil {
			return
		}
		lit, ok := SimpleLiteral(attr, pass.Body)
		if !ok || lit.Kind != LiteralString {
			return
		}
		value, _, ok := StringValue(lit.Token, pass.Body)
		if !ok || value != "normal" {
			return
		}
		pass.Report(Report{
			Node:      attr,
			MessageID: "inputLabelSize",
			Params:    map[string]string{"value": value},
			Edits:     []TextEdit{ReplaceStringContents(lit.Token, "medium")},
			Verdict:   Allow(),
		})
	}
}
