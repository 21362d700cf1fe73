package analysis

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

var gridComponents = map[string]bool{
	"Grid":  true,
	"Grid2": true,
}

// gridShape is what a Grid element head carries of the v6 item API.
type gridShape struct {
	item        *sitter.Node
	breakpoints []breakpointAttr
	// affected holds item and the breakpoints in source order.
	affected  []*sitter.Node
	container bool
	size      bool
}

func (g gridShape) legacy() bool {
	return !g.container && len(g.affected) > 0
}

func inspectGrid(el *sitter.Node, src []byte) gridShape {
	var g gridShape
	for _, attr := range Attributes(el) {
		name := AttributeName(attr, src)
		switch {
		case name == "container":
			g.container = true
		case name == "size":
			g.size = true
		case name == "item":
			g.item = attr
			g.affected = append(g.affected, attr)
		case isBreakpoint(name):
			g.breakpoints = append(g.breakpoints, breakpointAttr{Name: name, Attr: attr})
			g.affected = append(g.affected, attr)
		}
	}
	return g
}

type DiagnosticsMUIGridItemProp struct{}

func (DiagnosticsMUIGridItemProp) Key() string   { return "no-grid-item-prop" }
func (DiagnosticsMUIGridItemProp) Tier() Tier    { return Breaking }
func (DiagnosticsMUIGridItemProp) Fixable() bool { return true }
func (DiagnosticsMUIGridItemProp) Kinds() []string {
	return []string{"jsx_opening_element", "jsx_self_closing_element"}
}

func (DiagnosticsMUIGridItemProp) Analyze(pass *Pass, el *sitter.Node) {
	tag, name, foreign := pass.ComponentTag(el)
	if tag == nil || !gridComponents[name] {
		return
	}
	if foreign || pass.IsGridLegacy(name) {
		return
	}

	g := inspectGrid(el, pass.Body)
	if !g.legacy() {
		return
	}

	props := make([]string, 0, len(g.affected))
	for _, attr := range g.affected {
		props = append(props, pass.Text(attr))
	}
	params := map[string]string{
		"component": name,
		"props":     strings.Join(props, " "),
	}

	verdict := ClassifyAttributes(el, g.affected, pass.Body)
	if g.size {
		verdict = verdict.Then(func() Verdict { return Withhold(WithheldConflict) })
	}
	if g.item != nil {
		verdict = verdict.Then(func() Verdict {
			if lit, _ := SimpleLiteral(g.item, pass.Body); lit.Kind != LiteralImplicit && lit.Kind != LiteralTrue {
				return Withhold(WithheldNoCanonical)
			}
			return Allow()
		})
	}

	var edits []TextEdit
	if verdict.Allowed() {
		for i := range g.breakpoints {
			g.breakpoints[i].Value, _ = SimpleLiteral(g.breakpoints[i].Attr, pass.Body)
		}
		var err error
		edits, err = SynthesizeSizeProp(pass.Body, tag, g.affected, g.breakpoints)
		if err != nil {
			verdict = Withhold(WithheldNoCanonical)
			edits = nil
		}
	}

	pass.Report(Report{
		Node:      el,
		MessageID: "gridItemProp",
		Params:    params,
		Edits:     edits,
		Verdict:   verdict,
	})
}
