package analysis

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// paletteUtilities are palette members that are not CSS variables and have
// no counterpart under theme.vars.
var paletteUtilities = map[string]bool{
	"mode":              true,
	"augmentColor":      true,
	"getContrastText":   true,
	"contrastThreshold": true,
	"tonalOffset":       true,
}

type DiagnosticsMUIThemeVars struct{}

func (DiagnosticsMUIThemeVars) Key() string   { return "prefer-theme-vars" }
func (DiagnosticsMUIThemeVars) Tier() Tier    { return Advisory }
func (DiagnosticsMUIThemeVars) Fixable() bool { return true }
func (DiagnosticsMUIThemeVars) Kinds() []string {
	return []string{"member_expression", "subscript_expression"}
}

// outermostChain climbs from n to the last member access that has n's chain
// as its object.
func outermostChain(n *sitter.Node) *sitter.Node {
	for {
		p := n.Parent()
		if !isMemberAccess(p) {
			return n
		}
		obj := p.ChildByFieldName("object")
		if obj == nil || obj.StartByte() != n.StartByte() || obj.EndByte() != n.EndByte() {
			return n
		}
		n = p
	}
}

func (DiagnosticsMUIThemeVars) Analyze(pass *Pass, n *sitter.Node) {
	if !MemberChain(n, "theme", "palette", pass.Body) {
		return
	}
	if paletteUtilities[MemberProperty(n, pass.Body)] {
		return
	}

	chain := outermostChain(n)
	if p := chain.Parent(); p != nil && p.Type() == "call_expression" {
		if fn := p.ChildByFieldName("function"); fn != nil && fn.StartByte() == chain.StartByte() {
			return
		}
	}
	if InsideTernaryOn(n, "theme.vars", pass.Body) {
		return
	}
	if strings.Contains(pass.Text(EnclosingExpression(n)), "theme.vars!") {
		return
	}

	palette := n.ChildByFieldName("object").ChildByFieldName("property")
	text := pass.Text(chain)
	rel := palette.StartByte() - chain.StartByte()

	pass.Report(Report{
		Node:      chain,
		MessageID: "themeVars",
		Params: map[string]string{
			"chain":      text,
			"suggestion": text[:rel] + "vars." + text[rel:],
		},
		Edits:   []TextEdit{Insert(palette.StartByte(), "vars.")},
		Verdict: Allow(),
	})
}
