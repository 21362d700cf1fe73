package analysis

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// noRootExport lists deep paths whose exports the package root does not
// re-export under the same name.
var noRootExport = []string{
	"@mui/material/colors/",
	"@mui/material/locale/",
}

// hasRootExport reports whether the symbols under source are exported from
// its package root.
func hasRootExport(source string) bool {
	for _, prefix := range noRootExport {
		if strings.HasPrefix(source, prefix) {
			return false
		}
	}
	return true
}

type DiagnosticsMUIDeepImports struct{}

func (DiagnosticsMUIDeepImports) Key() string     { return "no-deep-imports" }
func (DiagnosticsMUIDeepImports) Tier() Tier      { return Breaking }
func (DiagnosticsMUIDeepImports) Fixable() bool   { return true }
func (DiagnosticsMUIDeepImports) Kinds() []string { return []string{"import_statement", "call_expression"} }

func (r DiagnosticsMUIDeepImports) Analyze(pass *Pass, node *sitter.Node) {
	switch node.Type() {
	case "import_statement":
		r.analyzeImport(pass, node)
	case "call_expression":
		r.analyzeRequire(pass, node)
	}
}

func (DiagnosticsMUIDeepImports) analyzeImport(pass *Pass, stmt *sitter.Node) {
	src := ImportSource(stmt)
	source, quote, ok := StringValue(src, pass.Body)
	if !ok || !IsDeepImport(source, MUINamespace) {
		return
	}
	suggested := ShallowSource(source)
	component := LastSegment(source)

	params := map[string]string{
		"source":    source,
		"suggested": suggested,
		"component": component,
	}

	specs, ok := ImportSpecifiers(stmt, pass.Body)
	if !ok {
		pass.Report(Report{Node: stmt, MessageID: "deepImport", Params: params, Verdict: Withhold(WithheldSyntaxError)})
		return
	}

	verdict := ClassifyImport(stmt)
	if !hasRootExport(source) {
		verdict = verdict.Then(func() Verdict { return Withhold(WithheldNoCanonical) })
	}
	var edits []TextEdit
	switch shape := importShape(specs); shape {
	case "named":
		params["shape"] = shape
		params["component"] = joinLocals(specs)
		edits = []TextEdit{ReplaceStringContents(src, suggested)}
	case "default":
		params["shape"] = shape
		if specs[0].Local != component {
			verdict = verdict.Then(func() Verdict { return Withhold(WithheldAmbiguousName) })
			break
		}
		text := renderNamedImport(stmt, pass.Body, []string{component}, suggested, quote)
		edits = []TextEdit{Replace(stmt, text)}
	default:
		params["shape"] = shape
		verdict = verdict.Then(func() Verdict { return Withhold(WithheldNoCanonical) })
	}

	pass.Report(Report{
		Node:      stmt,
		MessageID: "deepImport",
		Params:    params,
		Edits:     edits,
		Verdict:   verdict,
	})
}

// analyzeRequire handles require("@mui/...") calls. Only a destructured
// require keeps its meaning when the path is shortened.
func (DiagnosticsMUIDeepImports) analyzeRequire(pass *Pass, call *sitter.Node) {
	src := RequireSource(call, pass.Body)
	source, _, ok := StringValue(src, pass.Body)
	if !ok || !IsDeepImport(source, MUINamespace) {
		return
	}
	suggested := ShallowSource(source)
	params := map[string]string{
		"source":    source,
		"suggested": suggested,
		"component": LastSegment(source),
	}

	verdict := Withhold(WithheldNoCanonical)
	var edits []TextEdit
	if decl := call.Parent(); decl != nil && decl.Type() == "variable_declarator" {
		if name := decl.ChildByFieldName("name"); name != nil && name.Type() == "object_pattern" && hasRootExport(source) {
			verdict = Allow()
			if destructuresDefault(name, pass.Body) {
				verdict = Withhold(WithheldAmbiguousName)
			}
			edits = []TextEdit{ReplaceStringContents(src, suggested)}
		}
	}
	if hasErrorWithin(call) {
		verdict = Withhold(WithheldSyntaxError)
	}

	pass.Report(Report{
		Node:      call,
		MessageID: "deepRequire",
		Params:    params,
		Edits:     edits,
		Verdict:   verdict,
	})
}

// destructuresDefault reports whether an object pattern reads the default
// export, which names a different value at the package root.
func destructuresDefault(pattern *sitter.Node, src []byte) bool {
	for i := 0; i < int(pattern.NamedChildCount()); i++ {
		c := pattern.NamedChild(i)
		if c.Type() != "pair_pattern" {
			continue
		}
		key := c.ChildByFieldName("key")
		if key == nil {
			continue
		}
		if nodeIs(key, src, "default") {
			return true
		}
		if v, _, ok := StringValue(key, src); ok && v == "default" {
			return true
		}
	}
	return false
}

func importShape(specs []ImportSpecifier) string {
	if len(specs) == 0 {
		return "side-effect"
	}
	var defaults, named, namespaces int
	for _, s := range specs {
		switch s.Kind {
		case SpecifierDefault:
			defaults++
		case SpecifierNamed:
			named++
		case SpecifierNamespace:
			namespaces++
		}
	}
	switch {
	case namespaces > 0:
		return "namespace"
	case defaults == 1 && named == 0:
		return "default"
	case defaults == 0 && named > 0:
		return "named"
	default:
		return "mixed"
	}
}

func joinLocals(specs []ImportSpecifier) string {
	out := ""
	for i, s := range specs {
		if i > 0 {
			out += ", "
		}
		out += s.Local
	}
	return out
}
