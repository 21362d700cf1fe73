package analysis

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// renamedStyleExports are the styles aliases v7 removed.
var renamedStyleExports = map[string]string{
	"createMuiTheme":     "createTheme",
	"experimentalStyled": "styled",
}

func isStylesSource(source string) bool {
	return source == "@mui/material/styles" || source == "@mui/material"
}

type DiagnosticsMUIDeprecatedImports struct{}

func (DiagnosticsMUIDeprecatedImports) Key() string     { return "no-deprecated-imports" }
func (DiagnosticsMUIDeprecatedImports) Tier() Tier      { return Breaking }
func (DiagnosticsMUIDeprecatedImports) Fixable() bool   { return true }
func (DiagnosticsMUIDeprecatedImports) Kinds() []string { return []string{"import_statement"} }

func (DiagnosticsMUIDeprecatedImports) Analyze(pass *Pass, stmt *sitter.Node) {
	src := ImportSource(stmt)
	source, _, ok := StringValue(src, pass.Body)
	if !ok || !isStylesSource(source) {
		return
	}
	specs, ok := ImportSpecifiers(stmt, pass.Body)
	if !ok {
		return
	}

	for _, s := range specs {
		if s.Kind != SpecifierNamed {
			continue
		}
		to, renamed := renamedStyleExports[s.Imported]
		if !renamed {
			continue
		}
		spec := s.Name.Parent()
		if spec == nil || spec.Type() != "import_specifier" {
			continue
		}
		pass.Report(Report{
			Node:      spec,
			MessageID: "renamedImport",
			Params: map[string]string{
				"name":        s.Imported,
				"replacement": to,
				"source":      source,
			},
			Edits:   []TextEdit{Replace(spec, specifierText(to, s.Local))},
			Verdict: ClassifyImport(stmt),
		})
	}

	if source != "@mui/material" {
		return
	}
	for _, s := range specs {
		if s.Kind != SpecifierNamed || s.Imported != "StyledEngineProvider" {
			continue
		}
		pass.Report(Report{
			Node:      stmt,
			MessageID: "styledEngineProvider",
			Params: map[string]string{
				"source": source,
			},
			Edits:   []TextEdit{ReplaceStringContents(src, "@mui/material/styles")},
			Verdict: ClassifyImport(stmt),
		})
		return
	}
}
