package analysis

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// grid2Renames maps the exports of the Grid2 entry points to their v7 names
// in @mui/material.
var grid2Renames = map[string]string{
	"Grid2":                "Grid",
	"Grid2Props":           "GridProps",
	"Grid2TypeMap":         "GridTypeMap",
	"Grid2Slots":           "GridSlots",
	"Grid2ClassKey":        "GridClassKey",
	"Grid2Classes":         "GridClasses",
	"grid2Classes":         "gridClasses",
	"getGrid2UtilityClass": "getGridUtilityClass",
}

type DiagnosticsMUIUnstableGrid struct{}

func (DiagnosticsMUIUnstableGrid) Key() string     { return "no-unstable-grid" }
func (DiagnosticsMUIUnstableGrid) Tier() Tier      { return Breaking }
func (DiagnosticsMUIUnstableGrid) Fixable() bool   { return true }
func (DiagnosticsMUIUnstableGrid) Kinds() []string { return []string{"import_statement"} }

func (DiagnosticsMUIUnstableGrid) Analyze(pass *Pass, node *sitter.Node) {
	analyzeRetiredGridImport(pass, node, "@mui/material/Unstable_Grid2", "unstableGrid")
}

type DiagnosticsMUIGrid2Import struct{}

func (DiagnosticsMUIGrid2Import) Key() string     { return "no-grid2-import" }
func (DiagnosticsMUIGrid2Import) Tier() Tier      { return Breaking }
func (DiagnosticsMUIGrid2Import) Fixable() bool   { return true }
func (DiagnosticsMUIGrid2Import) Kinds() []string { return []string{"import_statement"} }

func (DiagnosticsMUIGrid2Import) Analyze(pass *Pass, node *sitter.Node) {
	analyzeRetiredGridImport(pass, node, "@mui/material/Grid2", "grid2Import")
}

// analyzeRetiredGridImport rewrites an import of a removed Grid2 entry point
// into a named import from @mui/material. Local bindings are kept, so the
// rest of the file is untouched.
func analyzeRetiredGridImport(pass *Pass, stmt *sitter.Node, retired, messageID string) {
	src := ImportSource(stmt)
	source, quote, ok := StringValue(src, pass.Body)
	if !ok || source != retired {
		return
	}

	params := map[string]string{
		"source": source,
		"local":  "Grid",
	}

	specs, ok := ImportSpecifiers(stmt, pass.Body)
	if !ok {
		params["symbols"] = "Grid"
		pass.Report(Report{Node: stmt, MessageID: messageID, Params: params, Verdict: Withhold(WithheldSyntaxError)})
		return
	}

	verdict := ClassifyImport(stmt)
	var names, symbols []string
	for _, s := range specs {
		switch s.Kind {
		case SpecifierDefault:
			params["local"] = s.Local
			names = append(names, specifierText("Grid", s.Local))
			symbols = append(symbols, "Grid")
		case SpecifierNamed:
			to, known := grid2Renames[s.Imported]
			if !known {
				verdict = verdict.Then(func() Verdict { return Withhold(WithheldUnknownSymbol) })
				symbols = append(symbols, s.Imported)
				continue
			}
			names = append(names, specifierText(to, s.Local))
			symbols = append(symbols, to)
		case SpecifierNamespace:
			verdict = verdict.Then(func() Verdict { return Withhold(WithheldNoCanonical) })
			symbols = append(symbols, "Grid")
		}
	}
	if len(specs) == 0 {
		verdict = verdict.Then(func() Verdict { return Withhold(WithheldNoCanonical) })
		symbols = append(symbols, "Grid")
	}
	params["symbols"] = strings.Join(symbols, ", ")

	var edits []TextEdit
	if verdict.Allowed() {
		edits = []TextEdit{Replace(stmt, renderNamedImport(stmt, pass.Body, names, "@mui/material", quote))}
	}

	pass.Report(Report{
		Node:      stmt,
		MessageID: messageID,
		Params:    params,
		Edits:     edits,
		Verdict:   verdict,
	})
}
