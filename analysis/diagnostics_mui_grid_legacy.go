package analysis

import (
	sitter "github.com/smacker/go-tree-sitter"
)

const gridSource = "@mui/material/Grid"

type DiagnosticsMUIGridLegacy struct{}

func (DiagnosticsMUIGridLegacy) Key() string     { return "no-grid-legacy" }
func (DiagnosticsMUIGridLegacy) Tier() Tier      { return Advisory }
func (DiagnosticsMUIGridLegacy) Fixable() bool   { return false }
func (DiagnosticsMUIGridLegacy) Kinds() []string { return []string{"import_statement"} }

// Analyze flags a default Grid import whose local name is still rendered with
// item or breakpoint props. In v7 that name resolves to the new Grid, which
// ignores them.
func (DiagnosticsMUIGridLegacy) Analyze(pass *Pass, stmt *sitter.Node) {
	source, _, ok := StringValue(ImportSource(stmt), pass.Body)
	if !ok || source != gridSource {
		return
	}
	specs, ok := ImportSpecifiers(stmt, pass.Body)
	if !ok {
		return
	}
	for _, s := range specs {
		if s.Kind != SpecifierDefault || !pass.LegacyGridUsage(s.Local) {
			continue
		}
		pass.Report(Report{
			Node:      stmt,
			MessageID: "gridLegacy",
			Params: map[string]string{
				"local":  s.Local,
				"source": source,
			},
			Verdict: Withhold(WithheldNoCanonical),
		})
	}
}
