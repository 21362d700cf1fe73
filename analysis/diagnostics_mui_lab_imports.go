package analysis

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

const labSource = "@mui/lab"

// movedFromLab lists the components that @mui/material exports in v7 and
// @mui/lab no longer does.
var movedFromLab = map[string]bool{
	"Alert":             true,
	"AlertTitle":        true,
	"Autocomplete":      true,
	"AvatarGroup":       true,
	"Pagination":        true,
	"PaginationItem":    true,
	"Rating":            true,
	"Skeleton":          true,
	"SpeedDial":         true,
	"SpeedDialAction":   true,
	"SpeedDialIcon":     true,
	"ToggleButton":      true,
	"ToggleButtonGroup": true,
}

// stillInLab lists components that only @mui/lab provides. Pointing a
// statement that imports one of them, or anything derived from one, at
// @mui/material would break it.
var stillInLab = map[string]bool{
	"LoadingButton": true,
	"Masonry":       true,
	"TabContext":    true,
	"TabList":       true,
	"TabPanel":      true,
	"TreeView":      true,
	"TreeItem":      true,
}

// labComponent returns the component an export is derived from:
// TabPanelProps, tabPanelClasses, TabPanelClassKey, useTabContext and
// getTabPanelUtilityClass all belong to TabPanel or TabContext.
func labComponent(name string) string {
	if rest, ok := strings.CutPrefix(name, "get"); ok {
		if root, ok := strings.CutSuffix(rest, "UtilityClass"); ok && root != "" {
			return root
		}
	}
	if rest, ok := strings.CutPrefix(name, "use"); ok && rest != "" && unicode.IsUpper(rune(rest[0])) {
		return rest
	}
	for _, suffix := range []string{"ClassKey", "Classes", "Props"} {
		if root, ok := strings.CutSuffix(name, suffix); ok && root != "" {
			name = root
			break
		}
	}
	if name != "" && unicode.IsLower(rune(name[0])) {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return name
}

func labOnly(component string) bool {
	return stillInLab[component] || strings.HasPrefix(component, "Timeline")
}

type DiagnosticsMUILabImports struct{}

func (DiagnosticsMUILabImports) Key() string     { return "no-lab-imports" }
func (DiagnosticsMUILabImports) Tier() Tier      { return Breaking }
func (DiagnosticsMUILabImports) Fixable() bool   { return true }
func (DiagnosticsMUILabImports) Kinds() []string { return []string{"import_statement"} }

// labModule returns the module segment of @mui/lab/<Module>, "" for the
// package root, and ok == false for anything else.
func labModule(source string) (string, bool) {
	if source == labSource {
		return "", true
	}
	rest, found := strings.CutPrefix(source, labSource+"/")
	if !found || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

func (DiagnosticsMUILabImports) Analyze(pass *Pass, stmt *sitter.Node) {
	src := ImportSource(stmt)
	source, _, ok := StringValue(src, pass.Body)
	if !ok {
		return
	}
	module, ok := labModule(source)
	if !ok {
		return
	}
	specs, ok := ImportSpecifiers(stmt, pass.Body)
	if !ok {
		return
	}

	var moved []string
	stays := false
	for _, s := range specs {
		name := s.Imported
		if s.Kind != SpecifierNamed {
			// default and namespace imports of @mui/lab/<Module> are
			// identified by the module path.
			if module == "" {
				continue
			}
			name = module
		}
		switch component := labComponent(name); {
		case movedFromLab[component]:
			moved = append(moved, name)
		case labOnly(component):
			stays = true
		}
	}
	if len(moved) == 0 {
		return
	}

	suggested := "@mui/material"
	if module != "" {
		suggested += "/" + module
	}

	verdict := ClassifyImport(stmt)
	if stays {
		verdict = verdict.Then(func() Verdict { return Withhold(WithheldConflict) })
	}

	pass.Report(Report{
		Node:      stmt,
		MessageID: "labImport",
		Params: map[string]string{
			"components": strings.Join(moved, ", "),
			"source":     source,
			"suggested":  suggested,
		},
		Edits:   []TextEdit{ReplaceStringContents(src, suggested)},
		Verdict: verdict,
	})
}
