package analysis

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

var slotRenames = []struct{ from, to string }{
	{"components", "slots"},
	{"componentsProps", "slotProps"},
}

// slotComponents are the MUI components that accepted components and
// componentsProps in v6.
var slotComponents = map[string]bool{
	"Autocomplete":     true,
	"Avatar":           true,
	"AvatarGroup":      true,
	"Backdrop":         true,
	"Badge":            true,
	"ButtonBase":       true,
	"Checkbox":         true,
	"Chip":             true,
	"DataGrid":         true,
	"FilledInput":      true,
	"FormControlLabel": true,
	"Input":            true,
	"InputBase":        true,
	"Menu":             true,
	"Modal":            true,
	"OutlinedInput":    true,
	"Pagination":       true,
	"PaginationItem":   true,
	"Popover":          true,
	"Popper":           true,
	"Radio":            true,
	"Rating":           true,
	"Select":           true,
	"Slider":           true,
	"StepLabel":        true,
	"Switch":           true,
	"TablePagination":  true,
	"TextField":        true,
	"Tooltip":          true,
	"Typography":       true,
}

type DiagnosticsMUISlotsAPI struct{}

func (DiagnosticsMUISlotsAPI) Key() string   { return "prefer-slots-api" }
func (DiagnosticsMUISlotsAPI) Tier() Tier    { return Advisory }
func (DiagnosticsMUISlotsAPI) Fixable() bool { return true }
func (DiagnosticsMUISlotsAPI) Kinds() []string {
	return []string{"jsx_opening_element", "jsx_self_closing_element"}
}

func (DiagnosticsMUISlotsAPI) Analyze(pass *Pass, el *sitter.Node) {
	tag, name, foreign := pass.ComponentTag(el)
	if tag == nil || !slotComponents[name] || foreign {
		return
	}

	var props, replacements, targets []string
	var edits []TextEdit
	for _, rename := range slotRenames {
		attr := FindAttribute(el, rename.from, pass.Body)
		if attr == nil {
			continue
		}
		props = append(props, rename.from)
		replacements = append(replacements, rename.to)
		targets = append(targets, rename.to)
		edits = append(edits, Replace(attr.NamedChild(0), rename.to))
	}
	if len(props) == 0 {
		return
	}

	pass.Report(Report{
		Node:      el,
		MessageID: "slotsApi",
		Params: map[string]string{
			"component":    name,
			"props":        strings.Join(props, " and "),
			"replacements": strings.Join(replacements, " and "),
		},
		Edits:   edits,
		Verdict: ClassifyRename(el, targets, pass.Body),
	})
}
