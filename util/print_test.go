package util

import (
	"bytes"
	"testing"

	"mui-v7-lint/analysis"
)

func TestDiagnostic(t *testing.T) {
	body := []byte("const a = 1;\n  <Grid item xs={6} />\n")
	d := analysis.Diagnostic{
		Range:   analysis.FromOffsets(body, 15, 35),
		Key:     "no-grid-item-prop",
		Message: "Grid no longer takes item",
		Edits:   []analysis.TextEdit{{Start: 21, End: 33, NewText: "size={6}"}},
	}

	var out bytes.Buffer
	if err := NewPrinter(&out, false).Diagnostic("src/App.jsx", body, d, analysis.SeverityError); err != nil {
		t.Fatal(err)
	}
	want := "src/App.jsx:2:3: error: Grid no longer takes item [no-grid-item-prop]\n" +
		"2 |   <Grid item xs={6} />\n" +
		"  |   ^^^^^^^^^^^^^^^^^^^^\n" +
		"  note: fixable with `mui-lint fix`\n"
	if got := out.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDiagnosticWideCharacters(t *testing.T) {
	body := []byte("\t// 日本 theme.palette.primary\n")
	d := analysis.Diagnostic{
		Range:    analysis.FromOffsets(body, 11, 32),
		Key:      "prefer-theme-vars",
		Message:  "use theme.vars",
		Withheld: analysis.WithheldDynamicValue,
	}

	var out bytes.Buffer
	if err := NewPrinter(&out, false).Diagnostic("a.js", body, d, analysis.SeverityWarn); err != nil {
		t.Fatal(err)
	}
	want := "a.js:1:12: warning: use theme.vars [prefer-theme-vars]\n" +
		"1 | \t// 日本 theme.palette.primary\n" +
		"  | \t        ^^^^^^^^^^^^^^^^^^^^^\n" +
		"  note: not fixed automatically: dynamic-value\n"
	if got := out.String(); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestSummary(t *testing.T) {
	var out bytes.Buffer
	if err := NewPrinter(&out, false).Summary(3, 0, 2, 5); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "3 files, 0 errors, 2 warnings, 5 fixed\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
