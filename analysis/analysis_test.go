package analysis_test

import (
	"context"
	"embed"
	"fmt"
	"path"
	"strings"
	"testing"

	"github.com/go-test/deep"
	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/tools/txtar"

	"mui-v7-lint/analysis"
)

//go:embed testdata/*.txtar
var fixtures embed.FS

type fixture struct {
	name        string
	input       []byte
	want        []byte
	diagnostics []string
}

func loadFixture(t *testing.T, file string) fixture {
	t.Helper()

	data, err := fixtures.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	var f fixture
	for _, entry := range txtar.Parse(data).Files {
		switch {
		case strings.HasPrefix(entry.Name, "input."):
			f.name = entry.Name
			f.input = entry.Data
		case strings.HasPrefix(entry.Name, "want."):
			f.want = entry.Data
		case entry.Name == "diagnostics":
			for _, line := range strings.Split(string(entry.Data), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					f.diagnostics = append(f.diagnostics, line)
				}
			}
		}
	}
	if f.input == nil || f.want == nil {
		t.Fatalf("%s: fixture needs an input and a want file", file)
	}
	return f
}

// summarize renders diagnostics as "row key messageID [withheld]" with
// 1-based rows.
func summarize(diags []analysis.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		s := fmt.Sprintf("%d %s %s", d.Range.StartPoint.Row+1, d.Key, d.MessageID)
		if d.Withheld != analysis.WithheldNone {
			s += " " + string(d.Withheld)
		}
		out = append(out, s)
	}
	return out
}

func TestFixtures(t *testing.T) {
	files, err := fixtures.ReadDir("testdata")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		name := strings.TrimSuffix(file.Name(), ".txtar")
		t.Run(name, func(t *testing.T) {
			f := loadFixture(t, path.Join("testdata", file.Name()))
			ctx := context.Background()
			eng := analysis.New()

			diags, err := eng.Lint(ctx, f.name, f.input)
			if err != nil {
				t.Fatal(err)
			}
			if diff := deep.Equal(summarize(diags), f.diagnostics); diff != nil {
				t.Errorf("diagnostics: %v", diff)
			}
			for _, d := range diags {
				checkParams(t, d)
			}

			res, err := eng.Fix(ctx, f.name, f.input)
			if err != nil {
				t.Fatal(err)
			}
			if !res.Converged {
				t.Errorf("fix did not converge after %d passes", res.Passes)
			}
			if got := string(res.Body); got != string(f.want) {
				t.Errorf("fix output:\n%s\nwant:\n%s", got, f.want)
			}

			again, err := eng.Fix(ctx, f.name, res.Body)
			if err != nil {
				t.Fatal(err)
			}
			if again.Changed() {
				t.Errorf("fixing the fixed output changed it again:\n%s", again.Body)
			}
		})
	}
}

// checkParams fails when d lacks a parameter its message template uses.
func checkParams(t *testing.T, d analysis.Diagnostic) {
	t.Helper()

	doc, ok := analysis.Doc(d.Key)
	if !ok {
		t.Errorf("%s has no catalogue entry", d.Key)
		return
	}
	tmpl, ok := doc.Messages[d.MessageID]
	if !ok {
		t.Errorf("%s has no message %s", d.Key, d.MessageID)
		return
	}
	for _, p := range tmpl.Params() {
		if _, ok := d.Params[p]; !ok {
			t.Errorf("%s/%s is missing parameter %s", d.Key, d.MessageID, p)
		}
	}
}

func TestLanguageFor(t *testing.T) {
	cases := map[string]analysis.Language{
		"src/App.jsx":      analysis.LanguageJavaScript,
		"src/index.js":     analysis.LanguageJavaScript,
		"src/theme.mjs":    analysis.LanguageJavaScript,
		"src/Page.tsx":     analysis.LanguageTSX,
		"src/theme.ts":     analysis.LanguageTypeScript,
		"src/UPPER.TSX":    analysis.LanguageTSX,
		"src/legacy.cts":   analysis.LanguageTypeScript,
		"src/component.js": analysis.LanguageJavaScript,
	}
	for file, want := range cases {
		got, err := analysis.LanguageFor(file)
		if err != nil {
			t.Errorf("%s: %v", file, err)
			continue
		}
		if got != want {
			t.Errorf("%s: got %s, want %s", file, got, want)
		}
	}

	if _, err := analysis.LanguageFor("styles.css"); err == nil {
		t.Error("expected an error for a stylesheet")
	}
	if analysis.IsSourceFile("README.md") {
		t.Error("README.md is not a source file")
	}
}

func TestFileContext(t *testing.T) {
	eng := analysis.New()
	uri := "file:///src/App.jsx"
	body := []byte(`<Grid item xs={6} />`)

	if err := eng.SetFileContext(context.Background(), uri, body); err != nil {
		t.Fatal(err)
	}
	fctx, err := eng.GetFileContext(uri)
	if err != nil {
		t.Fatal(err)
	}
	if fctx.Language != analysis.LanguageJavaScript {
		t.Errorf("language: %s", fctx.Language)
	}
	if len(fctx.Diagnostics) != 1 || fctx.Diagnostics[0].Key != "no-grid-item-prop" {
		t.Errorf("diagnostics: %v", summarize(fctx.Diagnostics))
	}

	eng.DeleteFileContext(uri)
	if _, err := eng.GetFileContext(uri); err == nil {
		t.Error("file context survived DeleteFileContext")
	}
}

func TestSyntaxErrorStillReports(t *testing.T) {
	src := []byte("import Button from \"@mui/material/Button/Button\";\nconst x = (;\n")
	diags, err := analysis.New().Lint(context.Background(), "broken.jsx", src)
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) == 0 || diags[0].Key != "no-deep-imports" {
		t.Fatalf("diagnostics: %v", summarize(diags))
	}
}

// parse returns the root of src parsed with the grammar for name.
func parse(t *testing.T, name, src string) (*sitter.Node, []byte) {
	t.Helper()

	lang, err := analysis.LanguageFor(name)
	if err != nil {
		t.Fatal(err)
	}
	body := []byte(src)
	tree, err := analysis.Parser(lang).ParseCtx(context.Background(), nil, body)
	if err != nil {
		t.Fatal(err)
	}
	return tree.RootNode(), body
}

// find returns the first node of kind in a depth-first walk of n.
func find(n *sitter.Node, kind string) *sitter.Node {
	if n.Type() == kind {
		return n
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if found := find(n.NamedChild(i), kind); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *sitter.Node, kind string) []*sitter.Node {
	var out []*sitter.Node
	if n.Type() == kind {
		out = append(out, n)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, findAll(n.NamedChild(i), kind)...)
	}
	return out
}
