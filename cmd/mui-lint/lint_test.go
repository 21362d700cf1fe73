package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-test/deep"

	"mui-v7-lint/analysis"
	"mui-v7-lint/config"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestParseRuleFlags(t *testing.T) {
	got, err := parseRuleFlags([]string{"prefer-theme-vars=off", " no-grid-legacy = error "})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"prefer-theme-vars": "off", "no-grid-legacy": "error"}
	if diff := deep.Equal(got, want); diff != nil {
		t.Error(diff)
	}

	for _, bad := range []string{"prefer-theme-vars", "=off"} {
		if _, err := parseRuleFlags([]string{bad}); err == nil {
			t.Errorf("%q: accepted", bad)
		}
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/App.jsx":                  "",
		"src/theme.ts":                 "",
		"src/styles.css":               "",
		"src/generated/api.ts":         "",
		"node_modules/@mui/x/index.js": "",
		"packages/ui/build/bundle.js":  "",
		"packages/ui/src/Button.tsx":   "",
		"README.md":                    "",
	})

	cfg, err := config.Decode(`exclude = ["**/node_modules/**", "**/build/**", "src/generated/**"]`)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Path = filepath.Join(root, config.FileName)

	files, err := discover(cfg, []string{root})
	if err != nil {
		t.Fatal(err)
	}
	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatal(err)
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{"packages/ui/src/Button.tsx", "src/App.jsx", "src/theme.ts"}
	if diff := deep.Equal(rel, want); diff != nil {
		t.Error(diff)
	}

	explicit := filepath.Join(root, "src", "generated", "api.ts")
	files, err = discover(cfg, []string{explicit})
	if err != nil || len(files) != 1 {
		t.Errorf("explicit file: %v %v", files, err)
	}
}

func TestProcessKeepsFileOrder(t *testing.T) {
	root := t.TempDir()
	var files []string
	for _, name := range []string{"a.js", "b.js", "c.js", "d.js"} {
		writeTree(t, root, map[string]string{name: name})
		files = append(files, filepath.Join(root, name))
	}

	results, err := process(context.Background(), files, 3, func(ctx context.Context, path string, body []byte) (fileResult, error) {
		return fileResult{body: body}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, res := range results {
		if res.path != files[i] || string(res.body) != filepath.Base(files[i]) {
			t.Errorf("result %d: %s %q", i, res.path, res.body)
		}
	}

	if _, err := process(context.Background(), []string{filepath.Join(root, "missing.js")}, 1, nil); err == nil {
		t.Error("expected a read error")
	}
}

func TestFixWritesFiles(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Layout.jsx")
	writeTree(t, root, map[string]string{"Layout.jsx": "<Grid item xs={12}>Content</Grid>\n"})

	eng := analysis.New()
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	res, err := eng.Fix(context.Background(), path, body)
	if err != nil {
		t.Fatal(err)
	}
	if err := writeFile(path, res.Body); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "<Grid size={12}>Content</Grid>\n"; string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRunQuery(t *testing.T) {
	data := []byte(`import Button from "@mui/material/Button";`)
	tree, err := analysis.Parser(analysis.LanguageJavaScript).ParseCtx(context.Background(), nil, data)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runQuery(&out, analysis.LanguageJavaScript, tree.RootNode(), data, []byte(`(import_statement source: (string) @source)`)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"@mui/material/Button"`) || !strings.Contains(out.String(), "capture 0 source") {
		t.Errorf("got:\n%s", out.String())
	}

	if err := runQuery(&out, analysis.LanguageJavaScript, tree.RootNode(), data, []byte(`(import_statement`)); err == nil {
		t.Error("expected a query error")
	}
}
