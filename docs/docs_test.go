package docs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mui-v7-lint/analysis"
)

func TestRenderRule(t *testing.T) {
	html, err := RenderRule("no-grid-item-prop")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"<h1>Grid item and breakpoint props</h1>",
		"<code>size</code>",
		"<h2>After</h2>",
		"size={{ xs: 12, sm: 6 }}",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in\n%s", want, html)
		}
	}
	if strings.Contains(html, "<script") {
		t.Error("unsanitised output")
	}

	if _, err := RenderRule("no-such-rule"); !errors.Is(err, ErrNoDoc) {
		t.Errorf("got %v", err)
	}
}

func TestRenderIndex(t *testing.T) {
	html, err := RenderIndex()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("index is not a table:\n%s", html)
	}
	for _, key := range analysis.RuleKeys() {
		if !strings.Contains(html, `href="`+key+`.html"`) {
			t.Errorf("index does not link %s", key)
		}
	}
}

func TestReadMarkdownSanitises(t *testing.T) {
	html, err := readMarkdown("hello <script>alert(1)</script> [x](javascript:alert(1))")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<script") || strings.Contains(html, "javascript:") {
		t.Errorf("got %s", html)
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	files, err := WriteAll(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != len(analysis.Docs())+1 {
		t.Errorf("wrote %d files", len(files))
	}
	if _, err := os.Stat(filepath.Join(dir, "prefer-theme-vars.html")); err != nil {
		t.Error(err)
	}
}
