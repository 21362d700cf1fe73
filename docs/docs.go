package docs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"mui-v7-lint/analysis"
)

var ErrNoDoc = errors.New("no documentation for rule")

// Markdown renders the documentation page of a rule.
func Markdown(doc analysis.RuleDoc) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	fmt.Fprintf(&b, "`%s` · %s\n\n", doc.Key, doc.Category)
	b.WriteString(strings.TrimSpace(doc.Description))
	b.WriteString("\n")

	if doc.Before != "" {
		fmt.Fprintf(&b, "\n## Before\n\n```jsx\n%s\n```\n", doc.Before)
	}
	if doc.After != "" {
		fmt.Fprintf(&b, "\n## After\n\n```jsx\n%s\n```\n", doc.After)
	}
	return b.String()
}

// readMarkdown converts GitHub flavoured markdown to sanitised HTML.
func readMarkdown(content string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}

	return bluemonday.UGCPolicy().Sanitize(buf.String()), nil
}

func RenderRule(key string) (string, error) {
	doc, ok := analysis.Doc(key)
	if !ok {
		return "", fmt.Errorf("%w %q", ErrNoDoc, key)
	}
	html, err := readMarkdown(Markdown(doc))
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", key, err)
	}
	return html, nil
}

// RenderIndex lists every catalogue and engine key as a table linking to its
// page.
func RenderIndex() (string, error) {
	var b strings.Builder
	b.WriteString("# MUI v7 migration rules\n\n")
	b.WriteString("| Rule | Category | Fixable | Summary |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, doc := range analysis.Docs() {
		fixable := "no"
		if r, err := analysis.LookupRule(doc.Key); err == nil && r.Fixable() {
			fixable = "yes"
		}
		fmt.Fprintf(&b, "| [%s](%s.html) | %s | %s | %s |\n", doc.Key, doc.Key, doc.Category, fixable, doc.Title)
	}
	return readMarkdown(b.String())
}

// WriteAll writes index.html and one page per documented key into dir.
func WriteAll(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var written []string
	write := func(name, html string) error {
		file := filepath.Join(dir, name)
		if err := os.WriteFile(file, []byte(html), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", file, err)
		}
		written = append(written, file)
		return nil
	}

	index, err := RenderIndex()
	if err != nil {
		return nil, err
	}
	if err := write("index.html", index); err != nil {
		return nil, err
	}
	for _, doc := range analysis.Docs() {
		page, err := RenderRule(doc.Key)
		if err != nil {
			return written, err
		}
		if err := write(doc.Key+".html", page); err != nil {
			return written, err
		}
	}
	return written, nil
}
