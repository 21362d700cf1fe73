package tsutils

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

type testQueries struct {
	Imports *sitter.Query `(import_statement source: (string) @source)`
	Strings *sitter.Query `(string) @string`
	name    string
}

func TestInitQueriesStructure(t *testing.T) {
	lang := javascript.GetLanguage()
	var q testQueries
	if err := InitQueriesStructure(&q, lang); err != nil {
		t.Fatal(err)
	}
	if q.Imports == nil || q.Strings == nil {
		t.Fatalf("queries not compiled: %+v", q)
	}

	src := []byte(`import a from "@mui/material"; const b = "x";`)
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		t.Fatal(err)
	}

	sources := Captures(q.Imports, tree.RootNode())
	if len(sources) != 1 || sources[0].Content(src) != `"@mui/material"` {
		t.Errorf("imports: %v", sources)
	}
	if got := len(Captures(q.Strings, tree.RootNode())); got != 2 {
		t.Errorf("strings: got %d", got)
	}
}

func TestInitQueriesStructureErrors(t *testing.T) {
	lang := javascript.GetLanguage()

	var bad struct {
		Broken *sitter.Query `(import_statement`
	}
	if err := InitQueriesStructure(&bad, lang); err == nil {
		t.Error("expected a compile error")
	}
	if err := InitQueriesStructure(testQueries{}, lang); err == nil {
		t.Error("expected an error for a non-pointer")
	}
}
