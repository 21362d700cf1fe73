package analysis

import (
	sitter "github.com/smacker/go-tree-sitter"

	"mui-v7-lint/tsutils"
)

type Queries struct {
	Comments        *sitter.Query `(comment) @comment`
	ImportStatement *sitter.Query `(import_statement) @import`
}

type JSXQueries struct {
	ElementNames *sitter.Query `[(jsx_opening_element (identifier) @name) (jsx_self_closing_element (identifier) @name)]`
}

type langQueries struct {
	base *Queries
	jsx  *JSXQueries
}

func initQueries(lang Language) (langQueries, error) {
	var q langQueries

	q.base = &Queries{}
	if err := tsutils.InitQueriesStructure(q.base, lang.Grammar()); err != nil {
		return q, err
	}
	if lang.HasJSX() {
		q.jsx = &JSXQueries{}
		if err := tsutils.InitQueriesStructure(q.jsx, lang.Grammar()); err != nil {
			return q, err
		}
	}
	return q, nil
}
