package tsutils

import (
	"fmt"
	"reflect"

	sitter "github.com/smacker/go-tree-sitter"
)

var queryType = reflect.TypeOf((*sitter.Query)(nil))

// InitQueriesStructure compiles the query held in the struct tag of every
// *sitter.Query field of the struct q points to.
func InitQueriesStructure(q interface{}, lang *sitter.Language) error {
	v := reflect.ValueOf(q)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("queries must be a pointer to a struct, got %T", q)
	}
	strct := v.Elem().Type()
	for i := 0; i < strct.NumField(); i++ {
		k := strct.Field(i)
		if k.Type != queryType {
			continue
		}
		query, err := sitter.NewQuery([]byte(k.Tag), lang)
		if err != nil {
			return fmt.Errorf("failed to compile query %s: %w", k.Name, err)
		}
		v.Elem().Field(i).Set(reflect.ValueOf(query))
	}
	return nil
}

// Captures returns every node q captures under root, in match order.
func Captures(q *sitter.Query, root *sitter.Node) []*sitter.Node {
	qc := sitter.NewQueryCursor()
	defer qc.Close()

	var out []*sitter.Node
	qc.Exec(q, root)
	for match, goNext := qc.NextMatch(); goNext; match, goNext = qc.NextMatch() {
		for _, c := range match.Captures {
			out = append(out, c.Node)
		}
	}
	return out
}
