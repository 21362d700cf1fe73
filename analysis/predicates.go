package analysis

import (
	"bytes"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

const MUINamespace = "@mui"

// IsDeepImport reports whether source reaches below namespace/package/module.
// The namespace root and its packages are never deep.
func IsDeepImport(source, namespace string) bool {
	if !strings.HasPrefix(source, namespace+"/") {
		return false
	}
	return len(strings.Split(source, "/")) > 3
}

// ShallowSource returns the package root of a namespaced source,
// "@mui/material/Button/Button" becomes "@mui/material".
func ShallowSource(source string) string {
	parts := strings.SplitN(source, "/", 3)
	if len(parts) < 2 {
		return source
	}
	return parts[0] + "/" + parts[1]
}

func LastSegment(source string) string {
	return source[strings.LastIndexByte(source, '/')+1:]
}

func nodeIs(n *sitter.Node, src []byte, text string) bool {
	if n == nil || int(n.EndByte()) > len(src) {
		return false
	}
	return bytes.Equal(src[n.StartByte():n.EndByte()], []byte(text))
}

// StringValue unquotes a string literal node.
func StringValue(n *sitter.Node, src []byte) (value string, quote byte, ok bool) {
	if n == nil || n.Type() != "string" {
		return "", 0, false
	}
	s := n.Content(src)
	if len(s) < 2 {
		return "", 0, false
	}
	quote = s[0]
	if (quote != '"' && quote != '\'') || s[len(s)-1] != quote {
		return "", 0, false
	}
	return s[1 : len(s)-1], quote, true
}

func ImportSource(stmt *sitter.Node) *sitter.Node {
	if stmt == nil || stmt.Type() != "import_statement" {
		return nil
	}
	return stmt.ChildByFieldName("source")
}

type SpecifierKind int

const (
	SpecifierDefault SpecifierKind = iota
	SpecifierNamed
	SpecifierNamespace
)

type ImportSpecifier struct {
	Kind     SpecifierKind
	Imported string
	Local    string
	Aliased  bool
	// Name is the token holding the imported name. For default and
	// namespace imports it is the local identifier.
	Name *sitter.Node
}

// ImportSpecifiers lists the bindings of an import statement in source order.
// A side-effect import yields no specifiers and ok. Shapes the grammar
// produces only under error recovery yield ok == false.
func ImportSpecifiers(stmt *sitter.Node, src []byte) (specs []ImportSpecifier, ok bool) {
	if stmt == nil || stmt.Type() != "import_statement" {
		return nil, false
	}

	var clause *sitter.Node
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		if c := stmt.NamedChild(i); c.Type() == "import_clause" {
			clause = c
			break
		}
	}
	if clause == nil {
		return nil, true
	}

	for i := 0; i < int(clause.NamedChildCount()); i++ {
		c := clause.NamedChild(i)
		switch c.Type() {
		case "identifier":
			name := c.Content(src)
			specs = append(specs, ImportSpecifier{
				Kind:     SpecifierDefault,
				Imported: "default",
				Local:    name,
				Name:     c,
			})
		case "namespace_import":
			id := firstNamedOfType(c, "identifier")
			if id == nil {
				return nil, false
			}
			specs = append(specs, ImportSpecifier{
				Kind:     SpecifierNamespace,
				Imported: "*",
				Local:    id.Content(src),
				Name:     id,
			})
		case "named_imports":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				spec := c.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				if name == nil {
					return nil, false
				}
				s := ImportSpecifier{
					Kind:     SpecifierNamed,
					Imported: name.Content(src),
					Name:     name,
				}
				s.Local = s.Imported
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					s.Local = alias.Content(src)
					s.Aliased = true
				}
				specs = append(specs, s)
			}
		case "comment":
		default:
			return nil, false
		}
	}
	return specs, true
}

func firstNamedOfType(n *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == kind {
			return c
		}
	}
	return nil
}

// RequireSource returns the string argument of a require("...") call.
func RequireSource(call *sitter.Node, src []byte) *sitter.Node {
	if call == nil || call.Type() != "call_expression" {
		return nil
	}
	if !nodeIs(call.ChildByFieldName("function"), src, "require") {
		return nil
	}
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	arg := soleNamedChild(args)
	if arg == nil || arg.Type() != "string" {
		return nil
	}
	return arg
}

// soleNamedChild returns the only named child of n, ignoring comments.
func soleNamedChild(n *sitter.Node) *sitter.Node {
	var found *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		if found != nil {
			return nil
		}
		found = c
	}
	return found
}

func IsJSXElementHead(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	t := n.Type()
	return t == "jsx_opening_element" || t == "jsx_self_closing_element"
}

// ElementTagName returns the tag name token of an opening or self-closing
// element. Member and namespaced names are returned verbatim and therefore
// never equal a bare component name.
func ElementTagName(el *sitter.Node, src []byte) (*sitter.Node, string) {
	if !IsJSXElementHead(el) {
		return nil, ""
	}
	name := el.ChildByFieldName("name")
	if name == nil {
		if el.NamedChildCount() == 0 {
			return nil, ""
		}
		name = el.NamedChild(0)
	}
	return name, name.Content(src)
}

// Attributes returns the attribute and spread entries of an element head.
func Attributes(el *sitter.Node) []*sitter.Node {
	if !IsJSXElementHead(el) {
		return nil
	}
	var attrs []*sitter.Node
	for i := 0; i < int(el.NamedChildCount()); i++ {
		c := el.NamedChild(i)
		switch c.Type() {
		case "jsx_attribute", "jsx_expression":
			attrs = append(attrs, c)
		}
	}
	return attrs
}

func AttributeName(attr *sitter.Node, src []byte) string {
	if attr == nil || attr.Type() != "jsx_attribute" || attr.NamedChildCount() == 0 {
		return ""
	}
	return attr.NamedChild(0).Content(src)
}

// AttributeValue returns nil for a value-less attribute.
func AttributeValue(attr *sitter.Node) *sitter.Node {
	if attr == nil || attr.Type() != "jsx_attribute" {
		return nil
	}
	for i := 1; i < int(attr.NamedChildCount()); i++ {
		if c := attr.NamedChild(i); c.Type() != "comment" {
			return c
		}
	}
	return nil
}

func FindAttribute(el *sitter.Node, name string, src []byte) *sitter.Node {
	for _, attr := range Attributes(el) {
		if AttributeName(attr, src) == name {
			return attr
		}
	}
	return nil
}

// HasSpreadAttribute reports whether the element carries {...props}.
func HasSpreadAttribute(el *sitter.Node) bool {
	for _, attr := range Attributes(el) {
		if attr.Type() != "jsx_expression" {
			continue
		}
		for i := 0; i < int(attr.NamedChildCount()); i++ {
			if attr.NamedChild(i).Type() == "spread_element" {
				return true
			}
		}
	}
	return false
}

type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralTrue
	LiteralFalse
	LiteralNull
	// LiteralImplicit is a value-less attribute, which JSX reads as true.
	LiteralImplicit
)

type Literal struct {
	Kind LiteralKind
	// Text is the literal token as written, quotes included.
	Text string
	// Braced is set when the literal sits inside {}.
	Braced bool
	Token  *sitter.Node
}

// SimpleLiteral reports whether attr's value is a literal token, either bare
// or wrapped in a single {} expression. Identifiers, calls, conditionals,
// templates and operators are not simple.
func SimpleLiteral(attr *sitter.Node, src []byte) (Literal, bool) {
	if attr == nil || attr.Type() != "jsx_attribute" {
		return Literal{}, false
	}
	value := AttributeValue(attr)
	if value == nil {
		return Literal{Kind: LiteralImplicit, Text: "true"}, true
	}
	switch value.Type() {
	case "string":
		return Literal{Kind: LiteralString, Text: value.Content(src), Token: value}, true
	case "jsx_expression":
		inner := soleNamedChild(value)
		if inner == nil {
			return Literal{}, false
		}
		lit, ok := literalToken(inner, src)
		lit.Braced = true
		return lit, ok
	}
	return Literal{}, false
}

func literalToken(n *sitter.Node, src []byte) (Literal, bool) {
	lit := Literal{Text: n.Content(src), Token: n}
	switch n.Type() {
	case "number":
		lit.Kind = LiteralNumber
	case "string":
		lit.Kind = LiteralString
	case "true":
		lit.Kind = LiteralTrue
	case "false":
		lit.Kind = LiteralFalse
	case "null":
		lit.Kind = LiteralNull
	default:
		return Literal{}, false
	}
	return lit, true
}

func isMemberAccess(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	t := n.Type()
	return t == "member_expression" || t == "subscript_expression"
}

// MemberChain reports whether n accesses a property of root.middle, where
// root is a bare identifier. root.vars.middle.x does not match because its
// object is not root.middle.
func MemberChain(n *sitter.Node, root, middle string, src []byte) bool {
	if !isMemberAccess(n) {
		return false
	}
	obj := n.ChildByFieldName("object")
	if obj == nil || obj.Type() != "member_expression" {
		return false
	}
	r := obj.ChildByFieldName("object")
	p := obj.ChildByFieldName("property")
	if r == nil || p == nil || r.Type() != "identifier" {
		return false
	}
	return nodeIs(r, src, root) && nodeIs(p, src, middle)
}

// MemberProperty returns the property accessed by a member expression, or
// the string index of a subscript expression.
func MemberProperty(n *sitter.Node, src []byte) string {
	switch n.Type() {
	case "member_expression":
		if p := n.ChildByFieldName("property"); p != nil {
			return p.Content(src)
		}
	case "subscript_expression":
		if v, _, ok := StringValue(n.ChildByFieldName("index"), src); ok {
			return v
		}
	}
	return ""
}

func normalizeExpression(s string) string {
	s = strings.Join(strings.Fields(s), "")
	for strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	return s
}

// InsideTernaryOn reports whether n sits in a conditional expression whose
// test is the expression cond.
func InsideTernaryOn(n *sitter.Node, cond string, src []byte) bool {
	want := normalizeExpression(cond)
	for child, p := n, n.Parent(); p != nil; child, p = p, p.Parent() {
		if p.Type() != "ternary_expression" {
			continue
		}
		test := p.ChildByFieldName("condition")
		if test == nil || test.StartByte() == child.StartByte() {
			continue
		}
		if normalizeExpression(test.Content(src)) == want {
			return true
		}
	}
	return false
}

var enclosingKinds = map[string]bool{
	"pair":                  true,
	"variable_declarator":   true,
	"jsx_expression":        true,
	"template_substitution": true,
	"arrow_function":        true,
	"assignment_expression": true,
	"arguments":             true,
}

// EnclosingExpression returns the nearest ancestor of n that forms a
// self-contained expression context: an object property, a declarator, a
// JSX expression container, a statement and so on.
func EnclosingExpression(n *sitter.Node) *sitter.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		t := p.Type()
		if enclosingKinds[t] || strings.HasSuffix(t, "_statement") || strings.HasSuffix(t, "_declaration") {
			return p
		}
		if t == "program" {
			return p
		}
	}
	return n
}

// hasErrorWithin reports whether the grammar had to recover inside n.
func hasErrorWithin(n *sitter.Node) bool {
	return n != nil && (n.HasError() || n.IsMissing())
}
