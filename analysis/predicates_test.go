package analysis_test

import (
	"testing"

	"github.com/go-test/deep"

	"mui-v7-lint/analysis"
)

func TestDeepImports(t *testing.T) {
	cases := []struct {
		source  string
		deep    bool
		shallow string
	}{
		{"@mui/material", false, "@mui/material"},
		{"@mui/material/Button", false, "@mui/material"},
		{"@mui/material/Button/Button", true, "@mui/material"},
		{"@mui/material/styles/createTheme", true, "@mui/material"},
		{"@mui/icons-material/esm/Add", true, "@mui/icons-material"},
		{"@emotion/react/jsx-runtime/x", false, "@emotion/react"},
		{"react", false, "react"},
	}
	for _, c := range cases {
		if got := analysis.IsDeepImport(c.source, analysis.MUINamespace); got != c.deep {
			t.Errorf("IsDeepImport(%q) = %v", c.source, got)
		}
		if got := analysis.ShallowSource(c.source); got != c.shallow {
			t.Errorf("ShallowSource(%q) = %q, want %q", c.source, got, c.shallow)
		}
	}
	if got := analysis.LastSegment("@mui/material/Button/Button"); got != "Button" {
		t.Errorf("LastSegment: %q", got)
	}
}

func TestImportSpecifiers(t *testing.T) {
	root, src := parse(t, "a.js", `import Grid, { Grid2Props as Props, grid2Classes } from "@mui/material/Grid2";
import * as lab from '@mui/lab';
import "@mui/material/styles/global.css";
`)
	stmts := findAll(root, "import_statement")
	if len(stmts) != 3 {
		t.Fatalf("found %d import statements", len(stmts))
	}

	type spec struct {
		Kind     analysis.SpecifierKind
		Imported string
		Local    string
		Aliased  bool
	}
	flatten := func(specs []analysis.ImportSpecifier) []spec {
		var out []spec
		for _, s := range specs {
			out = append(out, spec{s.Kind, s.Imported, s.Local, s.Aliased})
		}
		return out
	}

	specs, ok := analysis.ImportSpecifiers(stmts[0], src)
	if !ok {
		t.Fatal("mixed import rejected")
	}
	want := []spec{
		{analysis.SpecifierDefault, "default", "Grid", false},
		{analysis.SpecifierNamed, "Grid2Props", "Props", true},
		{analysis.SpecifierNamed, "grid2Classes", "grid2Classes", false},
	}
	if diff := deep.Equal(flatten(specs), want); diff != nil {
		t.Error(diff)
	}

	specs, ok = analysis.ImportSpecifiers(stmts[1], src)
	if !ok || len(specs) != 1 || specs[0].Kind != analysis.SpecifierNamespace || specs[0].Local != "lab" {
		t.Errorf("namespace import: %v %v", ok, flatten(specs))
	}
	value, quote, ok := analysis.StringValue(analysis.ImportSource(stmts[1]), src)
	if !ok || value != "@mui/lab" || quote != '\'' {
		t.Errorf("StringValue: %q %q %v", value, quote, ok)
	}

	specs, ok = analysis.ImportSpecifiers(stmts[2], src)
	if !ok || len(specs) != 0 {
		t.Errorf("side-effect import: %v %v", ok, flatten(specs))
	}
}

func TestRequireSource(t *testing.T) {
	root, src := parse(t, "a.js", `const { Menu } = require("@mui/material/Menu/Menu");
const other = load("@mui/material/Menu/Menu");
`)
	calls := findAll(root, "call_expression")
	if len(calls) != 2 {
		t.Fatalf("found %d calls", len(calls))
	}
	if v, _, ok := analysis.StringValue(analysis.RequireSource(calls[0], src), src); !ok || v != "@mui/material/Menu/Menu" {
		t.Errorf("require source: %q", v)
	}
	if analysis.RequireSource(calls[1], src) != nil {
		t.Error("load() is not require")
	}
}

func TestAttributes(t *testing.T) {
	root, src := parse(t, "a.jsx", `<Grid {...rest} item xs={12} sm="auto" md={true} lg={null} xl={cols} />`)
	el := find(root, "jsx_self_closing_element")
	if el == nil {
		t.Fatal("no element")
	}

	tag, name := analysis.ElementTagName(el, src)
	if tag == nil || name != "Grid" {
		t.Fatalf("tag name %q", name)
	}
	if !analysis.HasSpreadAttribute(el) {
		t.Error("spread not detected")
	}
	if got := len(analysis.Attributes(el)); got != 7 {
		t.Errorf("got %d attributes", got)
	}

	type lit struct {
		Kind   analysis.LiteralKind
		Text   string
		Braced bool
	}
	cases := map[string]*lit{
		"item": {analysis.LiteralImplicit, "true", false},
		"xs":   {analysis.LiteralNumber, "12", true},
		"sm":   {analysis.LiteralString, `"auto"`, false},
		"md":   {analysis.LiteralTrue, "true", true},
		"lg":   {analysis.LiteralNull, "null", true},
		"xl":   nil,
	}
	for attrName, want := range cases {
		attr := analysis.FindAttribute(el, attrName, src)
		if attr == nil {
			t.Errorf("%s: attribute not found", attrName)
			continue
		}
		got, ok := analysis.SimpleLiteral(attr, src)
		if want == nil {
			if ok {
				t.Errorf("%s: identifier value reported as literal %+v", attrName, got)
			}
			continue
		}
		if !ok {
			t.Errorf("%s: not a simple literal", attrName)
			continue
		}
		if diff := deep.Equal(lit{got.Kind, got.Text, got.Braced}, *want); diff != nil {
			t.Errorf("%s: %v", attrName, diff)
		}
	}

	if analysis.FindAttribute(el, "container", src) != nil {
		t.Error("found an attribute that is not there")
	}
}

func TestElementTagNameMember(t *testing.T) {
	root, src := parse(t, "a.jsx", `<MUI.Grid item />`)
	el := find(root, "jsx_self_closing_element")
	if _, name := analysis.ElementTagName(el, src); name == "Grid" {
		t.Error("member tag matched a bare component name")
	}
}

func TestMemberChain(t *testing.T) {
	root, src := parse(t, "a.ts", `const a = theme.palette.primary.main;
const b = theme.vars.palette.primary.main;
const c = props.theme.palette.text;
const d = theme.palette["divider"];
`)
	var matched []string
	for _, kind := range []string{"member_expression", "subscript_expression"} {
		for _, n := range findAll(root, kind) {
			if analysis.MemberChain(n, "theme", "palette", src) {
				matched = append(matched, n.Content(src)+" -> "+analysis.MemberProperty(n, src))
			}
		}
	}
	want := []string{
		"theme.palette.primary -> primary",
		`theme.palette["divider"] -> divider`,
	}
	if diff := deep.Equal(matched, want); diff != nil {
		t.Error(diff)
	}
}

func TestInsideTernaryOn(t *testing.T) {
	root, src := parse(t, "a.js", `const c = (theme.vars) ? theme.vars.palette.x : theme.palette.x;
const d = theme.palette.x ? a : b;
`)
	members := findAll(root, "member_expression")
	var inside []string
	for _, n := range members {
		if n.Content(src) == "theme.palette.x" && analysis.InsideTernaryOn(n, "theme.vars", src) {
			inside = append(inside, n.Content(src))
		}
	}
	if len(inside) != 1 {
		t.Errorf("expected only the alternative of the first ternary, got %v", inside)
	}
}

func TestEnclosingExpression(t *testing.T) {
	root, src := parse(t, "a.ts", `const accent = theme.vars!.palette.a ?? theme.palette.a;
`)
	var target = find(root, "binary_expression")
	if target == nil {
		t.Fatal("no binary expression")
	}
	enc := analysis.EnclosingExpression(target)
	if enc.Type() != "variable_declarator" {
		t.Errorf("enclosing kind %s", enc.Type())
	}
	if got := enc.Content(src); got != "accent = theme.vars!.palette.a ?? theme.palette.a" {
		t.Errorf("enclosing text %q", got)
	}
}
