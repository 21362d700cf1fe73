package analysis

import (
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"mui-v7-lint/tsutils"
)

type nodeKey struct {
	start, end uint32
	kind       string
}

func keyOf(n *sitter.Node) nodeKey {
	return nodeKey{n.StartByte(), n.EndByte(), n.Type()}
}

// importBinding records where a file-level local name comes from.
type importBinding struct {
	Source   string
	Imported string
	Aliased  bool
	Stmt     *sitter.Node
}

// Pass is the state of one walk over one tree. Everything derived from the
// tree lives here and is dropped by finish.
type Pass struct {
	URI      string
	Language Language
	Body     []byte
	Root     *sitter.Node
	// Index is the 1-based fix pass number, 0 for a plain lint.
	Index int

	engine *Engine
	rule   Rule

	text        map[nodeKey]string
	bindings    map[string]importBinding
	legacyUsage map[string]bool
	suppress    *suppressions

	diags []Diagnostic
}

func newPass(e *Engine, uri string, lang Language, body []byte, root *sitter.Node, index int) *Pass {
	return &Pass{
		URI:      uri,
		Language: lang,
		Body:     body,
		Root:     root,
		Index:    index,
		engine:   e,
		text:     map[nodeKey]string{},
	}
}

// Rule returns the rule currently being dispatched.
func (p *Pass) Rule() Rule {
	return p.rule
}

// Text returns the source text of n, memoized for the rest of the pass.
func (p *Pass) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	k := keyOf(n)
	if s, ok := p.text[k]; ok {
		return s
	}
	s := n.Content(p.Body)
	p.text[k] = s
	return s
}

// Bindings maps the local names introduced by the file's import statements
// to their source.
func (p *Pass) Bindings() map[string]importBinding {
	if p.bindings != nil {
		return p.bindings
	}
	p.bindings = map[string]importBinding{}

	q := p.engine.Queries(p.Language)
	if q == nil {
		return p.bindings
	}
	for _, stmt := range tsutils.Captures(q.ImportStatement, p.Root) {
		path, _, ok := StringValue(ImportSource(stmt), p.Body)
		if !ok {
			continue
		}
		specs, ok := ImportSpecifiers(stmt, p.Body)
		if !ok {
			continue
		}
		for _, s := range specs {
			p.bindings[s.Local] = importBinding{
				Source:   path,
				Imported: s.Imported,
				Aliased:  s.Aliased,
				Stmt:     stmt,
			}
		}
	}
	return p.bindings
}

// ForeignBinding reports whether local is imported from outside @mui. Names
// without an import in the file are not foreign.
func (p *Pass) ForeignBinding(local string) bool {
	b, ok := p.Bindings()[local]
	if !ok {
		return false
	}
	return b.Source != MUINamespace && !strings.HasPrefix(b.Source, MUINamespace+"/")
}

// ComponentTag resolves the tag of an element head to a component name. A
// bare tag is returned as written and is foreign when ForeignBinding says
// so. A member tag Ns.Name resolves to Name when Ns is a namespace import of
// @mui/material; other member tags are returned verbatim.
func (p *Pass) ComponentTag(el *sitter.Node) (tag *sitter.Node, name string, foreign bool) {
	tag, name = ElementTagName(el, p.Body)
	if tag == nil {
		return nil, "", false
	}
	if tag.Type() != "member_expression" && tag.Type() != "nested_identifier" {
		return tag, name, p.ForeignBinding(name)
	}
	if tag.NamedChildCount() != 2 {
		return tag, name, false
	}
	ns, prop := tag.NamedChild(0), tag.NamedChild(1)
	if ns.Type() != "identifier" {
		return tag, name, false
	}
	b, ok := p.Bindings()[p.Text(ns)]
	if !ok || b.Imported != "*" || b.Source != "@mui/material" {
		return tag, name, false
	}
	return tag, p.Text(prop), false
}

// IsGridLegacy reports whether local names the GridLegacy component.
func (p *Pass) IsGridLegacy(local string) bool {
	b, ok := p.Bindings()[local]
	if !ok {
		return false
	}
	if b.Imported == "GridLegacy" {
		return true
	}
	return b.Imported == "default" && b.Source == "@mui/material/GridLegacy"
}

// LegacyGridUsage reports whether the file renders local with v6 Grid item
// props.
func (p *Pass) LegacyGridUsage(local string) bool {
	if p.legacyUsage == nil {
		p.legacyUsage = map[string]bool{}

		lq, ok := p.engine.queries[p.Language]
		if ok && lq.jsx != nil {
			for _, n := range tsutils.Captures(lq.jsx.ElementNames, p.Root) {
				name := p.Text(n)
				if !p.legacyUsage[name] && inspectGrid(n.Parent(), p.Body).legacy() {
					p.legacyUsage[name] = true
				}
			}
		}
	}
	return p.legacyUsage[local]
}

func (p *Pass) finish() []Diagnostic {
	sort.SliceStable(p.diags, func(i, j int) bool {
		return p.diags[i].Range.StartByte < p.diags[j].Range.StartByte
	})

	diags := p.diags
	p.text = nil
	p.bindings = nil
	p.legacyUsage = nil
	p.diags = nil
	return diags
}
