package analysis

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Visitor dispatches nodes to the rules registered for their kind, in
// catalogue order.
type Visitor struct {
	byKind map[string][]Rule
}

func NewVisitor(rules []Rule) *Visitor {
	v := &Visitor{byKind: map[string][]Rule{}}
	for _, r := range rules {
		for _, kind := range r.Kinds() {
			v.byKind[kind] = append(v.byKind[kind], r)
		}
	}
	return v
}

func (v *Visitor) RulesFor(kind string) []Rule {
	return v.byKind[kind]
}

// Walk visits every named node of the pass's tree depth-first.
func (v *Visitor) Walk(p *Pass) {
	v.accept(p, p.Root)
}

func (v *Visitor) accept(p *Pass, n *sitter.Node) {
	for _, r := range v.byKind[n.Type()] {
		v.analyze(p, r, n)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		v.accept(p, n.NamedChild(i))
	}
}

// analyze runs one rule on one node. A rule tripping over a node shape it did
// not expect loses that match only.
func (v *Visitor) analyze(p *Pass, r Rule, n *sitter.Node) {
	defer func() {
		if rec := recover(); rec != nil {
			p.engine.logger.Error("rule failed on node",
				"rule", r.Key(),
				"file", p.URI,
				"kind", n.Type(),
				"offset", n.StartByte(),
				"panic", fmt.Sprint(rec))
		}
		p.rule = nil
	}()
	p.rule = r
	r.Analyze(p, n)
}
