package analysis

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	sitter "github.com/smacker/go-tree-sitter"

	"mui-v7-lint/tsutils"
)

const directivePrefix = "mui-lint-"

type directiveAST struct {
	Kind  string   `@Directive`
	Rules []string `( @RuleKey ( "," @RuleKey )* )?`
	Note  *string  `@Note?`
}

var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Directive", Pattern: `mui-lint-(disable-next-line|disable-line|disable|enable)`},
	{Name: "Note", Pattern: `--.*`},
	{Name: "RuleKey", Pattern: `[a-z][a-z0-9]*(-[a-z0-9]+)*`},
	{Name: "Punct", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var directiveParser = participle.MustBuild[directiveAST](
	participle.Lexer(directiveLexer),
	participle.Elide("Whitespace"),
)

// commentBody strips the comment markers of a line or block comment, and the
// braces of a JSX comment container.
func commentBody(comment string) string {
	s := strings.TrimSpace(comment)
	switch {
	case strings.HasPrefix(s, "//"):
		s = s[2:]
	case strings.HasPrefix(s, "/*"):
		s = strings.TrimSuffix(s[2:], "*/")
		s = strings.TrimSpace(strings.TrimLeft(s, "*"))
	}
	return strings.TrimSpace(s)
}

func parseDirective(comment string) (*directiveAST, bool) {
	body := commentBody(comment)
	if !strings.HasPrefix(body, directivePrefix) {
		return nil, false
	}
	d, err := directiveParser.ParseString("", body)
	if err != nil {
		return nil, false
	}
	return d, true
}

type suppressRegion struct {
	from, to uint32
	rules    map[string]bool
}

// suppressions holds the disable directives of one file. A nil rules map
// covers every rule.
type suppressions struct {
	lines   map[uint32][]map[string]bool
	regions []suppressRegion
}

func ruleSet(keys []string) map[string]bool {
	if len(keys) == 0 {
		return nil
	}
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

func covers(rules map[string]bool, key string) bool {
	return rules == nil || rules[key]
}

func (s *suppressions) suppressed(key string, row uint32) bool {
	if s == nil {
		return false
	}
	for _, rules := range s.lines[row] {
		if covers(rules, key) {
			return true
		}
	}
	for _, r := range s.regions {
		if r.from <= row && row < r.to && covers(r.rules, key) {
			return true
		}
	}
	return false
}

const endOfFile = ^uint32(0)

func (p *Pass) loadDirectives() {
	q := p.engine.Queries(p.Language)
	if q == nil {
		return
	}

	s := &suppressions{lines: map[uint32][]map[string]bool{}}
	var open []int

	for _, node := range tsutils.Captures(q.Comments, p.Root) {
		d, ok := parseDirective(p.Text(node))
		if !ok {
			continue
		}
		p.checkDirectiveRules(node, d)

		rules := ruleSet(d.Rules)
		switch d.Kind {
		case "mui-lint-disable-line":
			row := node.StartPoint().Row
			s.lines[row] = append(s.lines[row], rules)
		case "mui-lint-disable-next-line":
			row := node.EndPoint().Row + 1
			s.lines[row] = append(s.lines[row], rules)
		case "mui-lint-disable":
			s.regions = append(s.regions, suppressRegion{from: node.StartPoint().Row, to: endOfFile, rules: rules})
			open = append(open, len(s.regions)-1)
		case "mui-lint-enable":
			for _, idx := range open {
				s.regions[idx].to = node.StartPoint().Row
			}
			open = nil
		}
	}

	if len(s.lines) > 0 || len(s.regions) > 0 {
		p.suppress = s
	}
}

func (p *Pass) checkDirectiveRules(node *sitter.Node, d *directiveAST) {
	for _, key := range d.Rules {
		if _, known := catalogue[key]; known {
			continue
		}
		if p.hasRule(key) {
			continue
		}
		p.reportEngine("directive-unknown-rule", "unknownRule", FromNode(node), map[string]string{
			"rule":      key,
			"directive": d.Kind,
		})
	}
}

func (p *Pass) hasRule(key string) bool {
	for _, r := range p.engine.rules {
		if r.Key() == key {
			return true
		}
	}
	return false
}
