package analysis

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

//go:embed messages.toml
var messagesTOML string

var ErrMissingParam = errors.New("missing message parameter")

type templateAST struct {
	Parts []*templatePart `@@*`
}

type templatePart struct {
	Param *string `  @Param`
	Text  *string `| @Text`
}

var templateLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Param", Pattern: `\{\{\s*[A-Za-z_][A-Za-z0-9_]*\s*\}\}`},
	{Name: "Text", Pattern: `[^{]+|\{`},
})

var templateParser = participle.MustBuild[templateAST](
	participle.Lexer(templateLexer),
)

// Template is a message with {{ name }} placeholders. Braces that do not
// enclose a bare identifier are literal text, so JSX like size={{ xs: 12 }}
// can appear in examples.
type Template struct {
	raw   string
	parts []templatePart
}

func ParseTemplate(s string) (*Template, error) {
	ast, err := templateParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message template: %w", err)
	}
	t := &Template{raw: s}
	for _, part := range ast.Parts {
		if part.Param != nil {
			name := strings.Trim(*part.Param, "{} \t")
			t.parts = append(t.parts, templatePart{Param: &name})
		} else {
			t.parts = append(t.parts, *part)
		}
	}
	return t, nil
}

func (t *Template) String() string {
	return t.raw
}

// Params lists the placeholders of the template, sorted and deduplicated.
func (t *Template) Params() []string {
	seen := map[string]bool{}
	var out []string
	for _, part := range t.parts {
		if part.Param != nil && !seen[*part.Param] {
			seen[*part.Param] = true
			out = append(out, *part.Param)
		}
	}
	sort.Strings(out)
	return out
}

func (t *Template) Render(params map[string]string) (string, error) {
	var b strings.Builder
	for _, part := range t.parts {
		if part.Text != nil {
			b.WriteString(*part.Text)
			continue
		}
		v, ok := params[*part.Param]
		if !ok {
			return t.raw, fmt.Errorf("%w %q", ErrMissingParam, *part.Param)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

type ruleDocFile struct {
	Rules []ruleDocEntry `toml:"rule"`
}

type ruleDocEntry struct {
	Key         string            `toml:"key"`
	Title       string            `toml:"title"`
	Category    string            `toml:"category"`
	Description string            `toml:"description"`
	Before      string            `toml:"before"`
	After       string            `toml:"after"`
	Messages    map[string]string `toml:"messages"`
}

// RuleDoc is the human facing half of a catalogue entry.
type RuleDoc struct {
	Key         string
	Title       string
	Category    string
	Description string
	Before      string
	After       string
	Messages    map[string]*Template
}

type messageCatalog struct {
	order []string
	docs  map[string]RuleDoc
}

var catalog = mustLoadCatalog(messagesTOML)

func mustLoadCatalog(data string) messageCatalog {
	c, err := loadCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

func loadCatalog(data string) (messageCatalog, error) {
	var file ruleDocFile
	md, err := toml.Decode(data, &file)
	if err != nil {
		return messageCatalog{}, fmt.Errorf("failed to decode message catalogue: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return messageCatalog{}, fmt.Errorf("unknown keys in message catalogue: %v", undecoded)
	}

	c := messageCatalog{docs: map[string]RuleDoc{}}
	for _, entry := range file.Rules {
		if _, dup := c.docs[entry.Key]; dup {
			return messageCatalog{}, fmt.Errorf("duplicate catalogue entry %q", entry.Key)
		}
		doc := RuleDoc{
			Key:         entry.Key,
			Title:       entry.Title,
			Category:    entry.Category,
			Description: entry.Description,
			Before:      entry.Before,
			After:       entry.After,
			Messages:    map[string]*Template{},
		}
		for id, raw := range entry.Messages {
			t, err := ParseTemplate(raw)
			if err != nil {
				return messageCatalog{}, fmt.Errorf("message %s.%s: %w", entry.Key, id, err)
			}
			doc.Messages[id] = t
		}
		c.order = append(c.order, entry.Key)
		c.docs[entry.Key] = doc
	}
	return c, nil
}

// Doc returns the documentation of a rule or engine diagnostic.
func Doc(key string) (RuleDoc, bool) {
	d, ok := catalog.docs[key]
	return d, ok
}

// Docs returns every documented key in catalogue file order.
func Docs() []RuleDoc {
	out := make([]RuleDoc, 0, len(catalog.order))
	for _, k := range catalog.order {
		out = append(out, catalog.docs[k])
	}
	return out
}

func renderMessage(key, messageID string, params map[string]string) (string, error) {
	doc, ok := catalog.docs[key]
	if !ok {
		return key + ": " + messageID, fmt.Errorf("no catalogue entry for %q", key)
	}
	t, ok := doc.Messages[messageID]
	if !ok {
		return doc.Title, fmt.Errorf("no message %q for %q", messageID, key)
	}
	return t.Render(params)
}
