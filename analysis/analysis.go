package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrParse           = errors.New("failed to parse source")
)

type Language int

const (
	LanguageUnknown Language = iota
	LanguageJavaScript
	LanguageTSX
	LanguageTypeScript
)

func (l Language) String() string {
	switch l {
	case LanguageJavaScript:
		return "javascript"
	case LanguageTSX:
		return "tsx"
	case LanguageTypeScript:
		return "typescript"
	default:
		return "unknown"
	}
}

func (l Language) Grammar() *sitter.Language {
	switch l {
	case LanguageJavaScript:
		return javascript.GetLanguage()
	case LanguageTSX:
		return tsx.GetLanguage()
	case LanguageTypeScript:
		return typescript.GetLanguage()
	default:
		return nil
	}
}

// HasJSX reports whether the grammar knows JSX element nodes.
func (l Language) HasJSX() bool {
	return l == LanguageJavaScript || l == LanguageTSX
}

func LanguageFor(path string) (Language, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript, nil
	case ".tsx":
		return LanguageTSX, nil
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript, nil
	}
	return LanguageUnknown, fmt.Errorf("%s: %w", path, ErrUnsupportedFile)
}

// IsSourceFile reports whether path has an extension the engine can parse.
func IsSourceFile(path string) bool {
	_, err := LanguageFor(path)
	return err == nil
}

func Parser(lang Language) *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(lang.Grammar())

	return parser
}

type FileContext struct {
	Language    Language
	Body        []byte
	Tree        *sitter.Tree
	Diagnostics []Diagnostic
}

type Engine struct {
	rules     []Rule
	visitor   *Visitor
	maxPasses int
	logger    *slog.Logger

	queries map[Language]langQueries

	mu           sync.RWMutex
	fileContexts map[string]FileContext
}

type Option func(*Engine)

// WithRules replaces the default catalogue.
func WithRules(rules ...Rule) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

func WithMaxPasses(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPasses = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		rules:        DefaultRules,
		maxPasses:    MaxPasses,
		logger:       slog.New(slog.DiscardHandler),
		queries:      map[Language]langQueries{},
		fileContexts: map[string]FileContext{},
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, lang := range []Language{LanguageJavaScript, LanguageTSX, LanguageTypeScript} {
		q, err := initQueries(lang)
		if err != nil {
			panic(err)
		}
		e.queries[lang] = q
	}
	e.visitor = NewVisitor(e.rules)

	return e
}

func (e *Engine) Rules() []Rule {
	return e.rules
}

func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

func (e *Engine) Queries(lang Language) *Queries {
	q, ok := e.queries[lang]
	if !ok {
		return nil
	}
	return q.base
}

func (e *Engine) parse(ctx context.Context, lang Language, body []byte) (*sitter.Tree, error) {
	if lang.Grammar() == nil {
		return nil, ErrUnsupportedFile
	}
	tree, err := Parser(lang).ParseCtx(ctx, nil, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return tree, nil
}

// Lint runs a single pass over body and returns every match the catalogue
// finds, fixable or not.
func (e *Engine) Lint(ctx context.Context, uri string, body []byte) ([]Diagnostic, error) {
	lang, err := LanguageFor(uri)
	if err != nil {
		return nil, err
	}
	diags, _, err := e.runPass(ctx, lang, uri, body, 0)
	return diags, err
}

func (e *Engine) runPass(ctx context.Context, lang Language, uri string, body []byte, index int) ([]Diagnostic, *sitter.Tree, error) {
	tree, err := e.parse(ctx, lang, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", uri, err)
	}

	p := newPass(e, uri, lang, body, tree.RootNode(), index)
	p.loadDirectives()
	e.visitor.Walk(p)

	return p.finish(), tree, nil
}

func (e *Engine) SetFileContext(ctx context.Context, uri string, content []byte) error {
	lang, err := LanguageFor(uri)
	if err != nil {
		return err
	}

	diags, tree, err := e.runPass(ctx, lang, uri, content, 0)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.fileContexts[uri] = FileContext{
		Language:    lang,
		Body:        content,
		Tree:        tree,
		Diagnostics: diags,
	}
	e.mu.Unlock()

	return nil
}

func (e *Engine) GetFileContext(uri string) (FileContext, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	k, ok := e.fileContexts[uri]
	if !ok {
		return FileContext{}, errors.New("file context not found")
	}
	return k, nil
}

func (e *Engine) DeleteFileContext(uri string) {
	e.mu.Lock()
	delete(e.fileContexts, uri)
	e.mu.Unlock()
}
