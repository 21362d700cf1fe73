package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"unicode/utf16"

	"fortio.org/safecast"
	"github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"mui-v7-lint/analysis"
	"mui-v7-lint/config"
	lspserver "mui-v7-lint/lsp-server"
)

const diagnosticSource = "mui-v7-lint"

const (
	codeActionKindQuickFix = "quickfix"
	codeActionKindFixAll   = "source.fixAll"
)

type server struct {
	rootURI string
	logger  *slog.Logger

	mu     sync.RWMutex
	cfg    *config.Config
	engine *analysis.Engine
}

func newServer(logger *slog.Logger) *server {
	cfg := config.Default()
	return &server{
		logger: logger,
		cfg:    cfg,
		engine: analysis.New(analysis.WithLogger(logger), analysis.WithRules(cfg.EnabledRules()...)),
	}
}

func (s *server) methods() lspserver.MethodMap {
	return lspserver.MethodMap{
		"initialize":              lspserver.Handle(s.Initialize),
		"initialized":             lspserver.Handle(s.Initialized),
		"shutdown":                lspserver.Handle(s.Shutdown),
		"exit":                    lspserver.Handle(s.Exit),
		"textDocument/didOpen":    lspserver.Handle(s.DidOpen),
		"textDocument/didChange":  lspserver.Handle(s.DidChange),
		"textDocument/didSave":    lspserver.Handle(s.DidSave),
		"textDocument/didClose":   lspserver.Handle(s.DidClose),
		"textDocument/codeAction": lspserver.Handle(s.CodeAction),
	}
}

func (s *server) state() (*config.Config, *analysis.Engine) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.engine
}

func (s *server) Initialize(ctx context.Context, conn jsonrpc2.JSONRPC2, params lsp.InitializeParams) (*lsp.InitializeResult, *lsp.InitializeError) {
	s.rootURI = string(params.RootURI)

	root := strings.TrimPrefix(s.rootURI, "file://")
	if root != "" {
		file, ok, err := config.Find(root)
		switch {
		case err != nil:
			s.logger.Warn("failed to look for a config file", "root", root, "err", err)
		case ok:
			cfg, err := config.Load(file)
			if err != nil {
				s.logger.Warn("using the default config", "err", err)
				break
			}
			s.mu.Lock()
			s.cfg = cfg
			s.engine = analysis.New(
				analysis.WithLogger(s.logger),
				analysis.WithMaxPasses(cfg.MaxPasses),
				analysis.WithRules(cfg.EnabledRules()...),
			)
			s.mu.Unlock()
			s.logger.Info("loaded config", "file", file, "preset", cfg.Preset)
		}
	}

	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			CodeActionProvider: true,
		},
	}, nil
}

func (s *server) Initialized(ctx context.Context, conn jsonrpc2.JSONRPC2, params struct{}) {

}

func (s *server) Shutdown(ctx context.Context, conn jsonrpc2.JSONRPC2, params struct{}) (interface{}, error) {
	return nil, nil
}

func (s *server) Exit(ctx context.Context, conn jsonrpc2.JSONRPC2, params struct{}) {
	if err := conn.Close(); err != nil {
		s.logger.Debug("failed to close connection", "err", err)
	}
}

// fileURI is the key the engine stores a document under.
func (s *server) fileURI(uri lsp.DocumentURI) string {
	return strings.TrimPrefix(strings.TrimPrefix(string(uri), s.rootURI), "/")
}

func (s *server) evaluate(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	cfg, engine := s.state()
	fileURI := s.fileURI(uri)

	diags := lsp.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []lsp.Diagnostic{},
	}
	if cfg.Matches(fileURI) {
		if err := engine.SetFileContext(ctx, fileURI, []byte(content)); err != nil {
			s.logger.Warn("failed to analyse file", "file", fileURI, "err", err)
		} else if fctx, err := engine.GetFileContext(fileURI); err == nil {
			diags.Diagnostics = publishable(cfg, fctx)
		}
	}

	if err := conn.Notify(ctx, "textDocument/publishDiagnostics", diags); err != nil {
		s.logger.Warn("failed to publish diagnostics", "file", fileURI, "err", err)
	}
}

func (s *server) DidOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, params lsp.DidOpenTextDocumentParams) {
	s.evaluate(ctx, conn, params.TextDocument.URI, params.TextDocument.Text)
}

func (s *server) DidChange(ctx context.Context, conn jsonrpc2.JSONRPC2, params lsp.DidChangeTextDocumentParams) {
	if len(params.ContentChanges) == 0 {
		return
	}
	// full sync, the last change holds the whole document
	s.evaluate(ctx, conn, params.TextDocument.URI, params.ContentChanges[len(params.ContentChanges)-1].Text)
}

func (s *server) DidSave(ctx context.Context, conn jsonrpc2.JSONRPC2, params lsp.DidSaveTextDocumentParams) {

}

func (s *server) DidClose(ctx context.Context, conn jsonrpc2.JSONRPC2, params lsp.DidCloseTextDocumentParams) {
	_, engine := s.state()
	engine.DeleteFileContext(s.fileURI(params.TextDocument.URI))

	empty := lsp.PublishDiagnosticsParams{URI: params.TextDocument.URI, Diagnostics: []lsp.Diagnostic{}}
	if err := conn.Notify(ctx, "textDocument/publishDiagnostics", empty); err != nil {
		s.logger.Warn("failed to clear diagnostics", "err", err)
	}
}

func (s *server) CodeAction(ctx context.Context, conn jsonrpc2.JSONRPC2, params lsp.CodeActionParams) ([]CodeAction, error) {
	cfg, engine := s.state()
	fileURI := s.fileURI(params.TextDocument.URI)
	fctx, err := engine.GetFileContext(fileURI)
	if err != nil {
		return nil, fmt.Errorf("failed to get file context for code actions: %w", err)
	}

	actions := quickFixes(cfg, fctx, params.TextDocument.URI, params.Range)
	if len(actions) == 0 {
		return actions, nil
	}

	res, err := engine.Fix(ctx, fileURI, fctx.Body)
	if err != nil {
		s.logger.Warn("failed to fix file", "file", fileURI, "err", err)
		return actions, nil
	}
	if res.Changed() && res.Converged {
		actions = append(actions, CodeAction{
			Title: "Fix all MUI v7 migration issues",
			Kind:  codeActionKindFixAll,
			Edit: &lsp.WorkspaceEdit{
				Changes: map[string][]lsp.TextEdit{
					string(params.TextDocument.URI): {{
						Range:   rangeOf(fctx.Body, 0, math.MaxUint32),
						NewText: string(res.Body),
					}},
				},
			},
		})
	}
	return actions, nil
}

// publishable converts the diagnostics of fctx whose key is not switched off.
func publishable(cfg *config.Config, fctx analysis.FileContext) []lsp.Diagnostic {
	out := []lsp.Diagnostic{}
	for _, d := range fctx.Diagnostics {
		sev := cfg.Severity(d.Key)
		if sev == analysis.SeverityOff {
			continue
		}
		out = append(out, toLSP(fctx.Body, d, sev))
	}
	return out
}

// quickFixes returns one action per fixable diagnostic overlapping rng.
func quickFixes(cfg *config.Config, fctx analysis.FileContext, uri lsp.DocumentURI, rng lsp.Range) []CodeAction {
	actions := []CodeAction{}
	for _, d := range fctx.Diagnostics {
		sev := cfg.Severity(d.Key)
		if !d.HasFix() || sev == analysis.SeverityOff {
			continue
		}
		diag := toLSP(fctx.Body, d, sev)
		if !overlaps(diag.Range, rng) {
			continue
		}

		edits := make([]lsp.TextEdit, 0, len(d.Edits))
		for _, e := range d.Edits {
			edits = append(edits, lsp.TextEdit{
				Range:   rangeOf(fctx.Body, e.Start, e.End),
				NewText: e.NewText,
			})
		}
		actions = append(actions, CodeAction{
			Title:       "Fix " + d.Key,
			Kind:        codeActionKindQuickFix,
			Diagnostics: []lsp.Diagnostic{diag},
			IsPreferred: true,
			Edit: &lsp.WorkspaceEdit{
				Changes: map[string][]lsp.TextEdit{string(uri): edits},
			},
		})
	}
	return actions
}

func toLSP(body []byte, d analysis.Diagnostic, sev analysis.Severity) lsp.Diagnostic {
	msg := d.Message
	if d.Withheld != analysis.WithheldNone {
		msg += fmt.Sprintf(" (no automatic fix: %s)", d.Withheld)
	}
	return lsp.Diagnostic{
		Range:    rangeOf(body, d.Range.StartByte, d.Range.EndByte),
		Severity: severity(sev),
		Code:     d.Key,
		Source:   diagnosticSource,
		Message:  msg,
	}
}

func severity(sev analysis.Severity) lsp.DiagnosticSeverity {
	if sev == analysis.SeverityError {
		return lsp.Error
	}
	return lsp.Warning
}

func rangeOf(body []byte, start, end uint32) lsp.Range {
	return lsp.Range{Start: position(body, start), End: position(body, end)}
}

// position converts a byte offset into body to a line and a UTF-16 column.
func position(body []byte, offset uint32) lsp.Position {
	off := len(body)
	if n, err := safecast.Conv[int](offset); err == nil && n < off {
		off = n
	}
	head := body[:off]
	lineStart := bytes.LastIndexByte(head, '\n') + 1

	col := 0
	for _, r := range string(head[lineStart:]) {
		col += utf16.RuneLen(r)
	}
	return lsp.Position{Line: bytes.Count(head, []byte{'\n'}), Character: col}
}

func before(a, b lsp.Position) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Character < b.Character)
}

// overlaps treats both ranges as closed, so a cursor touching either end of a
// diagnostic selects it.
func overlaps(a, b lsp.Range) bool {
	return !before(a.End, b.Start) && !before(b.End, a.Start)
}

// A code action represents a change that can be performed in code, e.g. to fix
// a problem or to refactor code.
//
// A CodeAction must set either `edit` and/or a `command`. If both are supplied,
// the `edit` is applied first, then the `command` is executed.
type CodeAction struct {
	// A short, human-readable, title for this code action.
	Title string `json:"title"`

	// The kind of the code action. Used to filter code actions.
	Kind string `json:"kind,omitempty"`

	// The diagnostics that this code action resolves.
	Diagnostics []lsp.Diagnostic `json:"diagnostics,omitempty"`

	// Marks this as a preferred action. Preferred actions are used by the
	// `auto fix` command and can be targeted by keybindings.
	IsPreferred bool `json:"isPreferred,omitempty"`

	// The workspace edit this code action performs.
	Edit *lsp.WorkspaceEdit `json:"edit,omitempty"`

	// A command this code action executes.
	Command *lsp.Command `json:"command,omitempty"`
}
