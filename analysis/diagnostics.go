package analysis

import (
	sitter "github.com/smacker/go-tree-sitter"
)

type Tier int

const (
	// Breaking patterns stop working after the upgrade.
	Breaking Tier = iota
	// Advisory patterns still work but have a v7 replacement.
	Advisory
)

func (t Tier) String() string {
	switch t {
	case Breaking:
		return "breaking"
	case Advisory:
		return "advisory"
	default:
		return "unknown"
	}
}

// Rule is one entry of the pattern catalogue. Analyze is called for every
// node whose kind is listed by Kinds and reports through the pass.
type Rule interface {
	Key() string
	Tier() Tier
	Kinds() []string
	Fixable() bool
	Analyze(pass *Pass, node *sitter.Node)
}

type Diagnostic struct {
	Range     PointRange
	Key       string
	MessageID string
	Tier      Tier
	Message   string
	Params    map[string]string
	Edits     []TextEdit
	Withheld  WithheldReason
}

func (d Diagnostic) HasFix() bool {
	return len(d.Edits) > 0
}
