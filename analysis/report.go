package analysis

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Report is what a rule hands to the pass on a match.
type Report struct {
	Node      *sitter.Node
	MessageID string
	Params    map[string]string
	Edits     []TextEdit
	// Verdict withholds Edits when it is not allowed.
	Verdict Verdict
}

// Report renders the message of the current rule and records the
// diagnostic. Edits that fail validation are dropped and the diagnostic is
// kept.
func (p *Pass) Report(r Report) {
	rule := p.rule
	if rule == nil || r.Node == nil {
		return
	}

	rng := FromNode(r.Node)
	if p.suppress.suppressed(rule.Key(), rng.StartPoint.Row) {
		return
	}

	d := Diagnostic{
		Range:     rng,
		Key:       rule.Key(),
		MessageID: r.MessageID,
		Tier:      rule.Tier(),
		Params:    r.Params,
		Withheld:  r.Verdict.Reason,
	}
	d.Message = p.render(rule.Key(), r.MessageID, r.Params)

	switch {
	case !r.Verdict.Allowed():
		p.engine.logger.Debug("fix withheld",
			"rule", d.Key,
			"file", p.URI,
			"row", rng.StartPoint.Row+1,
			"reason", string(d.Withheld))
	case len(r.Edits) > 0:
		if err := ValidateEdits(r.Edits, rng); err != nil {
			p.engine.logger.Warn("dropping invalid edit set",
				"rule", d.Key,
				"file", p.URI,
				"row", rng.StartPoint.Row+1,
				"err", err)
			d.Withheld = WithheldInvalidEdits
			break
		}
		d.Edits = r.Edits
	}

	p.diags = append(p.diags, d)
}

// reportEngine records a diagnostic raised by the engine itself rather than
// by a catalogue rule.
func (p *Pass) reportEngine(key, messageID string, rng PointRange, params map[string]string) {
	p.diags = append(p.diags, engineDiagnostic(key, messageID, rng, params))
}

func engineDiagnostic(key, messageID string, rng PointRange, params map[string]string) Diagnostic {
	d := Diagnostic{
		Range:     rng,
		Key:       key,
		MessageID: messageID,
		Tier:      engineKeys[key],
		Params:    params,
	}
	d.Message, _ = renderMessage(key, messageID, params)
	return d
}

func (p *Pass) render(key, messageID string, params map[string]string) string {
	msg, err := renderMessage(key, messageID, params)
	if err != nil {
		p.engine.logger.Error("failed to render message",
			"rule", key,
			"message", messageID,
			"err", err)
	}
	return msg
}
