package analysis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MaxPasses bounds the fix loop of an engine built without WithMaxPasses.
const MaxPasses = 10

type FixResult struct {
	Body []byte
	// Passes counts the passes whose edits were applied.
	Passes int
	// Applied holds the diagnostics whose edits went into Body, in the
	// order they were applied.
	Applied []Diagnostic
	// Remaining is what a lint of Body still reports, including the engine's
	// own fix-not-converged and fix-corrupt-output diagnostics.
	Remaining []Diagnostic
	Converged bool
}

// Changed reports whether Fix rewrote anything.
func (r FixResult) Changed() bool {
	return len(r.Applied) > 0
}

// selectEdits takes the edit sets of diags in order and defers every set that
// conflicts with one taken before it to the next pass.
func selectEdits(diags []Diagnostic) ([]TextEdit, []Diagnostic) {
	var edits []TextEdit
	var applied []Diagnostic
	for _, d := range diags {
		if !d.HasFix() || EditSetsConflict(edits, d.Edits) {
			continue
		}
		edits = append(edits, d.Edits...)
		applied = append(applied, d)
	}
	return edits, applied
}

func ruleKeys(diags []Diagnostic) string {
	seen := map[string]bool{}
	var keys []string
	for _, d := range diags {
		if !seen[d.Key] {
			seen[d.Key] = true
			keys = append(keys, d.Key)
		}
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func fixable(diags []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.HasFix() {
			out = append(out, d)
		}
	}
	return out
}

// Fix rewrites body until a pass produces no edits or the pass limit is hit.
// Each pass parses the current text afresh, applies every non-overlapping
// edit set it finds and leaves the rest to the following pass.
func (e *Engine) Fix(ctx context.Context, uri string, body []byte) (FixResult, error) {
	lang, err := LanguageFor(uri)
	if err != nil {
		return FixResult{Body: body}, err
	}

	res := FixResult{Body: body}
	for res.Passes < e.maxPasses {
		diags, tree, err := e.runPass(ctx, lang, uri, res.Body, res.Passes+1)
		if err != nil {
			return res, err
		}
		edits, applied := selectEdits(diags)
		if len(edits) == 0 {
			res.Remaining = diags
			res.Converged = true
			return res, nil
		}

		next, err := ApplyEdits(res.Body, edits)
		if err != nil {
			return res, fmt.Errorf("pass %d of %s: %w", res.Passes+1, uri, err)
		}

		corrupt, err := e.corrupts(ctx, lang, tree.RootNode().HasError(), next)
		if err != nil {
			return res, err
		}
		if corrupt {
			e.logger.Warn("discarding fix pass with unparsable output",
				"file", uri,
				"pass", res.Passes+1,
				"rules", ruleKeys(applied))
			res.Remaining = append(diags, engineDiagnostic("fix-corrupt-output", "corruptOutput", FromOffsets(res.Body, 0, 0), map[string]string{
				"pass":  strconv.Itoa(res.Passes + 1),
				"rules": ruleKeys(applied),
			}))
			return res, nil
		}

		e.logger.Debug("applied fix pass",
			"file", uri,
			"pass", res.Passes+1,
			"edits", len(edits),
			"deferred", len(fixable(diags))-len(applied))

		res.Body = next
		res.Applied = append(res.Applied, applied...)
		res.Passes++
	}

	diags, _, err := e.runPass(ctx, lang, uri, res.Body, 0)
	if err != nil {
		return res, err
	}
	res.Remaining = diags

	pending := fixable(diags)
	if len(pending) == 0 {
		res.Converged = true
		return res, nil
	}

	e.logger.Warn("fix did not converge",
		"file", uri,
		"passes", res.Passes,
		"rules", ruleKeys(pending))
	res.Remaining = append(res.Remaining, engineDiagnostic("fix-not-converged", "notConverged", FromOffsets(res.Body, 0, 0), map[string]string{
		"passes": strconv.Itoa(res.Passes),
		"rules":  ruleKeys(pending),
	}))
	return res, nil
}

// corrupts reports whether next fails to parse cleanly although the text it
// was derived from did.
func (e *Engine) corrupts(ctx context.Context, lang Language, hadError bool, next []byte) (bool, error) {
	if hadError {
		return false, nil
	}
	tree, err := e.parse(ctx, lang, next)
	if err != nil {
		return false, err
	}
	return tree.RootNode().HasError(), nil
}
