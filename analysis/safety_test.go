package analysis_test

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"mui-v7-lint/analysis"
)

func TestClassifyAttributes(t *testing.T) {
	cases := []struct {
		src  string
		want analysis.WithheldReason
	}{
		{`<Grid item xs={12} />`, analysis.WithheldNone},
		{`<Grid item xs="auto" />`, analysis.WithheldNone},
		{`<Grid {...rest} item xs={12} />`, analysis.WithheldSpread},
		{`<Grid item xs={12} {...rest} />`, analysis.WithheldSpread},
		{`<Grid item xs={dynamicValue} />`, analysis.WithheldDynamicValue},
		{`<Grid item xs={wide ? 12 : 6} />`, analysis.WithheldDynamicValue},
		{"<Grid item xs={`${n}`} />", analysis.WithheldDynamicValue},
	}
	for _, c := range cases {
		root, src := parse(t, "a.jsx", c.src)
		el := find(root, "jsx_self_closing_element")
		affected := []*sitter.Node{
			analysis.FindAttribute(el, "item", src),
			analysis.FindAttribute(el, "xs", src),
		}
		if got := analysis.ClassifyAttributes(el, affected, src); got.Reason != c.want {
			t.Errorf("%s: got %q, want %q", c.src, got.Reason, c.want)
		}
	}
}

func TestClassifyRename(t *testing.T) {
	cases := []struct {
		src  string
		want analysis.WithheldReason
	}{
		{`<TextField components={{}} />`, analysis.WithheldNone},
		{`<TextField components={{}} slots={{}} />`, analysis.WithheldConflict},
		{`<TextField {...props} components={{}} />`, analysis.WithheldSpread},
	}
	for _, c := range cases {
		root, src := parse(t, "a.jsx", c.src)
		el := find(root, "jsx_self_closing_element")
		if got := analysis.ClassifyRename(el, []string{"slots"}, src); got.Reason != c.want {
			t.Errorf("%s: got %q, want %q", c.src, got.Reason, c.want)
		}
	}
}

func TestVerdictThen(t *testing.T) {
	called := false
	v := analysis.Withhold(analysis.WithheldSpread).Then(func() analysis.Verdict {
		called = true
		return analysis.Allow()
	})
	if called || v.Reason != analysis.WithheldSpread {
		t.Errorf("a withheld verdict must short-circuit: %+v called=%v", v, called)
	}

	v = analysis.Allow().Then(func() analysis.Verdict { return analysis.Withhold(analysis.WithheldConflict) })
	if v.Allowed() || v.Reason != analysis.WithheldConflict {
		t.Errorf("got %+v", v)
	}
}
