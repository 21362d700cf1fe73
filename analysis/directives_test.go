package analysis

import (
	"testing"

	"github.com/go-test/deep"
)

func TestParseDirective(t *testing.T) {
	cases := []struct {
		comment string
		kind    string
		rules   []string
		ok      bool
	}{
		{"// mui-lint-disable-next-line", "mui-lint-disable-next-line", nil, true},
		{"// mui-lint-disable-line no-grid-item-prop", "mui-lint-disable-line", []string{"no-grid-item-prop"}, true},
		{"/* mui-lint-disable no-lab-imports, prefer-theme-vars */", "mui-lint-disable", []string{"no-lab-imports", "prefer-theme-vars"}, true},
		{"/** mui-lint-enable */", "mui-lint-enable", nil, true},
		{"// mui-lint-disable-next-line prefer-slots-api -- DataGrid has its own API", "mui-lint-disable-next-line", []string{"prefer-slots-api"}, true},
		{"// eslint-disable-next-line", "", nil, false},
		{"// mui-lint-disable-next-line Not_A_Key", "", nil, false},
		{"// just a comment", "", nil, false},
	}
	for _, c := range cases {
		d, ok := parseDirective(c.comment)
		if ok != c.ok {
			t.Errorf("%q: ok = %v", c.comment, ok)
			continue
		}
		if !ok {
			continue
		}
		if d.Kind != c.kind {
			t.Errorf("%q: kind %q", c.comment, d.Kind)
		}
		if diff := deep.Equal(d.Rules, c.rules); diff != nil {
			t.Errorf("%q: %v", c.comment, diff)
		}
	}
}

func TestSuppressions(t *testing.T) {
	var none *suppressions
	if none.suppressed("no-lab-imports", 0) {
		t.Error("nil suppressions suppressed a diagnostic")
	}

	s := &suppressions{
		lines: map[uint32][]map[string]bool{
			3: {ruleSet([]string{"no-lab-imports"})},
		},
		regions: []suppressRegion{
			{from: 10, to: 20, rules: nil},
		},
	}
	cases := []struct {
		key  string
		row  uint32
		want bool
	}{
		{"no-lab-imports", 3, true},
		{"prefer-theme-vars", 3, false},
		{"prefer-theme-vars", 10, true},
		{"prefer-theme-vars", 19, true},
		{"prefer-theme-vars", 20, false},
	}
	for _, c := range cases {
		if got := s.suppressed(c.key, c.row); got != c.want {
			t.Errorf("%s at %d: got %v", c.key, c.row, got)
		}
	}
}

func TestDisableRegion(t *testing.T) {
	src := []byte(`/* mui-lint-disable no-deep-imports */
import Button from "@mui/material/Button/Button";
/* mui-lint-enable */
import Menu from "@mui/material/Menu/Menu";
`)
	eng := New()
	diags, err := eng.Lint(t.Context(), "a.js", src)
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 1 || diags[0].Range.StartPoint.Row != 3 {
		t.Errorf("diagnostics: %+v", diags)
	}
}
