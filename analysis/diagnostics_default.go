package analysis

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownRule = errors.New("unknown rule")

var DefaultRules = []Rule{
	DiagnosticsMUIDeepImports{},
	DiagnosticsMUIUnstableGrid{},
	DiagnosticsMUIGrid2Import{},
	DiagnosticsMUILabImports{},
	DiagnosticsMUIDeprecatedImports{},
	DiagnosticsMUIGridItemProp{},
	DiagnosticsMUIDeprecatedProps{},
	DiagnosticsMUISlotsAPI{},
	DiagnosticsMUIThemeVars{},
	DiagnosticsMUIGridLegacy{},
}

// engineKeys are the diagnostics the engine raises about itself.
var engineKeys = map[string]Tier{
	"fix-not-converged":      Advisory,
	"fix-corrupt-output":     Breaking,
	"directive-unknown-rule": Advisory,
}

var catalogue = func() map[string]Rule {
	m := make(map[string]Rule, len(DefaultRules))
	for _, r := range DefaultRules {
		if _, dup := m[r.Key()]; dup {
			panic("duplicate rule key " + r.Key())
		}
		m[r.Key()] = r
	}
	return m
}()

// LookupRule returns the catalogue entry for key.
func LookupRule(key string) (Rule, error) {
	r, ok := catalogue[key]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRule, key)
	}
	return r, nil
}

func RuleKeys() []string {
	keys := make([]string, 0, len(DefaultRules))
	for _, r := range DefaultRules {
		keys = append(keys, r.Key())
	}
	return keys
}

// EngineKeys lists the keys of engine diagnostics, sorted.
func EngineKeys() []string {
	keys := make([]string, 0, len(engineKeys))
	for k := range engineKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TierOf returns the tier of a catalogue or engine key.
func TierOf(key string) (Tier, error) {
	if r, ok := catalogue[key]; ok {
		return r.Tier(), nil
	}
	if t, ok := engineKeys[key]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownRule, key)
}
