package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownPreset   = errors.New("unknown preset")
	ErrUnknownSeverity = errors.New("unknown severity")
)

type Severity int

const (
	SeverityOff Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off":
		return SeverityOff, nil
	case "warn", "warning":
		return SeverityWarn, nil
	case "error":
		return SeverityError, nil
	}
	return SeverityOff, fmt.Errorf("%w %q", ErrUnknownSeverity, s)
}

const DefaultPreset = "recommended"

// presets map a tier to the severity a host reports it with.
var presets = map[string]func(Tier) Severity{
	"recommended": func(t Tier) Severity {
		if t == Breaking {
			return SeverityError
		}
		return SeverityWarn
	},
	"strict": func(Tier) Severity {
		return SeverityError
	},
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps every catalogue and engine key to a severity: the preset's
// choice for its tier, unless overrides names the key.
func Resolve(preset string, overrides map[string]string) (map[string]Severity, error) {
	if preset == "" {
		preset = DefaultPreset
	}
	tierSeverity, ok := presets[preset]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownPreset, preset, strings.Join(PresetNames(), ", "))
	}

	out := map[string]Severity{}
	for _, key := range append(RuleKeys(), EngineKeys()...) {
		tier, err := TierOf(key)
		if err != nil {
			return nil, err
		}
		out[key] = tierSeverity(tier)
	}

	for key, value := range overrides {
		if _, known := out[key]; !known {
			return nil, fmt.Errorf("%w %q", ErrUnknownRule, key)
		}
		sev, err := ParseSeverity(value)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", key, err)
		}
		out[key] = sev
	}
	return out, nil
}
