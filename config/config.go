package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"mui-v7-lint/analysis"
)

const FileName = ".mui-lint.toml"

var DefaultExclude = []string{"**/node_modules/**", "**/dist/**", "**/build/**", "**/.git/**"}

type Config struct {
	Preset    string            `toml:"preset"`
	MaxPasses int               `toml:"max-passes"`
	Include   []string          `toml:"include,omitempty"`
	Exclude   []string          `toml:"exclude"`
	Rules     map[string]string `toml:"rules"`

	// Path is the file the config was read from, "" for the defaults.
	Path string `toml:"-"`
	// Severities is filled by Resolve.
	Severities map[string]analysis.Severity `toml:"-"`
}

func Default() *Config {
	c := &Config{
		Preset:    analysis.DefaultPreset,
		MaxPasses: analysis.MaxPasses,
		Exclude:   slices.Clone(DefaultExclude),
		Rules:     map[string]string{},
	}
	if err := c.Resolve(); err != nil {
		panic(err)
	}
	return c
}

// Find looks for FileName in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func Load(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	c, err := Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	c.Path = file
	return c, nil
}

// Decode parses a config file body. Keys the format does not know are
// errors, as are unknown presets, rules and severities.
func Decode(data string) (*Config, error) {
	c := &Config{
		Preset:    analysis.DefaultPreset,
		MaxPasses: analysis.MaxPasses,
		Exclude:   slices.Clone(DefaultExclude),
	}
	meta, err := toml.Decode(data, c)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if c.MaxPasses < 1 {
		return nil, fmt.Errorf("max-passes must be at least 1, got %d", c.MaxPasses)
	}
	if c.Rules == nil {
		c.Rules = map[string]string{}
	}
	for _, p := range append(append([]string{}, c.Include...), c.Exclude...) {
		if _, err := path.Match(strings.ReplaceAll(p, "**", "*"), ""); err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
	}
	if err := c.Resolve(); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode writes c in the format Decode reads.
func (c *Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Override applies command line settings on top of the file. An empty
// preset keeps the file's.
func (c *Config) Override(preset string, rules map[string]string) error {
	if preset != "" {
		c.Preset = preset
	}
	for k, v := range rules {
		c.Rules[k] = v
	}
	return c.Resolve()
}

func (c *Config) Resolve() error {
	sev, err := analysis.Resolve(c.Preset, c.Rules)
	if err != nil {
		return err
	}
	c.Severities = sev
	return nil
}

// Severity returns the configured severity of a catalogue or engine key.
func (c *Config) Severity(key string) analysis.Severity {
	return c.Severities[key]
}

// Enabled reports whether key is not switched off.
func (c *Config) Enabled(key string) bool {
	return c.Severity(key) != analysis.SeverityOff
}

// EnabledRules returns the catalogue entries that are not switched off, in
// catalogue order.
func (c *Config) EnabledRules() []analysis.Rule {
	var out []analysis.Rule
	for _, r := range analysis.DefaultRules {
		if c.Enabled(r.Key()) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether the slash separated path rel, relative to the
// project root, is a source file the config selects.
func (c *Config) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range c.Exclude {
		if Glob(p, rel) {
			return false
		}
	}
	if !analysis.IsSourceFile(rel) {
		return false
	}
	if len(c.Include) == 0 {
		return true
	}
	for _, p := range c.Include {
		if Glob(p, rel) {
			return true
		}
	}
	return false
}

// Glob matches name against pattern segment by segment. A "**" segment
// matches any number of segments, other segments follow path.Match.
func Glob(pattern, name string) bool {
	return globSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func globSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(name); i++ {
				if globSegments(rest, name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		if ok, err := path.Match(pattern[0], name[0]); err != nil || !ok {
			return false
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0
}
