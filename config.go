package sqleibniz

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned by FindConfig/LoadConfig when no
// leibniz.yaml exists anywhere from dir up to the filesystem root.
var ErrConfigNotFound = errors.New("sqleibniz: no leibniz.yaml found")

// HookConfig is one entry of the config's `hooks` list (§6): a named hook,
// keyed to the AST node kind it fires on, whose body is an expr-lang
// expression string evaluated against that node's projection.
type HookConfig struct {
	Name string `yaml:"name"`
	Node string `yaml:"node"`
	Expr string `yaml:"expr"`
}

// Config is the `leibniz.yaml` document (§6, SPEC_FULL.md Open Question 4).
// spec.md describes this file as a `leibniz.lua` table; no Lua/Starlark
// dependency is grounded anywhere in the retrieved pack, so this repo uses
// YAML with expr-lang hook bodies instead, preserving every semantic (rule
// suppression, named node-keyed hooks) without fabricating a dependency.
type Config struct {
	DisabledRules []string     `yaml:"disabled_rules,omitempty"`
	Hooks         []HookConfig `yaml:"hooks,omitempty"`
}

// DefaultConfigNames are the filenames searched for, in order.
var DefaultConfigNames = []string{"leibniz.yaml", "leibniz.yml", ".leibniz.yaml", ".leibniz.yml"}

// LoadConfig finds and loads the nearest leibniz.yaml, walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up to
// the filesystem root, matching config.go's walk-up-the-tree search.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for d := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(d, name)

			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(d)
		if parent == d {
			return "", ErrConfigNotFound
		}

		d = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DisabledRuleSet resolves the config's disabled_rules names (accepting
// both kebab-case and CamelCase per §6) into the Rule-keyed set NewSink
// takes for its render-time suppression. Unresolvable names are skipped, not fatal: a typo in
// a config file shouldn't crash analysis.
func (c *Config) DisabledRuleSet() map[Rule]bool {
	out := make(map[Rule]bool, len(c.DisabledRules))

	for _, name := range c.DisabledRules {
		if rule, ok := ParseRuleName(name); ok {
			out[rule] = true
		}
	}

	return out
}
