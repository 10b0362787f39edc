package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/fieldcheck/packages/core/member"
)

// Config represents the fieldcheck configuration: comparison defaults,
// extra demangling rules, and golden store settings. Zero values mean
// "not set"; Merge layers configs so files, environment and code can each
// contribute.
type Config struct {
	Scope        []string     `json:"scope,omitempty"`        // scope toggle names, combined by union
	MaxDepth     int          `json:"maxDepth,omitempty"`     // structural descent bound, 0 = unbounded
	Rules        []RuleConfig `json:"rules,omitempty"`        // demangling rules tried before the built-ins
	GoldenDir    string       `json:"goldenDir,omitempty"`    // golden store base directory
	GoldenFormat string       `json:"goldenFormat,omitempty"` // "json" or "yaml"
	SchemaFile   string       `json:"schemaFile,omitempty"`   // JSON schema for golden data, relative to GoldenDir
	Update       *bool        `json:"update,omitempty"`       // golden update mode
	Parallelism  int          `json:"parallelism,omitempty"`  // concurrent golden verifications
	Verbose      *bool        `json:"verbose,omitempty"`
	NoColor      *bool        `json:"noColor,omitempty"`
}

// RuleConfig is one demangling rule in configuration form. The pattern's
// first capture group becomes the demangled name.
type RuleConfig struct {
	Pattern string `json:"pattern"`
	Kind    string `json:"kind"` // "auto-property", "anonymous-field" or "normal"
}

// BoolPtr returns a pointer to a bool value, for setting optional flags.
func BoolPtr(b bool) *bool {
	return &b
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetUpdate returns the golden update mode, defaulting to false.
func (c *Config) GetUpdate() bool {
	return getBool(c.Update, false)
}

// GetVerbose returns the verbose setting, defaulting to false.
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false.
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// MemberScope parses the configured scope names into a member scope.
func (c *Config) MemberScope() (member.Scope, error) {
	return member.ParseScope(c.Scope...)
}

// DemangleRules builds the rule table: configured rules first, then the
// built-in conventions. New compiler decorations are a config edit, not a
// code change.
func (c *Config) DemangleRules() ([]member.Rule, error) {
	if len(c.Rules) == 0 {
		return member.DefaultRules, nil
	}
	rules := make([]member.Rule, 0, len(c.Rules)+len(member.DefaultRules))
	for _, rc := range c.Rules {
		re, err := regexp.Compile(rc.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule pattern %q: %w", rc.Pattern, err)
		}
		kind, err := parseKind(rc.Kind)
		if err != nil {
			return nil, err
		}
		rules = append(rules, member.Rule{Pattern: re, Kind: kind})
	}
	return append(rules, member.DefaultRules...), nil
}

func parseKind(name string) (member.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "auto-property":
		return member.KindAutoProperty, nil
	case "anonymous-field":
		return member.KindAnonymousField, nil
	case "", "normal":
		return member.KindNormal, nil
	default:
		return 0, fmt.Errorf("unknown rule kind %q", name)
	}
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Scope:        []string{"all-fields"},
		GoldenDir:    filepath.Join("testdata", "goldens"),
		GoldenFormat: "json",
		Parallelism:  4,
		Update:       BoolPtr(false),
		Verbose:      BoolPtr(false),
		NoColor:      BoolPtr(false),
	}
}

// ConfigFilenames contains the possible config file names, tried in order.
var ConfigFilenames = []string{
	".fieldcheck.json",
	"fieldcheck.json",
	".fieldcheckrc",
	".fieldcheckrc.json",
}

// LoadConfig loads configuration from the specified path, or searches the
// current directory for one of the known config file names.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory,
// returning defaults when none exists.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return config, nil
}

// FromEnv builds a config from FIELDCHECK_* environment variables, for
// layering over a file config with Merge. Unset variables contribute
// nothing.
func FromEnv() *Config {
	c := &Config{}
	if v, ok := envBool("FIELDCHECK_UPDATE"); ok {
		c.Update = BoolPtr(v)
	}
	if v, ok := envBool("FIELDCHECK_VERBOSE"); ok {
		c.Verbose = BoolPtr(v)
	}
	if v, ok := envBool("FIELDCHECK_NO_COLOR"); ok {
		c.NoColor = BoolPtr(v)
	}
	if v := os.Getenv("FIELDCHECK_GOLDEN_DIR"); v != "" {
		c.GoldenDir = v
	}
	if v := os.Getenv("FIELDCHECK_SCOPE"); v != "" {
		c.Scope = strings.Split(v, ",")
	}
	return c
}

func envBool(name string) (bool, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// Merge merges another config into this one, with other taking precedence.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if len(other.Scope) > 0 {
		result.Scope = other.Scope
	}
	if other.MaxDepth > 0 {
		result.MaxDepth = other.MaxDepth
	}
	if len(other.Rules) > 0 {
		result.Rules = other.Rules
	}
	if other.GoldenDir != "" {
		result.GoldenDir = other.GoldenDir
	}
	if other.GoldenFormat != "" {
		result.GoldenFormat = other.GoldenFormat
	}
	if other.SchemaFile != "" {
		result.SchemaFile = other.SchemaFile
	}
	if other.Parallelism > 0 {
		result.Parallelism = other.Parallelism
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Update != nil {
		result.Update = other.Update
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}

// SaveConfig saves the configuration to a file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
