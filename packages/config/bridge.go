package config

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/fieldcheck/packages/check"
	"github.com/abdul-hamid-achik/fieldcheck/packages/fieldscan"
	"github.com/abdul-hamid-achik/fieldcheck/packages/golden"
	"github.com/abdul-hamid-achik/fieldcheck/packages/render"
)

// ParseFormat converts a config format name into a golden file format.
func ParseFormat(name string) (golden.Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return golden.FormatJSON, nil
	case "yaml", "yml":
		return golden.FormatYAML, nil
	default:
		return 0, fmt.Errorf("unknown golden format %q", name)
	}
}

// ScanOptions builds the scanner options the config describes: the
// demangling rule table and the depth bound.
func (c *Config) ScanOptions() ([]fieldscan.Option, error) {
	rules, err := c.DemangleRules()
	if err != nil {
		return nil, err
	}
	opts := []fieldscan.Option{fieldscan.WithRules(rules)}
	if c.MaxDepth > 0 {
		opts = append(opts, fieldscan.WithMaxDepth(c.MaxDepth))
	}
	return opts, nil
}

// Store builds a golden store from the configuration.
func (c *Config) Store() (*golden.Store, error) {
	scope, err := c.MemberScope()
	if err != nil {
		return nil, err
	}
	format, err := ParseFormat(c.GoldenFormat)
	if err != nil {
		return nil, err
	}
	scanOpts, err := c.ScanOptions()
	if err != nil {
		return nil, err
	}

	opts := []golden.Option{
		golden.WithUpdate(c.GetUpdate()),
		golden.WithScope(scope),
		golden.WithFormat(format),
		golden.WithScanOptions(scanOpts...),
	}
	if c.Parallelism > 0 {
		opts = append(opts, golden.WithParallelism(c.Parallelism))
	}
	if c.SchemaFile != "" {
		opts = append(opts, golden.WithSchemaFile(c.SchemaFile))
	}
	return golden.NewStore(c.GoldenDir, opts...), nil
}

// Renderer builds a console renderer from the configuration. Extra options
// are applied after the configured ones and take precedence.
func (c *Config) Renderer(extra ...render.ConsoleOption) *render.ConsoleRenderer {
	opts := []render.ConsoleOption{
		render.WithVerbose(c.GetVerbose()),
		render.WithNoColor(c.GetNoColor()),
	}
	return render.NewConsoleRenderer(append(opts, extra...)...)
}

// Check starts a fluent check on actual, preconfigured with the scope,
// rules and depth bound from the configuration.
func (c *Config) Check(actual any) (*check.Check, error) {
	scope, err := c.MemberScope()
	if err != nil {
		return nil, err
	}
	scanOpts, err := c.ScanOptions()
	if err != nil {
		return nil, err
	}
	return check.That(actual).Considering(scope).Using(scanOpts...), nil
}
