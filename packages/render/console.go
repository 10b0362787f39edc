package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/abdul-hamid-achik/fieldcheck/packages/mismatch"
	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
)

// dumpConfig renders values deterministically: sorted map keys, no pointer
// addresses, bounded depth.
var dumpConfig = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	DisableMethods:          true,
	MaxDepth:                10,
}

// formatValue formats a value for inline display, truncating or summarizing
// large values.
func formatValue(v any, maxLen int) string {
	if v == nil {
		return "<nil>"
	}
	switch val := v.(type) {
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	}
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

// ConsoleRenderer writes mismatch diagnostics to a writer, colored unless
// told otherwise.
type ConsoleRenderer struct {
	writer  io.Writer
	subject string
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleRenderer)

func NewConsoleRenderer(opts ...ConsoleOption) *ConsoleRenderer {
	r := &ConsoleRenderer{
		writer:  os.Stdout,
		subject: "object",
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.noColor {
		color.NoColor = true
	}
	return r
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(r *ConsoleRenderer) {
		r.writer = w
	}
}

// WithSubject names the thing under comparison in messages; the default
// subject is "object".
func WithSubject(subject string) ConsoleOption {
	return func(r *ConsoleRenderer) {
		r.subject = subject
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(r *ConsoleRenderer) {
		r.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(r *ConsoleRenderer) {
		r.noColor = nc
	}
}

// Message builds the one-line diagnostic for a single outcome.
func (r *ConsoleRenderer) Message(out mismatch.Outcome) string {
	switch out.Kind {
	case mismatch.ExpectedFieldAbsent:
		return fmt.Sprintf("The %s's field '%s' is missing from the actual value.", r.subject, out.Path)
	case mismatch.UnexpectedField:
		return fmt.Sprintf("The %s has an unexpected field '%s'.", r.subject, out.Path)
	case mismatch.NegatedButEqual:
		return fmt.Sprintf("The %s's field '%s' has the expected value whereas it must not.", r.subject, out.Path)
	default:
		return fmt.Sprintf("The %s's field '%s' does not have the expected value.", r.subject, out.Path)
	}
}

// Render writes the full report for a comparison: one block per outcome,
// then a summary table when verbose and more than one problem surfaced.
func (r *ConsoleRenderer) Render(outcomes []mismatch.Outcome) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	if len(outcomes) == 0 {
		fmt.Fprintf(r.writer, "%s all fields match\n", green("✓"))
		return
	}

	for _, out := range outcomes {
		fmt.Fprintf(r.writer, "%s %s\n", red("✗"), bold(r.Message(out)))

		switch out.Kind {
		case mismatch.ExpectedFieldAbsent:
			fmt.Fprintf(r.writer, "  Expected: %s\n", formatValue(out.Expected, 100))
		case mismatch.UnexpectedField:
			fmt.Fprintf(r.writer, "  Actual:   %s\n", formatValue(out.Actual, 100))
		default:
			fmt.Fprintf(r.writer, "  Expected: %s\n", formatValue(out.Expected, 100))
			fmt.Fprintf(r.writer, "  Actual:   %s\n", formatValue(out.Actual, 100))
			if r.verbose {
				r.renderDetail(out)
			}
		}
	}

	if r.verbose && len(outcomes) > 1 {
		fmt.Fprintf(r.writer, "\n%s", renderSummaryTable(outcomes))
	}
}

// RenderError reports a comparison that could not run at all, such as a
// nil expected value.
func (r *ConsoleRenderer) RenderError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(r.writer, "%s %v\n", red("Error:"), err)
}

func (r *ConsoleRenderer) renderDetail(out mismatch.Outcome) {
	if d := diffValues(out.Expected, out.Actual); d != "" {
		fmt.Fprintf(r.writer, "  Diff:\n")
		for _, line := range strings.Split(strings.TrimSuffix(d, "\n"), "\n") {
			fmt.Fprintf(r.writer, "    %s\n", line)
		}
	}
}

// diffValues returns a unified diff of both values when they share a type
// worth diffing: strings, structs, maps, slices and arrays. Anything else
// reads better as the inline dump alone.
func diffValues(expected, actual any) string {
	if expected == nil || actual == nil {
		return ""
	}
	et := reflect.TypeOf(expected)
	at := reflect.TypeOf(actual)
	if et != at {
		return ""
	}
	switch et.Kind() {
	case reflect.String, reflect.Struct, reflect.Map, reflect.Slice, reflect.Array, reflect.Pointer:
	default:
		return ""
	}

	e := dumpConfig.Sdump(expected)
	a := dumpConfig.Sdump(actual)
	if s, ok := expected.(string); ok {
		e = s + "\n"
		a = actual.(string) + "\n"
	}

	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(e),
		B:        difflib.SplitLines(a),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  1,
	})
	return diff
}

func renderSummaryTable(outcomes []mismatch.Outcome) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Field", "Problem"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, out := range outcomes {
		table.Append([]string{out.Path, out.Kind.String()})
	}
	table.SetFooter([]string{"Total", fmt.Sprintf("%d", len(outcomes))})
	table.Render()

	return buf.String()
}
