package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/fieldcheck/packages/mismatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageWording(t *testing.T) {
	r := NewConsoleRenderer(WithNoColor(true), WithSubject("response"))

	tests := []struct {
		name    string
		outcome mismatch.Outcome
		want    string
	}{
		{
			name:    "values differ",
			outcome: mismatch.Outcome{Kind: mismatch.ValuesDiffer, Path: "Inner.N"},
			want:    "The response's field 'Inner.N' does not have the expected value.",
		},
		{
			name:    "expected field absent",
			outcome: mismatch.Outcome{Kind: mismatch.ExpectedFieldAbsent, Path: "Gone"},
			want:    "The response's field 'Gone' is missing from the actual value.",
		},
		{
			name:    "unexpected field",
			outcome: mismatch.Outcome{Kind: mismatch.UnexpectedField, Path: "Surplus"},
			want:    "The response has an unexpected field 'Surplus'.",
		},
		{
			name:    "negated but equal",
			outcome: mismatch.Outcome{Kind: mismatch.NegatedButEqual, Path: "N"},
			want:    "The response's field 'N' has the expected value whereas it must not.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Message(tt.outcome))
		})
	}
}

func TestRenderValuesDiffer(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRenderer(WithWriter(&buf), WithNoColor(true))

	r.Render([]mismatch.Outcome{{
		Kind:     mismatch.ValuesDiffer,
		Path:     "TheField",
		Expected: 2,
		Actual:   3,
	}})

	out := buf.String()
	assert.Contains(t, out, "The object's field 'TheField' does not have the expected value.")
	assert.Contains(t, out, "Expected: 2")
	assert.Contains(t, out, "Actual:   3")
}

func TestRenderNoOutcomes(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRenderer(WithWriter(&buf), WithNoColor(true))

	r.Render(nil)

	assert.Contains(t, buf.String(), "all fields match")
}

func TestRenderAbsentShowsOnlyExpected(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRenderer(WithWriter(&buf), WithNoColor(true))

	r.Render([]mismatch.Outcome{{
		Kind:     mismatch.ExpectedFieldAbsent,
		Path:     "Gone",
		Expected: "x",
	}})

	out := buf.String()
	assert.Contains(t, out, "Expected: x")
	assert.NotContains(t, out, "Actual:")
}

func TestRenderVerboseDiff(t *testing.T) {
	type point struct {
		X int
		Y int
	}

	var buf bytes.Buffer
	r := NewConsoleRenderer(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	r.Render([]mismatch.Outcome{{
		Kind:     mismatch.ValuesDiffer,
		Path:     "P",
		Expected: point{X: 1, Y: 2},
		Actual:   point{X: 1, Y: 3},
	}})

	out := buf.String()
	assert.Contains(t, out, "Diff:")
	assert.Contains(t, out, "--- Expected")
	assert.Contains(t, out, "+++ Actual")
	// The changed line shows up on both sides of the diff.
	assert.Contains(t, out, "(int) 2")
	assert.Contains(t, out, "(int) 3")
}

func TestRenderVerboseSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRenderer(WithWriter(&buf), WithNoColor(true), WithVerbose(true))

	r.Render([]mismatch.Outcome{
		{Kind: mismatch.ValuesDiffer, Path: "A", Expected: 1, Actual: 2},
		{Kind: mismatch.ExpectedFieldAbsent, Path: "B", Expected: 3},
	})

	out := buf.String()
	assert.Contains(t, out, "values differ")
	assert.Contains(t, out, "expected field absent")
	assert.Contains(t, out, "2")
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleRenderer(WithWriter(&buf), WithNoColor(true))

	r.RenderError(errors.New("expected value is nil"))

	assert.Contains(t, buf.String(), "Error: expected value is nil")
}

func TestDiffValuesSkipsMismatchedTypes(t *testing.T) {
	assert.Empty(t, diffValues(1, "1"))
	assert.Empty(t, diffValues(nil, "x"))
	assert.Empty(t, diffValues(1, 2))
}

func TestDiffValuesStrings(t *testing.T) {
	d := diffValues("line one\nline two", "line one\nline too")

	require.NotEmpty(t, d)
	assert.True(t, strings.Contains(d, "-line two"))
	assert.True(t, strings.Contains(d, "+line too"))
}

func TestFormatValueTruncates(t *testing.T) {
	long := strings.Repeat("a", 150)
	got := formatValue(long, 100)

	assert.Len(t, got, 103)
	assert.True(t, strings.HasSuffix(got, "..."))

	assert.Equal(t, "[array with 2 items]", formatValue([]any{1, 2}, 100))
	assert.Equal(t, "{object with 1 keys}", formatValue(map[string]any{"a": 1}, 100))
	assert.Equal(t, "<nil>", formatValue(nil, 100))
}
