package check

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/fieldcheck/packages/mismatch"
	"github.com/abdul-hamid-achik/fieldcheck/packages/render"
)

// Failure is a failed comparison. It satisfies error; Outcomes carries the
// structured mismatches for callers that want more than a message.
type Failure struct {
	Subject  string
	Outcomes []mismatch.Outcome

	// message overrides the outcome-derived wording for failures that
	// have no per-field outcomes, such as type checks.
	message string
}

func (f *Failure) Error() string {
	if f.message != "" {
		return f.message
	}
	if len(f.Outcomes) == 0 {
		return fmt.Sprintf("The %s did not satisfy the comparison.", f.subject())
	}
	msg := f.renderer().Message(f.Outcomes[0])
	if rest := len(f.Outcomes) - 1; rest > 0 {
		msg = fmt.Sprintf("%s (and %d more mismatches)", msg, rest)
	}
	return msg
}

// Report renders the full diagnostic block for every outcome, uncolored.
func (f *Failure) Report() string {
	if f.message != "" {
		return f.message + "\n"
	}
	var buf bytes.Buffer
	f.renderer(render.WithWriter(&buf), render.WithNoColor(true)).Render(f.Outcomes)
	return buf.String()
}

func (f *Failure) renderer(opts ...render.ConsoleOption) *render.ConsoleRenderer {
	return render.NewConsoleRenderer(append(opts, render.WithSubject(f.subject()))...)
}

func (f *Failure) subject() string {
	if f.Subject == "" {
		return "object"
	}
	return f.Subject
}

// AsFailure unwraps a comparison failure from an error chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
