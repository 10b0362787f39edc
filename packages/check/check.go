package check

import (
	"fmt"
	"reflect"

	"github.com/abdul-hamid-achik/fieldcheck/packages/core/introspect"
	"github.com/abdul-hamid-achik/fieldcheck/packages/core/member"
	"github.com/abdul-hamid-achik/fieldcheck/packages/fieldscan"
	"github.com/abdul-hamid-achik/fieldcheck/packages/mismatch"
)

// Check is a comparison under construction. Builder methods return the
// receiver, so calls chain; the terminal Has* methods run the comparison.
type Check struct {
	actual   any
	subject  string
	scope    member.Scope
	scopeSet bool
	negated  bool
	opts     []fieldscan.Option
}

// That starts a comparison of the given actual value.
func That(actual any) *Check {
	return &Check{actual: actual, subject: "object"}
}

// As names the subject in diagnostics: "The response's field ...".
func (c *Check) As(subject string) *Check {
	c.subject = subject
	return c
}

// Considering selects which members take part, replacing the default
// all-fields scope with the union of the given scopes. Repeated calls keep
// widening; toggles never override each other.
func (c *Check) Considering(scopes ...member.Scope) *Check {
	if !c.scopeSet {
		c.scope = 0
		c.scopeSet = true
	}
	for _, sc := range scopes {
		c.scope = c.scope.With(sc)
	}
	return c
}

// Not inverts the next terminal check.
func (c *Check) Not() *Check {
	c.negated = !c.negated
	return c
}

// Using forwards options to the scanner, such as fieldscan.WithMaxDepth.
func (c *Check) Using(opts ...fieldscan.Option) *Check {
	c.opts = append(c.opts, opts...)
	return c
}

// HasFieldsWithSameValues walks expected's members under the configured
// scope and requires every one to match on the actual value. Under Not it
// requires at least one member to differ or be absent.
func (c *Check) HasFieldsWithSameValues(expected any) error {
	records, err := c.scan(c.actual, expected)
	if err != nil {
		return fmt.Errorf("checking %s: %w", c.subject, err)
	}
	outs := mismatch.EvaluateAll(records, c.negated)
	if len(outs) == 0 {
		return nil
	}
	return &Failure{Subject: c.subject, Outcomes: outs}
}

// HasNotFieldsWithSameValues is HasFieldsWithSameValues under negation.
func (c *Check) HasNotFieldsWithSameValues(expected any) error {
	c.negated = !c.negated
	return c.HasFieldsWithSameValues(expected)
}

// HasSameStructureAs requires the two values to expose the same member
// set with matching values: expected members must all match, and the
// actual value must not carry members the expected structure lacks. Under
// Not it requires the structures to disagree somewhere.
func (c *Check) HasSameStructureAs(expected any) error {
	forward, err := c.scan(c.actual, expected)
	if err != nil {
		return fmt.Errorf("checking %s: %w", c.subject, err)
	}
	reverse, err := c.scan(expected, c.actual)
	if err != nil {
		return fmt.Errorf("checking %s: %w", c.subject, err)
	}

	outs := mismatch.EvaluateAll(forward, false)
	outs = append(outs, mismatch.UnexpectedFields(reverse)...)

	if c.negated {
		if len(outs) > 0 {
			return nil
		}
		return &Failure{
			Subject: c.subject,
			message: fmt.Sprintf("The %s has the same structure as the expected value whereas it must not.", c.subject),
		}
	}
	if len(outs) == 0 {
		return nil
	}
	return &Failure{Subject: c.subject, Outcomes: outs}
}

// IsInstanceOf requires the actual value's indirect type to be the
// exemplar's. It owns the type disagreement the scanner deliberately skips
// when both sides are composites of different types.
func (c *Check) IsInstanceOf(exemplar any) error {
	at := indirectType(c.actual)
	et := indirectType(exemplar)

	same := at != nil && et != nil && at == et
	if same != c.negated {
		return nil
	}
	if c.negated {
		return &Failure{
			Subject: c.subject,
			message: fmt.Sprintf("The %s is of type %s whereas it must not be.", c.subject, typeName(at)),
		}
	}
	return &Failure{
		Subject: c.subject,
		message: fmt.Sprintf("The %s is of type %s whereas %s was expected.", c.subject, typeName(at), typeName(et)),
	}
}

func (c *Check) scan(actual, expected any) ([]fieldscan.MatchRecord, error) {
	scope := member.AllFields
	if c.scopeSet {
		scope = c.scope
	}
	return fieldscan.NewScanner(scope, c.opts...).Scan(actual, expected)
}

func indirectType(x any) reflect.Type {
	v := introspect.Indirect(reflect.ValueOf(x))
	if !v.IsValid() {
		return nil
	}
	return v.Type()
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
