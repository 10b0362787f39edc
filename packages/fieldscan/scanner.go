package fieldscan

import (
	"errors"
	"reflect"
	"strings"

	"github.com/abdul-hamid-achik/fieldcheck/packages/core/introspect"
	"github.com/abdul-hamid-achik/fieldcheck/packages/core/member"
	"github.com/tidwall/gjson"
)

// ErrNilExpected reports a comparison against a nil expected value: there
// is no member set to enumerate, so the scan fails fast.
var ErrNilExpected = errors.New("fieldscan: expected value is nil")

// MatchRecord pairs an expected member with its structural counterpart on
// the actual value. Actual is nil exactly when no corresponding member was
// found.
type MatchRecord struct {
	Expected member.Descriptor
	Actual   *member.Descriptor
}

// Scanner walks expected-vs-actual graphs under a fixed scope. A Scanner is
// immutable after construction and safe for concurrent use; each Scan call
// owns its own visited state.
type Scanner struct {
	scope    member.Scope
	rules    []member.Rule
	chain    []introspect.Introspector
	maxDepth int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithRules replaces the demangling rule table.
func WithRules(rules []member.Rule) Option {
	return func(s *Scanner) {
		s.rules = rules
	}
}

// WithIntrospectors replaces the introspector chain.
func WithIntrospectors(chain []introspect.Introspector) Option {
	return func(s *Scanner) {
		s.chain = chain
	}
}

// WithMaxDepth bounds structural descent. Zero means unbounded; cycles are
// already guarded independently of depth.
func WithMaxDepth(depth int) Option {
	return func(s *Scanner) {
		s.maxDepth = depth
	}
}

// NewScanner builds a scanner for the given scope.
func NewScanner(scope member.Scope, opts ...Option) *Scanner {
	s := &Scanner{
		scope: scope,
		rules: member.DefaultRules,
		chain: introspect.DefaultChain(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan is shorthand for NewScanner(scope).Scan(actual, expected).
func Scan(actual, expected any, scope member.Scope) ([]MatchRecord, error) {
	return NewScanner(scope).Scan(actual, expected)
}

// Scan enumerates expected's members per the scanner's scope and pairs each
// with its counterpart on actual. Records come back in enumeration order:
// base-first within a type, document order for documents, element order for
// collections. Top-level values without members yield no records.
func (s *Scanner) Scan(actual, expected any) ([]MatchRecord, error) {
	// A typed nil pointer or nil collection has no member set any more
	// than untyped nil does.
	ev := introspect.Indirect(reflect.ValueOf(expected))
	if expected == nil || !ev.IsValid() {
		return nil, ErrNilExpected
	}
	if (ev.Kind() == reflect.Map || ev.Kind() == reflect.Slice) && ev.IsNil() {
		return nil, ErrNilExpected
	}
	if s.scope.IsEmpty() {
		return nil, nil
	}

	st := newScanState()
	if key, ok := introspect.ReferenceKey(expected); ok {
		st.mark(key)
	}

	var out []MatchRecord
	s.walk(&out, st, actual, expected, "", 0)
	return out, nil
}

func (s *Scanner) walk(out *[]MatchRecord, st *scanState, actual, expected any, prefix string, depth int) {
	cfg := introspect.Config{Scope: s.scope, Rules: s.rules}

	ev := introspect.Indirect(reflect.ValueOf(expected))
	if !ev.IsValid() {
		return
	}
	in, ok := introspect.For(s.chain, ev)
	if !ok {
		return
	}

	av := introspect.Indirect(reflect.ValueOf(actual))
	var actIn introspect.Introspector
	actOK := false
	if av.IsValid() {
		actIn, actOK = introspect.For(s.chain, av)
	}

	for _, exp := range in.Members(ev, cfg) {
		exp.Path = joinPath(prefix, exp.Name)

		var act *member.Descriptor
		if actOK {
			if found, ok := actIn.Find(av, exp, cfg); ok {
				found.Path = exp.Path
				act = &found
			}
		}

		switch {
		case act == nil:
			*out = append(*out, MatchRecord{Expected: exp})

		case !introspect.CompositeValue(exp.Value):
			*out = append(*out, MatchRecord{Expected: exp, Actual: act})

		case !introspect.CompositeValue(act.Value):
			// Composite expected against a leaf actual surfaces as a plain
			// value difference.
			*out = append(*out, MatchRecord{Expected: exp, Actual: act})

		case incompatibleComposites(exp.Value, act.Value):
			// Both composite with incompatible runtime types: structural
			// descent is not meaningful here; an instance-of check owns
			// this case.

		default:
			if s.maxDepth > 0 && depth >= s.maxDepth {
				continue
			}
			if key, ok := introspect.ReferenceKey(exp.Value); ok {
				if st.seen(key) {
					continue
				}
				st.mark(key)
			}
			s.walk(out, st, act.Value, exp.Value, exp.Path, depth+1)
		}
	}
}

// incompatibleComposites applies the different-runtime-type rule. Two
// documents conflict when one is an object and the other an array; two
// native values conflict when their indirect types differ. A document on
// one side and a native value on the other stay compatible: correspondence
// is by member name, so a golden document can be walked against a live
// struct.
func incompatibleComposites(expected, actual any) bool {
	ed, eDoc := expected.(gjson.Result)
	ad, aDoc := actual.(gjson.Result)
	switch {
	case eDoc && aDoc:
		return ed.IsObject() != ad.IsObject()
	case eDoc || aDoc:
		return false
	default:
		et := introspect.Indirect(reflect.ValueOf(expected)).Type()
		at := introspect.Indirect(reflect.ValueOf(actual)).Type()
		return et != at
	}
}

type scanState struct {
	visited map[introspect.RefKey]struct{}
}

func newScanState() *scanState {
	return &scanState{visited: make(map[introspect.RefKey]struct{})}
}

func (st *scanState) seen(key introspect.RefKey) bool {
	_, ok := st.visited[key]
	return ok
}

func (st *scanState) mark(key introspect.RefKey) {
	st.visited[key] = struct{}{}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	if strings.HasPrefix(name, "[") {
		return prefix + name
	}
	return prefix + "." + name
}
