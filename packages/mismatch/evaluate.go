package mismatch

import (
	"reflect"

	"github.com/abdul-hamid-achik/fieldcheck/packages/core/introspect"
	"github.com/abdul-hamid-achik/fieldcheck/packages/fieldscan"
	"github.com/tidwall/gjson"
)

// Kind classifies a comparison problem.
type Kind int

const (
	// ValuesDiffer: both sides expose the member but the captured values
	// are unequal.
	ValuesDiffer Kind = iota
	// ExpectedFieldAbsent: the expected value declares a member the actual
	// value does not expose anywhere on its chain.
	ExpectedFieldAbsent
	// UnexpectedField: the actual value exposes a member the expected
	// value does not declare. Produced by structure checks, not Evaluate.
	UnexpectedField
	// NegatedButEqual: the caller asserted a difference and the values
	// turned out equal.
	NegatedButEqual
)

func (k Kind) String() string {
	switch k {
	case ValuesDiffer:
		return "values differ"
	case ExpectedFieldAbsent:
		return "expected field absent"
	case UnexpectedField:
		return "unexpected field"
	case NegatedButEqual:
		return "negated but equal"
	default:
		return "unknown"
	}
}

// Outcome is one reported comparison problem, carrying enough structure
// for a renderer to build its message.
type Outcome struct {
	Kind     Kind
	Path     string
	Expected any
	Actual   any
	Record   fieldscan.MatchRecord
}

// Evaluate decides whether one match record is a problem under the given
// negation flag. It reports ok=false with a zero Outcome when the record
// passes. Pure function of its inputs.
func Evaluate(rec fieldscan.MatchRecord, negated bool) (Outcome, bool) {
	match := valuesMatch(rec)
	if match != negated {
		return Outcome{}, false
	}

	// Outcomes carry normalized values so renderers dump native scalars,
	// not document node wrappers.
	out := Outcome{
		Path:     rec.Expected.Path,
		Expected: normalize(rec.Expected.Value),
		Record:   rec,
	}
	switch {
	case negated:
		out.Kind = NegatedButEqual
		out.Actual = normalize(rec.Actual.Value)
	case rec.Actual == nil:
		out.Kind = ExpectedFieldAbsent
	default:
		out.Kind = ValuesDiffer
		out.Actual = normalize(rec.Actual.Value)
	}
	return out, true
}

// EvaluateAll folds Evaluate over a record sequence, keeping record order.
func EvaluateAll(records []fieldscan.MatchRecord, negated bool) []Outcome {
	var out []Outcome
	for _, rec := range records {
		if o, ok := Evaluate(rec, negated); ok {
			out = append(out, o)
		}
	}
	return out
}

// UnexpectedFields interprets records from a reversed scan, one that
// enumerated the actual value's members against the expected value. A
// record without a counterpart there means the actual value carries a
// member the expected structure never declared.
func UnexpectedFields(records []fieldscan.MatchRecord) []Outcome {
	var out []Outcome
	for _, rec := range records {
		if rec.Actual != nil {
			continue
		}
		out = append(out, Outcome{
			Kind:   UnexpectedField,
			Path:   rec.Expected.Path,
			Actual: normalize(rec.Expected.Value),
			Record: rec,
		})
	}
	return out
}

// valuesMatch computes the match state of one record: absent counterparts
// never match; "no value" on the expected side matches only "no value" on
// the actual side; everything else defers to value equality.
func valuesMatch(rec fieldscan.MatchRecord) bool {
	if rec.Actual == nil {
		return false
	}
	expected := normalize(rec.Expected.Value)
	actual := normalize(rec.Actual.Value)

	if noValue(expected) {
		return noValue(actual)
	}
	if noValue(actual) {
		return false
	}
	return equalValues(expected, actual)
}

// normalize unwraps scalar document nodes to their native Go values so
// they compare like any other leaf.
func normalize(x any) any {
	if doc, ok := x.(gjson.Result); ok && !doc.IsObject() && !doc.IsArray() {
		return doc.Value()
	}
	return x
}

// noValue reports the "no value" representation: nil interfaces, nil
// references, and JSON null.
func noValue(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func equalValues(expected, actual any) bool {
	if eq, ok := equalByMethod(expected, actual); ok {
		return eq
	}
	if reflect.DeepEqual(expected, actual) {
		return true
	}
	return numericEqual(expected, actual)
}

// equalByMethod consults the expected value's Equal method when it has one
// the actual value can be passed to. ok=false means no verdict and the
// caller falls through to deep equality.
func equalByMethod(expected, actual any) (bool, bool) {
	ev := reflect.ValueOf(expected)
	if !ev.IsValid() || !introspect.HasEqualMethod(ev.Type()) {
		return false, false
	}
	m := ev.MethodByName("Equal")
	if !m.IsValid() {
		// Equal declared on the pointer receiver.
		pv := reflect.New(ev.Type())
		pv.Elem().Set(ev)
		m = pv.MethodByName("Equal")
	}
	av := reflect.ValueOf(actual)
	if !av.IsValid() {
		return false, false
	}
	arg := m.Type().In(0)
	switch {
	case av.Type().AssignableTo(arg):
	case reflect.PointerTo(av.Type()).AssignableTo(arg):
		pv := reflect.New(av.Type())
		pv.Elem().Set(av)
		av = pv
	default:
		return false, false
	}
	return m.Call([]reflect.Value{av})[0].Bool(), true
}

type numClass int

const (
	numNone numClass = iota
	numInt
	numUint
	numFloat
)

func classifyNumeric(v reflect.Value) numClass {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return numInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return numUint
	case reflect.Float32, reflect.Float64:
		return numFloat
	}
	return numNone
}

// numericEqual compares operands across numeric kinds. Integer operands
// compare integrally, so 64-bit values past float64's exact integer range
// cannot collapse together; a float on either side compares as float64.
func numericEqual(expected, actual any) bool {
	ev := reflect.ValueOf(expected)
	av := reflect.ValueOf(actual)
	ec := classifyNumeric(ev)
	ac := classifyNumeric(av)
	switch {
	case ec == numNone || ac == numNone:
		return false
	case ec == numFloat || ac == numFloat:
		return floatValue(ev, ec) == floatValue(av, ac)
	case ec == ac:
		if ec == numInt {
			return ev.Int() == av.Int()
		}
		return ev.Uint() == av.Uint()
	case ec == numInt:
		return ev.Int() >= 0 && uint64(ev.Int()) == av.Uint()
	default:
		return av.Int() >= 0 && uint64(av.Int()) == ev.Uint()
	}
}

func floatValue(v reflect.Value, c numClass) float64 {
	switch c {
	case numInt:
		return float64(v.Int())
	case numUint:
		return float64(v.Uint())
	default:
		return v.Float()
	}
}
