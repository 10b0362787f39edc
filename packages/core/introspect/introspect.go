package introspect

import (
	"reflect"
	"unsafe"

	"github.com/abdul-hamid-achik/fieldcheck/packages/core/member"
	"github.com/tidwall/gjson"
)

// Config carries the scan-wide settings an introspector needs: the member
// scope and the demangling rule table. Both are immutable for the duration
// of a scan.
type Config struct {
	Scope member.Scope
	Rules []member.Rule
}

// Introspector enumerates the members of one family of values.
type Introspector interface {
	// Supports reports whether this introspector can enumerate v.
	Supports(v reflect.Value) bool
	// Members lists v's members per cfg.Scope in a fixed, documented order.
	Members(v reflect.Value, cfg Config) []member.Descriptor
	// Find locates the member of v structurally corresponding to want. The
	// search ignores cfg.Scope: a counterpart is a counterpart regardless of
	// the visibility selection. Matches are tried strictest first: raw name,
	// then wire tag, then demangled name, then a case fold of the demangled
	// name (mirroring encoding/json's field matching).
	Find(v reflect.Value, want member.Descriptor, cfg Config) (member.Descriptor, bool)
}

// DefaultChain returns the introspectors consulted in order. Document comes
// first: gjson.Result is itself a struct and must not fall through to the
// struct introspector.
func DefaultChain() []Introspector {
	return []Introspector{Document{}, Struct{}, Collection{}}
}

// For returns the first introspector in chain that supports v.
func For(chain []Introspector, v reflect.Value) (Introspector, bool) {
	for _, in := range chain {
		if in.Supports(v) {
			return in, true
		}
	}
	return nil, false
}

// Indirect steps v through pointers and interfaces to the referenced value.
// A nil reference at any step yields the zero Value.
func Indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// Addressable returns v itself when addressable, or a copy of v in fresh
// addressable storage otherwise. Unexported fields of an addressable struct
// can be captured; of a non-addressable one they cannot.
func Addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Elem()
}

// Capture returns v's value as an interface. Unexported fields are read
// through their address, which the introspectors guarantee by walking from
// addressable roots.
func Capture(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	if !v.CanInterface() && v.CanAddr() {
		v = reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
	}
	if !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

// LeafComparable reports whether values of t compare directly via their own
// equality definition rather than by structural descent: primitive kinds,
// byte slices, and types exposing an Equal method (the ecosystem's
// non-default-equality convention, e.g. time.Time).
func LeafComparable(t reflect.Type) bool {
	if t == nil {
		return true
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return true
		}
	}
	return HasEqualMethod(t)
}

// HasEqualMethod reports whether t (or *t) exposes an Equal method of the
// shape func(T) bool with an argument the type's values satisfy.
func HasEqualMethod(t reflect.Type) bool {
	m, ok := t.MethodByName("Equal")
	if !ok && t.Kind() != reflect.Pointer {
		m, ok = reflect.PointerTo(t).MethodByName("Equal")
	}
	if !ok {
		return false
	}
	ft := m.Type
	if ft.NumIn() != 2 || ft.NumOut() != 1 || ft.Out(0).Kind() != reflect.Bool {
		return false
	}
	arg := ft.In(1)
	return t.AssignableTo(arg) || reflect.PointerTo(t).AssignableTo(arg)
}

// CompositeValue reports whether x is a value the scanner descends into:
// a non-leaf-comparable struct, pointer target, array, non-nil map or
// slice, or a JSON object/array.
func CompositeValue(x any) bool {
	if doc, ok := x.(gjson.Result); ok {
		return doc.IsObject() || doc.IsArray()
	}
	v := Indirect(reflect.ValueOf(x))
	if !v.IsValid() {
		return false
	}
	if LeafComparable(v.Type()) {
		return false
	}
	switch v.Kind() {
	case reflect.Struct, reflect.Array:
		return true
	case reflect.Map, reflect.Slice:
		// A nil collection is the no-value representation, a leaf the
		// evaluator owns.
		return !v.IsNil()
	}
	return false
}

// RefKey identifies a reference value for cycle guarding. Two values share
// a key only if they alias the same referent.
type RefKey struct {
	ptr uintptr
	len int
	typ reflect.Type
}

// ReferenceKey returns the identity key for v when v is a reference kind.
// Value kinds have no identity and report ok=false: they cannot introduce a
// cycle without crossing a reference, which will be keyed.
func ReferenceKey(x any) (RefKey, bool) {
	v := reflect.ValueOf(x)
	for v.IsValid() && v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() {
		return RefKey{}, false
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			return RefKey{}, false
		}
		return RefKey{ptr: v.Pointer(), typ: v.Type()}, true
	case reflect.Slice:
		if v.IsNil() {
			return RefKey{}, false
		}
		return RefKey{ptr: v.Pointer(), len: v.Len(), typ: v.Type()}, true
	}
	return RefKey{}, false
}
