package member

import (
	"fmt"
	"strings"
)

// Scope selects which member kinds participate in a structural comparison.
// Scopes combine by union and never reset: widening a scope can only reveal
// more members. The zero Scope selects nothing, which is legal and simply
// compares nothing.
type Scope uint8

const (
	// PublicFields selects exported struct fields and undecorated
	// document members.
	PublicFields Scope = 1 << iota
	// NonPublicFields selects unexported struct fields and decorated
	// (generator-synthesized) document members.
	NonPublicFields
	// PublicGetters selects exported getter-shaped methods: zero
	// arguments, one non-error result.
	PublicGetters
	// NonPublicGetters selects unexported getters. Go's runtime metadata
	// does not expose unexported methods, so for native structs this
	// toggle is honored but yields nothing.
	NonPublicGetters
)

// AllFields and friends are shorthands for the common unions.
const (
	AllFields  = PublicFields | NonPublicFields
	AllGetters = PublicGetters | NonPublicGetters
	AllMembers = AllFields | AllGetters
)

// With returns the union of s and flags.
func (s Scope) With(flags Scope) Scope {
	return s | flags
}

// Has reports whether any of the given flags are selected.
func (s Scope) Has(flags Scope) bool {
	return s&flags != 0
}

// IsEmpty reports whether no member kind is selected.
func (s Scope) IsEmpty() bool {
	return s == 0
}

func (s Scope) String() string {
	if s.IsEmpty() {
		return "nothing"
	}
	parts := make([]string, 0, 4)
	if s.Has(PublicFields) {
		parts = append(parts, "public fields")
	}
	if s.Has(NonPublicFields) {
		parts = append(parts, "non-public fields")
	}
	if s.Has(PublicGetters) {
		parts = append(parts, "public getters")
	}
	if s.Has(NonPublicGetters) {
		parts = append(parts, "non-public getters")
	}
	return strings.Join(parts, ", ")
}

// scopeNames maps the configuration spellings to their toggles.
var scopeNames = map[string]Scope{
	"public-fields":      PublicFields,
	"non-public-fields":  NonPublicFields,
	"public-getters":     PublicGetters,
	"non-public-getters": NonPublicGetters,
	"all-fields":         AllFields,
	"all-getters":        AllGetters,
	"all":                AllMembers,
}

// ParseScope builds a scope from its configuration names, combining them
// by union. An empty name list yields the empty scope.
func ParseScope(names ...string) (Scope, error) {
	var s Scope
	for _, name := range names {
		flag, ok := scopeNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown scope %q", name)
		}
		s = s.With(flag)
	}
	return s, nil
}
