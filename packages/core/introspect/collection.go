package introspect

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/abdul-hamid-achik/fieldcheck/packages/core/member"
	"github.com/davecgh/go-spew/spew"
)

// Collection enumerates slices, arrays and maps.
//
// Slice and array elements are contents, not type members: once the scanner
// reaches a collection its elements participate regardless of scope, as
// index members in element order. String-keyed maps are the decoded form of
// JSON objects and classify their entries exactly like the document
// introspector (decorated key ⇒ non-public field); other maps enumerate as
// contents. Map order is sorted by rendered key for determinism.
type Collection struct{}

func (Collection) Supports(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

func (Collection) Members(v reflect.Value, cfg Config) []member.Descriptor {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]member.Descriptor, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			idx := fmt.Sprintf("[%d]", i)
			out = append(out, member.Descriptor{
				RawName: idx,
				Name:    idx,
				Value:   Capture(v.Index(i)),
			})
		}
		return out
	case reflect.Map:
		return mapMembers(v, cfg)
	}
	return nil
}

func (Collection) Find(v reflect.Value, want member.Descriptor, cfg Config) (member.Descriptor, bool) {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		i, ok := parseIndexName(want.RawName)
		if !ok || i < 0 || i >= v.Len() {
			return member.Descriptor{}, false
		}
		return member.Descriptor{
			RawName: want.RawName,
			Name:    want.RawName,
			Value:   Capture(v.Index(i)),
		}, true
	case reflect.Map:
		all := mapMembers(v, widened(cfg))
		for _, match := range matchPasses(want) {
			for _, d := range all {
				if match(d) {
					return d, true
				}
			}
		}
	}
	return member.Descriptor{}, false
}

func widened(cfg Config) Config {
	cfg.Scope = member.AllMembers
	return cfg
}

func mapMembers(v reflect.Value, cfg Config) []member.Descriptor {
	stringKeyed := v.Type().Key().Kind() == reflect.String

	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return renderKey(keys[i]) < renderKey(keys[j])
	})

	out := make([]member.Descriptor, 0, len(keys))
	for _, k := range keys {
		raw := renderKey(k)
		name, kind := raw, member.KindNormal
		if stringKeyed {
			name, kind = member.DemangleWith(cfg.Rules, raw)
			if kind == member.KindNormal {
				if !cfg.Scope.Has(member.PublicFields) {
					continue
				}
			} else if !cfg.Scope.Has(member.NonPublicFields) {
				continue
			}
		}
		out = append(out, member.Descriptor{
			RawName: raw,
			Name:    name,
			Kind:    kind,
			Value:   Capture(v.MapIndex(k)),
		})
	}
	return out
}

// renderKey renders a map key into a path segment. Non-string keys go
// through spew's formatter, which prints pointer keys by referent instead
// of by address.
func renderKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return spew.Sprintf("%v", Capture(k))
}
