package introspect

import (
	"reflect"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/fieldcheck/packages/core/member"
	"github.com/tidwall/gjson"
)

// Struct enumerates native Go structs: fields across the full embedding
// chain, then getter-shaped methods.
//
// The embedding chain is the Go analog of an inheritance chain. Walk order
// is base-first: members promoted from the deepest embedded level come
// first, then shallower levels, declaration order within a level. Getters
// follow fields in reflect's lexicographic method order. A name shadowed by
// an outer declaration still enumerates at its own level; ChainDepth keeps
// the two apart.
type Struct struct{}

func (Struct) Supports(v reflect.Value) bool {
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return false
	}
	_, isDoc := v.Interface().(gjson.Result)
	return !isDoc
}

func (Struct) Members(v reflect.Value, cfg Config) []member.Descriptor {
	v = Addressable(v)

	var out []levelled
	out = appendFieldMembers(out, v, cfg, 0, make(map[RefKey]struct{}))
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].depth > out[j].depth
	})

	descs := make([]member.Descriptor, 0, len(out))
	for _, l := range out {
		descs = append(descs, l.desc)
	}
	if cfg.Scope.Has(member.PublicGetters) {
		descs = appendGetterMembers(descs, v, cfg)
	}
	return descs
}

func (Struct) Find(v reflect.Value, want member.Descriptor, cfg Config) (member.Descriptor, bool) {
	v = Addressable(v)

	// Counterpart search is scope-blind and most-derived-first: collect
	// every field walking up the chain, then try the match passes from
	// strictest to loosest across the whole chain.
	var all []levelled
	wide := cfg
	wide.Scope = member.AllMembers
	all = appendFieldMembers(all, v, wide, 0, make(map[RefKey]struct{}))
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].depth < all[j].depth
	})

	for _, match := range matchPasses(want) {
		for _, l := range all {
			if match(l.desc) {
				return l.desc, true
			}
		}
		if g, ok := findGetter(v, cfg, match); ok {
			return g, true
		}
	}
	return member.Descriptor{}, false
}

// matchPasses builds the counterpart predicates for want, strictest first:
// exact raw name, wire tag against either name, exact demangled name, then
// the case fold encoding/json applies when matching keys to fields.
func matchPasses(want member.Descriptor) []func(member.Descriptor) bool {
	passes := []func(member.Descriptor) bool{
		func(d member.Descriptor) bool { return d.RawName == want.RawName },
	}
	if want.Tag != "" {
		passes = append(passes, func(d member.Descriptor) bool {
			return d.RawName == want.Tag || d.Name == want.Tag
		})
	}
	passes = append(passes,
		func(d member.Descriptor) bool {
			return d.Name == want.Name || (d.Tag != "" && d.Tag == want.RawName)
		},
		func(d member.Descriptor) bool {
			return strings.EqualFold(d.Name, want.Name)
		},
	)
	return passes
}

type levelled struct {
	depth int
	desc  member.Descriptor
}

func appendFieldMembers(out []levelled, v reflect.Value, cfg Config, depth int, seen map[RefKey]struct{}) []levelled {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fv := v.Field(i)

		if f.Anonymous {
			// Promoted members of an embedded struct belong to a deeper
			// chain level. A nil embedded pointer has no members to offer,
			// and one whose referent is already on this chain closes a
			// cycle.
			ev := fv
			if ev.Kind() == reflect.Pointer {
				if ev.IsNil() || ev.Type().Elem().Kind() != reflect.Struct {
					continue
				}
				key := RefKey{ptr: ev.Pointer(), typ: ev.Type()}
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				ev = ev.Elem()
			}
			if ev.Kind() == reflect.Struct {
				out = appendFieldMembers(out, Addressable(ev), cfg, depth+1, seen)
				continue
			}
		}

		if f.IsExported() {
			if !cfg.Scope.Has(member.PublicFields) {
				continue
			}
		} else if !cfg.Scope.Has(member.NonPublicFields) {
			continue
		}

		name, kind := member.DemangleWith(cfg.Rules, f.Name)
		out = append(out, levelled{depth: depth, desc: member.Descriptor{
			RawName:    f.Name,
			Name:       name,
			Kind:       kind,
			Tag:        jsonTagName(f),
			Value:      Capture(fv),
			ChainDepth: depth,
		}})
	}
	return out
}

// jsonTagName extracts the wire name from a field's json tag, ignoring
// options and the "-" marker.
func jsonTagName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	if tag == "-" {
		return ""
	}
	return tag
}

func appendGetterMembers(out []member.Descriptor, v reflect.Value, cfg Config) []member.Descriptor {
	pv := v.Addr()
	pt := pv.Type()
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		mv := pv.Method(i)
		if !getterShaped(mv.Type()) {
			continue
		}
		name, kind := member.DemangleWith(cfg.Rules, m.Name)
		out = append(out, member.Descriptor{
			RawName: m.Name,
			Name:    name,
			Kind:    kind,
			Value:   mv.Call(nil)[0].Interface(),
		})
	}
	return out
}

func findGetter(v reflect.Value, cfg Config, match func(member.Descriptor) bool) (member.Descriptor, bool) {
	var found member.Descriptor
	var ok bool
	for _, d := range appendGetterMembers(nil, v, cfg) {
		if match(d) {
			found, ok = d, true
			break
		}
	}
	return found, ok
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// getterShaped reports whether a bound method value takes no arguments and
// returns exactly one non-error result.
func getterShaped(ft reflect.Type) bool {
	return ft.NumIn() == 0 && ft.NumOut() == 1 && ft.Out(0) != errType
}
