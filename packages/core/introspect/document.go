package introspect

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/fieldcheck/packages/core/member"
	"github.com/tidwall/gjson"
)

// Document enumerates JSON documents held as gjson.Result or
// json.RawMessage values.
//
// Object members enumerate in document order, which stays identical between
// runs. Keys carrying generator decoration demangle like any other raw name
// and classify as non-public fields; plain keys are public fields. Array
// elements are index members and participate regardless of scope.
type Document struct{}

func (Document) Supports(v reflect.Value) bool {
	_, ok := documentValue(v)
	return ok
}

func (Document) Members(v reflect.Value, cfg Config) []member.Descriptor {
	doc, ok := documentValue(v)
	if !ok {
		return nil
	}

	var out []member.Descriptor
	switch {
	case doc.IsObject():
		doc.ForEach(func(key, value gjson.Result) bool {
			raw := key.String()
			name, kind := member.DemangleWith(cfg.Rules, raw)
			if kind == member.KindNormal {
				if !cfg.Scope.Has(member.PublicFields) {
					return true
				}
			} else if !cfg.Scope.Has(member.NonPublicFields) {
				return true
			}
			out = append(out, member.Descriptor{
				RawName: raw,
				Name:    name,
				Kind:    kind,
				Value:   documentChild(value),
			})
			return true
		})
	case doc.IsArray():
		i := 0
		doc.ForEach(func(_, value gjson.Result) bool {
			idx := fmt.Sprintf("[%d]", i)
			out = append(out, member.Descriptor{
				RawName: idx,
				Name:    idx,
				Value:   documentChild(value),
			})
			i++
			return true
		})
	}
	return out
}

func (Document) Find(v reflect.Value, want member.Descriptor, cfg Config) (member.Descriptor, bool) {
	doc, ok := documentValue(v)
	if !ok {
		return member.Descriptor{}, false
	}

	switch {
	case doc.IsObject():
		// Keys may contain demangling decoration that gjson's path syntax
		// would misparse, so match by iterating rather than by Get.
		for _, match := range matchPasses(want) {
			if d, ok := findDocumentKey(doc, cfg, match); ok {
				return d, true
			}
		}
		return member.Descriptor{}, false
	case doc.IsArray():
		i, ok := parseIndexName(want.RawName)
		if !ok {
			return member.Descriptor{}, false
		}
		elems := doc.Array()
		if i < 0 || i >= len(elems) {
			return member.Descriptor{}, false
		}
		return member.Descriptor{
			RawName: want.RawName,
			Name:    want.RawName,
			Value:   documentChild(elems[i]),
		}, true
	}
	return member.Descriptor{}, false
}

func documentValue(v reflect.Value) (gjson.Result, bool) {
	if !v.IsValid() || !v.CanInterface() {
		return gjson.Result{}, false
	}
	switch x := v.Interface().(type) {
	case gjson.Result:
		return x, true
	case json.RawMessage:
		return gjson.ParseBytes(x), true
	}
	return gjson.Result{}, false
}

// documentChild keeps composite children as gjson.Result so descent stays
// inside the document introspector, and captures leaves as native values.
func documentChild(value gjson.Result) any {
	if value.IsObject() || value.IsArray() {
		return value
	}
	return value.Value()
}

func findDocumentKey(doc gjson.Result, cfg Config, match func(member.Descriptor) bool) (member.Descriptor, bool) {
	var found member.Descriptor
	var ok bool
	doc.ForEach(func(key, value gjson.Result) bool {
		raw := key.String()
		name, kind := member.DemangleWith(cfg.Rules, raw)
		d := member.Descriptor{
			RawName: raw,
			Name:    name,
			Kind:    kind,
			Value:   documentChild(value),
		}
		if !match(d) {
			return true
		}
		found = d
		ok = true
		return false
	})
	return found, ok
}

func parseIndexName(raw string) (int, bool) {
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return 0, false
	}
	i, err := strconv.Atoi(raw[1 : len(raw)-1])
	if err != nil {
		return 0, false
	}
	return i, true
}
