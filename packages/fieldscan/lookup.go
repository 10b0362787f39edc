package fieldscan

import (
	"reflect"
	"strings"

	"github.com/abdul-hamid-achik/fieldcheck/packages/core/introspect"
	"github.com/abdul-hamid-achik/fieldcheck/packages/core/member"
)

// Lookup resolves a dotted member path against a value: "Inner.N",
// "items[2].id", "<Total>k__BackingField". Segments go through the same
// counterpart matching as a scan, so demangled names, wire tags and case
// folds all resolve. The returned descriptor carries the demangled path
// actually walked.
func Lookup(value any, path string) (member.Descriptor, bool) {
	return NewScanner(member.AllMembers).Lookup(value, path)
}

// Lookup resolves path against value using the scanner's introspectors and
// rule table. Lookup is scope-blind, like counterpart search in a scan.
func (s *Scanner) Lookup(value any, path string) (member.Descriptor, bool) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return member.Descriptor{}, false
	}
	cfg := introspect.Config{Scope: member.AllMembers, Rules: s.rules}

	var d member.Descriptor
	walked := ""
	current := value
	for _, seg := range segs {
		v := introspect.Indirect(reflect.ValueOf(current))
		if !v.IsValid() {
			return member.Descriptor{}, false
		}
		in, ok := introspect.For(s.chain, v)
		if !ok {
			return member.Descriptor{}, false
		}

		name, kind := member.DemangleWith(s.rules, seg)
		d, ok = in.Find(v, member.Descriptor{RawName: seg, Name: name, Kind: kind}, cfg)
		if !ok {
			return member.Descriptor{}, false
		}
		walked = joinPath(walked, d.Name)
		d.Path = walked
		current = d.Value
	}
	return d, true
}

// splitPath breaks a dotted path into lookup segments, keeping index
// segments ("[2]") separate from the member names they follow.
func splitPath(path string) []string {
	var segs []string
	for _, part := range strings.Split(path, ".") {
		for part != "" {
			i := strings.IndexByte(part, '[')
			if i < 0 {
				segs = append(segs, part)
				break
			}
			if i > 0 {
				segs = append(segs, part[:i])
			}
			j := strings.IndexByte(part[i:], ']')
			if j < 0 {
				segs = append(segs, part[i:])
				break
			}
			segs = append(segs, part[i:i+j+1])
			part = part[i+j+1:]
		}
	}
	return segs
}
