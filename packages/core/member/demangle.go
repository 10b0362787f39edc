package member

import "regexp"

// Rule pairs a raw-name pattern with the kind it identifies. The pattern's
// first capture group is the source-level name.
type Rule struct {
	Pattern *regexp.Regexp
	Kind    Kind
}

// DefaultRules is the built-in demangling table, evaluated in order. It
// covers the backing fields synthesized for auto-implemented properties and
// the two common anonymous-type field conventions. The table is immutable;
// callers needing extra conventions pass their own table to DemangleWith.
var DefaultRules = []Rule{
	{Pattern: regexp.MustCompile(`^<(.+)>k__BackingField$`), Kind: KindAutoProperty},
	{Pattern: regexp.MustCompile(`^<(.+)>i__Field$`), Kind: KindAnonymousField},
	{Pattern: regexp.MustCompile(`^\$(.+)$`), Kind: KindAnonymousField},
}

// Demangle recovers the source-level name from a raw reflection name using
// the default rule table. Names matching no rule are returned unchanged and
// classified KindNormal.
func Demangle(raw string) (string, Kind) {
	return DemangleWith(DefaultRules, raw)
}

// DemangleWith is Demangle over a caller-supplied rule table. Rules are
// tried in order; the first match wins.
func DemangleWith(rules []Rule, raw string) (string, Kind) {
	for _, r := range rules {
		if m := r.Pattern.FindStringSubmatch(raw); m != nil {
			return m[1], r.Kind
		}
	}
	return raw, KindNormal
}
