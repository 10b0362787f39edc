package member

// Kind classifies how a member's raw name was produced.
type Kind int

const (
	// KindNormal is a member whose raw name is its source name.
	KindNormal Kind = iota
	// KindAutoProperty is a compiler-generated backing field for an
	// auto-implemented property; its source name is the property name.
	KindAutoProperty
	// KindAnonymousField is a field synthesized for an anonymous type.
	KindAnonymousField
)

func (k Kind) String() string {
	switch k {
	case KindAutoProperty:
		return "autoproperty"
	case KindAnonymousField:
		return "anonymous field"
	default:
		return "field"
	}
}

// Descriptor describes one discovered member and its captured value.
// Captured once per scan pass; immutable afterward.
type Descriptor struct {
	// RawName is the name as reported by the introspection facility,
	// possibly carrying generator decoration.
	RawName string
	// Name is the demangled source-level name.
	Name string
	// Kind records which demangling rule produced Name, if any.
	Kind Kind
	// Tag is the member's wire name from a `json` struct tag, when one is
	// declared. Counterpart lookup falls back to it so documents written
	// with tag names still correspond to their struct fields.
	Tag string
	// Path is the dotted field path from the comparison root, ending in
	// Name. Index members append as "name[i]" without a dot.
	Path string
	// Value is the member's captured value.
	Value any
	// ChainDepth is the member's position in the embedding chain of its
	// owning type: 0 for members declared on the type itself, 1 for
	// members promoted from a directly embedded type, and so on.
	ChainDepth int
}

// Label returns the full field path when known, the bare name otherwise.
func (d Descriptor) Label() string {
	if d.Path != "" {
		return d.Path
	}
	return d.Name
}
