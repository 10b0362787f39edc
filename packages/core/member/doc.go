// Package member models the building blocks of a structural comparison:
//
//   - Descriptor: one discovered field or getter with its raw reflection
//     name, its demangled source name, and its captured value
//   - Scope: a bitmask selecting which member kinds participate in a
//     comparison (public/non-public fields, public/non-public getters)
//   - the name demangler: an ordered rule table that recovers source-level
//     names from generator-decorated reflection names
//
// Descriptors are created by the introspectors, consumed by the scanner,
// and carried through mismatch outcomes into diagnostics. They are plain
// values and never mutated after capture.
package member
