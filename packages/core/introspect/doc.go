// Package introspect enumerates the members of arbitrary values for the
// structural comparison engine.
//
// The Introspector interface abstracts the runtime's reflection facility so
// the scanner never touches reflect directly. Three implementations cover
// the value families the engine compares:
//
//   - Struct: native Go structs via reflect. Fields across the full
//     embedding chain (base-first), then getter-shaped methods. Unexported
//     field values are captured through addressable storage so they can be
//     compared.
//   - Document: JSON documents (gjson.Result or json.RawMessage). Object
//     members enumerate in document order, which keeps diagnostics
//     deterministic where Go map iteration would not. Decorated keys are
//     where generator name-mangling shows up in practice.
//   - Collection: slices, arrays and maps. Slice and array elements are
//     index members; string-keyed maps classify their entries like document
//     objects; other maps enumerate as contents in sorted key order.
//
// Enumeration order is fixed and documented per introspector so repeated
// scans of the same graphs produce identical member sequences.
package introspect
