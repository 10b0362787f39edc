// Package check is the fluent entry point for structural comparisons.
//
//	err := check.That(got).
//		As("response").
//		Considering(member.PublicFields, member.PublicGetters).
//		HasFieldsWithSameValues(want)
//
// A nil error means the comparison passed. A failing comparison returns a
// *Failure carrying every mismatch outcome; AsFailure recovers it from the
// error for programmatic inspection, Report renders the full diagnostic.
// The package never touches testing.T: callers decide what a failure
// means, which keeps the engine usable outside test binaries.
//
// The default scope considers public and non-public fields. Considering
// replaces that default with the union of its arguments.
package check
