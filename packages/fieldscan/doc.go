// Package fieldscan walks two object graphs member-by-member and pairs up
// their structurally corresponding members.
//
// The scanner enumerates the expected value's members under a scope,
// locates each one's counterpart on the actual value (raw name first, then
// wire tag, demangled name and case fold, most-derived level first), and
// emits a flat sequence of
// match records: leaves paired for direct comparison, composites descended
// into with a dotted path prefix. A visited set keyed by reference identity
// bounds recursion on cyclic graphs; the set lives for exactly one Scan
// call, so independent scans can run concurrently.
//
// The scanner decides structure, never verdicts: records go to the
// mismatch package for evaluation and from there to a renderer.
package fieldscan
