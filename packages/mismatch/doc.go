// Package mismatch turns scanner match records into comparison verdicts.
//
// Evaluate is a pure function over one record and a negation flag: it
// reports a problem exactly when the observed match state disagrees with
// what the caller asserted. Equality follows the value's own definition
// when it has one (an Equal method), falls back to deep equality, and
// bridges numeric representations so a document's float64 can equal a
// struct's int.
//
// Outcomes carry structured data only. Wording and presentation belong to
// the render package.
package mismatch
