// Package render turns mismatch outcomes into human-readable diagnostics.
//
// The comparison engine never formats anything itself: it hands a sequence
// of structured outcomes to a renderer. ConsoleRenderer is the built-in
// one, writing colored, dotted-path messages of the shape
//
//	The object's field 'Inner.N' does not have the expected value.
//
// with expected/actual value dumps, optional unified diffs, and a summary
// table in verbose mode. Anything that can consume mismatch.Outcome values
// can replace it.
package render
