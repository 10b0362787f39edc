// Package golden stores recorded object snapshots and verifies live values
// against them with the structural comparison engine.
//
// A golden file is an envelope around the recorded data: a format version,
// a stable identifier, the recording time, and a content checksum that
// lets update runs leave unchanged files untouched. Data is kept as JSON
// inside the envelope regardless of the file format on disk, so a golden
// written as YAML verifies through the same document walk as a JSON one.
//
// Verification treats the golden as the expected member set: every
// recorded member must match the live value, while members added to the
// live type since the recording are tolerated. Run a store in update mode
// to record missing goldens and rewrite stale ones.
package golden
