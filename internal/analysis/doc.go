// Package analysis implements the overdue-jobs engine: deriving effective
// dates from file names, summarizing uploaded files, classifying jobs as
// overdue or critical-overdue against each file's effective date, and
// reconciling per-file results back onto display rows whose identifiers may
// differ in form (absolute path, basename, substring overlap).
//
// The engine is synchronous and free of shared mutable state: every call
// receives its own input and returns a freshly constructed result. The clock
// is always injected so classification is deterministic under test.
package analysis
