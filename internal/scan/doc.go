// Package scan finds candidate repositories under a root directory and
// classifies each of them.
//
// [Locate] looks one level deep: every immediate subdirectory holding a
// .git directory is a candidate, and the root itself is one when requested.
// A .git file (linked worktree, submodule) does not qualify. Candidates are
// returned sorted by path so reports and deletion batches are reproducible.
//
// [Scan] collects signals for all candidates on a bounded worker pool and
// returns one [Result] per candidate in locator order. A git failure on one
// candidate is recorded on its Result and never cancels its siblings.
package scan
