// Package git collects deletion-safety signals from a repository via the git CLI.
//
// All queries shell out to git through [github.com/raphi011/repo-check/internal/cmd]
// rather than using a Go git library, so results match what the user's own
// git reports (same config, same ref namespace).
//
// # Oracle
//
// The [Oracle] interface exposes the four read-only queries the collector
// needs:
//
//   - [Oracle.Status]: working tree and index changes
//   - [Oracle.StashList]: stash entries
//   - [Oracle.RemoteRefs]: remote-tracking refs under refs/remotes/
//   - [Oracle.LocalOnlyCommits]: commits on local branches reachable from no remote
//
// [CLI] implements it by running git with a per-call timeout. Output that
// does not parse is reported as [ErrMalformedOutput].
//
// # Collection
//
// [Collect] runs the queries against one repository and returns a
// [verdict.SignalSet]. Any failure is returned as an [*OracleError] naming the
// query and directory, so the caller can attach it to that one repository.
// Nothing here fetches or mutates repository state.
package git
