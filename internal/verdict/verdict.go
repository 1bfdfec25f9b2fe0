// Package verdict classifies a repository as safe, unsafe or undetermined
// for deletion from the signals collected for it.
//
// [Classify] is a pure function: it performs no I/O and has no error path.
// Missing remote-tracking refs are a signal in their own right and yield
// [Unknown] rather than a failure.
package verdict

import "fmt"

// Status is the tri-state deletion verdict.
type Status string

const (
	// Safe means every local change and commit also exists on a remote.
	Safe Status = "SAFE"
	// Unsafe means the repository holds work that exists nowhere else.
	Unsafe Status = "UNSAFE"
	// Unknown means pushed-ness cannot be determined (no remote-tracking refs).
	Unknown Status = "UNKNOWN"
)

// Reason texts. Count-carrying reasons are formatted with the count appended.
const (
	ReasonNoRemoteRefs     = "no remote tracking refs found"
	ReasonUncommitted      = "uncommitted changes exist"
	ReasonStash            = "stash entries exist"
	ReasonLocalOnlyCommits = "local-only commits exist"
	ReasonAllChecksPassed  = "all checks passed"
)

// SignalSet is the measurement bundle collected for one repository.
// LocalOnlyCommitCount is only meaningful when HasRemoteTracking is true.
type SignalSet struct {
	DirtyCount           int
	StashCount           int
	LocalOnlyCommitCount int
	HasRemoteTracking    bool
}

// Verdict is the classification of one SignalSet.
type Verdict struct {
	Status  Status
	Reasons []string
	Signals SignalSet
}

// Classify maps signals to a verdict. Precedence:
//  1. no remote-tracking refs: Unknown, regardless of the other counts
//  2. any positive count: Unsafe, one reason per positive count
//  3. otherwise: Safe
func Classify(s SignalSet) Verdict {
	if !s.HasRemoteTracking {
		return Verdict{Status: Unknown, Reasons: []string{ReasonNoRemoteRefs}, Signals: s}
	}

	var reasons []string
	if s.DirtyCount > 0 {
		reasons = append(reasons, withCount(ReasonUncommitted, s.DirtyCount))
	}
	if s.StashCount > 0 {
		reasons = append(reasons, withCount(ReasonStash, s.StashCount))
	}
	if s.LocalOnlyCommitCount > 0 {
		reasons = append(reasons, withCount(ReasonLocalOnlyCommits, s.LocalOnlyCommitCount))
	}
	if len(reasons) > 0 {
		return Verdict{Status: Unsafe, Reasons: reasons, Signals: s}
	}

	return Verdict{Status: Safe, Reasons: []string{ReasonAllChecksPassed}, Signals: s}
}

// Deletable reports whether a verdict with status st may be deleted.
// Unsafe never is; Unknown only when allowUnknown is set.
func Deletable(st Status, allowUnknown bool) bool {
	switch st {
	case Safe:
		return true
	case Unknown:
		return allowUnknown
	default:
		return false
	}
}

func withCount(reason string, n int) string {
	return fmt.Sprintf("%s: %d", reason, n)
}
