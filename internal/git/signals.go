package git

import (
	"context"
	"fmt"

	"github.com/raphi011/repo-check/internal/log"
	"github.com/raphi011/repo-check/internal/verdict"
)

// Query names used in OracleError.
const (
	QueryStatus           = "status"
	QueryStashList        = "stash list"
	QueryRemoteRefs       = "remote refs"
	QueryLocalOnlyCommits = "local-only commits"
)

// OracleError reports a failed or unparseable git query for one repository.
type OracleError struct {
	Dir   string
	Query string
	Err   error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("git %s failed in %s: %v", e.Query, e.Dir, e.Err)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}

// Collect gathers the deletion-safety signals for the repository at dir.
// Untracked files count as dirty unless ignoreUntracked is set. The
// local-only commit query only runs when remote-tracking refs exist.
func Collect(ctx context.Context, o Oracle, dir string, ignoreUntracked bool) (verdict.SignalSet, error) {
	var s verdict.SignalSet

	entries, err := o.Status(ctx, dir)
	if err != nil {
		return s, &OracleError{Dir: dir, Query: QueryStatus, Err: err}
	}
	for _, e := range entries {
		if e.Has(Ignored) || (ignoreUntracked && e.Has(Untracked)) {
			continue
		}
		s.DirtyCount++
	}

	stashes, err := o.StashList(ctx, dir)
	if err != nil {
		return s, &OracleError{Dir: dir, Query: QueryStashList, Err: err}
	}
	s.StashCount = len(stashes)

	refs, err := o.RemoteRefs(ctx, dir)
	if err != nil {
		return s, &OracleError{Dir: dir, Query: QueryRemoteRefs, Err: err}
	}
	s.HasRemoteTracking = len(refs) > 0

	if s.HasRemoteTracking {
		commits, err := o.LocalOnlyCommits(ctx, dir)
		if err != nil {
			return s, &OracleError{Dir: dir, Query: QueryLocalOnlyCommits, Err: err}
		}
		s.LocalOnlyCommitCount = len(commits)
	}

	log.FromContext(ctx).Debug("collected signals", "dir", dir,
		"dirty", s.DirtyCount, "stash", s.StashCount,
		"remoteRefs", len(refs), "localOnly", s.LocalOnlyCommitCount)

	return s, nil
}
