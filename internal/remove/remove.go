package remove

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/raphi011/repo-check/internal/log"
	"github.com/raphi011/repo-check/internal/scan"
	"github.com/raphi011/repo-check/internal/verdict"
)

// ErrAborted is returned when the user declines the confirmation prompt.
var ErrAborted = errors.New("aborted")

// ErrVanished is reported for a candidate that no longer exists at removal time.
var ErrVanished = errors.New("path vanished")

// Mode selects how a candidate is removed.
type Mode int

const (
	// Permanent deletes the directory tree.
	Permanent Mode = iota
	// Trash moves the directory to the platform trash.
	Trash
)

func (m Mode) String() string {
	if m == Trash {
		return "trash"
	}
	return "permanent"
}

// Policy controls which candidates are removed and how.
type Policy struct {
	Mode         Mode
	AllowUnknown bool
	// AssumeYes skips every prompt. A failed trash move is then a failure
	// instead of an offer to delete permanently.
	AssumeYes bool
}

// Candidates returns the results that may be removed under allowUnknown,
// in order. Unsafe and failed results are never candidates.
func Candidates(results []scan.Result, allowUnknown bool) []scan.Result {
	var out []scan.Result
	for _, r := range results {
		if !r.Failed() && verdict.Deletable(r.Verdict.Status, allowUnknown) {
			out = append(out, r)
		}
	}
	return out
}

// Skip records a candidate that was left in place.
type Skip struct {
	Path   string
	Reason string
}

// Failure records a candidate whose removal failed.
type Failure struct {
	Path string
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("failed to remove %s: %v", f.Path, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Outcome summarizes a run.
type Outcome struct {
	Deleted  []string
	Skipped  []Skip
	Failures []*Failure
}

// Err joins all failures, or returns nil.
func (o Outcome) Err() error {
	errs := make([]error, len(o.Failures))
	for i, f := range o.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Executor removes candidates. Confirm and Recheck are required; the
// remaining hooks have defaults.
type Executor struct {
	// Confirm is asked once with all candidates unless the policy assumes yes.
	Confirm func(candidates []scan.Result) (bool, error)
	// Recheck re-collects and re-classifies a candidate just before removal.
	Recheck func(ctx context.Context, path string) (verdict.Verdict, error)
	// Fallback asks whether to delete permanently after a failed trash move.
	// Nil makes the trash failure a Failure, as with AssumeYes.
	Fallback func(path string, trashErr error) (bool, error)
	// Remover deletes a directory tree. Nil means os.RemoveAll.
	Remover func(path string) error
	// Trasher moves a directory to the trash. Nil means MoveToTrash.
	Trasher func(path string) error
}

// Run removes candidates according to p. It returns ErrAborted without side
// effects if confirmation is declined, and the context error if ctx is
// cancelled between candidates. Per-candidate failures are reported in the
// Outcome only.
func (e *Executor) Run(ctx context.Context, candidates []scan.Result, p Policy) (Outcome, error) {
	var out Outcome
	if len(candidates) == 0 {
		return out, nil
	}

	if !p.AssumeYes {
		ok, err := e.Confirm(candidates)
		if err != nil {
			return out, fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return out, ErrAborted
		}
	}

	l := log.FromContext(ctx)
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		v, err := e.Recheck(ctx, c.Path)
		switch {
		case err != nil:
			if serr := statCandidate(c.Path); serr != nil {
				out.Failures = append(out.Failures, &Failure{Path: c.Path, Err: serr})
				continue
			}
			out.Skipped = append(out.Skipped, Skip{Path: c.Path, Reason: fmt.Sprintf("recheck failed: %v", err)})
			continue
		case !verdict.Deletable(v.Status, p.AllowUnknown):
			out.Skipped = append(out.Skipped, Skip{Path: c.Path, Reason: fmt.Sprintf("status changed to %s", v.Status)})
			continue
		}

		skip, err := e.removeOne(c.Path, p)
		switch {
		case err != nil:
			l.Debug("removal failed", "path", c.Path, "mode", p.Mode, "err", err)
			out.Failures = append(out.Failures, &Failure{Path: c.Path, Err: err})
		case skip != "":
			out.Skipped = append(out.Skipped, Skip{Path: c.Path, Reason: skip})
		default:
			l.Debug("removed", "path", c.Path, "mode", p.Mode)
			out.Deleted = append(out.Deleted, c.Path)
		}
	}

	return out, nil
}

// statCandidate reports a candidate that vanished or became unreadable
// since the scan.
func statCandidate(path string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrVanished, err)
	default:
		return fmt.Errorf("path unreadable: %w", err)
	}
}

// removeOne returns a non-empty skip reason when the candidate was left in place.
func (e *Executor) removeOne(path string, p Policy) (string, error) {
	if p.Mode == Permanent {
		return "", e.remove(path)
	}

	trashErr := e.trash(path)
	if trashErr == nil {
		return "", nil
	}
	if p.AssumeYes || e.Fallback == nil {
		return "", fmt.Errorf("move to trash: %w", trashErr)
	}

	ok, err := e.Fallback(path, trashErr)
	if err != nil {
		return "", fmt.Errorf("move to trash: %w", errors.Join(trashErr, err))
	}
	if !ok {
		return "declined permanent deletion after trash failure", nil
	}
	return "", e.remove(path)
}

func (e *Executor) remove(path string) error {
	if e.Remover != nil {
		return e.Remover(path)
	}
	return os.RemoveAll(path)
}

func (e *Executor) trash(path string) error {
	if e.Trasher != nil {
		return e.Trasher(path)
	}
	return MoveToTrash(path)
}
