package scan

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/repo-check/internal/git"
	"github.com/raphi011/repo-check/internal/log"
	"github.com/raphi011/repo-check/internal/verdict"
)

// DefaultWorkers bounds concurrent git work across repositories.
const DefaultWorkers = 8

// Result is the outcome for one candidate. Err is non-nil when signal
// collection failed; Verdict is then the zero value and must not be used.
type Result struct {
	Path    string
	Verdict verdict.Verdict
	Err     error
}

// Failed reports whether collection failed for this candidate.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Options controls a scan.
type Options struct {
	LocateOptions
	IgnoreUntracked bool
	// Workers bounds concurrent candidates. Zero means DefaultWorkers.
	Workers int
	// Progress, if set, is called after each candidate with the number done
	// so far. It may be called from several goroutines.
	Progress func(done, total int)
}

// Scan locates candidates under root and classifies each one.
// Only a root error is returned; per-candidate failures live on the Results.
func Scan(ctx context.Context, oracle git.Oracle, root string, opts Options) ([]Result, error) {
	paths, err := Locate(ctx, root, opts.LocateOptions)
	if err != nil {
		return nil, err
	}
	return Classify(ctx, oracle, paths, opts), nil
}

// Classify collects and classifies the given candidate paths in parallel.
// Results keep the order of paths.
func Classify(ctx context.Context, oracle git.Oracle, paths []string, opts Options) []Result {
	l := log.FromContext(ctx)

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]Result, len(paths))
	var done atomic.Int64

	// Workers never return an error, so the group context is never cancelled
	// by a sibling failure.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			results[i] = classifyOne(gctx, oracle, path, opts.IgnoreUntracked)
			if results[i].Failed() {
				l.Debug("collection failed", "path", path, "err", results[i].Err)
			}
			if opts.Progress != nil {
				opts.Progress(int(done.Add(1)), len(paths))
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// Recheck re-collects and re-classifies a single repository.
func Recheck(ctx context.Context, oracle git.Oracle, path string, ignoreUntracked bool) (verdict.Verdict, error) {
	r := classifyOne(ctx, oracle, path, ignoreUntracked)
	return r.Verdict, r.Err
}

func classifyOne(ctx context.Context, oracle git.Oracle, path string, ignoreUntracked bool) Result {
	signals, err := git.Collect(ctx, oracle, path, ignoreUntracked)
	if err != nil {
		return Result{Path: path, Err: err}
	}
	return Result{Path: path, Verdict: verdict.Classify(signals)}
}
