package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/raphi011/repo-check/internal/config"
	"github.com/raphi011/repo-check/internal/git"
	"github.com/raphi011/repo-check/internal/log"
	"github.com/raphi011/repo-check/internal/remove"
	"github.com/raphi011/repo-check/internal/scan"
	"github.com/raphi011/repo-check/internal/ui/progress"
	"github.com/raphi011/repo-check/internal/ui/static"
	"github.com/raphi011/repo-check/internal/ui/styles"
	"github.com/raphi011/repo-check/internal/verdict"
)

// removeAll is replaced in tests.
var removeAll = os.RemoveAll

// runDelete removes the deletable repositories among shown. It returns an
// error if any removal failed; declining the confirmation is not an error.
func runDelete(ctx context.Context, w io.Writer, in io.Reader, errOut io.Writer, term terminal,
	oracle git.Oracle, opts config.Options, shown []scan.Result) error {
	l := log.FromContext(ctx)

	candidates := remove.Candidates(shown, opts.AllowUnknown)
	if len(candidates) == 0 {
		fmt.Fprintln(w, "No repositories to delete.")
		return nil
	}

	policy := remove.Policy{
		Mode:         remove.Permanent,
		AllowUnknown: opts.AllowUnknown,
		AssumeYes:    opts.Yes,
	}
	action := "deleted"
	question := fmt.Sprintf("Delete %d repositories permanently?", len(candidates))
	if opts.Trash {
		policy.Mode = remove.Trash
		action = "moved to the trash"
		question = fmt.Sprintf("Move %d repositories to the trash?", len(candidates))
	}

	fmt.Fprintf(w, "\nThe following repositories will be %s:\n\n", action)
	io.WriteString(w, static.RenderResults(candidates))
	fmt.Fprintf(w, "\nTotal: %d repositories\n", len(candidates))

	ask := asker{in: bufio.NewReader(in), out: errOut, term: term}
	e := &remove.Executor{
		Confirm: func([]scan.Result) (bool, error) {
			return ask.confirm(question, "")
		},
		Recheck: func(ctx context.Context, path string) (verdict.Verdict, error) {
			return scan.Recheck(ctx, oracle, path, opts.IgnoreUntracked)
		},
		Fallback: func(path string, err error) (bool, error) {
			return ask.confirm("Delete permanently instead?",
				fmt.Sprintf("Failed to move %s to the trash: %v", path, err))
		},
		Remover: withSpinner(term, "Deleting", removeAll),
		Trasher: withSpinner(term, "Moving to trash", remove.MoveToTrash),
	}

	outcome, err := e.Run(ctx, candidates, policy)
	if errors.Is(err, remove.ErrAborted) {
		fmt.Fprintln(w, "Aborted.")
		return nil
	}

	for _, s := range outcome.Skipped {
		l.Warn("skipped %s: %s", s.Path, s.Reason)
	}
	fmt.Fprintln(w)
	for _, p := range outcome.Deleted {
		fmt.Fprintf(w, "%s %s\n", styles.SuccessStyle.Render("Removed"), p)
	}

	summary := fmt.Sprintf("Deleted: %d, Skipped: %d", len(outcome.Deleted), len(outcome.Skipped))
	if n := len(outcome.Failures); n > 0 {
		summary += fmt.Sprintf(", Failed: %d", n)
	}
	fmt.Fprintln(w, summary)

	if err != nil {
		return err
	}
	return outcome.Err()
}

// withSpinner shows a spinner on an interactive stderr while fn runs.
func withSpinner(term terminal, verb string, fn func(string) error) func(string) error {
	if !term.stderr {
		return fn
	}
	return func(path string) error {
		sp := progress.NewSpinner(fmt.Sprintf("%s %s", verb, path))
		sp.Start()
		defer sp.Stop()
		return fn(path)
	}
}
