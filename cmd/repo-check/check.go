package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/repo-check/internal/config"
	"github.com/raphi011/repo-check/internal/git"
	"github.com/raphi011/repo-check/internal/log"
	"github.com/raphi011/repo-check/internal/output"
	"github.com/raphi011/repo-check/internal/report"
	"github.com/raphi011/repo-check/internal/scan"
	"github.com/raphi011/repo-check/internal/ui/progress"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// runCheck scans, reports and optionally deletes.
func runCheck(cmd *cobra.Command, opts config.Options) error {
	ctx := cmd.Context()
	l := log.FromContext(ctx)
	term := detectTerminal(cmd)

	oracle := git.CLI{Timeout: opts.Timeout}
	scanOpts := scan.Options{
		LocateOptions: scan.LocateOptions{
			IncludeRoot: opts.IncludeDot,
			Match:       opts.Match,
		},
		IgnoreUntracked: opts.IgnoreUntracked,
		Workers:         opts.Workers,
	}

	// The bar would interleave with command traces.
	var bar *progress.ProgressBar
	if term.stderr && !l.IsVerbose() {
		bar = progress.NewProgressBar("Checking repositories")
		scanOpts.Progress = bar.Report
		bar.Start()
	}

	results, err := scan.Scan(ctx, oracle, opts.Root, scanOpts)
	if bar != nil {
		bar.Stop()
	}
	if err != nil {
		return err
	}
	return finish(cmd, opts, term, oracle, results)
}

func finish(cmd *cobra.Command, opts config.Options, term terminal, oracle git.Oracle, results []scan.Result) error {
	ctx := cmd.Context()
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	filter := report.FilterFromFlags(opts.OnlySafe, opts.OnlyUnsafe, opts.OnlyUnknown)
	shown := filter.Apply(results)
	summary := report.Summarize(results)

	if opts.JSON {
		if err := out.JSON(report.NewDocument(shown, summary)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else if err := report.WriteText(out.Styled(), shown, summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if opts.Copy {
		copyPaths(l, shown)
	}

	if !opts.Delete {
		return nil
	}

	// Keep stdout valid JSON; deletion chatter goes to stderr.
	var w io.Writer = out.Styled()
	if opts.JSON {
		w = cmd.ErrOrStderr()
	}
	return runDelete(ctx, w, cmd.InOrStdin(), cmd.ErrOrStderr(), term, oracle, opts, shown)
}

func copyPaths(l *log.Logger, shown []scan.Result) {
	if len(shown) == 0 {
		l.Warn("nothing to copy")
		return
	}
	paths := make([]string, len(shown))
	for i, r := range shown {
		paths[i] = r.Path
	}
	if err := copyToClipboard(strings.Join(paths, "\n")); err != nil {
		l.Warn("failed to copy to clipboard: %v", err)
		return
	}
	l.Printf("Copied %d paths to clipboard\n", len(paths))
}
