package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/repo-check/internal/config"
	"github.com/raphi011/repo-check/internal/git"
	"github.com/raphi011/repo-check/internal/log"
	"github.com/raphi011/repo-check/internal/output"
	"github.com/raphi011/repo-check/internal/ui/styles"
)

// flags holds the raw command-line values. They are merged over the
// config file in options.
type flags struct {
	onlySafe        bool
	onlyUnsafe      bool
	onlyUnknown     bool
	json            bool
	includeDot      bool
	ignoreUntracked bool
	delete          bool
	yes             bool
	trash           bool
	allowUnknown    bool
	match           string
	copy            bool
	workers         int
	timeout         time.Duration
	verbose         bool
	quiet           bool
	initConfig      bool
}

// newRootCmd builds the repo-check command. Each call returns an
// independent command so tests can run it in parallel.
func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "repo-check [PATH]",
		Short: "Find git repositories that are safe to delete",
		Long: `repo-check inspects every git repository directly under PATH (default: the
current directory) and classifies it:

  SAFE     no uncommitted changes, no stashes, every commit is on a remote
  UNSAFE   holds work that exists nowhere else
  UNKNOWN  has no remote-tracking refs, so pushed-ness cannot be determined

No fetch is performed; verdicts are only as fresh as the local
remote-tracking refs.

Config: ~/.config/repo-check/config.toml (override with REPO_CHECK_CONFIG)`,
		Example: `  repo-check ~/src                      # Classify all repositories
  repo-check ~/src --only-unsafe        # Show only repositories with local work
  repo-check ~/src --json               # Machine-readable output
  repo-check ~/src --delete --trash     # Move SAFE repositories to the trash
  repo-check ~/src --delete --allow-unknown --yes`,
		Args:                       cobra.MaximumNArgs(1),
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveFilterDirs
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			// Logger and printer follow the command's writers so tests can
			// capture them with SetOut/SetErr.
			ctx = log.WithLogger(ctx, log.New(cmd.ErrOrStderr(), f.verbose, f.quiet))
			ctx = output.WithPrinter(ctx, cmd.OutOrStdout())
			if config.FromContext(ctx) == nil {
				cfg := config.Default()
				ctx = config.WithConfig(ctx, &cfg)
			}
			cmd.SetContext(ctx)

			if f.initConfig {
				return nil
			}
			return git.CheckGit()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.initConfig {
				return initConfig(cmd)
			}

			opts, err := options(cmd, &f, args)
			if err != nil {
				return err
			}
			return runCheck(cmd, opts)
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&f.onlySafe, "only-safe", false, "Show only SAFE repositories")
	fs.BoolVar(&f.onlyUnsafe, "only-unsafe", false, "Show only UNSAFE repositories")
	fs.BoolVar(&f.onlyUnknown, "only-unknown", false, "Show only UNKNOWN repositories")
	cmd.MarkFlagsMutuallyExclusive("only-safe", "only-unsafe", "only-unknown")

	fs.BoolVar(&f.json, "json", false, "Output as JSON")
	fs.BoolVar(&f.includeDot, "include-dot", false, "Also check PATH itself")
	fs.BoolVar(&f.ignoreUntracked, "ignore-untracked", false, "Do not count untracked files as uncommitted changes")
	fs.StringVar(&f.match, "match", "", "Only check repositories whose name fuzzy-matches `QUERY`")
	fs.BoolVar(&f.copy, "copy", false, "Copy the shown repository paths to the clipboard")
	fs.IntVar(&f.workers, "workers", config.DefaultWorkers, "Maximum repositories checked in parallel")
	fs.DurationVar(&f.timeout, "timeout", config.DefaultTimeout, "Timeout for each git invocation")

	fs.BoolVar(&f.delete, "delete", false, "Delete SAFE repositories after the report")
	fs.BoolVarP(&f.yes, "yes", "y", false, "Skip confirmation prompts (requires --delete)")
	fs.BoolVar(&f.trash, "trash", false, "Move to the trash instead of deleting (requires --delete)")
	fs.BoolVar(&f.allowUnknown, "allow-unknown", false, "Also delete UNKNOWN repositories (requires --delete)")

	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Show git commands being executed")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "Suppress warnings and diagnostics")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	fs.BoolVar(&f.initConfig, "init-config", false, "Write the default config file and exit")

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	return cmd
}

// options merges flags over the config file. A flag only overrides the
// config value when it was set explicitly.
func options(cmd *cobra.Command, f *flags, args []string) (config.Options, error) {
	cfg := config.FromContext(cmd.Context())
	changed := cmd.Flags().Changed

	opts := config.Options{
		Root:            ".",
		OnlySafe:        f.onlySafe,
		OnlyUnsafe:      f.onlyUnsafe,
		OnlyUnknown:     f.onlyUnknown,
		JSON:            f.json,
		IncludeDot:      cfg.IncludeDot,
		IgnoreUntracked: cfg.IgnoreUntracked,
		Delete:          f.delete,
		Yes:             f.yes,
		Match:           f.match,
		Copy:            f.copy,
		Workers:         cfg.Workers,
		Timeout:         cfg.Timeout,
	}
	if len(args) > 0 {
		opts.Root = args[0]
	}
	if changed("include-dot") {
		opts.IncludeDot = f.includeDot
	}
	if changed("ignore-untracked") {
		opts.IgnoreUntracked = f.ignoreUntracked
	}
	if changed("workers") {
		opts.Workers = f.workers
	}
	if changed("timeout") {
		opts.Timeout = f.timeout
	}

	// trash and allow_unknown only apply to deletion; from the config
	// file they must not trip the "requires --delete" check.
	opts.Trash = f.trash || (f.delete && !changed("trash") && cfg.Trash)
	opts.AllowUnknown = f.allowUnknown || (f.delete && !changed("allow-unknown") && cfg.AllowUnknown)

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func initConfig(cmd *cobra.Command) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	if err := config.Init(path); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	output.FromContext(cmd.Context()).Printf("Created config file: %s\n", path)
	return nil
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// An unreadable config is not fatal; the defaults still work.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	ctx = config.WithConfig(ctx, &cfg)
	styles.Init(cfg.Theme)

	cmd := newRootCmd()
	cmd.SetContext(ctx)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "repo-check: %v\n", err)
		os.Exit(1)
	}
}
