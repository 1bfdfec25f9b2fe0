// Package config handles loading and validation of repo-check configuration.
//
// Configuration is read from ~/.config/repo-check/config.toml, or from the
// file named by the REPO_CHECK_CONFIG environment variable.
//
// # Configuration Sources (highest priority first)
//
//   - Explicitly set command-line flags
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - ignore_untracked: untracked files do not make a repository dirty
//   - include_dot: also check the scan root itself
//   - allow_unknown, trash: defaults for --delete runs
//   - workers: repositories checked in parallel (default 8)
//   - timeout: limit for a single git call, as a Go duration (default "30s")
//
// # Theme
//
//	[theme]
//	name = "dracula"
//	mode = "auto"
//
// [Init] writes the commented default file (repo-check --init-config) and
// refuses to overwrite an existing one.
//
// # Option Validation
//
// [Options.Validate] rejects flag combinations that cannot run, such as two
// --only-* filters or --trash without --delete. These errors wrap
// [ErrInvalidOptions] and abort before any repository is scanned.
package config
