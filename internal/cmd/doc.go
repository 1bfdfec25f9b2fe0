// Package cmd provides helpers for executing external commands with proper
// error handling.
//
// Both helpers take a [context.Context]: cancellation and deadlines kill the
// child process, and the command line is traced through the context logger
// when verbose logging is enabled. Stderr is captured and becomes the error
// message on failure, which keeps git's own diagnostics in the report.
//
// # Usage
//
//	out, err := cmd.OutputContext(ctx, repoDir, "git", "stash", "list")
//	if err != nil {
//	    return fmt.Errorf("stash list: %w", err)
//	}
package cmd
