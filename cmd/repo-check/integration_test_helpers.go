//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/repo-check/internal/config"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// runGitCommand runs git in dir and returns its trimmed output.
func runGitCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

// setupTestRepo creates a git repo with an initial commit in dir/name and
// no remote. Returns the repo path.
func setupTestRepo(t *testing.T, dir, name string) string {
	t.Helper()

	repoPath := filepath.Join(dir, name)
	runGitCommand(t, dir, "init", "-b", "main", repoPath)
	runGitCommand(t, repoPath, "config", "user.email", "test@test.com")
	runGitCommand(t, repoPath, "config", "user.name", "Test User")
	runGitCommand(t, repoPath, "config", "commit.gpgsign", "false")

	if err := os.WriteFile(filepath.Join(repoPath, "README.md"), []byte("# "+name+"\n"), 0644); err != nil {
		t.Fatalf("failed to write README: %v", err)
	}
	runGitCommand(t, repoPath, "add", "README.md")
	runGitCommand(t, repoPath, "commit", "-m", "Initial commit")

	return repoPath
}

// setupTestRepoWithLocalOrigin creates dir/name pushed to a bare origin
// under originsDir, so it has remote-tracking refs.
func setupTestRepoWithLocalOrigin(t *testing.T, dir, originsDir, name string) string {
	t.Helper()

	repoPath := setupTestRepo(t, dir, name)
	originPath := filepath.Join(originsDir, name+".git")
	runGitCommand(t, originsDir, "init", "--bare", "-b", "main", originPath)
	runGitCommand(t, repoPath, "remote", "add", "origin", originPath)
	runGitCommand(t, repoPath, "push", "-u", "origin", "main")

	return repoPath
}

// makeDirty creates an untracked file in repoPath.
func makeDirty(t *testing.T, repoPath string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repoPath, "dirty.txt"), []byte("uncommitted changes\n"), 0644); err != nil {
		t.Fatalf("failed to create dirty file: %v", err)
	}
}

// scenarioRoot builds a root with three repositories:
// clean (pushed), dirty (pushed, untracked file) and local (no remote).
func scenarioRoot(t *testing.T) (root string, clean, dirty, local string) {
	t.Helper()

	tmp := resolvePath(t, t.TempDir())
	root = filepath.Join(tmp, "src")
	origins := filepath.Join(tmp, "origins")
	for _, d := range []string{root, origins} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	clean = setupTestRepoWithLocalOrigin(t, root, origins, "clean")
	dirty = setupTestRepoWithLocalOrigin(t, root, origins, "dirty")
	makeDirty(t, dirty)
	local = setupTestRepo(t, root, "local")

	return root, clean, dirty, local
}

// cmdResult holds captured command output.
type cmdResult struct {
	stdout string
	stderr string
	err    error
}

// runRepoCheck runs the root command in-process with default config.
func runRepoCheck(t *testing.T, stdin string, args ...string) cmdResult {
	t.Helper()
	return runRepoCheckWithConfig(t, config.Default(), stdin, args...)
}

func runRepoCheckWithConfig(t *testing.T, cfg config.Config, stdin string, args ...string) cmdResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetContext(config.WithConfig(context.Background(), &cfg))
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return cmdResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
