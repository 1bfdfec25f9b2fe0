package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/raphi011/repo-check/internal/cmd"
)

// runGit runs git in dir through the same command runner as the oracle.
func runGit(ctx context.Context, dir string, args ...string) error {
	return cmd.RunContext(ctx, "", "git", gitArgs(dir, args)...)
}

// resolveTempDir creates a temp directory and resolves macOS symlinks.
func resolveTempDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks for %s: %v", tmpDir, err)
	}
	return resolved
}

// mustGit runs git in dir and fails the test on error.
func mustGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	if err := runGit(context.Background(), dir, args...); err != nil {
		t.Fatalf("git %v: %v", args, err)
	}
}

// configureTestRepo sets git user config and disables GPG signing.
func configureTestRepo(t *testing.T, repoPath string) {
	t.Helper()
	mustGit(t, repoPath, "config", "user.email", "test@test.com")
	mustGit(t, repoPath, "config", "user.name", "Test User")
	mustGit(t, repoPath, "config", "commit.gpgsign", "false")
}

// writeFile writes content to name inside repoPath.
func writeFile(t *testing.T, repoPath, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repoPath, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// commitFile writes, stages and commits a file.
func commitFile(t *testing.T, repoPath, name, content string) {
	t.Helper()
	writeFile(t, repoPath, name, content)
	mustGit(t, repoPath, "add", name)
	mustGit(t, repoPath, "commit", "-m", "Add "+name)
}

// setupTestRepo creates a git repo with main branch, initial commit and no remote.
// Returns the resolved repo path.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	repoPath := filepath.Join(resolveTempDir(t), "test-repo")

	mustGit(t, "", "init", "-b", "main", repoPath)
	configureTestRepo(t, repoPath)
	commitFile(t, repoPath, "README.md", "# test\n")

	return repoPath
}

// setupTestRepoWithOrigin creates a repo whose main branch is pushed to a
// bare origin, so refs/remotes/origin/main exists.
// Returns (repoPath, originPath).
func setupTestRepoWithOrigin(t *testing.T) (string, string) {
	t.Helper()
	tmpDir := resolveTempDir(t)

	originPath := filepath.Join(tmpDir, "origin.git")
	repoPath := filepath.Join(tmpDir, "repo")

	mustGit(t, "", "init", "--bare", "-b", "main", originPath)
	mustGit(t, "", "init", "-b", "main", repoPath)
	configureTestRepo(t, repoPath)
	mustGit(t, repoPath, "remote", "add", "origin", originPath)

	commitFile(t, repoPath, "README.md", "# test\n")
	mustGit(t, repoPath, "push", "-u", "origin", "main")

	return repoPath, originPath
}
