package scan

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphi011/repo-check/internal/log"
)

// makeTree creates root/<name> for each name; names ending in "!" get a
// .git file instead of a .git directory, names starting with "-" get no
// .git at all.
func makeTree(t *testing.T, names ...string) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	for _, name := range names {
		switch {
		case name[0] == '-':
			require.NoError(t, os.MkdirAll(filepath.Join(root, name[1:]), 0755))
		case name[len(name)-1] == '!':
			dir := filepath.Join(root, name[:len(name)-1])
			require.NoError(t, os.MkdirAll(dir, 0755))
			require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: /elsewhere\n"), 0644))
		default:
			require.NoError(t, os.MkdirAll(filepath.Join(root, name, ".git"), 0755))
		}
	}
	return root
}

func TestLocate(t *testing.T) {
	t.Parallel()

	root := makeTree(t, "repo_b", "repo_a", "-not_repo", "worktree!", "zeta")
	require.NoError(t, os.WriteFile(filepath.Join(root, "file.txt"), nil, 0644))

	got, err := Locate(context.Background(), root, LocateOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "repo_a"),
		filepath.Join(root, "repo_b"),
		filepath.Join(root, "zeta"),
	}, got)
}

func TestLocate_DoesNotRecurse(t *testing.T) {
	t.Parallel()

	root := makeTree(t, "-outer")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "outer", "inner", ".git"), 0755))

	got, err := Locate(context.Background(), root, LocateOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLocate_IncludeRoot(t *testing.T) {
	t.Parallel()

	root := makeTree(t, "child")
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))

	without, err := Locate(context.Background(), root, LocateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "child")}, without)

	with, err := Locate(context.Background(), root, LocateOptions{IncludeRoot: true})
	require.NoError(t, err)
	assert.Equal(t, []string{root, filepath.Join(root, "child")}, with)
}

func TestLocate_IncludeRootWithoutRepo(t *testing.T) {
	t.Parallel()

	root := makeTree(t, "child")

	got, err := Locate(context.Background(), root, LocateOptions{IncludeRoot: true})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "child")}, got)
}

func TestLocate_FollowsSymlinkedRepos(t *testing.T) {
	t.Parallel()

	target := makeTree(t, "real")
	root := makeTree(t)
	require.NoError(t, os.Symlink(filepath.Join(target, "real"), filepath.Join(root, "link")))

	got, err := Locate(context.Background(), root, LocateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "link")}, got)
}

func TestLocate_Match(t *testing.T) {
	t.Parallel()

	root := makeTree(t, "api-server", "web-client", "api-gateway")

	got, err := Locate(context.Background(), root, LocateOptions{Match: "api"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "api-gateway"),
		filepath.Join(root, "api-server"),
	}, got)
}

func TestLocate_RootNotFound(t *testing.T) {
	t.Parallel()

	root := makeTree(t)
	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	for _, path := range []string{filepath.Join(root, "missing"), file} {
		_, err := Locate(context.Background(), path, LocateOptions{})
		assert.ErrorIs(t, err, ErrRootNotFound, path)
	}
}

func TestLocate_UnreadableSubdirIsSkipped(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := makeTree(t, "ok", "locked")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, false, false))

	got, err := Locate(ctx, root, LocateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "ok")}, got)
	assert.Contains(t, buf.String(), "Warning: skipping "+locked)
}
