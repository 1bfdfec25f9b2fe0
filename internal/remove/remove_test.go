package remove

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphi011/repo-check/internal/scan"
	"github.com/raphi011/repo-check/internal/verdict"
)

func res(path string, st verdict.Status) scan.Result {
	return scan.Result{Path: path, Verdict: verdict.Verdict{Status: st}}
}

// mkdirs creates one directory per name under a temp root and returns the
// full paths.
func mkdirs(t *testing.T, names ...string) []string {
	t.Helper()
	root := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Join(paths[i], ".git"), 0755))
	}
	return paths
}

// unchanged returns a Recheck that reports the scanned status again.
func unchanged(results []scan.Result) func(context.Context, string) (verdict.Verdict, error) {
	byPath := make(map[string]verdict.Verdict, len(results))
	for _, r := range results {
		byPath[r.Path] = r.Verdict
	}
	return func(_ context.Context, path string) (verdict.Verdict, error) {
		return byPath[path], nil
	}
}

func neverConfirm(t *testing.T) func([]scan.Result) (bool, error) {
	return func([]scan.Result) (bool, error) {
		t.Error("Confirm should not be called")
		return false, nil
	}
}

func TestCandidates(t *testing.T) {
	t.Parallel()

	results := []scan.Result{
		res("/a", verdict.Safe),
		res("/b", verdict.Unsafe),
		res("/c", verdict.Unknown),
		{Path: "/d", Err: errors.New("boom")},
		res("/e", verdict.Safe),
	}

	paths := func(rs []scan.Result) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.Path)
		}
		return out
	}

	assert.Equal(t, []string{"/a", "/e"}, paths(Candidates(results, false)))
	assert.Equal(t, []string{"/a", "/c", "/e"}, paths(Candidates(results, true)))
}

func TestRun_DeletesSafeAndUnknown(t *testing.T) {
	t.Parallel()

	dirs := mkdirs(t, "safe", "unknown", "unsafe")
	results := []scan.Result{
		res(dirs[0], verdict.Safe),
		res(dirs[1], verdict.Unknown),
		res(dirs[2], verdict.Unsafe),
	}

	e := &Executor{Confirm: neverConfirm(t), Recheck: unchanged(results)}
	out, err := e.Run(context.Background(), Candidates(results, true), Policy{AllowUnknown: true, AssumeYes: true})
	require.NoError(t, err)

	assert.Equal(t, []string{dirs[0], dirs[1]}, out.Deleted)
	assert.Empty(t, out.Skipped)
	assert.Empty(t, out.Failures)
	assert.NoDirExists(t, dirs[0])
	assert.NoDirExists(t, dirs[1])
	assert.DirExists(t, dirs[2])
}

func TestRun_NoCandidates(t *testing.T) {
	t.Parallel()

	e := &Executor{Confirm: neverConfirm(t)}
	out, err := e.Run(context.Background(), nil, Policy{})
	require.NoError(t, err)
	assert.Equal(t, Outcome{}, out)
}

func TestRun_ConfirmDeclined(t *testing.T) {
	t.Parallel()

	dirs := mkdirs(t, "safe")
	results := []scan.Result{res(dirs[0], verdict.Safe)}

	var asked []scan.Result
	e := &Executor{
		Confirm: func(c []scan.Result) (bool, error) {
			asked = c
			return false, nil
		},
		Recheck: func(context.Context, string) (verdict.Verdict, error) {
			t.Error("Recheck should not be called after declining")
			return verdict.Verdict{}, nil
		},
	}

	_, err := e.Run(context.Background(), results, Policy{})
	require.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, results, asked)
	assert.DirExists(t, dirs[0])
}

func TestRun_ConfirmError(t *testing.T) {
	t.Parallel()

	e := &Executor{Confirm: func([]scan.Result) (bool, error) { return false, errors.New("no tty") }}
	_, err := e.Run(context.Background(), []scan.Result{res("/a", verdict.Safe)}, Policy{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tty")
	assert.NotErrorIs(t, err, ErrAborted)
}

func TestRun_RecheckSkipsChangedRepository(t *testing.T) {
	t.Parallel()

	dirs := mkdirs(t, "became-dirty", "broken", "still-safe")
	results := []scan.Result{
		res(dirs[0], verdict.Safe),
		res(dirs[1], verdict.Safe),
		res(dirs[2], verdict.Safe),
	}

	e := &Executor{
		Confirm: neverConfirm(t),
		Recheck: func(_ context.Context, path string) (verdict.Verdict, error) {
			switch path {
			case dirs[0]:
				return verdict.Verdict{Status: verdict.Unsafe}, nil
			case dirs[1]:
				return verdict.Verdict{}, errors.New("git status failed")
			default:
				return verdict.Verdict{Status: verdict.Safe}, nil
			}
		},
	}

	out, err := e.Run(context.Background(), results, Policy{AssumeYes: true})
	require.NoError(t, err)

	assert.Equal(t, []string{dirs[2]}, out.Deleted)
	assert.Equal(t, []Skip{
		{Path: dirs[0], Reason: "status changed to UNSAFE"},
		{Path: dirs[1], Reason: "recheck failed: git status failed"},
	}, out.Skipped)
	assert.DirExists(t, dirs[0])
	assert.DirExists(t, dirs[1])
}

func TestRun_RecheckMissingPathFails(t *testing.T) {
	t.Parallel()

	dirs := mkdirs(t, "gone", "kept")
	results := []scan.Result{res(dirs[0], verdict.Safe), res(dirs[1], verdict.Safe)}
	require.NoError(t, os.RemoveAll(dirs[0]))

	e := &Executor{
		Confirm: neverConfirm(t),
		Recheck: func(_ context.Context, path string) (verdict.Verdict, error) {
			if path == dirs[0] {
				return verdict.Verdict{}, errors.New("cannot change to directory")
			}
			return verdict.Verdict{Status: verdict.Safe}, nil
		},
	}

	out, err := e.Run(context.Background(), results, Policy{AssumeYes: true})
	require.NoError(t, err)

	assert.Equal(t, []string{dirs[1]}, out.Deleted)
	assert.Empty(t, out.Skipped)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, dirs[0], out.Failures[0].Path)
	assert.ErrorIs(t, out.Err(), ErrVanished)
	assert.ErrorIs(t, out.Err(), fs.ErrNotExist)
}

func TestRun_RecheckRespectsAllowUnknown(t *testing.T) {
	t.Parallel()

	results := []scan.Result{res("/a", verdict.Safe)}
	e := &Executor{
		Confirm: neverConfirm(t),
		Recheck: func(context.Context, string) (verdict.Verdict, error) {
			return verdict.Verdict{Status: verdict.Unknown}, nil
		},
		Remover: func(string) error {
			t.Error("Remover should not be called")
			return nil
		},
	}

	out, err := e.Run(context.Background(), results, Policy{AssumeYes: true})
	require.NoError(t, err)
	assert.Equal(t, []Skip{{Path: "/a", Reason: "status changed to UNKNOWN"}}, out.Skipped)
}

func TestRun_FailureDoesNotAbortBatch(t *testing.T) {
	t.Parallel()

	results := []scan.Result{res("/a", verdict.Safe), res("/b", verdict.Safe)}
	removeErr := errors.New("permission denied")

	e := &Executor{
		Confirm: neverConfirm(t),
		Recheck: unchanged(results),
		Remover: func(path string) error {
			if path == "/a" {
				return removeErr
			}
			return nil
		},
	}

	out, err := e.Run(context.Background(), results, Policy{AssumeYes: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"/b"}, out.Deleted)
	require.Len(t, out.Failures, 1)
	assert.Equal(t, "/a", out.Failures[0].Path)

	joined := out.Err()
	require.ErrorIs(t, joined, removeErr)
	var f *Failure
	require.ErrorAs(t, joined, &f)
	assert.Equal(t, "failed to remove /a: permission denied", f.Error())
}

func TestRun_TrashFallback(t *testing.T) {
	t.Parallel()

	trashErr := errors.New("cross-device link")

	tests := []struct {
		name        string
		assumeYes   bool
		fallback    func(string, error) (bool, error)
		wantDeleted bool
		wantSkipped bool
		wantFailed  bool
	}{
		{
			name:       "assume yes fails without prompting",
			assumeYes:  true,
			fallback:   func(string, error) (bool, error) { panic("Fallback should not be called") },
			wantFailed: true,
		},
		{
			name:        "fallback accepted deletes permanently",
			fallback:    func(_ string, err error) (bool, error) { return errors.Is(err, trashErr), nil },
			wantDeleted: true,
		},
		{
			name:        "fallback declined skips",
			fallback:    func(string, error) (bool, error) { return false, nil },
			wantSkipped: true,
		},
		{
			name:       "fallback error fails",
			fallback:   func(string, error) (bool, error) { return false, errors.New("eof") },
			wantFailed: true,
		},
		{
			name:       "no fallback fails",
			wantFailed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			results := []scan.Result{res("/a", verdict.Safe)}
			var removed []string
			e := &Executor{
				Confirm:  func([]scan.Result) (bool, error) { return true, nil },
				Recheck:  unchanged(results),
				Fallback: tt.fallback,
				Remover: func(path string) error {
					removed = append(removed, path)
					return nil
				},
				Trasher: func(string) error { return trashErr },
			}

			out, err := e.Run(context.Background(), results, Policy{Mode: Trash, AssumeYes: tt.assumeYes})
			require.NoError(t, err)

			assert.Equal(t, tt.wantDeleted, len(out.Deleted) == 1, "deleted")
			assert.Equal(t, tt.wantDeleted, len(removed) == 1, "removed permanently")
			assert.Equal(t, tt.wantSkipped, len(out.Skipped) == 1, "skipped")
			assert.Equal(t, tt.wantFailed, len(out.Failures) == 1, "failed")
			if tt.wantFailed {
				assert.ErrorIs(t, out.Failures[0], trashErr)
			}
		})
	}
}

func TestRun_TrashMode(t *testing.T) {
	t.Parallel()

	results := []scan.Result{res("/a", verdict.Safe)}
	var trashed []string
	e := &Executor{
		Confirm: neverConfirm(t),
		Recheck: unchanged(results),
		Remover: func(string) error {
			t.Error("Remover should not be called in trash mode")
			return nil
		},
		Trasher: func(path string) error {
			trashed = append(trashed, path)
			return nil
		},
	}

	out, err := e.Run(context.Background(), results, Policy{Mode: Trash, AssumeYes: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"/a"}, out.Deleted)
	assert.Equal(t, []string{"/a"}, trashed)
}

func TestRun_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	results := []scan.Result{res("/a", verdict.Safe), res("/b", verdict.Safe)}

	e := &Executor{
		Confirm: neverConfirm(t),
		Recheck: unchanged(results),
		Remover: func(string) error {
			cancel()
			return nil
		},
	}

	out, err := e.Run(ctx, results, Policy{AssumeYes: true})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"/a"}, out.Deleted)
}

func TestModeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "permanent", Permanent.String())
	assert.Equal(t, "trash", Trash.String())
}
