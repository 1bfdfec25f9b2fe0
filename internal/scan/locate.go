package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/repo-check/internal/log"
)

// ErrRootNotFound is returned when the scan root is missing or not a directory.
var ErrRootNotFound = errors.New("root directory not found")

// LocateOptions controls candidate discovery.
type LocateOptions struct {
	// IncludeRoot makes the root itself a candidate when it is a repository.
	IncludeRoot bool
	// Match keeps only candidates whose directory name fuzzy-matches it.
	Match string
}

// ResolveRoot returns the absolute, symlink-free form of root, or
// ErrRootNotFound if it does not name a directory.
func ResolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRootNotFound, root, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}
	return resolved, nil
}

// Locate returns the candidate repositories under root, sorted by path.
func Locate(ctx context.Context, root string, opts LocateOptions) ([]string, error) {
	l := log.FromContext(ctx)

	root, err := ResolveRoot(root)
	if err != nil {
		return nil, err
	}

	var repos []string

	if opts.IncludeRoot {
		ok, err := isRepoDir(root)
		if err != nil {
			l.Warn("skipping %s: %v", root, err)
		} else if ok {
			repos = append(repos, root)
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if !entry.IsDir() && entry.Type()&fs.ModeSymlink == 0 {
			continue
		}
		ok, err := isRepoDir(path)
		if err != nil {
			l.Warn("skipping %s: %v", path, err)
			continue
		}
		if ok {
			repos = append(repos, path)
		}
	}

	if opts.Match != "" {
		repos = matchNames(repos, opts.Match)
	}

	slices.Sort(repos)
	l.Debug("located repositories", "root", root, "count", len(repos))
	return repos, nil
}

// isRepoDir reports whether dir is a directory containing a .git directory.
// A missing .git is not an error; an unreadable one is.
func isRepoDir(dir string) (bool, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if !info.IsDir() {
		return false, nil
	}

	gitInfo, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return gitInfo.IsDir(), nil
}

// matchNames filters paths to those whose base name fuzzy-matches pattern.
func matchNames(paths []string, pattern string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}

	matches := fuzzy.Find(pattern, names)
	kept := make([]string, 0, len(matches))
	for _, m := range matches {
		kept = append(kept, paths[m.Index])
	}
	return kept
}
