package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 30 * time.Second

// ErrMalformedOutput indicates git produced output the parser does not understand.
var ErrMalformedOutput = errors.New("malformed git output")

// ChangeKind tags a status entry. An entry can be both staged and modified.
type ChangeKind uint8

const (
	Staged ChangeKind = 1 << iota
	Modified
	Untracked
	Ignored
)

// StatusEntry is one line of porcelain status output.
type StatusEntry struct {
	Kind ChangeKind
	Path string
}

// Has reports whether the entry carries kind k.
func (e StatusEntry) Has(k ChangeKind) bool {
	return e.Kind&k != 0
}

// Oracle is the read-only query surface the signal collector depends on.
type Oracle interface {
	// Status lists working tree and index changes. Empty means clean.
	Status(ctx context.Context, dir string) ([]StatusEntry, error)
	// StashList returns one line per stash entry.
	StashList(ctx context.Context, dir string) ([]string, error)
	// RemoteRefs returns the names of all refs under refs/remotes/.
	RemoteRefs(ctx context.Context, dir string) ([]string, error)
	// LocalOnlyCommits returns the ids of commits reachable from a local
	// branch but from no remote-tracking ref.
	LocalOnlyCommits(ctx context.Context, dir string) ([]string, error)
}

// CLI implements Oracle by running the git binary.
type CLI struct {
	// Timeout bounds each git invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

var _ Oracle = CLI{}

func (c CLI) output(ctx context.Context, dir string, args ...string) ([]byte, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := outputGit(ctx, dir, args...)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("timed out after %s: %w", timeout, err)
	}
	return out, err
}

// Status runs `git status --porcelain`.
func (c CLI) Status(ctx context.Context, dir string) ([]StatusEntry, error) {
	out, err := c.output(ctx, dir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseStatus(out)
}

// StashList runs `git stash list`.
func (c CLI) StashList(ctx context.Context, dir string) ([]string, error) {
	out, err := c.output(ctx, dir, "stash", "list")
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(out), nil
}

// RemoteRefs runs `git for-each-ref refs/remotes/`.
func (c CLI) RemoteRefs(ctx context.Context, dir string) ([]string, error) {
	out, err := c.output(ctx, dir, "for-each-ref", "--format=%(refname)", "refs/remotes/")
	if err != nil {
		return nil, err
	}
	return parseRemoteRefs(out)
}

// LocalOnlyCommits runs `git rev-list --branches --not --remotes`.
func (c CLI) LocalOnlyCommits(ctx context.Context, dir string) ([]string, error) {
	out, err := c.output(ctx, dir, "rev-list", "--branches", "--not", "--remotes")
	if err != nil {
		return nil, err
	}
	return parseCommitIDs(out)
}

// nonEmptyLines splits output on newlines and drops blank lines.
func nonEmptyLines(out []byte) []string {
	var lines []string
	for line := range strings.SplitSeq(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// parseStatus parses porcelain v1 lines of the form "XY path" or
// "XY orig -> path".
func parseStatus(out []byte) ([]StatusEntry, error) {
	var entries []StatusEntry
	for _, line := range nonEmptyLines(bytes.TrimRight(out, "\x00")) {
		if len(line) < 4 || line[2] != ' ' {
			return nil, fmt.Errorf("%w: status line %q", ErrMalformedOutput, line)
		}
		x, y := line[0], line[1]
		if !validStatusCode(x) || !validStatusCode(y) {
			return nil, fmt.Errorf("%w: status code %q", ErrMalformedOutput, line[:2])
		}

		e := StatusEntry{Path: line[3:]}
		switch {
		case x == '?' && y == '?':
			e.Kind = Untracked
		case x == '!' && y == '!':
			e.Kind = Ignored
		default:
			if x != ' ' {
				e.Kind |= Staged
			}
			if y != ' ' {
				e.Kind |= Modified
			}
		}
		if e.Kind == 0 {
			return nil, fmt.Errorf("%w: empty status code in %q", ErrMalformedOutput, line)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func validStatusCode(b byte) bool {
	return strings.IndexByte(" MTADRCU?!", b) >= 0
}

func parseRemoteRefs(out []byte) ([]string, error) {
	refs := nonEmptyLines(out)
	for _, ref := range refs {
		if !strings.HasPrefix(ref, "refs/remotes/") {
			return nil, fmt.Errorf("%w: unexpected ref %q", ErrMalformedOutput, ref)
		}
	}
	return refs, nil
}

// parseCommitIDs accepts full SHA-1 and SHA-256 object ids, one per line.
func parseCommitIDs(out []byte) ([]string, error) {
	ids := nonEmptyLines(out)
	for _, id := range ids {
		if !isObjectID(id) {
			return nil, fmt.Errorf("%w: unexpected commit id %q", ErrMalformedOutput, id)
		}
	}
	return ids, nil
}

func isObjectID(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
