package remove

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"
)

// ErrTrashUnavailable is returned on platforms without a supported trash.
var ErrTrashUnavailable = errors.New("trash is not supported on this platform")

// TrashCan is a trash directory. With FreeDesktop set it follows the
// freedesktop.org layout (files/ plus info/*.trashinfo); otherwise entries
// are moved directly into Dir, as on macOS.
type TrashCan struct {
	Dir         string
	FreeDesktop bool

	now func() time.Time
}

// HomeTrash returns the current user's trash for this platform.
func HomeTrash() (*TrashCan, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate trash: %w", err)
		}
		return &TrashCan{Dir: filepath.Join(home, ".Trash")}, nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to locate trash: %w", err)
			}
			dataHome = filepath.Join(home, ".local", "share")
		}
		return &TrashCan{Dir: filepath.Join(dataHome, "Trash"), FreeDesktop: true}, nil
	default:
		return nil, ErrTrashUnavailable
	}
}

// MoveToTrash moves path into the current user's trash.
func MoveToTrash(path string) error {
	t, err := HomeTrash()
	if err != nil {
		return err
	}
	_, err = t.Put(path)
	return err
}

// Put moves path into the trash and returns its new location. Name
// collisions get a numeric suffix. The move is a rename, so path must be on
// the same filesystem as the trash.
func (t *TrashCan) Put(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	filesDir := t.Dir
	if t.FreeDesktop {
		filesDir = filepath.Join(t.Dir, "files")
		if err := os.MkdirAll(filepath.Join(t.Dir, "info"), 0700); err != nil {
			return "", fmt.Errorf("failed to create trash: %w", err)
		}
	}
	if err := os.MkdirAll(filesDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create trash: %w", err)
	}

	base := filepath.Base(abs)
	for i := 0; ; i++ {
		name := base
		if i > 0 {
			name = base + "." + strconv.Itoa(i)
		}
		dest := filepath.Join(filesDir, name)

		if _, err := os.Lstat(dest); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}

		var infoPath string
		if t.FreeDesktop {
			infoPath = filepath.Join(t.Dir, "info", name+".trashinfo")
			created, err := t.writeInfo(infoPath, abs)
			if err != nil {
				return "", err
			}
			if !created {
				continue
			}
		}

		if err := os.Rename(abs, dest); err != nil {
			if infoPath != "" {
				_ = os.Remove(infoPath)
			}
			return "", err
		}
		return dest, nil
	}
}

// writeInfo creates the .trashinfo file exclusively. It reports false if the
// name is already taken.
func (t *TrashCan) writeInfo(infoPath, original string) (bool, error) {
	f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to write trash info: %w", err)
	}

	now := time.Now
	if t.now != nil {
		now = t.now
	}
	u := url.URL{Path: original}
	_, err = fmt.Fprintf(f, "[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		u.EscapedPath(), now().Format("2006-01-02T15:04:05"))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(infoPath)
		return false, fmt.Errorf("failed to write trash info: %w", err)
	}
	return true, nil
}
