package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Valid enum values for configuration fields.
var (
	ValidThemeNames = []string{"none", "default", "dracula", "nord"}
	ValidThemeModes = []string{"auto", "light", "dark"}
)

// ErrInvalidOptions marks a flag combination that cannot run.
var ErrInvalidOptions = errors.New("invalid options")

// Options are the resolved run options after merging flags over config.
type Options struct {
	Root            string
	OnlySafe        bool
	OnlyUnsafe      bool
	OnlyUnknown     bool
	JSON            bool
	IncludeDot      bool
	IgnoreUntracked bool
	Delete          bool
	Yes             bool
	Trash           bool
	AllowUnknown    bool
	Match           string
	Copy            bool
	Workers         int
	Timeout         time.Duration
}

// Validate rejects conflicting or incomplete option sets before any scanning.
// The returned error wraps ErrInvalidOptions.
func (o Options) Validate() error {
	var filters []string
	if o.OnlySafe {
		filters = append(filters, "--only-safe")
	}
	if o.OnlyUnsafe {
		filters = append(filters, "--only-unsafe")
	}
	if o.OnlyUnknown {
		filters = append(filters, "--only-unknown")
	}
	if len(filters) > 1 {
		return fmt.Errorf("%w: %s are mutually exclusive", ErrInvalidOptions, strings.Join(filters, " and "))
	}

	if !o.Delete {
		requiresDelete := []struct {
			flag string
			set  bool
		}{
			{"--trash", o.Trash},
			{"--allow-unknown", o.AllowUnknown},
			{"--yes", o.Yes},
		}
		for _, r := range requiresDelete {
			if r.set {
				return fmt.Errorf("%w: %s requires --delete", ErrInvalidOptions, r.flag)
			}
		}
	}

	if o.Workers < 1 {
		return fmt.Errorf("%w: --workers must be at least 1, got %d", ErrInvalidOptions, o.Workers)
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("%w: --timeout must be positive, got %s", ErrInvalidOptions, o.Timeout)
	}
	return nil
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
