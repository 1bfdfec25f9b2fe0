package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/raphi011/repo-check/internal/scan"
	"github.com/raphi011/repo-check/internal/ui/styles"
	"github.com/raphi011/repo-check/internal/verdict"
)

// NoMatchMessage is printed instead of repository blocks when the filter
// leaves nothing to show.
const NoMatchMessage = "No repositories match the filter."

// Filter selects which results are shown. The zero value shows everything.
type Filter string

const (
	FilterNone    Filter = ""
	FilterSafe    Filter = Filter(verdict.Safe)
	FilterUnsafe  Filter = Filter(verdict.Unsafe)
	FilterUnknown Filter = Filter(verdict.Unknown)
)

// FilterFromFlags maps the --only-* flags to a Filter. Callers validate that
// at most one is set; the first set flag wins otherwise.
func FilterFromFlags(onlySafe, onlyUnsafe, onlyUnknown bool) Filter {
	switch {
	case onlySafe:
		return FilterSafe
	case onlyUnsafe:
		return FilterUnsafe
	case onlyUnknown:
		return FilterUnknown
	default:
		return FilterNone
	}
}

// Keep reports whether r passes the filter. A status filter never keeps a
// failed result.
func (f Filter) Keep(r scan.Result) bool {
	if f == FilterNone {
		return true
	}
	return !r.Failed() && r.Verdict.Status == verdict.Status(f)
}

// Apply returns the results that pass the filter, in order.
func (f Filter) Apply(results []scan.Result) []scan.Result {
	if f == FilterNone {
		return results
	}
	var kept []scan.Result
	for _, r := range results {
		if f.Keep(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Summary holds aggregate counts over a scan.
type Summary struct {
	Total   int `json:"total"`
	Safe    int `json:"safe"`
	Unsafe  int `json:"unsafe"`
	Unknown int `json:"unknown"`
	Errors  int `json:"errors"`
}

// Summarize counts results by status. Failed results count as errors.
func Summarize(results []scan.Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Failed() {
			s.Errors++
			continue
		}
		switch r.Verdict.Status {
		case verdict.Safe:
			s.Safe++
		case verdict.Unsafe:
			s.Unsafe++
		case verdict.Unknown:
			s.Unknown++
		}
	}
	return s
}

// String renders the summary line without styling.
func (s Summary) String() string {
	line := fmt.Sprintf("Summary: %d total, %d SAFE, %d UNSAFE, %d UNKNOWN", s.Total, s.Safe, s.Unsafe, s.Unknown)
	if s.Errors > 0 {
		line += fmt.Sprintf(", %d ERROR", s.Errors)
	}
	return line
}

func (s Summary) styled() string {
	line := fmt.Sprintf("Summary: %d total, %d %s, %d %s, %d %s",
		s.Total,
		s.Safe, styles.Status(verdict.Safe),
		s.Unsafe, styles.Status(verdict.Unsafe),
		s.Unknown, styles.Status(verdict.Unknown))
	if s.Errors > 0 {
		line += fmt.Sprintf(", %d %s", s.Errors, styles.ErrorStyle.Render(styles.StatusError))
	}
	return line
}

// WriteText writes one block per shown result followed by the summary.
// Styling is emitted unconditionally; pass a colorprofile writer to strip it.
func WriteText(w io.Writer, shown []scan.Result, summary Summary) error {
	var b strings.Builder

	if len(shown) == 0 {
		b.WriteString(NoMatchMessage + "\n")
	}
	for _, r := range shown {
		writeBlock(&b, r)
		b.WriteString("\n")
	}

	b.WriteString("---\n")
	b.WriteString(summary.styled())
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeBlock(b *strings.Builder, r scan.Result) {
	path := styles.Bold.Render(r.Path)
	if r.Failed() {
		fmt.Fprintf(b, "%s [%s]\n", path, styles.ErrorStyle.Render(styles.StatusError))
		fmt.Fprintf(b, "    %s: %v\n", styles.ErrorStyle.Render("Error"), r.Err)
		return
	}

	fmt.Fprintf(b, "%s [%s]\n", path, styles.Status(r.Verdict.Status))
	for _, reason := range r.Verdict.Reasons {
		fmt.Fprintf(b, "  - %s\n", reason)
	}

	s := r.Verdict.Signals
	if s.DirtyCount > 0 {
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("    Dirty files: %d", s.DirtyCount)) + "\n")
	}
	if s.StashCount > 0 {
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("    Stash entries: %d", s.StashCount)) + "\n")
	}
	if s.LocalOnlyCommitCount > 0 {
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("    Local-only commits: %d", s.LocalOnlyCommitCount)) + "\n")
	}
}

// Repository is the JSON form of one result.
type Repository struct {
	Path                 string   `json:"path"`
	Status               string   `json:"status"`
	Reasons              []string `json:"reasons"`
	DirtyCount           int      `json:"dirty_count"`
	StashCount           int      `json:"stash_count"`
	LocalOnlyCommitCount int      `json:"local_only_commit_count"`
	Error                string   `json:"error,omitempty"`
}

// Document is the top-level JSON report.
type Document struct {
	Repositories []Repository `json:"repositories"`
	Summary      Summary      `json:"summary"`
}

// NewDocument builds the JSON document for the shown results. Render it
// with output.Printer.JSON.
func NewDocument(shown []scan.Result, summary Summary) Document {
	doc := Document{Repositories: make([]Repository, 0, len(shown)), Summary: summary}
	for _, r := range shown {
		doc.Repositories = append(doc.Repositories, toRepository(r))
	}
	return doc
}

func toRepository(r scan.Result) Repository {
	if r.Failed() {
		return Repository{
			Path:    r.Path,
			Status:  styles.StatusError,
			Reasons: []string{},
			Error:   r.Err.Error(),
		}
	}
	reasons := r.Verdict.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	s := r.Verdict.Signals
	return Repository{
		Path:                 r.Path,
		Status:               string(r.Verdict.Status),
		Reasons:              reasons,
		DirtyCount:           s.DirtyCount,
		StashCount:           s.StashCount,
		LocalOnlyCommitCount: s.LocalOnlyCommitCount,
	}
}
