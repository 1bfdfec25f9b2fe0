package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/raphi011/repo-check/internal/ui/styles"
)

// progressUpdate is sent to update the progress bar
type progressUpdate struct {
	current int
	total   int
}

// ProgressBar shows how many repositories have been classified.
// The total may change between updates; it is unknown until the locator
// has finished.
type ProgressBar struct {
	out       io.Writer
	program   *tea.Program
	updateCh  chan progressUpdate
	done      chan struct{}
	mu        sync.Mutex
	isRunning bool
	total     int
	current   int
	message   string
}

type progressBarModel struct {
	progress progress.Model
	total    int
	current  int
	message  string
	updateCh chan progressUpdate
	quit     bool
}

func (m progressBarModel) Init() tea.Cmd {
	return m.waitForUpdate()
}

func (m progressBarModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updateCh
		if !ok {
			return tea.Quit()
		}
		return update
	}
}

func (m progressBarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quit {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case progressUpdate:
		m.current = msg.current
		m.total = msg.total
		return m, m.waitForUpdate()
	case tea.KeyPressMsg:
		return m, tea.Quit
	default:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}
}

func (m progressBarModel) View() tea.View {
	if m.quit || m.total == 0 {
		return tea.NewView("")
	}

	percent := float64(m.current) / float64(m.total)

	// [████████░░░░░░░░] 3/8 Checking repositories
	return tea.NewView(fmt.Sprintf("%s %d/%d %s",
		m.progress.ViewAs(percent), m.current, m.total, m.message))
}

// NewProgressBar creates a progress bar writing to stderr.
func NewProgressBar(message string) *ProgressBar {
	return &ProgressBar{
		out:      os.Stderr,
		updateCh: make(chan progressUpdate, 10),
		done:     make(chan struct{}),
		message:  message,
	}
}

// Start begins the progress bar display.
func (p *ProgressBar) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return
	}

	prog := progress.New(
		progress.WithWidth(30),
		progress.WithoutPercentage(),
		progress.WithColors(styles.Primary, styles.Success),
	)

	model := progressBarModel{
		progress: prog,
		total:    p.total,
		current:  p.current,
		message:  p.message,
		updateCh: p.updateCh,
	}

	// stdout carries the report and JSON
	p.program = tea.NewProgram(model,
		tea.WithoutSignalHandler(),
		tea.WithOutput(p.out),
		tea.WithColorProfile(colorprofile.Detect(p.out, os.Environ())),
	)
	p.isRunning = true

	go func() {
		_, _ = p.program.Run()
		close(p.done)
	}()
}

// Report records that current of total repositories are done. It matches
// the scanner's progress callback and is safe for concurrent use.
func (p *ProgressBar) Report(current, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	p.total = total
	if !p.isRunning {
		return
	}

	// Drop updates when the UI falls behind; a later update supersedes it.
	select {
	case p.updateCh <- progressUpdate{current: current, total: total}:
	default:
	}
}

// Stop stops the progress bar and clears the line.
func (p *ProgressBar) Stop() {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return
	}
	p.isRunning = false
	// Closed under the mutex so Report never sends on a closed channel.
	close(p.updateCh)
	p.mu.Unlock()

	if p.program != nil {
		p.program.Quit()
	}

	select {
	case <-p.done:
	case <-time.After(500 * time.Millisecond):
	}

	fmt.Fprint(p.out, "\r\033[K")
}
