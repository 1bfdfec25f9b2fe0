package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/repo-check/internal/ui/prompt"
)

// terminal records which standard streams are interactive terminals.
type terminal struct {
	stdin  bool
	stderr bool
}

func detectTerminal(cmd *cobra.Command) terminal {
	return terminal{
		stdin:  isTerminal(cmd.InOrStdin()),
		stderr: isTerminal(cmd.ErrOrStderr()),
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// asker asks yes/no questions, with bubbletea on a terminal and line based
// otherwise. One asker reads all answers from the same buffered stdin.
type asker struct {
	in   *bufio.Reader
	out  io.Writer
	term terminal
}

// confirm shows details, if any, and asks question. Cancelling counts as no.
func (a asker) confirm(question, details string) (bool, error) {
	var (
		res prompt.ConfirmResult
		err error
	)
	if a.term.stdin && a.term.stderr {
		res, err = prompt.Confirm(question, details)
	} else {
		if details != "" {
			fmt.Fprintln(a.out, details)
		}
		res, err = prompt.ConfirmLine(a.in, a.out, question)
	}
	if err != nil {
		return false, err
	}
	return res.Confirmed && !res.Cancelled, nil
}
