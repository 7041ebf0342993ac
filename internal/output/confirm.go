package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalConfirmer prompts on a terminal before saving
type TerminalConfirmer struct {
	in  io.Reader
	out io.Writer

	// assumeYes confirms without prompting
	assumeYes bool

	isTerminal func() bool
}

// NewTerminalConfirmer creates a Confirmer reading from stdin and prompting on
// stderr. When stdin is not a terminal every save is declined unless assumeYes
// is set.
func NewTerminalConfirmer(assumeYes bool) *TerminalConfirmer {
	return &TerminalConfirmer{
		in:         os.Stdin,
		out:        os.Stderr,
		assumeYes:  assumeYes,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

// Confirm asks "Save to <path>? [y/N]" and accepts y or yes.
func (c *TerminalConfirmer) Confirm(path string) (bool, error) {
	if c.assumeYes {
		return true, nil
	}
	if !c.isTerminal() {
		return false, nil
	}

	if _, err := fmt.Fprintf(c.out, "Save to %s? [y/N] ", path); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
