// Package ui holds the interactive prompts used by the update flow.
// Every destructive step defaults to No; a non-interactive session gets
// the default answer without blocking.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Prompter asks y/N questions on a terminal.
type Prompter struct {
	In  io.Reader
	Out io.Writer

	// AssumeYes answers every question with yes (--yes flag).
	AssumeYes bool

	// Interactive is false when stdin is not a terminal; questions then
	// resolve to their default without reading.
	Interactive bool

	// reader persists across questions so typed-ahead input buffered
	// during one prompt is not lost before the next.
	reader *bufio.Reader
}

// NewPrompter creates a Prompter wired to the process terminal.
func NewPrompter() *Prompter {
	return &Prompter{
		In:          os.Stdin,
		Out:         os.Stderr,
		Interactive: isatty.IsTerminal(os.Stdin.Fd()),
	}
}

// Confirm asks question and returns the answer. Empty input or a
// non-interactive session yields defaultYes.
func (p *Prompter) Confirm(question string, defaultYes bool) (bool, error) {
	if p.AssumeYes {
		return true, nil
	}

	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}

	if !p.Interactive {
		return defaultYes, nil
	}

	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	reader := p.reader
	for {
		fmt.Fprintf(p.Out, "%s [%s]: ", question, hint)
		input, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return defaultYes, nil
			}
			return false, fmt.Errorf("failed to read input: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(input)) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.Out, "Please answer y or n")
	}
}
