// Package confirm gates destructive operations behind an explicit
// confirmation. The provider is injected so CLIs can prompt on stdin while
// tests supply a programmatic answer.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Provider answers whether a destructive operation may proceed.
type Provider interface {
	// Confirm presents the prompt and returns true only if the operator
	// typed the exact phrase back.
	Confirm(prompt, phrase string) (bool, error)
}

// Stdin prompts on the terminal and requires the phrase to be typed back
// verbatim.
type Stdin struct {
	In  io.Reader
	Out io.Writer
}

// NewStdin returns a Provider reading from os.Stdin and writing to os.Stderr.
func NewStdin() *Stdin {
	return &Stdin{In: os.Stdin, Out: os.Stderr}
}

// Confirm implements Provider.
func (s *Stdin) Confirm(prompt, phrase string) (bool, error) {
	fmt.Fprintf(s.Out, "%s\nType %q to continue: ", prompt, phrase)
	line, err := bufio.NewReader(s.In).ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return strings.TrimSpace(line) == phrase, nil
}

// Static always answers the same way. For tests and dry runs.
type Static bool

// Confirm implements Provider.
func (s Static) Confirm(_, _ string) (bool, error) { return bool(s), nil }
