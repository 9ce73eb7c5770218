package confirm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Confirmer answers the pipeline's operator decision points. Implementations
// must be safe to call from the single processing goroutine; prompts may
// block until answered.
type Confirmer interface {
	// Confirm asks a yes/no question and returns the answer. def is the
	// answer assumed when the operator just presses enter, and the answer a
	// non-interactive implementation returns outright.
	Confirm(prompt string, def bool) (bool, error)
	// Acknowledge surfaces a message that needs no decision.
	Acknowledge(msg string)
}

// Interactive prompts on a terminal and blocks until the operator answers.
type Interactive struct {
	in  *bufio.Reader
	out io.Writer
}

// NewInteractive wraps the given streams, usually stdin/stderr.
func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	return &Interactive{in: bufio.NewReader(in), out: out}
}

func (i *Interactive) Confirm(prompt string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		fmt.Fprintf(i.out, "%s %s ", prompt, hint)
		line, err := i.in.ReadString('\n')
		if err != nil && line == "" {
			return def, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(i.out, "Please answer y or n.")
	}
}

func (i *Interactive) Acknowledge(msg string) {
	fmt.Fprintln(i.out, msg)
}

// Batch answers every prompt with its default and never blocks; messages go
// to the writer when one is set.
type Batch struct {
	Out io.Writer
}

func (b Batch) Confirm(_ string, def bool) (bool, error) { return def, nil }

func (b Batch) Acknowledge(msg string) {
	if b.Out != nil {
		fmt.Fprintln(b.Out, msg)
	}
}

// ForTerminal picks the interactive confirmer when stdin is a terminal and
// the operator has not asked for unattended operation, and the batch
// confirmer otherwise.
func ForTerminal(assumeDefaults bool) Confirmer {
	fd := os.Stdin.Fd()
	if !assumeDefaults && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
		return NewInteractive(os.Stdin, os.Stderr)
	}
	return Batch{Out: os.Stderr}
}
