// Package interactive provides interactive prompts for user confirmation.
package interactive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput is returned when input ends before an answer was given.
var ErrNoInput = errors.New("no input")

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	out     io.Writer
	scanner *bufio.Scanner
}

// NewPrompter creates a prompter with stdin/stdout.
func NewPrompter() *Prompter {
	return NewPrompterWithIO(os.Stdin, os.Stdout)
}

// NewPrompterWithIO creates a prompter with custom input/output (for testing).
func NewPrompterWithIO(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		out:     out,
		scanner: bufio.NewScanner(in),
	}
}

// IsTerminal checks if stdin is a terminal (TTY).
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readLine reads one trimmed line of input.
func (p *Prompter) readLine() (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", ErrNoInput
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// Confirm asks a yes/no question. Anything but "y" or "yes" is a no,
// including end of input.
func (p *Prompter) Confirm(format string, args ...interface{}) bool {
	_, _ = fmt.Fprintf(p.out, format, args...)
	_, _ = fmt.Fprint(p.out, " [y/N]: ")

	answer, err := p.readLine()
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// Choose shows a numbered menu and returns the index of the picked option.
// describe, when non-nil, adds a description after each option.
func (p *Prompter) Choose(title string, options []string, describe func(string) string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("nothing to choose from")
	}

	_, _ = fmt.Fprintf(p.out, "\n%s\n", title)
	for i, option := range options {
		if describe != nil {
			_, _ = fmt.Fprintf(p.out, "  %d. %-12s - %s\n", i+1, option, describe(option))
		} else {
			_, _ = fmt.Fprintf(p.out, "  %d. %s\n", i+1, option)
		}
	}
	_, _ = fmt.Fprintf(p.out, "\nSelect [1-%d]: ", len(options))

	answer, err := p.readLine()
	if err != nil {
		return 0, err
	}

	num, err := strconv.Atoi(answer)
	if err != nil || num < 1 || num > len(options) {
		return 0, fmt.Errorf("invalid selection: %q", answer)
	}
	return num - 1, nil
}

// Ask prints a question with a default and returns the answer, or def
// when the answer is empty.
func (p *Prompter) Ask(question, def string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s [%s]: ", question, def)

	answer, err := p.readLine()
	if errors.Is(err, ErrNoInput) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}
