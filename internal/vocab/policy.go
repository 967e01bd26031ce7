package vocab

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Policy decides what happens when a vocabulary cannot be fetched or parsed.
type Policy int

const (
	// FailClosed aborts the run.
	FailClosed Policy = iota

	// FailOpen treats the field as unconstrained for the rest of the run.
	FailOpen

	// Prompt asks the operator; "no" aborts, "yes" behaves like FailOpen.
	Prompt
)

func (p Policy) String() string {
	switch p {
	case FailClosed:
		return "fail-closed"
	case FailOpen:
		return "fail-open"
	case Prompt:
		return "prompt"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps a configuration value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-closed":
		return FailClosed, nil
	case "fail-open":
		return FailOpen, nil
	case "prompt":
		return Prompt, nil
	}
	return FailClosed, fmt.Errorf("unknown vocabulary policy %q", s)
}

// Prompter asks the operator a yes/no question.
type Prompter interface {
	Confirm(question string) (bool, error)
}

// TerminalPrompter asks on Out and reads the answer from In.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// Confirm writes the question and returns true for "y" or "yes".
// Anything else, including end of input, is "no".
func (p *TerminalPrompter) Confirm(question string) (bool, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	fmt.Fprintf(p.Out, "%s [y/N]: ", question)

	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
