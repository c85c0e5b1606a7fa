// Package prompt reads answers to interactive questions from a line-based
// reader. Parsing is kept separate from the retry loop so both can be tested
// without a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoInput is returned when input ends before a valid answer is read.
var ErrNoInput = errors.New("no answer: input closed")

// ParseYesNo interprets a raw answer. ok is false unless raw is "y" or "n";
// case and surrounding whitespace are ignored.
func ParseYesNo(raw string) (answer, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y":
		return true, true
	case "n":
		return false, true
	default:
		return false, false
	}
}

// Prompter asks questions on w and reads answers from r.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

// New returns a Prompter reading from r and writing to w.
func New(r io.Reader, w io.Writer) *Prompter {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Prompter{r: br, w: w}
}

// AskYesNo writes "question (y/n): " and reads lines until one parses with
// ParseYesNo. The question is written once per attempt.
func (p *Prompter) AskYesNo(question string) (bool, error) {
	for {
		fmt.Fprintf(p.w, "%s (y/n): ", question)
		line, err := p.readLine()
		if answer, ok := ParseYesNo(line); ok {
			return answer, nil
		}
		if err != nil {
			return false, err
		}
		fmt.Fprintln(p.w, "Please answer 'y' or 'n'.")
	}
}

// AskLine writes question and returns the next line with surrounding
// whitespace removed.
func (p *Prompter) AskLine(question string) (string, error) {
	fmt.Fprint(p.w, question)
	line, err := p.readLine()
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

// readLine returns the next line. A final line without a newline is
// returned together with ErrNoInput.
func (p *Prompter) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err == nil {
		return line, nil
	}
	if errors.Is(err, io.EOF) {
		return line, ErrNoInput
	}
	return line, fmt.Errorf("reading answer: %w", err)
}
