package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// LinePrompter reads answers line by line from an io.Reader and writes the
// questions to an io.Writer. It cannot observe Ctrl-C; the process signal
// handling covers that case for piped input.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a prompter over in and out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Input implements Prompter.
func (p *LinePrompter) Input(label, def string) (string, error) {
	line, err := p.readLine(Label(label, def))
	if err != nil {
		return "", err
	}
	return orDefault(line, def), nil
}

// Confirm implements Prompter.
func (p *LinePrompter) Confirm(question string) (bool, error) {
	line, err := p.readLine(question + " (y/n): ")
	if err != nil {
		return false, err
	}
	return Affirmative(line), nil
}

// Pause implements Prompter.
func (p *LinePrompter) Pause() error {
	_, err := p.readLine("\n" + PauseMessage)
	return err
}

func (p *LinePrompter) readLine(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		// A final line without a newline still counts
		if line == "" {
			fmt.Fprintln(p.out)
			return "", ErrEOF
		}
	}
	return Sanitize(line), nil
}
