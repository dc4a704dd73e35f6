package prompt

import (
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
)

// ReadlinePrompter edits each answer on the terminal with line editing.
// A fresh readline instance is created per question and closed afterwards
// so the terminal is back in cooked mode whenever the backend runs.
type ReadlinePrompter struct {
	out io.Writer
}

// NewReadlinePrompter creates a terminal prompter writing to out.
func NewReadlinePrompter(out io.Writer) *ReadlinePrompter {
	return &ReadlinePrompter{out: out}
}

// Input implements Prompter.
func (p *ReadlinePrompter) Input(label, def string) (string, error) {
	line, err := p.readLine(Label(label, def))
	if err != nil {
		return "", err
	}
	return orDefault(line, def), nil
}

// Confirm implements Prompter.
func (p *ReadlinePrompter) Confirm(question string) (bool, error) {
	line, err := p.readLine(question + " (y/n): ")
	if err != nil {
		return false, err
	}
	return Affirmative(line), nil
}

// Pause implements Prompter.
func (p *ReadlinePrompter) Pause() error {
	fmt.Fprintln(p.out)
	_, err := p.readLine(PauseMessage)
	return err
}

func (p *ReadlinePrompter) readLine(prompt string) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 prompt,
		Stdout:                 p.out,
		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	line, err := rl.Readline()
	switch {
	case errors.Is(err, readline.ErrInterrupt):
		return "", ErrInterrupted
	case errors.Is(err, io.EOF):
		return "", ErrEOF
	case err != nil:
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return Sanitize(line), nil
}
