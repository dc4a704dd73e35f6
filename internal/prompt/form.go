package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// FormPrompter renders every question as a single-field huh form.
type FormPrompter struct {
	ctx context.Context
}

// NewFormPrompter creates a form prompter. Forms are cancelled with ctx.
func NewFormPrompter(ctx context.Context) *FormPrompter {
	return &FormPrompter{ctx: ctx}
}

// Input implements Prompter.
func (p *FormPrompter) Input(label, def string) (string, error) {
	value := def
	input := huh.NewInput().
		Title(label).
		Value(&value)
	if def != "" {
		input = input.Placeholder(def)
	}

	if err := p.run(huh.NewGroup(input)); err != nil {
		return "", err
	}
	return orDefault(Sanitize(value), def), nil
}

// Confirm implements Prompter.
func (p *FormPrompter) Confirm(question string) (bool, error) {
	var approved bool
	confirm := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&approved)

	if err := p.run(huh.NewGroup(confirm)); err != nil {
		return false, err
	}
	return approved, nil
}

// Pause implements Prompter.
func (p *FormPrompter) Pause() error {
	return p.run(huh.NewGroup(huh.NewNote().Title(PauseMessage)))
}

func (p *FormPrompter) run(group *huh.Group) error {
	err := huh.NewForm(group).RunWithContext(p.ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, huh.ErrUserAborted), errors.Is(err, context.Canceled):
		return ErrInterrupted
	default:
		return fmt.Errorf("failed to run form: %w", err)
	}
}
