package backend

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jbweber/ecst/internal/confirm"
	"github.com/jbweber/ecst/internal/ui"
)

// mockRunner is a mock implementation of runner for testing.
type mockRunner struct {
	lookPathFunc func(file string) (string, error)
	runFunc      func(ctx context.Context, cmd Command) error

	commands []Command
}

func (m *mockRunner) LookPath(file string) (string, error) {
	if m.lookPathFunc != nil {
		return m.lookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

func (m *mockRunner) Run(ctx context.Context, cmd Command) error {
	m.commands = append(m.commands, cmd)
	if m.runFunc != nil {
		return m.runFunc(ctx, cmd)
	}
	return nil
}

// answerPrompter answers every confirmation with approve.
type answerPrompter struct {
	approve bool
}

func (p answerPrompter) Input(_, def string) (string, error) { return def, nil }

func (p answerPrompter) Confirm(string) (bool, error) { return p.approve, nil }

func (p answerPrompter) Pause() error { return nil }

// approve obtains an approval for subject from a gate that always says yes.
func approve(t *testing.T, subject confirm.Subject) confirm.Approval {
	t.Helper()
	var out bytes.Buffer
	gate := confirm.NewGate(answerPrompter{approve: true}, ui.NewConsole(&out, false), nil)
	approval, err := gate.Confirm(nil, "Proceed?", subject)
	require.NoError(t, err)
	return approval
}

var errLookPath = errors.New("executable file not found in $PATH")
