package confirm

import (
	"github.com/jbweber/ecst/internal/ui"
)

// mockPrompter is a mock implementation of prompt.Prompter for testing.
type mockPrompter struct {
	inputFunc   func(label, def string) (string, error)
	confirmFunc func(question string) (bool, error)
	pauseFunc   func() error

	questions []string
}

func (m *mockPrompter) Input(label, def string) (string, error) {
	if m.inputFunc != nil {
		return m.inputFunc(label, def)
	}
	return def, nil
}

func (m *mockPrompter) Confirm(question string) (bool, error) {
	m.questions = append(m.questions, question)
	if m.confirmFunc != nil {
		return m.confirmFunc(question)
	}
	return false, nil
}

func (m *mockPrompter) Pause() error {
	if m.pauseFunc != nil {
		return m.pauseFunc()
	}
	return nil
}

// staticSubject is a subject with a fixed digest.
type staticSubject string

func (s staticSubject) Digest() string {
	return string(s)
}

// textSummary renders a fixed line.
type textSummary string

func (s textSummary) Render(c *ui.Console) {
	c.Println(string(s))
}
