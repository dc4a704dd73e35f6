package request

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jbweber/ecst/internal/config"
	"github.com/jbweber/ecst/internal/prompt"
)

// scriptedPrompter answers Input calls from a queue and records the labels.
// An answer of "\x03" simulates Ctrl-C.
type scriptedPrompter struct {
	answers []string
	labels  []string
}

func (m *scriptedPrompter) Input(label, def string) (string, error) {
	m.labels = append(m.labels, label)
	if len(m.answers) == 0 {
		return "", prompt.ErrEOF
	}
	answer := m.answers[0]
	m.answers = m.answers[1:]
	if answer == "\x03" {
		return "", prompt.ErrInterrupted
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (m *scriptedPrompter) Confirm(string) (bool, error) {
	return false, nil
}

func (m *scriptedPrompter) Pause() error {
	return nil
}

// fixtureDocument loads the shared lab configuration.
func fixtureDocument(t *testing.T) *config.Document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "config", "testdata", "config.json"))
	require.NoError(t, err)
	doc, err := config.Parse(config.FormatJSON, data)
	require.NoError(t, err)
	return doc
}
