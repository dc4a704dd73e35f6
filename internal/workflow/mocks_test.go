package workflow

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jbweber/ecst/internal/backend"
	"github.com/jbweber/ecst/internal/config"
	"github.com/jbweber/ecst/internal/confirm"
	"github.com/jbweber/ecst/internal/prompt"
	"github.com/jbweber/ecst/internal/ui"
)

// mockStore is a mock implementation of ConfigStore for testing.
type mockStore struct {
	path     string
	loadFunc func() (*config.Document, error)
	saveFunc func(doc *config.Document) error

	saved []*config.Document
}

func (m *mockStore) Path() string {
	return m.path
}

func (m *mockStore) Load() (*config.Document, error) {
	return m.loadFunc()
}

func (m *mockStore) Save(doc *config.Document) error {
	m.saved = append(m.saved, doc)
	if m.saveFunc != nil {
		return m.saveFunc(doc)
	}
	return nil
}

// mockInvoker is a mock implementation of Invoker for testing.
type mockInvoker struct {
	invokeFunc func(ctx context.Context, spec *backend.InvocationSpec, approval confirm.Approval) (backend.Result, error)

	specs     []*backend.InvocationSpec
	approvals []confirm.Approval
}

func (m *mockInvoker) Invoke(ctx context.Context, spec *backend.InvocationSpec, approval confirm.Approval) (backend.Result, error) {
	m.specs = append(m.specs, spec)
	m.approvals = append(m.approvals, approval)
	if m.invokeFunc != nil {
		return m.invokeFunc(ctx, spec, approval)
	}
	return backend.Result{}, nil
}

// scriptedPrompter answers questions from a fixed script. An empty answer
// takes the default; an exhausted script reports end of input.
type scriptedPrompter struct {
	answers  []string
	confirms []bool
	inputErr error

	labels    []string
	questions []string
	pauses    int
}

func (p *scriptedPrompter) Input(label, def string) (string, error) {
	p.labels = append(p.labels, label)
	if len(p.answers) == 0 {
		if p.inputErr != nil {
			return "", p.inputErr
		}
		return "", prompt.ErrEOF
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (p *scriptedPrompter) Confirm(question string) (bool, error) {
	p.questions = append(p.questions, question)
	if len(p.confirms) == 0 {
		return false, prompt.ErrEOF
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}

func (p *scriptedPrompter) Pause() error {
	p.pauses++
	return nil
}

// loadFixture parses the shared lab configuration.
func loadFixture(t *testing.T) *config.Document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "config", "testdata", "config.json"))
	require.NoError(t, err)
	doc, err := config.Parse(config.FormatJSON, data)
	require.NoError(t, err)
	return doc
}

type fixture struct {
	runner   *Runner
	store    *mockStore
	invoker  *mockInvoker
	prompter *scriptedPrompter
	out      *bytes.Buffer
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T, p *scriptedPrompter) *fixture {
	t.Helper()
	doc := loadFixture(t)
	store := &mockStore{
		path:     "/opt/ecst/config.json",
		loadFunc: func() (*config.Document, error) { return doc, nil },
	}
	invoker := &mockInvoker{}
	var out bytes.Buffer
	core, logs := observer.New(zap.DebugLevel)
	runner := NewRunner(Dependencies{
		Store:    store,
		Renderer: backend.NewRenderer(backend.Layout{BaseDir: "/opt/ecst", ConfigPath: "/opt/ecst/config.json"}),
		Invoker:  invoker,
		Prompter: p,
		Console:  ui.NewConsole(&out, false),
		Logger:   zap.New(core),
	})
	return &fixture{runner: runner, store: store, invoker: invoker, prompter: p, out: &out, logs: logs}
}

// finished returns the fields of the single "operation finished" entry.
func (f *fixture) finished(t *testing.T) map[string]any {
	t.Helper()
	entries := f.logs.FilterMessage("operation finished").All()
	require.Len(t, entries, 1)
	return entries[0].ContextMap()
}
