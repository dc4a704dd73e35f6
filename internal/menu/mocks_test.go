package menu

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jbweber/ecst/internal/backend"
	"github.com/jbweber/ecst/internal/config"
	"github.com/jbweber/ecst/internal/confirm"
	"github.com/jbweber/ecst/internal/prompt"
	"github.com/jbweber/ecst/internal/status"
	"github.com/jbweber/ecst/internal/workflow"
)

// mockWorkflow is a mock implementation of Workflow for testing.
// It records the name of every call.
type mockWorkflow struct {
	calls []string
	ops   []workflow.Operation
}

func (m *mockWorkflow) Run(_ context.Context, op workflow.Operation) (*status.Operation, error) {
	m.calls = append(m.calls, "Run")
	m.ops = append(m.ops, op)
	return status.NewOperation(string(op.Kind)), nil
}

func (m *mockWorkflow) record(name string) error {
	m.calls = append(m.calls, name)
	return nil
}

func (m *mockWorkflow) ViewConfig() error    { return m.record("ViewConfig") }
func (m *mockWorkflow) Reload() error        { return m.record("Reload") }
func (m *mockWorkflow) EditVCenter() error   { return m.record("EditVCenter") }
func (m *mockWorkflow) EditPlacement() error { return m.record("EditPlacement") }
func (m *mockWorkflow) EditHosts() error     { return m.record("EditHosts") }
func (m *mockWorkflow) EditNetwork() error   { return m.record("EditNetwork") }
func (m *mockWorkflow) EditVSAN() error      { return m.record("EditVSAN") }

// memStore serves one in-memory document.
type memStore struct {
	doc *config.Document
	err error
}

func (s *memStore) Path() string { return "/opt/ecst/config.json" }

func (s *memStore) Load() (*config.Document, error) { return s.doc, s.err }

func (s *memStore) Save(doc *config.Document) error {
	s.doc = doc
	return nil
}

// countingInvoker records invocations.
type countingInvoker struct {
	specs []*backend.InvocationSpec
}

func (i *countingInvoker) Invoke(_ context.Context, spec *backend.InvocationSpec, _ confirm.Approval) (backend.Result, error) {
	i.specs = append(i.specs, spec)
	return backend.Result{}, nil
}

type flagNotifier struct {
	changed bool
}

func (n *flagNotifier) Changed() bool {
	changed := n.changed
	n.changed = false
	return changed
}

// scriptedPrompter answers from a fixed script. An empty answer takes the
// default. Errors in the script are returned in place of an answer.
type scriptedPrompter struct {
	script   []any
	confirms []bool

	questions []string
	pauses    int
}

func (p *scriptedPrompter) Input(_, def string) (string, error) {
	if len(p.script) == 0 {
		return "", prompt.ErrEOF
	}
	next := p.script[0]
	p.script = p.script[1:]
	switch v := next.(type) {
	case error:
		return "", v
	case string:
		if v == "" {
			return def, nil
		}
		return v, nil
	}
	return "", prompt.ErrEOF
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

func script(answers ...any) *scriptedPrompter {
	return &scriptedPrompter{script: answers}
}

func loadFixture(t *testing.T) *config.Document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "config", "testdata", "config.json"))
	require.NoError(t, err)
	doc, err := config.Parse(config.FormatJSON, data)
	require.NoError(t, err)
	return doc
}
