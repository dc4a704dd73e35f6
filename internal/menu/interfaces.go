package menu

import (
	"context"

	"github.com/jbweber/ecst/internal/config"
	"github.com/jbweber/ecst/internal/status"
	"github.com/jbweber/ecst/internal/workflow"
)

// Workflow performs the actions behind menu entries.
//
// In production, this is satisfied by *workflow.Runner.
// In tests, this is satisfied by mock implementations.
type Workflow interface {
	Run(ctx context.Context, op workflow.Operation) (*status.Operation, error)
	ViewConfig() error
	Reload() error
	EditVCenter() error
	EditPlacement() error
	EditHosts() error
	EditNetwork() error
	EditVSAN() error
}

// ConfigSource supplies the document summarized on the main screen.
//
// In production, this is satisfied by *config.Store.
type ConfigSource interface {
	Path() string
	Load() (*config.Document, error)
}

// ChangeNotifier reports configuration changes made outside the console.
//
// In production, this is satisfied by *config.Watcher.
type ChangeNotifier interface {
	Changed() bool
}
