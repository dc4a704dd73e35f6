package workflow

import (
	"context"

	"github.com/jbweber/ecst/internal/backend"
	"github.com/jbweber/ecst/internal/config"
	"github.com/jbweber/ecst/internal/confirm"
)

// ConfigStore loads and saves the configuration document.
//
// In production, this is satisfied by *config.Store.
// In tests, this is satisfied by mock implementations.
type ConfigStore interface {
	// Path returns the location of the document
	Path() string

	// Load reads the document from disk
	Load() (*config.Document, error)

	// Save replaces the document on disk
	Save(doc *config.Document) error
}

// Invoker runs rendered invocations.
//
// In production, this is satisfied by *backend.Invoker.
// In tests, this is satisfied by mock implementations.
type Invoker interface {
	// Invoke runs spec, refusing mutating specs that approval does not cover
	Invoke(ctx context.Context, spec *backend.InvocationSpec, approval confirm.Approval) (backend.Result, error)
}
