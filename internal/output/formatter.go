// Package output provides formatters for displaying the configuration
// document and the provisioning catalog in various formats (table, YAML, JSON).
package output

import (
	"fmt"

	"github.com/jbweber/ecst/internal/catalog"
	"github.com/jbweber/ecst/internal/config"
)

// Format represents an output format type.
type Format string

const (
	// FormatTable is a human-readable table format.
	FormatTable Format = "table"
	// FormatYAML is a YAML format.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON format for machine consumption.
	FormatJSON Format = "json"
)

// Catalog is the serializable form of the provisioning catalog.
type Catalog struct {
	Templates []catalog.Template `json:"templates" yaml:"templates"`
	Sizes     []catalog.Size     `json:"sizes" yaml:"sizes"`
	OSTypes   []catalog.OSType   `json:"osTypes" yaml:"osTypes"`
}

// CurrentCatalog returns the compiled-in catalog.
func CurrentCatalog() Catalog {
	return Catalog{
		Templates: catalog.Templates(),
		Sizes:     catalog.Sizes(),
		OSTypes:   catalog.OSTypes(),
	}
}

// Formatter formats console data for output.
type Formatter interface {
	// FormatDocument formats a configuration document.
	FormatDocument(doc *config.Document) (string, error)

	// FormatCatalog formats the provisioning catalog.
	FormatCatalog(c Catalog) (string, error)
}

// Options contains options for formatting output.
type Options struct {
	// Format specifies the output format.
	Format Format
	// NoHeaders omits headers in table format.
	NoHeaders bool
}

// NewFormatter creates a new Formatter based on the specified format.
func NewFormatter(opts Options) (Formatter, error) {
	switch opts.Format {
	case FormatTable:
		return &TableFormatter{NoHeaders: opts.NoHeaders}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, yaml, json)", opts.Format)
	}
}

// ValidateFormat checks if a format string is valid.
func ValidateFormat(format string) error {
	f := Format(format)
	switch f {
	case FormatTable, FormatYAML, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid formats: table, yaml, json)", format)
	}
}
