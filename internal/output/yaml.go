package output

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/ecst/internal/config"
)

// YAMLFormatter formats data as YAML.
type YAMLFormatter struct{}

// FormatDocument formats the document as YAML.
func (f *YAMLFormatter) FormatDocument(doc *config.Document) (string, error) {
	data, err := doc.MarshalAs(config.FormatYAML)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document to YAML: %w", err)
	}
	return string(data), nil
}

// FormatCatalog formats the catalog as YAML.
func (f *YAMLFormatter) FormatCatalog(c Catalog) (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal catalog to YAML: %w", err)
	}
	return string(data), nil
}
