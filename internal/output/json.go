package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jbweber/ecst/internal/config"
)

// JSONFormatter formats data as JSON with two-space indentation.
type JSONFormatter struct{}

// FormatDocument formats the document as JSON.
func (f *JSONFormatter) FormatDocument(doc *config.Document) (string, error) {
	data, err := doc.MarshalAs(config.FormatJSON)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document to JSON: %w", err)
	}
	return string(data), nil
}

// FormatCatalog formats the catalog as a JSON object.
func (f *JSONFormatter) FormatCatalog(c Catalog) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(c); err != nil {
		return "", fmt.Errorf("failed to marshal catalog to JSON: %w", err)
	}

	return buf.String(), nil
}
