package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the on-disk encoding of a configuration document.
type Format string

const (
	// FormatJSON is the default encoding (config.json).
	FormatJSON Format = "json"
	// FormatYAML is selected by a .yaml or .yml extension.
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from the file extension.
// Anything that is not .yaml/.yml is treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Document is a parsed configuration document.
//
// Values in the tree are normalized to map[string]any, []any, string, bool,
// int64, float64 or nil regardless of the source encoding.
type Document struct {
	Section
	format Format
}

// NewDocument wraps an already-built tree. The tree is normalized in place.
func NewDocument(format Format, root map[string]any) *Document {
	if root == nil {
		root = map[string]any{}
	}
	normalized, _ := normalize(root).(map[string]any)
	return &Document{
		Section: Section{m: normalized},
		format:  format,
	}
}

// Parse decodes a document in the given format.
func Parse(format Format, data []byte) (*Document, error) {
	var raw any

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		// Reject trailing garbage after the top-level value
		if dec.More() {
			return nil, fmt.Errorf("failed to parse JSON: unexpected data after top-level object")
		}
	}

	if m, ok := raw.(map[any]any); ok {
		raw = normalize(m)
	}
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value must be an object, got %s", kindOf(raw))
	}

	return NewDocument(format, root), nil
}

// Format returns the encoding the document was loaded with.
func (d *Document) Format() Format {
	return d.format
}

// Marshal encodes the document in its own format.
func (d *Document) Marshal() ([]byte, error) {
	return d.MarshalAs(d.format)
}

// MarshalAs encodes the document in the given format.
func (d *Document) MarshalAs(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(d.m)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return data, nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d.m); err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return buf.Bytes(), nil
	}
}

// Section is a view onto one mapping inside the document.
type Section struct {
	path []string
	m    map[string]any
}

// Data returns the underlying mapping. Changes to it are changes to the document.
func (s Section) Data() map[string]any {
	return s.m
}

// Path returns the dotted path of the section ("" for the root).
func (s Section) Path() string {
	return joinPath(s.path)
}

// Has reports whether the field exists.
func (s Section) Has(path ...string) bool {
	_, err := s.Value(path...)
	return err == nil
}

// Value returns the raw value at path.
func (s Section) Value(path ...string) (any, error) {
	full := s.fullPath(path)
	if len(path) == 0 {
		return s.m, nil
	}

	var cur any = s.m
	for i, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, wrongType(full[:len(s.path)+i], "object")
		}
		next, ok := m[key]
		if !ok {
			return nil, missing(full[:len(s.path)+i+1])
		}
		cur = next
	}
	return cur, nil
}

// Sub returns the mapping at path as a section.
func (s Section) Sub(path ...string) (Section, error) {
	v, err := s.Value(path...)
	if err != nil {
		return Section{}, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Section{}, wrongType(s.fullPath(path), "object")
	}
	return Section{path: s.fullPath(path), m: m}, nil
}

// String returns the string at path.
func (s Section) String(path ...string) (string, error) {
	v, err := s.Value(path...)
	if err != nil {
		return "", err
	}
	str, ok := v.(string)
	if !ok {
		return "", wrongType(s.fullPath(path), "string")
	}
	return str, nil
}

// Bool returns the boolean at path.
func (s Section) Bool(path ...string) (bool, error) {
	v, err := s.Value(path...)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, wrongType(s.fullPath(path), "boolean")
	}
	return b, nil
}

// Int returns the integer at path. Floats with a fractional part are rejected.
func (s Section) Int(path ...string) (int, error) {
	v, err := s.Value(path...)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, wrongType(s.fullPath(path), "integer")
}

// Strings returns the list of strings at path.
func (s Section) Strings(path ...string) ([]string, error) {
	v, err := s.Value(path...)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, wrongType(s.fullPath(path), "list of strings")
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		str, ok := item.(string)
		if !ok {
			return nil, wrongType(s.fullPath(path), "list of strings")
		}
		out = append(out, str)
	}
	return out, nil
}

// Records returns the list of mappings at path, e.g. esxiHosts.
func (s Section) Records(path ...string) ([]Section, error) {
	v, err := s.Value(path...)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, wrongType(s.fullPath(path), "list of objects")
	}
	base := s.fullPath(path)
	out := make([]Section, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, wrongType(append(base[:len(base):len(base)], fmt.Sprintf("[%d]", i)), "object")
		}
		out = append(out, Section{
			path: append(base[:len(base):len(base)], fmt.Sprintf("[%d]", i)),
			m:    m,
		})
	}
	return out, nil
}

// Text renders any scalar or list of scalars at path for display.
// Lists are joined with ", ".
func (s Section) Text(path ...string) (string, error) {
	v, err := s.Value(path...)
	if err != nil {
		return "", err
	}
	switch val := v.(type) {
	case map[string]any:
		return "", wrongType(s.fullPath(path), "scalar or list")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if _, isMap := item.(map[string]any); isMap {
				return "", wrongType(s.fullPath(path), "scalar or list")
			}
			parts = append(parts, scalarText(item))
		}
		return strings.Join(parts, ", "), nil
	default:
		return scalarText(val), nil
	}
}

// Set assigns value at path. Every parent must already exist; the leaf may be new.
func (s Section) Set(value any, path ...string) error {
	if len(path) == 0 {
		return fmt.Errorf("cannot replace a whole section")
	}
	parent, err := s.Sub(path[:len(path)-1]...)
	if err != nil {
		return err
	}
	parent.m[path[len(path)-1]] = normalize(value)
	return nil
}

// AppendRecord appends a mapping to the list at path.
func (s Section) AppendRecord(record map[string]any, path ...string) error {
	v, err := s.Value(path...)
	if err != nil {
		return err
	}
	list, ok := v.([]any)
	if !ok {
		return wrongType(s.fullPath(path), "list of objects")
	}
	return s.Set(append(list, normalize(record)), path...)
}

// RemoveRecord removes every mapping in the list at path whose field equals
// value. It reports whether anything was removed.
func (s Section) RemoveRecord(field, value string, path ...string) (bool, error) {
	v, err := s.Value(path...)
	if err != nil {
		return false, err
	}
	list, ok := v.([]any)
	if !ok {
		return false, wrongType(s.fullPath(path), "list of objects")
	}

	kept := make([]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			if str, _ := m[field].(string); str == value {
				continue
			}
		}
		kept = append(kept, item)
	}
	if len(kept) == len(list) {
		return false, nil
	}
	return true, s.Set(kept, path...)
}

func (s Section) fullPath(path []string) []string {
	full := make([]string, 0, len(s.path)+len(path))
	full = append(full, s.path...)
	return append(full, path...)
}

func scalarText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// normalize converts decoder-specific value types to the canonical set.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[fmt.Sprint(k)] = normalize(item)
		}
		return m
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	case []map[string]any:
		list := make([]any, 0, len(val))
		for _, item := range val {
			list = append(list, normalize(item))
		}
		return list
	case []string:
		list := make([]any, 0, len(val))
		for _, item := range val {
			list = append(list, item)
		}
		return list
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return float64(val)
	default:
		return val
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
