package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfigurationMissing is returned when the backing file does not exist.
	ErrConfigurationMissing = errors.New("configuration file not found")

	// ErrConfigurationMalformed is returned when the file cannot be parsed as a
	// structured document or fails schema validation.
	ErrConfigurationMalformed = errors.New("configuration file is malformed")

	// ErrFieldMissing is returned when an operation reads a field that is not
	// present in the document.
	ErrFieldMissing = errors.New("required configuration field is missing")

	// ErrFieldType is returned when a field exists but holds the wrong kind of value.
	ErrFieldType = errors.New("configuration field has unexpected type")
)

// FieldError describes a failed field access.
type FieldError struct {
	// Path is the dotted path of the field, e.g. "vcenter.vcsa.ip".
	Path string
	// Want describes the expected value kind for type errors.
	Want string
	// Err is ErrFieldMissing or ErrFieldType.
	Err error
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrFieldType) {
		return fmt.Sprintf("configuration field %s: expected %s", e.Path, e.Want)
	}
	return fmt.Sprintf("configuration field %s is missing", e.Path)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func missing(path []string) error {
	return &FieldError{Path: joinPath(path), Err: ErrFieldMissing}
}

func wrongType(path []string, want string) error {
	return &FieldError{Path: joinPath(path), Want: want, Err: ErrFieldType}
}

func joinPath(path []string) string {
	return strings.Join(path, ".")
}
