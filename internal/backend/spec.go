// Package backend renders requests into PowerShell invocations and runs them.
//
// Two invocation shapes exist. Script-file mode runs a script by path with
// named parameters. Inline mode runs a generated script body. Operator
// supplied values never appear in a generated body: they travel as
// ECST_<NAME> environment variables that the body reads with $env:.
// The only literals rendered into bodies are paths owned by the program.
package backend

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"regexp"

	"github.com/google/uuid"
)

// Mode is the invocation shape.
type Mode int

const (
	// ModeScript runs a script file with named parameters.
	ModeScript Mode = iota
	// ModeInline runs a generated script body.
	ModeInline
)

func (m Mode) String() string {
	switch m {
	case ModeScript:
		return "script"
	case ModeInline:
		return "inline"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// EnvPrefix prefixes every environment variable passed to inline bodies.
const EnvPrefix = "ECST_"

var (
	paramNameRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
	envNameRE   = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
)

// Param is a named value.
type Param struct {
	Name  string
	Value string
}

// InvocationSpec is one rendered backend call. Specs are built right before
// dispatch and used once.
type InvocationSpec struct {
	ID        uuid.UUID
	Operation string
	Mode      Mode
	Mutating  bool

	// Script mode
	Script string
	Params []Param

	// Inline mode
	Body string
	Env  []Param
}

// Args returns the interpreter arguments.
func (s *InvocationSpec) Args() []string {
	args := []string{"-ExecutionPolicy", "Bypass"}
	switch s.Mode {
	case ModeScript:
		args = append(args, "-File", s.Script)
		for _, p := range s.Params {
			args = append(args, "-"+p.Name, p.Value)
		}
	case ModeInline:
		args = append(args, "-Command", s.Body)
	}
	return args
}

// Environ returns the extra environment entries for the process.
func (s *InvocationSpec) Environ() []string {
	env := make([]string, 0, len(s.Env))
	for _, p := range s.Env {
		env = append(env, EnvPrefix+p.Name+"="+p.Value)
	}
	return env
}

// ParamNames lists parameter and environment names for logging.
func (s *InvocationSpec) ParamNames() []string {
	names := make([]string, 0, len(s.Params)+len(s.Env))
	for _, p := range s.Params {
		names = append(names, p.Name)
	}
	for _, p := range s.Env {
		names = append(names, EnvPrefix+p.Name)
	}
	return names
}

// Validate checks the structural invariants of the invocation.
func (s *InvocationSpec) Validate() error {
	if s.ID == uuid.Nil {
		return fmt.Errorf("invocation has no ID")
	}
	switch s.Mode {
	case ModeScript:
		if s.Script == "" {
			return fmt.Errorf("script invocation has no script")
		}
		for _, p := range s.Params {
			if !paramNameRE.MatchString(p.Name) {
				return fmt.Errorf("invalid parameter name %q", p.Name)
			}
		}
	case ModeInline:
		if s.Body == "" {
			return fmt.Errorf("inline invocation has no body")
		}
		for _, p := range s.Env {
			if !envNameRE.MatchString(p.Name) {
				return fmt.Errorf("invalid environment name %q", p.Name)
			}
		}
	default:
		return fmt.Errorf("unknown invocation mode %s", s.Mode)
	}
	return nil
}

// Digest identifies the exact content of the invocation. Approvals are bound to it.
func (s *InvocationSpec) Digest() string {
	if s == nil {
		return ""
	}
	h := sha256.New()
	writeField(h, s.ID.String())
	writeField(h, s.Operation)
	writeField(h, s.Mode.String())
	writeField(h, fmt.Sprint(s.Mutating))
	writeField(h, s.Script)
	for _, p := range s.Params {
		writeField(h, p.Name)
		writeField(h, p.Value)
	}
	writeField(h, s.Body)
	for _, p := range s.Env {
		writeField(h, p.Name)
		writeField(h, p.Value)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// writeField length-prefixes each field so adjacent fields cannot collide.
func writeField(h hash.Hash, v string) {
	fmt.Fprintf(h, "%d:%s;", len(v), v)
}
