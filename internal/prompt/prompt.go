// Package prompt reads operator input for the console.
//
// Every question goes through a Prompter. Three implementations exist:
// LinePrompter reads lines from any io.Reader (pipes, tests),
// ReadlinePrompter edits lines on a terminal and reports Ctrl-C, and
// FormPrompter renders each question as a small huh form.
package prompt

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	// ErrInterrupted is returned when the operator presses Ctrl-C at a prompt.
	ErrInterrupted = errors.New("interrupted by operator")

	// ErrEOF is returned when input is exhausted.
	ErrEOF = errors.New("end of input")
)

// Prompter asks the operator one question at a time.
type Prompter interface {
	// Input asks for one line. An empty answer yields def.
	Input(label, def string) (string, error)

	// Confirm asks a yes/no question. Only an explicit yes returns true.
	Confirm(question string) (bool, error)

	// Pause waits until the operator acknowledges with Enter.
	Pause() error
}

// PauseMessage is shown by Pause.
const PauseMessage = "Press Enter to continue..."

// Affirmative reports whether an answer to a yes/no question approves.
// Only "y" and "yes" approve, in any case.
func Affirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

var (
	ansiEscapeRE  = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
	caretEscapeRE = regexp.MustCompile(`\^\[\[[0-9;?]*[ -/]*[@-~]`)
)

// Sanitize strips terminal escape sequences and control characters that
// arrow keys or pasted text can leave in a line, then trims it.
func Sanitize(raw string) string {
	raw = ansiEscapeRE.ReplaceAllString(raw, "")
	raw = caretEscapeRE.ReplaceAllString(raw, "")
	raw = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, raw)
	return strings.TrimSpace(raw)
}

// Label renders a question with its default the way every prompter shows it.
func Label(label, def string) string {
	if def != "" {
		return label + " [" + def + "]: "
	}
	return label + ": "
}

func orDefault(answer, def string) string {
	if answer == "" {
		return def
	}
	return answer
}
