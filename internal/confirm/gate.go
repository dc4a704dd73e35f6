// Package confirm implements the confirmation gate that every mutating
// backend invocation must pass.
//
// The gate mints an Approval bound to the digest of exactly one subject.
// Approvals cannot be constructed outside this package, and the backend
// refuses to run a mutating invocation unless an approval covers it.
package confirm

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jbweber/ecst/internal/prompt"
	"github.com/jbweber/ecst/internal/ui"
)

// ErrDeclined is returned when the operator does not approve.
var ErrDeclined = errors.New("declined by operator")

// Subject is anything an approval can be bound to.
type Subject interface {
	Digest() string
}

// Summary renders the reviewed request onto the console.
type Summary interface {
	Render(c *ui.Console)
}

// Approval is proof that the operator approved one subject.
// The zero value approves nothing.
type Approval struct {
	digest string
}

// Covers reports whether the approval was issued for subject.
func (a Approval) Covers(subject Subject) bool {
	return a.digest != "" && subject != nil && a.digest == subject.Digest()
}

// Gate asks the operator for explicit assent.
type Gate struct {
	prompter prompt.Prompter
	console  *ui.Console
	logger   *zap.Logger
}

// NewGate creates a gate.
func NewGate(p prompt.Prompter, console *ui.Console, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		prompter: p,
		console:  console,
		logger:   logger.Named("confirm"),
	}
}

// Confirm renders summary, asks question and returns an approval for
// subject when the answer is an explicit yes. Any other answer, including
// an interrupted or exhausted prompt, is a decline.
func (g *Gate) Confirm(summary Summary, question string, subject Subject) (Approval, error) {
	if subject == nil {
		return Approval{}, fmt.Errorf("confirmation requires a subject")
	}

	if summary != nil {
		summary.Render(g.console)
	}

	approved, err := g.prompter.Confirm(question)
	if err != nil {
		g.logger.Info("confirmation aborted", zap.Error(err))
		return Approval{}, fmt.Errorf("%w: %w", ErrDeclined, err)
	}
	if !approved {
		g.logger.Info("confirmation declined")
		return Approval{}, ErrDeclined
	}

	digest := subject.Digest()
	g.logger.Info("confirmation approved", zap.String("digest", digest))
	return Approval{digest: digest}, nil
}
