package menu

import (
	"context"
	"fmt"
)

// State is a menu screen.
type State int

const (
	StateMain State = iota
	StateConfigure
	StateVMDeploy
	StateTemplateSelect
	StateConfigManagement
)

func (s State) String() string {
	switch s {
	case StateMain:
		return "main"
	case StateConfigure:
		return "configure"
	case StateVMDeploy:
		return "vm-deploy"
	case StateTemplateSelect:
		return "template-select"
	case StateConfigManagement:
		return "config-management"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// TransitionKind says what selecting a token does.
type TransitionKind int

const (
	// Action runs an operation, then moves to Target.
	Action TransitionKind = iota
	// Enter opens the Target submenu.
	Enter
	// Back returns to Target, the parent menu.
	Back
	// Quit leaves the console.
	Quit
)

// Transition is one entry of the transition table.
type Transition struct {
	Kind   TransitionKind
	Target State
	Run    func(ctx context.Context) error
}

// entry is a token as it appears on screen.
type entry struct {
	token string
	label string
	Transition
}

// screen describes how a state is drawn. Groups are separated by a blank line.
type screen struct {
	title   string
	heading string
	prompt  string
	groups  [][]entry
}
