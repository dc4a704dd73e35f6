// Package menu implements the console's navigation state machine.
//
// The controller renders the screen for the current state, reads one token
// and looks it up in a fixed transition table. It holds no business data:
// actions are delegated to the workflow runner, and the configuration is
// read fresh whenever the main screen is drawn.
package menu
