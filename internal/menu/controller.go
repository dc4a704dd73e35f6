package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jbweber/ecst/internal/catalog"
	"github.com/jbweber/ecst/internal/prompt"
	"github.com/jbweber/ecst/internal/request"
	"github.com/jbweber/ecst/internal/ui"
	"github.com/jbweber/ecst/internal/workflow"
)

const (
	// AppTitle heads the main screen.
	AppTitle = "ECST VMware Automation Tool"

	invalidOption = "Invalid option. Please try again."
	farewell      = "Thank you for using ECST VMware Automation Tool!"
	exitQuestion  = "Do you want to exit?"
	headerWidth   = 12
)

// Dependencies wires a Controller. Watcher is optional.
type Dependencies struct {
	Workflow Workflow
	Config   ConfigSource
	Watcher  ChangeNotifier
	Prompter prompt.Prompter
	Console  *ui.Console
	Logger   *zap.Logger
}

// Controller drives the menu loop.
type Controller struct {
	workflow Workflow
	config   ConfigSource
	watcher  ChangeNotifier
	prompter prompt.Prompter
	console  *ui.Console
	logger   *zap.Logger

	state   State
	screens map[State]screen
	table   map[State]map[string]Transition
}

// NewController creates a controller positioned on the main menu.
func NewController(deps Dependencies) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		workflow: deps.Workflow,
		config:   deps.Config,
		watcher:  deps.Watcher,
		prompter: deps.Prompter,
		console:  deps.Console,
		logger:   logger.Named("menu"),
		state:    StateMain,
	}
	c.screens = c.buildScreens()
	c.table = make(map[State]map[string]Transition, len(c.screens))
	for state, s := range c.screens {
		tokens := make(map[string]Transition)
		for _, group := range s.groups {
			for _, e := range group {
				tokens[e.token] = e.Transition
			}
		}
		c.table[state] = tokens
	}
	return c
}

// State returns the current menu.
func (c *Controller) State() State {
	return c.state
}

// Run loops until the operator quits.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.Step(ctx) {
			return nil
		}
	}
}

// Step draws the current menu, reads one token and applies its transition.
// It reports whether the operator quit.
func (c *Controller) Step(ctx context.Context) bool {
	c.render()

	s := c.screens[c.state]
	answer, err := c.prompter.Input(s.prompt, "")
	if err != nil {
		return c.abandon(err)
	}

	token := strings.ToUpper(strings.TrimSpace(answer))
	t, ok := c.table[c.state][token]
	if !ok {
		c.console.Error(invalidOption)
		if err := c.prompter.Pause(); err != nil {
			c.logger.Debug("pause ended without acknowledgment", zap.Error(err))
		}
		return false
	}

	c.logger.Debug("menu selection", zap.Stringer("state", c.state), zap.String("token", token))
	switch t.Kind {
	case Action:
		if err := t.Run(ctx); err != nil {
			c.logger.Info("menu action ended with error", zap.Stringer("state", c.state), zap.String("token", token), zap.Error(err))
		}
		c.state = t.Target
	case Enter, Back:
		c.state = t.Target
	case Quit:
		c.quit()
		return true
	}
	return false
}

// abandon handles a prompt that ended without an answer. On the main menu
// end of input quits and Ctrl-C asks first; elsewhere both go back.
func (c *Controller) abandon(err error) bool {
	if c.state != StateMain {
		c.state = c.parent()
		return false
	}

	if errors.Is(err, prompt.ErrInterrupted) {
		c.console.Println()
		c.console.Warning("Operation cancelled by user.")
		exit, cerr := c.prompter.Confirm(exitQuestion)
		if cerr == nil && !exit {
			return false
		}
	} else if !errors.Is(err, prompt.ErrEOF) {
		c.logger.Warn("menu input failed", zap.Error(err))
	}
	c.quit()
	return true
}

func (c *Controller) parent() State {
	for _, t := range c.table[c.state] {
		if t.Kind == Back {
			return t.Target
		}
	}
	return StateMain
}

func (c *Controller) quit() {
	c.console.Println()
	c.console.Info(farewell)
	c.console.Println()
}

func (c *Controller) render() {
	s := c.screens[c.state]
	c.console.Clear()
	c.console.Header(s.title)
	if c.state == StateMain {
		c.environment()
	}

	c.console.Title(s.heading)
	c.console.Println()
	for _, group := range s.groups {
		for _, e := range group {
			c.console.Item(e.token, e.label)
		}
		c.console.Println()
	}
}

// environment summarizes the freshly loaded configuration.
func (c *Controller) environment() {
	if c.watcher != nil && c.watcher.Changed() {
		c.console.Info("Configuration changed on disk; showing the current file.")
	}

	doc, err := c.config.Load()
	if err != nil {
		c.console.Error("%s", workflow.ConfigProblem(c.config.Path(), err))
		c.console.Println()
		return
	}

	for _, f := range []struct {
		label string
		path  []string
	}{
		{"Environment", []string{"environment", "name"}},
		{"vCenter", []string{"vcenter", "server"}},
		{"Datacenter", []string{"datacenter", "name"}},
		{"Cluster", []string{"cluster", "name"}},
	} {
		value, err := doc.Text(f.path...)
		if err != nil {
			value = "-"
		}
		c.console.Highlight(f.label, value, headerWidth)
	}
	c.console.Println()
}

func (c *Controller) run(kind request.Kind) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := c.workflow.Run(ctx, workflow.Operation{Kind: kind})
		return err
	}
}

func (c *Controller) runTemplate(code string) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := c.workflow.Run(ctx, workflow.Operation{Kind: request.KindDeployTemplateVM, Template: code})
		return err
	}
}

func call(fn func() error) func(context.Context) error {
	return func(context.Context) error { return fn() }
}

func action(token, label string, target State, run func(context.Context) error) entry {
	return entry{token: token, label: label, Transition: Transition{Kind: Action, Target: target, Run: run}}
}

func enter(token, label string, target State) entry {
	return entry{token: token, label: label, Transition: Transition{Kind: Enter, Target: target}}
}

func back(label string, target State) entry {
	return entry{token: "B", label: label, Transition: Transition{Kind: Back, Target: target}}
}

func (c *Controller) buildScreens() map[State]screen {
	templates := make([]entry, 0, len(catalog.Templates()))
	for _, t := range catalog.Templates() {
		templates = append(templates, action(t.Code, fmt.Sprintf("%-20s - %s", t.Name, t.Description),
			StateVMDeploy, c.runTemplate(t.Code)))
	}

	return map[State]screen{
		StateMain: {
			title:   AppTitle,
			heading: "Main Menu:",
			prompt:  "Select option",
			groups: [][]entry{
				{
					action("1", "Deploy vCenter (VCSA)", StateMain, c.run(request.KindDeployVCSA)),
					action("2", "Deploy Infrastructure (Full)", StateMain, c.run(request.KindDeployInfrastructure)),
					action("3", "Deploy Datacenter", StateMain, c.run(request.KindDeployDatacenter)),
					action("4", "Deploy Cluster", StateMain, c.run(request.KindDeployCluster)),
					enter("5", "Configure Infrastructure", StateConfigure),
					enter("6", "Deploy Virtual Machine", StateVMDeploy),
				},
				{
					enter("C", "Configuration Management", StateConfigManagement),
					action("S", "Show Current Status", StateMain, c.run(request.KindStatus)),
					{token: "Q", label: "Quit", Transition: Transition{Kind: Quit}},
				},
			},
		},
		StateConfigure: {
			title:   "Configure Infrastructure",
			heading: "Configuration Options:",
			prompt:  "Select option",
			groups: [][]entry{
				{
					action("1", "Configure vSAN", StateConfigure, c.run(request.KindConfigureVSAN)),
					action("2", "Configure vDS (Distributed Switch)", StateConfigure, c.run(request.KindConfigureVDS)),
					action("3", "Configure vMotion", StateConfigure, c.run(request.KindConfigureVMotion)),
					action("4", "Configure NTP/DNS/Syslog", StateConfigure, c.run(request.KindConfigureServices)),
					action("5", "Configure Security Settings", StateConfigure, c.run(request.KindConfigureSecurity)),
					action("6", "Configure All (Full)", StateConfigure, c.run(request.KindConfigureAll)),
				},
				{back("Back to Main Menu", StateMain)},
			},
		},
		StateVMDeploy: {
			title:   "Deploy Virtual Machine",
			heading: "VM Deployment Options:",
			prompt:  "Select option",
			groups: [][]entry{
				{
					enter("1", "Deploy VM from Template", StateTemplateSelect),
					action("2", "Deploy Standard Virtual Machine", StateVMDeploy, c.run(request.KindDeployStandardVM)),
				},
				{back("Back to Main Menu", StateMain)},
			},
		},
		StateTemplateSelect: {
			title:   "Deploy VM from Template",
			heading: "Available Templates:",
			prompt:  "Select template",
			groups: [][]entry{
				templates,
				{back("Back to VM Menu", StateVMDeploy)},
			},
		},
		StateConfigManagement: {
			title:   "Configuration Management",
			heading: "Configuration Options:",
			prompt:  "Select option",
			groups: [][]entry{
				{
					action("1", "View Current Configuration", StateConfigManagement, call(c.workflow.ViewConfig)),
					action("2", "Edit vCenter Settings", StateConfigManagement, call(c.workflow.EditVCenter)),
					action("3", "Edit Datacenter/Cluster Settings", StateConfigManagement, call(c.workflow.EditPlacement)),
					action("4", "Edit ESXi Host List", StateConfigManagement, call(c.workflow.EditHosts)),
					action("5", "Edit Network Settings", StateConfigManagement, call(c.workflow.EditNetwork)),
					action("6", "Edit Storage (vSAN) Settings", StateConfigManagement, call(c.workflow.EditVSAN)),
					action("7", "Reload Configuration", StateConfigManagement, call(c.workflow.Reload)),
				},
				{back("Back to Main Menu", StateMain)},
			},
		},
	}
}
