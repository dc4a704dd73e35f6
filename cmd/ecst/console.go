package main

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jbweber/ecst/internal/backend"
	"github.com/jbweber/ecst/internal/config"
	"github.com/jbweber/ecst/internal/menu"
	"github.com/jbweber/ecst/internal/prompt"
	"github.com/jbweber/ecst/internal/ui"
	"github.com/jbweber/ecst/internal/workflow"
)

func newConsoleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Start the interactive console",
		Long: `Start the interactive operator console.

The configuration document must exist and pass schema validation before the
main menu is shown. Every operation reloads it, so edits made while the
console is running are picked up immediately.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd.Context(), opts)
		},
	}
}

func runConsole(ctx context.Context, opts *options) error {
	logger := opts.logger
	console := ui.NewConsole(opts.out, opts.color())

	if runtime.GOOS != "windows" {
		console.Warning("This tool is designed for Windows with PowerShell.")
		console.Warning("Some features may not work correctly on other platforms.")
	}

	store := config.NewStore(opts.configPath, logger)
	if _, err := store.LoadValidated(); err != nil {
		console.Error("%s", workflow.ConfigProblem(store.Path(), err))
		if !store.Exists() {
			console.Info("Please create a config.json file before running this tool.")
		}
		logger.Error("startup aborted", zap.String("config", store.Path()), zap.Error(err))
		return errReported
	}

	configPath, err := filepath.Abs(store.Path())
	if err != nil {
		configPath = store.Path()
	}

	invoker := backend.NewInvoker(backend.Options{
		Interpreter:       opts.interpreter,
		BaseDir:           opts.baseDir,
		Timeout:           opts.timeout,
		CancelOnInterrupt: true,
		Stdin:             opts.in,
		Stdout:            opts.out,
		Stderr:            opts.errOut,
		Console:           console,
		Logger:            logger,
	})
	if err := invoker.Preflight(); err != nil {
		console.Warning("%v. Backend operations will fail until it is installed.", err)
	}

	var watcher menu.ChangeNotifier
	if w, err := store.Watch(); err != nil {
		logger.Warn("configuration watcher unavailable", zap.Error(err))
	} else {
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("failed to stop configuration watcher", zap.Error(err))
			}
		}()
		watcher = w
	}

	p := opts.prompter(ctx)
	runner := workflow.NewRunner(workflow.Dependencies{
		Store:    store,
		Renderer: backend.NewRenderer(backend.Layout{BaseDir: opts.baseDir, ConfigPath: configPath}),
		Invoker:  invoker,
		Prompter: p,
		Console:  console,
		Logger:   logger,
	})
	controller := menu.NewController(menu.Dependencies{
		Workflow: runner,
		Config:   store,
		Watcher:  watcher,
		Prompter: p,
		Console:  console,
		Logger:   logger,
	})

	logger.Info("console started",
		zap.String("version", version),
		zap.String("config", configPath),
		zap.String("baseDir", opts.baseDir),
		zap.String("interpreter", invoker.Interpreter()))

	if err := controller.Run(ctx); err != nil {
		return err
	}
	logger.Info("console exited")
	return nil
}

// prompter picks how questions are asked.
func (o *options) prompter(ctx context.Context) prompt.Prompter {
	switch {
	case o.forms:
		return prompt.NewFormPrompter(ctx)
	case o.interactive():
		return prompt.NewReadlinePrompter(o.out)
	default:
		return prompt.NewLinePrompter(o.in, o.out)
	}
}
