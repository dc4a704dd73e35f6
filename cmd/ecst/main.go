package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jbweber/ecst/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
)

// errReported ends a command whose failure was already shown to the operator.
var errReported = errors.New("error already reported")

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath  string
	baseDir     string
	interpreter string
	logFile     string
	timeout     time.Duration
	debug       bool
	noColor     bool
	forms       bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logger *zap.Logger
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{in: stdin, out: stdout, errOut: stderr, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "ecst",
		Short: "ECST VMware Automation Tool",
		Long: `ecst is an interactive operator console for provisioning vSphere
infrastructure and virtual machines.

It reads a JSON configuration document describing the environment, asks for
the details of each operation, shows a summary for confirmation and then runs
the PowerShell/PowerCLI backend scripts that do the work.

Running ecst without a subcommand starts the console.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.complete()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd.Context(), opts)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", os.Getenv("ECST_CONFIG"),
		"configuration document (default <base-dir>/config.json, env ECST_CONFIG)")
	flags.StringVar(&opts.baseDir, "base-dir", "",
		"directory holding the backend scripts and modules (default: directory of the executable)")
	flags.StringVar(&opts.interpreter, "interpreter", "",
		"PowerShell executable (default powershell.exe on Windows, pwsh elsewhere)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "limit for a single backend run, 0 for none")
	flags.StringVar(&opts.logFile, "log-file", "", "log file (default <base-dir>/ecst.log)")
	flags.BoolVar(&opts.debug, "debug", false, "log at debug level")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&opts.forms, "forms", false, "ask questions with interactive forms")

	root.AddCommand(newConsoleCmd(opts))
	root.AddCommand(newValidateCmd(opts))
	root.AddCommand(newShowCmd(opts))
	root.AddCommand(newCatalogCmd(opts))
	return root
}

// complete fills in defaults that depend on other flags and opens the log.
func (o *options) complete() error {
	if o.baseDir == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to locate executable: %w", err)
		}
		o.baseDir = filepath.Dir(exe)
	}
	if o.configPath == "" {
		o.configPath = filepath.Join(o.baseDir, "config.json")
	}
	if o.logFile == "" {
		o.logFile = filepath.Join(o.baseDir, "ecst.log")
	}

	logger, err := newLogger(o.logFile, o.debug)
	if err != nil {
		fmt.Fprintf(o.errOut, "Warning: %v; logging is disabled\n", err)
		return nil
	}
	o.logger = logger
	return nil
}

// color reports whether output should be styled.
func (o *options) color() bool {
	return !o.noColor && isTerminal(o.out)
}

// interactive reports whether both ends of the console are a terminal.
func (o *options) interactive() bool {
	return isTerminal(o.in) && isTerminal(o.out)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && ui.IsTerminal(f)
}
