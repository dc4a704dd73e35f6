package main

import (
	"github.com/spf13/cobra"

	"github.com/jbweber/ecst/internal/config"
	"github.com/jbweber/ecst/internal/ui"
	"github.com/jbweber/ecst/internal/workflow"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration document",
		Long: `Load the configuration document and check it against the schema.

Every section the console reads must be present. Exits with status 1 and
lists the problems when the document is missing, malformed or incomplete.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			console := ui.NewConsole(opts.out, opts.color())
			store := config.NewStore(opts.configPath, opts.logger)

			if _, err := store.LoadValidated(); err != nil {
				console.Error("%s", workflow.ConfigProblem(store.Path(), err))
				return errReported
			}

			console.Success("Configuration is valid: %s", store.Path())
			return nil
		},
	}
}
