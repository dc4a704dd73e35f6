package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/ecst/internal/catalog"
	"github.com/jbweber/ecst/internal/config"
	"github.com/jbweber/ecst/internal/output"
)

const formatHelp = `
Output formats:
  -o table  Human-readable table (default)
  -o yaml   YAML document
  -o json   JSON document`

type formatFlags struct {
	format    string
	noHeaders bool
}

func (f *formatFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "output", "o", string(output.FormatTable), "output format: table, yaml, json")
	cmd.Flags().BoolVar(&f.noHeaders, "no-headers", false, "omit table headers")
}

func (f *formatFlags) formatter() (output.Formatter, error) {
	if err := output.ValidateFormat(f.format); err != nil {
		return nil, err
	}
	return output.NewFormatter(output.Options{
		Format:    output.Format(f.format),
		NoHeaders: f.noHeaders,
	})
}

func newShowCmd(opts *options) *cobra.Command {
	flags := &formatFlags{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration document",
		Long:  "Print the current configuration document.\n" + formatHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := flags.formatter()
			if err != nil {
				return err
			}

			doc, err := config.NewStore(opts.configPath, opts.logger).Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			result, err := formatter.FormatDocument(doc)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}

			fmt.Fprint(opts.out, result)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newCatalogCmd(opts *options) *cobra.Command {
	flags := &formatFlags{}
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the VM templates, sizes and OS types",
		Long: fmt.Sprintf(`Print the provisioning catalog offered by the console.

Templates are selected by code, sizes by code or name (case-insensitive).
The template deployment default size is %s, the standard VM default is %s.
%s`, catalog.DefaultTemplateSize, catalog.DefaultStandardSize, formatHelp),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := flags.formatter()
			if err != nil {
				return err
			}

			result, err := formatter.FormatCatalog(output.CurrentCatalog())
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}

			fmt.Fprint(opts.out, result)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
