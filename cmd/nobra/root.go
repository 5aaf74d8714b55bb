package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/nobra/internal/plugin"
	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithSource(plugin.Default())
}

func newRootCmdWithSource(source ports.CalculatorSource) *cobra.Command {
	flags := &rootFlags{}
	app := newAppContext(source)

	cmd := &cobra.Command{
		Use:           "nobra",
		Short:         "nobra serves and runs clinical score calculators",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load(cmd, flags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Without a subcommand, open the browser on a terminal.
			if supportsUnicode(os.Stdout) && len(args) == 0 {
				return runBrowse(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a nobra.yaml configuration file")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override the configured log level")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Override the configured log format (json, console, auto)")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newCalcCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newBrowseCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
