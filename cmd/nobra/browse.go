package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/nobra/internal/tui/catalog"
)

func newBrowseCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse calculators interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, app)
		},
	}
}

func runBrowse(cmd *cobra.Command, app *AppContext) error {
	ctx, logger := app.CommandContext(cmd, "command.browse")

	model := catalog.NewModel(ctx, app.Service).WithUnicode(supportsUnicode(os.Stdout))
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	if _, err := program.Run(); err != nil {
		logger.Error(ctx, "browser exited", "error", err)
		return newCommandError("run browser", "interactive session", err,
			"Use 'nobra list' and 'nobra calc' when no terminal is available.")
	}
	return nil
}
