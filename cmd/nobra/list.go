package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
)

type listOptions struct {
	category   string
	search     string
	jsonOutput bool
}

func newListCmd(app *AppContext) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available score calculators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, app, opts)
		},
	}

	cmd.Flags().StringVar(&opts.category, "category", "", "Only show calculators in this category")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Only show calculators matching this term")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runList(cmd *cobra.Command, app *AppContext, opts *listOptions) error {
	ctx, logger := app.CommandContext(cmd, "command.list")

	metas := app.Service.Search(ctx, opts.category, opts.search)
	unavailable := len(app.Service.IDs(ctx)) - len(app.Service.List(ctx))
	logger.Debug(ctx, "listing calculators", "matched", len(metas), "unavailable", unavailable)

	if opts.jsonOutput {
		return renderListJSON(cmd, metas)
	}
	if len(metas) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No calculators match.")
		return nil
	}
	return renderListTable(cmd, metas, unavailable)
}

func renderListTable(cmd *cobra.Command, metas []score.Metadata, unavailable int) error {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	fmt.Fprintln(writer, "ID\tTITLE\tCATEGORY\tUNIT")
	for _, meta := range metas {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", meta.ID, meta.Title, meta.Category, meta.ResultUnit)
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	if unavailable > 0 {
		icon := "[!]"
		if supportsUnicode(cmd.OutOrStdout()) {
			icon = "⚠"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s %d registered calculator(s) could not be loaded; run with --log-level debug for details.\n", icon, unavailable)
	}
	return nil
}

type listJSONPayload struct {
	Version string       `json:"version"`
	Count   int          `json:"count"`
	Scores  []score.Info `json:"scores"`
}

func renderListJSON(cmd *cobra.Command, metas []score.Metadata) error {
	payload := listJSONPayload{
		Version: "1.0",
		Count:   len(metas),
		Scores:  make([]score.Info, len(metas)),
	}
	for i, meta := range metas {
		payload.Scores[i] = meta.Info()
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func newCategoriesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List calculator categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _ := app.CommandContext(cmd, "command.categories")

			counts := make(map[string]int)
			for _, meta := range app.Service.List(ctx) {
				counts[meta.Category]++
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "CATEGORY\tSCORES")
			for _, category := range app.Service.Categories(ctx) {
				fmt.Fprintf(writer, "%s\t%d\n", category, counts[category])
			}
			return writer.Flush()
		},
	}
}

func supportsUnicode(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

func valueOrFallback(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
