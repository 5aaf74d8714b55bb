package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
)

type showOptions struct {
	jsonOutput bool
	yamlOutput bool
}

func newShowCmd(app *AppContext) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show <score_id>",
		Short: "Show a calculator's parameters, formula and example",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, logger := app.CommandContext(cmd, "command.show")

			id, err := score.ParseID(args[0])
			if err != nil {
				return newCommandError("show score", args[0], err, "Run 'nobra list' to see available score ids.")
			}
			meta, err := app.Service.Metadata(ctx, id)
			if err != nil {
				logger.Debug(ctx, "metadata lookup failed", "score_id", id, "error", err)
				return newCommandError("show score", string(id), err, "Run 'nobra list' to see available score ids.")
			}

			switch {
			case opts.jsonOutput:
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(meta)
			case opts.yamlOutput:
				return writeYAML(cmd.OutOrStdout(), meta)
			default:
				renderMetadata(cmd.OutOrStdout(), meta)
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&opts.yamlOutput, "yaml", false, "Output in YAML format")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml")

	return cmd
}

func renderMetadata(w io.Writer, meta score.Metadata) {
	fmt.Fprintf(w, "%s (%s)\n", meta.Title, meta.ID)
	fmt.Fprintf(w, "Category: %s\n", meta.Category)
	fmt.Fprintf(w, "Unit:     %s\n", meta.ResultUnit)
	if meta.Description != "" {
		fmt.Fprintf(w, "\n%s\n", meta.Description)
	}

	fmt.Fprintln(w, "\nParameters:")
	for _, p := range meta.Parameters {
		flag := "optional"
		if p.Required {
			flag = "required"
		}
		fmt.Fprintf(w, "  %-32s %-8s %s", p.Name, p.Type, flag)
		if p.Min != nil && p.Max != nil {
			fmt.Fprintf(w, "  [%g..%g]", *p.Min, *p.Max)
		}
		if len(p.Options) > 0 {
			fmt.Fprintf(w, "  {%s}", strings.Join(p.Options, ", "))
		}
		if p.Unit != "" {
			fmt.Fprintf(w, "  %s", p.Unit)
		}
		fmt.Fprintln(w)
	}

	if meta.Formula != "" {
		fmt.Fprintf(w, "\nFormula:\n  %s\n", meta.Formula)
	}
	if len(meta.Notes) > 0 {
		fmt.Fprintln(w, "\nNotes:")
		for _, note := range meta.Notes {
			fmt.Fprintf(w, "  - %s\n", note)
		}
	}
	if len(meta.References) > 0 {
		fmt.Fprintln(w, "\nReferences:")
		for _, ref := range meta.References {
			fmt.Fprintf(w, "  - %s\n", ref)
		}
	}
	if len(meta.Example) > 0 {
		fmt.Fprintf(w, "\nTry it:\n  nobra calc %s --example\n", meta.ID)
	}
}

func writeYAML(w io.Writer, value any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	return encoder.Close()
}
