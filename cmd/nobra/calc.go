package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
)

type calcOptions struct {
	params     []string
	file       string
	example    bool
	yamlOutput bool
}

func newCalcCmd(app *AppContext) *cobra.Command {
	opts := &calcOptions{}

	cmd := &cobra.Command{
		Use:   "calc <score_id>",
		Short: "Run a calculator",
		Long: `Run a calculator with parameters from --example, a --file and --param flags.

Later sources override earlier ones: the example is applied first, then the
file, then each --param in order.`,
		Example: `  nobra calc rox_index --param spo2=92 --param fio2=0.4 --param respiratory_rate=22
  nobra calc lace_index --file patient.yaml
  nobra calc chads2 --example --param age_75_or_older=yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd, app, opts, args[0])
		},
	}

	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "Parameter as name=value (repeatable)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "YAML or JSON file with a parameter mapping")
	cmd.Flags().BoolVar(&opts.example, "example", false, "Start from the calculator's example parameters")
	cmd.Flags().BoolVar(&opts.yamlOutput, "yaml", false, "Output the result as YAML")

	return cmd
}

func runCalc(cmd *cobra.Command, app *AppContext, opts *calcOptions, rawID string) error {
	ctx, logger := app.CommandContext(cmd, "command.calc")

	id, err := score.ParseID(rawID)
	if err != nil {
		failure := score.NewFailure(score.CategoryNotFound, score.ID(rawID),
			fmt.Sprintf("Score '%s' not found", rawID), err)
		return newCommandError("calculate score", rawID, failure, "Run 'nobra list' to see available score ids.")
	}

	params := score.Parameters{}
	if opts.example {
		meta, err := app.Service.Metadata(ctx, id)
		if err != nil {
			return newCommandError("calculate score", string(id), err, "Run 'nobra list' to see available score ids.")
		}
		for k, v := range meta.Example {
			params[k] = v
		}
	}
	if opts.file != "" {
		fromFile, err := readParamsFile(opts.file)
		if err != nil {
			return newCommandError("read parameters", opts.file, err,
				"The file must contain a single YAML or JSON mapping of parameter names to values.")
		}
		for k, v := range fromFile {
			params[k] = v
		}
	}
	for _, raw := range opts.params {
		name, value, err := parseParam(raw)
		if err != nil {
			return newCommandError("parse parameter", raw, err, "Pass parameters as --param name=value.")
		}
		params[name] = value
	}

	logger.Debug(ctx, "calculating", "score_id", id, "params", len(params))
	result, err := app.Service.CalculateScore(ctx, id, params)
	if err != nil {
		return newCommandError("calculate score", string(id), err, calcSuggestion(err, id))
	}

	if opts.yamlOutput {
		return writeYAML(cmd.OutOrStdout(), map[string]any(result))
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func calcSuggestion(err error, id score.ID) string {
	switch {
	case score.IsCategory(err, score.CategoryInvalidParameters):
		return fmt.Sprintf("Run 'nobra show %s' to see the accepted parameters and ranges.", id)
	case score.IsCategory(err, score.CategoryNotFound):
		return "Run 'nobra list' to see available score ids."
	default:
		return "Re-run with --log-level debug for details."
	}
}

// parseParam splits name=value and decodes value as a YAML scalar so numbers
// arrive as numbers and everything else as strings.
func parseParam(raw string) (string, any, error) {
	name, value, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("expected name=value, got %q", raw)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return name, "", nil
	}
	var decoded any
	if err := yaml.Unmarshal([]byte(value), &decoded); err != nil {
		return name, value, nil
	}
	switch decoded.(type) {
	case map[string]any, []any, nil:
		return name, value, nil
	}
	return name, decoded, nil
}

func readParamsFile(path string) (score.Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	params := score.Parameters{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &params)
	} else {
		// JSON is valid YAML, so other extensions go through the YAML decoder.
		err = yaml.Unmarshal(data, &params)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return params, nil
}
