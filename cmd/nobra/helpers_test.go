package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

type commandResult struct {
	stdout string
	stderr string
	err    error
}

// executeCommand runs the root command against source from an empty working
// directory so no stray nobra.yaml is picked up.
func executeCommand(t *testing.T, source ports.CalculatorSource, args ...string) commandResult {
	t.Helper()
	t.Chdir(t.TempDir())

	root := newRootCmdWithSource(source)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return commandResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

type faultyParams struct {
	Mode string `json:"mode" validate:"oneof=ok panic"`
}

// faultyCatalog holds a calculator that panics on request and one whose
// factory always fails.
func faultyCatalog(t *testing.T) *plugin.Catalog {
	t.Helper()
	catalog := plugin.NewCatalog()

	meta := score.Metadata{
		ID:         "faulty_score",
		Title:      "Faulty Score",
		Category:   "testing",
		ResultUnit: "points",
		Parameters: []score.ParameterSpec{
			{Name: "mode", Type: score.TypeString, Required: true, Options: []string{"ok", "panic"}},
		},
		Example: score.Parameters{"mode": "ok"},
	}
	err := catalog.Register(meta.ID, plugin.Factory(meta, func(p faultyParams) (score.Result, error) {
		if p.Mode == "panic" {
			panic("faulty calculator")
		}
		return score.NewResult(1, "points", "fine", "Normal", "Nothing to report"), nil
	}))
	if err != nil {
		t.Fatalf("register faulty_score: %v", err)
	}

	err = catalog.Register("broken_score", func() (ports.Calculator, error) {
		return nil, errors.New("dependency unavailable")
	})
	if err != nil {
		t.Fatalf("register broken_score: %v", err)
	}
	return catalog
}
