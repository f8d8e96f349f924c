package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lucasnoah/gamesmith/internal/llm"
	"github.com/lucasnoah/gamesmith/internal/parse"
	"github.com/lucasnoah/gamesmith/internal/pipeline"
	"github.com/lucasnoah/gamesmith/internal/prompt"
)

// Validator performs the semantic review layer: a second model call that can
// catch issues deterministic pattern matching cannot. The structural layer
// runs in the orchestrator before this agent is ever invoked.
type Validator struct {
	Client llm.Client
	Log    *slog.Logger
}

// Run makes one review call. An unparseable reply is treated as a failed
// validation, never as success.
func (a Validator) Run(ctx context.Context, st *pipeline.State) (*pipeline.ValidationResult, error) {
	raw, err := a.Client.Generate(ctx, "validator", prompt.ValidatorSystem, codeSummary(st.Artifacts))
	if err != nil {
		return nil, err
	}

	var res pipeline.ValidationResult
	if err := parse.Record(raw, &res); err != nil {
		a.Log.Warn("validator reply unparseable, treating as failure", "error", err)
		return &pipeline.ValidationResult{
			Valid:  false,
			Issues: []string{"validator response was not valid JSON, treated as failure"},
		}, nil
	}
	return &res, nil
}

// codeSummary assembles the generated files into one review context.
func codeSummary(artifacts map[string]string) string {
	var parts []string
	for _, name := range pipeline.RequiredArtifacts {
		parts = append(parts, fmt.Sprintf("=== %s ===\n%s\n", name, artifacts[name]))
	}
	return strings.Join(parts, "\n")
}
