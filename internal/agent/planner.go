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

// Planner turns finalised requirements into a structured game design
// document.
type Planner struct {
	Client llm.Client
	Log    *slog.Logger
}

// Run makes one planning call. When no JSON can be recovered from the reply
// the raw text is preserved in a minimal fallback plan.
func (a Planner) Run(ctx context.Context, st *pipeline.State) (*pipeline.Plan, error) {
	user, err := prompt.Render(prompt.PlannerContext, prompt.Vars{
		"requirements": FormatRequirements(st.Requirements),
		"idea":         st.OriginalRequest,
	})
	if err != nil {
		return nil, fmt.Errorf("build planner context: %w", err)
	}

	raw, err := a.Client.Generate(ctx, "planner", prompt.PlannerSystem, user)
	if err != nil {
		return nil, err
	}

	var plan pipeline.Plan
	if err := parse.Record(raw, &plan); err != nil {
		a.Log.Warn("planner reply unparseable, keeping raw plan text", "error", err)
		return &pipeline.Plan{
			Metadata: pipeline.PlanMetadata{
				GameTitle: "Generated Game",
				Framework: "vanilla-js",
			},
			RawPlan: strings.TrimSpace(raw),
		}, nil
	}
	return &plan, nil
}

// FormatRequirements renders the requirements record as a readable bullet
// list for prompt contexts.
func FormatRequirements(r *pipeline.Requirements) string {
	if r == nil {
		return "No structured requirements available."
	}

	var lines []string
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", label, value))
		}
	}
	add("Game Type", r.GameType)
	add("Core Mechanic", r.CoreMechanic)
	add("Win Condition", r.WinCondition)
	add("Lose Condition", r.LoseCondition)
	add("Control Scheme", r.ControlScheme)
	add("Visual Style", r.VisualStyle)
	if len(r.AdditionalFeatures) > 0 {
		add("Additional Features", strings.Join(r.AdditionalFeatures, ", "))
	}

	if len(lines) == 0 {
		return "No structured requirements available."
	}
	return strings.Join(lines, "\n")
}
