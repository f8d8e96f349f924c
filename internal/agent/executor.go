package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lucasnoah/gamesmith/internal/llm"
	"github.com/lucasnoah/gamesmith/internal/parse"
	"github.com/lucasnoah/gamesmith/internal/pipeline"
	"github.com/lucasnoah/gamesmith/internal/prompt"
)

// Executor generates the three game files from the plan.
type Executor struct {
	Client llm.Client
	Log    *slog.Logger
}

// Run makes one generation call and extracts the artifacts from the reply.
// On a retry the prior validation issues are appended to the context so the
// regenerated code can address them. Artifacts that cannot be extracted come
// back as empty strings; the structural validator reports them.
func (a Executor) Run(ctx context.Context, st *pipeline.State) (map[string]string, error) {
	issues := ""
	if st.RetryCount > 0 && st.ValidationResult != nil && len(st.ValidationResult.Issues) > 0 {
		var lines []string
		for _, issue := range st.ValidationResult.Issues {
			lines = append(lines, "- "+issue)
		}
		issues = strings.Join(lines, "\n")
	}

	user, err := prompt.Render(prompt.ExecutorContext, prompt.Vars{
		"plan":   renderPlan(st.Plan),
		"issues": issues,
	})
	if err != nil {
		return nil, fmt.Errorf("build executor context: %w", err)
	}

	raw, err := a.Client.Generate(ctx, "executor", prompt.ExecutorSystem, user)
	if err != nil {
		return nil, err
	}

	files, missing := parse.Artifacts(raw)
	for _, name := range missing {
		a.Log.Warn("could not extract artifact from executor reply", "artifact", name)
	}
	return files, nil
}

// renderPlan serialises the plan as YAML for the prompt; YAML reads better
// than JSON in model context.
func renderPlan(plan *pipeline.Plan) string {
	if plan == nil {
		return "No plan available."
	}
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Sprintf("%+v", plan)
	}
	return string(data)
}
