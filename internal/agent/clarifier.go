// Package agent implements the four pipeline agents. Each agent builds one
// context string from the current state, makes exactly one generation call,
// parses the reply, and returns a result value. Agents never mutate state.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lucasnoah/gamesmith/internal/llm"
	"github.com/lucasnoah/gamesmith/internal/parse"
	"github.com/lucasnoah/gamesmith/internal/pipeline"
	"github.com/lucasnoah/gamesmith/internal/prompt"
)

// ClarifierResult is the clarifier's parsed reply.
type ClarifierResult struct {
	Complete     bool                   `json:"is_complete"`
	Questions    []string               `json:"questions"`
	Requirements *pipeline.Requirements `json:"requirements"`
}

// Clarifier extracts structured requirements from the user's idea and
// generates follow-up questions until the requirements are complete.
type Clarifier struct {
	Client llm.Client
	Log    *slog.Logger
}

// Run makes one clarification call. Unparseable replies degrade to a
// fallback asking the user for more detail; they never fail the run.
func (a Clarifier) Run(ctx context.Context, st *pipeline.State) (*ClarifierResult, error) {
	user, err := clarifierContext(st)
	if err != nil {
		return nil, fmt.Errorf("build clarifier context: %w", err)
	}

	raw, err := a.Client.Generate(ctx, "clarifier", prompt.ClarifierSystem, user)
	if err != nil {
		return nil, err
	}

	var res ClarifierResult
	if err := parse.Record(raw, &res); err != nil {
		a.Log.Warn("clarifier reply unparseable, using fallback", "error", err)
		return &ClarifierResult{
			Questions: []string{"Could you describe your game idea in more detail?"},
		}, nil
	}
	return &res, nil
}

func clarifierContext(st *pipeline.State) (string, error) {
	vars := prompt.Vars{"idea": st.OriginalRequest, "dialogue": "", "requirements": ""}

	if len(st.Dialogue) > 0 {
		var lines []string
		for _, msg := range st.Dialogue {
			lines = append(lines, fmt.Sprintf("  %s: %s", capitalize(msg.Role), msg.Content))
		}
		vars["dialogue"] = strings.Join(lines, "\n")
	}

	if st.Requirements != nil {
		data, err := json.Marshal(st.Requirements)
		if err == nil {
			vars["requirements"] = string(data)
		}
	}

	return prompt.Render(prompt.ClarifierContext, vars)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
