package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lucasnoah/gamesmith/internal/config"
	"github.com/lucasnoah/gamesmith/internal/db"
	"github.com/lucasnoah/gamesmith/internal/pipeline"
)

// scriptedClient replies per agent identity from a queue, repeating the last
// entry once the queue is spent, and counts calls per agent.
type scriptedClient struct {
	replies map[string][]string
	calls   map[string]int
}

func newScriptedClient() *scriptedClient {
	return &scriptedClient{
		replies: make(map[string][]string),
		calls:   make(map[string]int),
	}
}

func (c *scriptedClient) on(agent string, replies ...string) {
	c.replies[agent] = append(c.replies[agent], replies...)
}

func (c *scriptedClient) Generate(_ context.Context, agent string, _ string, _ string) (string, error) {
	queue := c.replies[agent]
	if len(queue) == 0 {
		return "", fmt.Errorf("no scripted reply for agent %q", agent)
	}
	i := c.calls[agent]
	c.calls[agent]++
	if i >= len(queue) {
		i = len(queue) - 1
	}
	return queue[i], nil
}

const (
	clarifierComplete = `{"is_complete": true, "requirements": {
		"game_type": "arcade", "core_mechanic": "bounce the ball",
		"win_condition": "first to 10", "lose_condition": "opponent reaches 10",
		"control_scheme": "arrow keys", "visual_style": "retro"
	}}`

	plannerReply = `{"metadata": {"game_title": "Pong", "framework": "vanilla-js"},
		"technical_architecture": {"framework_choice": {"selected": "vanilla-js"}}}`

	validatorPass = `{"is_valid": true, "issues": [], "suggestions": []}`
	validatorFail = `{"is_valid": false, "issues": ["ball tunnels through paddles"], "suggestions": ["use swept collision"]}`
)

// executorReply produces three fenced blocks that pass structural validation
// for a vanilla-js plan.
func executorReply() string {
	html := `<!DOCTYPE html>
<html>
<head><title>Pong</title><link rel="stylesheet" href="style.css"></head>
<body>
  <canvas id="game" width="800" height="600"></canvas>
  <script src="game.js"></script>
</body>
</html>`
	css := `body { margin: 0; padding: 0; background: #111; display: flex; }
canvas { display: block; margin: auto; border: 1px solid #444; }
#score { color: #fff; font-family: monospace; font-size: 24px; }`
	js := `const canvas = document.getElementById('game');
const ctx = canvas.getContext('2d');
let score = 0;
function update() {
  ctx.clearRect(0, 0, canvas.width, canvas.height);
  score += 1;
  requestAnimationFrame(update);
}
document.addEventListener('keydown', function (e) { score = 0; });
requestAnimationFrame(update);`
	return "```html\n" + html + "\n```\n\n```css\n" + css + "\n```\n\n```javascript\n" + js + "\n```"
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	return cfg
}

func newTestOrchestrator(t *testing.T, client *scriptedClient, cfg *config.Config) *Orchestrator {
	t.Helper()
	store := pipeline.NewStore(cfg.OutputDir)
	return New(client, store, nil, cfg, discard())
}

func TestRun_HappyPath(t *testing.T) {
	client := newScriptedClient()
	client.on("clarifier", clarifierComplete)
	client.on("planner", plannerReply)
	client.on("executor", executorReply())
	client.on("validator", validatorPass)

	cfg := testConfig(t)
	orch := newTestOrchestrator(t, client, cfg)
	orch.Start("two player pong")

	if err := orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	st := orch.State()
	if !st.Done || st.Phase != pipeline.PhaseDone {
		t.Fatalf("run not finished: phase=%s done=%v", st.Phase, st.Done)
	}
	if st.RetryCount != 0 {
		t.Errorf("RetryCount = %d", st.RetryCount)
	}
	if st.ValidationResult == nil || !st.ValidationResult.Valid {
		t.Errorf("validation result = %+v", st.ValidationResult)
	}
	if st.Requirements.GameType != "arcade" {
		t.Errorf("requirements not merged: %+v", st.Requirements)
	}
	for name, count := range map[string]int{"clarifier": 1, "planner": 1, "executor": 1, "validator": 1} {
		if client.calls[name] != count {
			t.Errorf("%s called %d times, want %d", name, client.calls[name], count)
		}
	}

	// Artifacts land under the slugified plan title.
	outDir := filepath.Join(cfg.OutputDir, "pong")
	for _, name := range pipeline.RequiredArtifacts {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("output artifact %s missing: %v", name, err)
		}
	}
}

func TestRun_SuspendsOnQuestions(t *testing.T) {
	client := newScriptedClient()
	client.on("clarifier",
		`{"is_complete": false, "questions": ["What is the win condition?", "Which controls?"]}`,
		clarifierComplete,
	)
	client.on("planner", plannerReply)
	client.on("executor", executorReply())
	client.on("validator", validatorPass)

	orch := newTestOrchestrator(t, client, testConfig(t))
	orch.Start("a pong game")

	if err := orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !orch.AwaitingAnswers() {
		t.Fatal("expected run suspended on questions")
	}
	if orch.State().Done {
		t.Fatal("run must not finish while awaiting answers")
	}

	orch.ApplyAnswers([]string{"first to 10", ""})
	if orch.AwaitingAnswers() {
		t.Fatal("answers applied but still awaiting")
	}

	st := orch.State()
	if len(st.Dialogue) != 4 {
		t.Fatalf("dialogue = %v", st.Dialogue)
	}
	if st.Dialogue[1].Content != "first to 10" {
		t.Errorf("first answer = %q", st.Dialogue[1].Content)
	}
	if st.Dialogue[3].Content != "No preference, use your best judgement." {
		t.Errorf("blank answer default = %q", st.Dialogue[3].Content)
	}

	if err := orch.Run(context.Background()); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !orch.State().Done {
		t.Fatal("run did not finish after answers")
	}
	if client.calls["clarifier"] != 2 {
		t.Errorf("clarifier called %d times", client.calls["clarifier"])
	}
}

func TestRun_ThresholdCompletesClarification(t *testing.T) {
	// The agent keeps asking, but enough fields are filled to move on.
	client := newScriptedClient()
	client.on("clarifier", `{"is_complete": false,
		"questions": ["Anything else?"],
		"requirements": {"game_type": "arcade", "core_mechanic": "bounce",
			"win_condition": "first to 10", "control_scheme": "arrows"}}`)
	client.on("planner", plannerReply)
	client.on("executor", executorReply())
	client.on("validator", validatorPass)

	orch := newTestOrchestrator(t, client, testConfig(t))
	orch.Start("pong")

	if err := orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !orch.State().Done {
		t.Fatal("run did not finish")
	}
	if client.calls["clarifier"] != 1 {
		t.Errorf("clarifier called %d times", client.calls["clarifier"])
	}
}

func TestRun_RetryBudgetExhausted(t *testing.T) {
	client := newScriptedClient()
	client.on("clarifier", clarifierComplete)
	client.on("planner", plannerReply)
	client.on("executor", executorReply())
	client.on("validator", validatorFail)

	cfg := testConfig(t)
	cfg.MaxRetries = 3
	orch := newTestOrchestrator(t, client, cfg)
	orch.Start("pong")

	if err := orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	st := orch.State()
	if !st.Done {
		t.Fatal("exhausted run must still reach done")
	}
	if st.RetryCount != 3 {
		t.Errorf("RetryCount = %d, want 3", st.RetryCount)
	}
	if st.ValidationResult.Valid {
		t.Error("final validation result must stay invalid")
	}
	if client.calls["executor"] != 3 {
		t.Errorf("executor called %d times, want 3", client.calls["executor"])
	}
	if client.calls["validator"] != 3 {
		t.Errorf("validator called %d times, want 3", client.calls["validator"])
	}
	if client.calls["planner"] != 1 {
		t.Errorf("planner called %d times, plan must not be regenerated", client.calls["planner"])
	}

	// Best-effort output is still persisted, plus a failed-attempt snapshot.
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "pong", "game.js")); err != nil {
		t.Errorf("best-effort output missing: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(cfg.OutputDir, "failed"))
	if err != nil || len(entries) == 0 {
		t.Errorf("failed-attempt snapshot missing: %v", err)
	}
}

func TestRun_StructuralFailureSkipsSemanticReview(t *testing.T) {
	client := newScriptedClient()
	client.on("clarifier", clarifierComplete)
	client.on("planner", plannerReply)
	// game.js block missing entirely.
	client.on("executor", "```html\n<!DOCTYPE html><html><canvas></canvas><script></script></html>\n```\n```css\nbody { margin: 0; }\n```")
	client.on("validator", validatorPass)

	cfg := testConfig(t)
	cfg.MaxRetries = 1
	orch := newTestOrchestrator(t, client, cfg)
	orch.Start("pong")

	if err := orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if client.calls["validator"] != 0 {
		t.Errorf("semantic validator called %d times on structural failure", client.calls["validator"])
	}
	st := orch.State()
	if st.ValidationResult.Valid {
		t.Error("expected structural failure result")
	}
	found := false
	for _, issue := range st.ValidationResult.Issues {
		if strings.Contains(issue, "game.js") {
			found = true
		}
	}
	if !found {
		t.Errorf("issues do not name the missing artifact: %v", st.ValidationResult.Issues)
	}
}

func TestFinishClarification(t *testing.T) {
	client := newScriptedClient()
	client.on("clarifier", `{"is_complete": false, "questions": ["More detail?"]}`)
	client.on("planner", plannerReply)
	client.on("executor", executorReply())
	client.on("validator", validatorPass)

	orch := newTestOrchestrator(t, client, testConfig(t))
	orch.Start("pong")

	if err := orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !orch.AwaitingAnswers() {
		t.Fatal("expected pending questions")
	}

	orch.FinishClarification()
	if orch.State().Phase != pipeline.PhasePlanning {
		t.Fatalf("phase = %s", orch.State().Phase)
	}
	if err := orch.Run(context.Background()); err != nil {
		t.Fatalf("Run after finish: %v", err)
	}
	if !orch.State().Done {
		t.Fatal("run did not finish")
	}
	if client.calls["clarifier"] != 1 {
		t.Errorf("clarifier re-entered after FinishClarification: %d calls", client.calls["clarifier"])
	}
}

func TestStepBeforeStart(t *testing.T) {
	orch := newTestOrchestrator(t, newScriptedClient(), testConfig(t))
	if err := orch.Step(context.Background()); err != ErrNoRun {
		t.Errorf("Step = %v, want ErrNoRun", err)
	}
	if err := orch.Run(context.Background()); err != ErrNoRun {
		t.Errorf("Run = %v, want ErrNoRun", err)
	}
}

func TestRun_EventLog(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer database.Close()
	if err := database.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	client := newScriptedClient()
	client.on("clarifier", clarifierComplete)
	client.on("planner", plannerReply)
	client.on("executor", executorReply())
	client.on("validator", validatorPass)

	cfg := testConfig(t)
	store := pipeline.NewStore(cfg.OutputDir)
	orch := New(client, store, database, cfg, discard())
	st := orch.Start("pong")

	if err := orch.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	runs, err := database.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != "completed" {
		t.Fatalf("runs = %+v", runs)
	}

	events, err := database.ListRunEvents(st.ID, 0)
	if err != nil {
		t.Fatalf("ListRunEvents: %v", err)
	}
	seen := make(map[string]bool)
	for _, e := range events {
		seen[e.Event] = true
	}
	for _, want := range []string{"created", "requirements_complete", "plan_ready", "artifacts_generated", "completed"} {
		if !seen[want] {
			t.Errorf("event %q not logged; got %v", want, events)
		}
	}
}
