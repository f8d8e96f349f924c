// Package orchestrator drives the build pipeline as a sequential state
// machine: clarifying → planning → generating → validating → done, with a
// bounded regeneration loop on validation failure.
//
// The orchestrator is the sole writer of the pipeline state. Phase agents
// receive the state read-only and return result values; every mutation
// happens in the transition logic here, making state changes auditable.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/lucasnoah/gamesmith/internal/agent"
	"github.com/lucasnoah/gamesmith/internal/config"
	"github.com/lucasnoah/gamesmith/internal/db"
	"github.com/lucasnoah/gamesmith/internal/llm"
	"github.com/lucasnoah/gamesmith/internal/pipeline"
	"github.com/lucasnoah/gamesmith/internal/validate"
)

// ErrNoRun indicates Step or Run was called before Start.
var ErrNoRun = errors.New("no run in progress")

// Orchestrator composes the phase agents, the artifact store, and the event
// log into one pipeline.
type Orchestrator struct {
	state     *pipeline.State
	clarifier agent.Clarifier
	planner   agent.Planner
	executor  agent.Executor
	validator agent.Validator
	store     *pipeline.Store
	db        *db.DB
	cfg       *config.Config
	log       *slog.Logger
}

// New creates an Orchestrator. database may be nil; event logging is
// best-effort and never fails a run.
func New(client llm.Client, store *pipeline.Store, database *db.DB, cfg *config.Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		clarifier: agent.Clarifier{Client: client, Log: logger},
		planner:   agent.Planner{Client: client, Log: logger},
		executor:  agent.Executor{Client: client, Log: logger},
		validator: agent.Validator{Client: client, Log: logger},
		store:     store,
		db:        database,
		cfg:       cfg,
		log:       logger,
	}
}

// Start initialises a fresh run for the given request and returns its state.
func (o *Orchestrator) Start(request string) *pipeline.State {
	o.state = pipeline.NewState(uuid.NewString(), request)
	if o.db != nil {
		_ = o.db.CreateRun(o.state.ID, request)
	}
	o.logEvent("created", "")
	o.log.Info("run started", "run", o.state.ID)
	return o.state
}

// State returns the current run's state.
func (o *Orchestrator) State() *pipeline.State {
	return o.state
}

// AwaitingAnswers reports whether the run is suspended on clarification
// questions. The orchestrator never blocks on human input itself; the
// presentation layer collects answers out-of-band and calls ApplyAnswers.
func (o *Orchestrator) AwaitingAnswers() bool {
	return o.state != nil &&
		o.state.Phase == pipeline.PhaseClarifying &&
		len(o.state.PendingQuestions) > 0
}

// Run advances the pipeline until it is done or suspended awaiting answers.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.state == nil {
		return ErrNoRun
	}
	for !o.state.Done {
		if o.AwaitingAnswers() {
			return nil
		}
		if err := o.Step(ctx); err != nil {
			if o.db != nil {
				_ = o.db.UpdateRunStatus(o.state.ID, "failed")
			}
			return err
		}
	}
	return nil
}

// Step executes the entry action of the current phase and applies the
// resulting transition. Calling Step on a finished run is a no-op.
func (o *Orchestrator) Step(ctx context.Context) error {
	if o.state == nil {
		return ErrNoRun
	}

	switch o.state.Phase {
	case pipeline.PhaseClarifying:
		return o.stepClarifying(ctx)
	case pipeline.PhasePlanning:
		return o.stepPlanning(ctx)
	case pipeline.PhaseGenerating:
		return o.stepGenerating(ctx)
	case pipeline.PhaseValidating:
		return o.stepValidating(ctx)
	case pipeline.PhaseDone:
		return nil
	default:
		return fmt.Errorf("unknown phase %q", o.state.Phase)
	}
}

// ApplyAnswers feeds the user's answers to the pending questions back into
// the dialogue and clears the questions, so the next step re-enters the
// clarifier with the new information. Blank answers defer to the agent.
func (o *Orchestrator) ApplyAnswers(answers []string) {
	if o.state == nil {
		return
	}
	for i, q := range o.state.PendingQuestions {
		answer := "No preference, use your best judgement."
		if i < len(answers) && strings.TrimSpace(answers[i]) != "" {
			answer = answers[i]
		}
		o.state.Dialogue = append(o.state.Dialogue,
			pipeline.Message{Role: "assistant", Content: q},
			pipeline.Message{Role: "user", Content: answer},
		)
	}
	o.state.PendingQuestions = nil
	o.logEvent("answers_applied", "")
}

// FinishClarification moves the run to planning with whatever requirements
// were gathered. The presentation layer calls this when its question-round
// budget is spent.
func (o *Orchestrator) FinishClarification() {
	if o.state == nil || o.state.Phase != pipeline.PhaseClarifying {
		return
	}
	o.state.PendingQuestions = nil
	o.transition(pipeline.PhasePlanning, "clarification_rounds_exhausted", "")
}

// --- phase entry actions ---

func (o *Orchestrator) stepClarifying(ctx context.Context) error {
	res, err := o.clarifier.Run(ctx, o.state)
	if err != nil {
		return fmt.Errorf("clarifier: %w", err)
	}

	if o.state.Requirements == nil {
		o.state.Requirements = &pipeline.Requirements{}
	}
	o.state.Requirements.Merge(res.Requirements)
	o.state.PendingQuestions = res.Questions

	filled := o.state.Requirements.FilledCount()
	if res.Complete || filled >= o.cfg.Clarifier.MinFilledFields {
		o.state.PendingQuestions = nil
		o.transition(pipeline.PhasePlanning, "requirements_complete", fmt.Sprintf("filled=%d", filled))
		return nil
	}

	o.log.Info("clarifier returned questions", "count", len(res.Questions), "filled", filled)
	o.logEvent("questions_pending", fmt.Sprintf("count=%d", len(res.Questions)))
	return nil
}

func (o *Orchestrator) stepPlanning(ctx context.Context) error {
	// The plan is produced once; a retry regenerates code from the same plan.
	if o.state.Plan == nil {
		plan, err := o.planner.Run(ctx, o.state)
		if err != nil {
			return fmt.Errorf("planner: %w", err)
		}
		o.state.Plan = plan
	}
	o.transition(pipeline.PhaseGenerating, "plan_ready", o.state.Plan.Title())
	return nil
}

func (o *Orchestrator) stepGenerating(ctx context.Context) error {
	files, err := o.executor.Run(ctx, o.state)
	if err != nil {
		return fmt.Errorf("executor: %w", err)
	}
	o.state.Artifacts = files
	o.transition(pipeline.PhaseValidating, "artifacts_generated", fmt.Sprintf("attempt=%d", o.state.RetryCount+1))
	return nil
}

func (o *Orchestrator) stepValidating(ctx context.Context) error {
	// Layer 1: deterministic structural checks. A failure here short-circuits
	// the semantic review; no external call is made.
	ok, issues := validate.Run(o.state.Artifacts, o.state.Plan)

	var result *pipeline.ValidationResult
	if !ok {
		o.log.Warn("structural validation failed", "issues", len(issues))
		o.logEvent("structural_validation_failed", fmt.Sprintf("issues=%d", len(issues)))
		result = &pipeline.ValidationResult{
			Issues:      issues,
			Suggestions: []string{"Fix the structural issues above and regenerate."},
		}
	} else {
		// Layer 2: semantic review by the validator agent.
		r, err := o.validator.Run(ctx, o.state)
		if err != nil {
			return fmt.Errorf("validator: %w", err)
		}
		result = r
	}

	o.state.ValidationResult = result
	if result.Valid {
		o.persistOutput()
		o.complete("completed")
		return nil
	}
	o.handleRetry(result)
	return nil
}

// handleRetry increments the retry counter and either re-enters generation
// or terminates the run with the best artifacts obtained. Exhausting the
// budget is not an error: the run still reaches done, and the validation
// result communicates the degraded quality.
func (o *Orchestrator) handleRetry(result *pipeline.ValidationResult) {
	if o.state.RetryCount < o.cfg.MaxRetries {
		o.state.RetryCount++
	}
	o.log.Warn("validation failed",
		"attempt", o.state.RetryCount,
		"max", o.cfg.MaxRetries,
		"issues", strings.Join(result.Issues, "; "),
	)
	o.logEvent("validation_failed", fmt.Sprintf("attempt=%d issues=%d", o.state.RetryCount, len(result.Issues)))

	if o.state.RetryCount >= o.cfg.MaxRetries {
		o.log.Warn("retry budget exhausted, keeping best available artifacts", "max", o.cfg.MaxRetries)
		o.persistFailed()
		if hasContent(o.state.Artifacts) {
			o.persistOutput()
		}
		o.complete("best_effort")
		return
	}
	o.transition(pipeline.PhaseGenerating, "retry", fmt.Sprintf("attempt=%d", o.state.RetryCount+1))
}

// --- helpers ---

func (o *Orchestrator) transition(next pipeline.Phase, event string, detail string) {
	o.log.Info("phase transition", "from", o.state.Phase, "to", next, "event", event)
	o.state.Phase = next
	o.logEvent(event, detail)
}

func (o *Orchestrator) complete(status string) {
	o.state.Phase = pipeline.PhaseDone
	o.state.Done = true
	if o.db != nil {
		_ = o.db.UpdateRunStatus(o.state.ID, status)
	}
	o.logEvent(status, "")
	o.log.Info("run finished", "run", o.state.ID, "status", status, "retries", o.state.RetryCount)
}

// persistOutput saves the artifacts to the output area. Fire-and-forget:
// persistence problems are logged, never consumed by orchestration logic.
func (o *Orchestrator) persistOutput() {
	dir, err := o.store.Save(o.state.Artifacts, o.state.Plan.Title())
	if err != nil {
		o.log.Error("save artifacts", "error", err)
		return
	}
	o.log.Info("artifacts saved", "dir", dir)
}

// persistFailed saves the last attempt to the failed-attempts area.
func (o *Orchestrator) persistFailed() {
	if !hasContent(o.state.Artifacts) {
		return
	}
	dir, err := o.store.SaveFailed(o.state.Artifacts, o.state.RetryCount)
	if err != nil {
		o.log.Error("save failed attempt", "error", err)
		return
	}
	o.log.Info("failed attempt saved", "dir", dir)
}

func (o *Orchestrator) logEvent(event string, detail string) {
	if o.db == nil || o.state == nil {
		return
	}
	_ = o.db.LogRunEvent(o.state.ID, event, string(o.state.Phase), o.state.RetryCount, detail)
}

func hasContent(artifacts map[string]string) bool {
	for _, content := range artifacts {
		if strings.TrimSpace(content) != "" {
			return true
		}
	}
	return false
}
