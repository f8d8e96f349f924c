package pipeline

// Phase names one stage of the build pipeline state machine.
type Phase string

const (
	PhaseClarifying Phase = "clarifying"
	PhasePlanning   Phase = "planning"
	PhaseGenerating Phase = "generating"
	PhaseValidating Phase = "validating"
	PhaseDone       Phase = "done"
)

// RequiredArtifacts lists the three files every generated game must contain.
var RequiredArtifacts = []string{"index.html", "style.css", "game.js"}

// AgentDecides is the sentinel a requirement field is set to when the user
// declines to answer. A field holding it counts as filled.
const AgentDecides = "Agent will decide"

// Message is one turn of the clarification dialogue.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Requirements holds the structured game requirements the Clarifier
// extracts. Fields are merged as clarification proceeds; a filled field is
// never overwritten with an empty one.
type Requirements struct {
	GameType           string   `json:"game_type,omitempty"`
	CoreMechanic       string   `json:"core_mechanic,omitempty"`
	WinCondition       string   `json:"win_condition,omitempty"`
	LoseCondition      string   `json:"lose_condition,omitempty"`
	ControlScheme      string   `json:"control_scheme,omitempty"`
	VisualStyle        string   `json:"visual_style,omitempty"`
	AdditionalFeatures []string `json:"additional_features,omitempty"`
}

// Plan is the game design document produced once by the Planner. Retries
// regenerate code from the same plan; the plan itself is never re-produced.
type Plan struct {
	Metadata     PlanMetadata   `json:"metadata" yaml:"metadata"`
	Mechanics    map[string]any `json:"core_mechanics,omitempty" yaml:"core_mechanics,omitempty"`
	Architecture Architecture   `json:"technical_architecture" yaml:"technical_architecture"`
	Assets       map[string]any `json:"asset_specifications,omitempty" yaml:"asset_specifications,omitempty"`
	Controls     map[string]any `json:"controls,omitempty" yaml:"controls,omitempty"`
	Rules        GameRules      `json:"game_rules" yaml:"game_rules"`
	Notes        map[string]any `json:"implementation_notes,omitempty" yaml:"implementation_notes,omitempty"`

	// RawPlan preserves the reply text when the Planner response could not
	// be decoded as JSON.
	RawPlan string `json:"raw_plan,omitempty" yaml:"raw_plan,omitempty"`
}

// PlanMetadata describes the game at a glance.
type PlanMetadata struct {
	GameTitle           string `json:"game_title" yaml:"game_title"`
	GameType            string `json:"game_type" yaml:"game_type"`
	Framework           string `json:"framework" yaml:"framework"`
	EstimatedComplexity string `json:"estimated_complexity" yaml:"estimated_complexity"`
}

// Architecture holds the technical design section of a plan.
type Architecture struct {
	FrameworkChoice FrameworkChoice   `json:"framework_choice" yaml:"framework_choice"`
	FileStructure   []string          `json:"file_structure,omitempty" yaml:"file_structure,omitempty"`
	GameSystems     map[string]string `json:"game_systems,omitempty" yaml:"game_systems,omitempty"`
}

// FrameworkChoice records the selected rendering framework and why.
type FrameworkChoice struct {
	Selected  string `json:"selected" yaml:"selected"`
	Reasoning string `json:"reasoning" yaml:"reasoning"`
}

// GameRules holds win/lose/scoring definitions.
type GameRules struct {
	WinCondition  string `json:"win_condition" yaml:"win_condition"`
	LoseCondition string `json:"lose_condition" yaml:"lose_condition"`
	Scoring       string `json:"scoring" yaml:"scoring"`
	Difficulty    string `json:"difficulty" yaml:"difficulty"`
}

// ValidationResult is the unified outcome of structural and semantic
// validation.
type ValidationResult struct {
	Valid       bool     `json:"is_valid"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// State is the single mutable record threaded through every phase. It is
// owned by the orchestrator; phase agents receive it read-only and return
// result values instead of mutating it.
type State struct {
	ID               string            `json:"id"`
	OriginalRequest  string            `json:"original_request"`
	Dialogue         []Message         `json:"dialogue"`
	PendingQuestions []string          `json:"pending_questions"`
	Requirements     *Requirements     `json:"requirements,omitempty"`
	Plan             *Plan             `json:"plan,omitempty"`
	Artifacts        map[string]string `json:"artifacts"`
	Phase            Phase             `json:"phase"`
	ValidationResult *ValidationResult `json:"validation_result,omitempty"`
	RetryCount       int               `json:"retry_count"`
	Done             bool              `json:"done"`
}

// NewState creates a fresh pipeline state for one build run.
func NewState(id string, request string) *State {
	return &State{
		ID:              id,
		OriginalRequest: request,
		Artifacts:       make(map[string]string),
		Phase:           PhaseClarifying,
	}
}
