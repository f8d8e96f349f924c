package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/gamesmith/internal/config"
	"github.com/lucasnoah/gamesmith/internal/db"
	"github.com/lucasnoah/gamesmith/internal/llm"
	"github.com/lucasnoah/gamesmith/internal/orchestrator"
	"github.com/lucasnoah/gamesmith/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build [idea]",
	Short: "Build a playable browser game from an idea",
	Long: `Build runs the full pipeline for one game idea. The idea is taken from
the arguments, or read interactively when none are given. Clarification
questions, when the pipeline has any, are asked on the terminal.`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger()
	reader := bufio.NewReader(os.Stdin)

	idea := strings.TrimSpace(strings.Join(args, " "))
	if idea == "" {
		fmt.Print("Enter your game idea:\n→ ")
		line, _ := reader.ReadString('\n')
		idea = strings.TrimSpace(line)
	}
	if idea == "" {
		return fmt.Errorf("no game idea provided")
	}

	client, err := llm.NewService(cfg.API.BaseURL, cfg.APIKey(), agentOptions(cfg), cfg.Timeout(), logger)
	if err != nil {
		return err
	}

	store := pipeline.NewStore(cfg.OutputDir)
	database := openDB(cfg, logger)
	if database != nil {
		defer database.Close()
	}

	orch := orchestrator.New(client, store, database, cfg, logger)
	orch.Start(idea)
	ctx := cmd.Context()

	// Clarification loop. The round budget belongs to this layer, not the
	// orchestrator; it never blocks on human input.
	for round := 0; round < cfg.Clarifier.MaxRounds; round++ {
		if err := orch.Step(ctx); err != nil {
			return err
		}
		if !orch.AwaitingAnswers() {
			break
		}
		questions := orch.State().PendingQuestions
		fmt.Println("\nA few quick questions to refine your game:")
		answers := make([]string, 0, len(questions))
		for i, q := range questions {
			fmt.Printf("%d. %s\n   → ", i+1, q)
			line, _ := reader.ReadString('\n')
			answers = append(answers, strings.TrimSpace(line))
		}
		fmt.Println()
		orch.ApplyAnswers(answers)
	}
	if orch.State().Phase == pipeline.PhaseClarifying {
		orch.FinishClarification()
	}

	if err := orch.Run(ctx); err != nil {
		return err
	}

	printSummary(orch.State())
	return nil
}

// openDB opens the run event log. A broken database degrades to no event
// logging rather than failing the build.
func openDB(cfg *config.Config, logger *slog.Logger) *db.DB {
	path := cfg.DBPath
	if path == "" {
		p, err := config.DefaultDBPath()
		if err != nil {
			logger.Warn("event log unavailable", "error", err)
			return nil
		}
		path = p
	}
	database, err := db.Open(path)
	if err != nil {
		logger.Warn("event log unavailable", "error", err)
		return nil
	}
	if err := database.Migrate(); err != nil {
		logger.Warn("event log migration failed", "error", err)
		database.Close()
		return nil
	}
	return database
}

// agentOptions converts the config's per-agent options into client options.
func agentOptions(cfg *config.Config) map[string]llm.Options {
	out := make(map[string]llm.Options, len(cfg.Agents))
	for name, a := range cfg.Agents {
		out[name] = llm.Options{
			Model:       a.Model,
			Temperature: a.Temperature,
			MaxTokens:   a.MaxOutputTokens,
			TopP:        a.TopP,
			TopK:        a.TopK,
		}
	}
	return out
}

func printSummary(st *pipeline.State) {
	if st.Plan != nil {
		fmt.Printf("\nGame: %s\n", st.Plan.Title())
		if st.Plan.Metadata.GameType != "" {
			fmt.Printf("  Type:      %s\n", st.Plan.Metadata.GameType)
		}
		if fw := st.Plan.Framework(); fw != "" {
			fmt.Printf("  Framework: %s\n", fw)
		}
		if st.Plan.Rules.WinCondition != "" {
			fmt.Printf("  Win:       %s\n", st.Plan.Rules.WinCondition)
		}
	}

	fmt.Println("\nGenerated files:")
	for _, name := range pipeline.RequiredArtifacts {
		fmt.Printf("  %-12s %6.1f KB\n", name, float64(len(st.Artifacts[name]))/1024)
	}

	if vr := st.ValidationResult; vr != nil && !vr.Valid {
		fmt.Printf("\nCompleted with %d unresolved issue(s) after %d retries:\n", len(vr.Issues), st.RetryCount)
		for _, issue := range vr.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	} else {
		fmt.Println("\nValidation passed. Open index.html in your browser to play!")
	}
}
