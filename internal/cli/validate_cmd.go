package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/gamesmith/internal/pipeline"
	"github.com/lucasnoah/gamesmith/internal/validate"
)

var flagPlanPath string

var validateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Run the structural checks against a directory of game files",
	Long: `Validate reads index.html, style.css, and game.js from the given
directory and runs the offline structural checks against them, optionally
checking framework consistency against a plan JSON file.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&flagPlanPath, "plan", "", "path to a plan JSON file for consistency checks")
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir := args[0]

	artifacts := make(map[string]string, len(pipeline.RequiredArtifacts))
	for _, name := range pipeline.RequiredArtifacts {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("read %s: %w", name, err)
		}
		artifacts[name] = string(data)
	}

	var plan *pipeline.Plan
	if flagPlanPath != "" {
		data, err := os.ReadFile(flagPlanPath)
		if err != nil {
			return fmt.Errorf("read plan: %w", err)
		}
		plan = &pipeline.Plan{}
		if err := json.Unmarshal(data, plan); err != nil {
			return fmt.Errorf("parse plan: %w", err)
		}
	}

	ok, issues := validate.Run(artifacts, plan)
	if ok {
		fmt.Println("all structural checks passed")
		return nil
	}
	for _, issue := range issues {
		fmt.Printf("  - %s\n", issue)
	}
	return fmt.Errorf("validation failed with %d issue(s)", len(issues))
}
