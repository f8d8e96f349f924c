package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/gamesmith/internal/config"
)

var version = "dev"

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gamesmith",
	Short: "An agentic browser-game builder",
	Long: `gamesmith turns a one-line game idea into a playable HTML/CSS/JS game
through a four-agent pipeline: clarify requirements, plan the design,
generate the code, and validate it with structural checks plus a model
review, retrying generation a bounded number of times.

Generated games land in the output directory; run history is stored in
~/.gamesmith/ (SQLite).`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default: ./gamesmith.yaml, ~/.gamesmith/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the configuration honoring the --config flag.
func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		return config.Load(flagConfig)
	}
	return config.LoadDefault()
}

// newLogger builds the process logger. Debug level with --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
