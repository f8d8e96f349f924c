package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagEventLimit int

var eventsCmd = &cobra.Command{
	Use:   "events [run-id]",
	Short: "List recent runs, or the event history of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().IntVar(&flagEventLimit, "limit", 0, "maximum rows to print")
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	database := openDB(cfg, logger)
	if database == nil {
		return fmt.Errorf("event log unavailable")
	}
	defer database.Close()

	if len(args) == 0 {
		runs, err := database.ListRuns(flagEventLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("%s  %-12s  %s  %s\n", r.ID, r.Status, r.CreatedAt, r.Request)
		}
		return nil
	}

	events, err := database.ListRunEvents(args[0], flagEventLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("no events for run", args[0])
		return nil
	}
	for _, e := range events {
		line := fmt.Sprintf("%s  %-28s  phase=%-11s attempt=%d", e.Timestamp, e.Event, e.Phase, e.Attempt)
		if e.Detail != "" {
			line += "  " + e.Detail
		}
		fmt.Println(line)
	}
	return nil
}
