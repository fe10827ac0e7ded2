package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past import runs",
	Long: `Lists recent import runs, most recent first.
If a run ID is provided, shows that run with the outcome of every target.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

// historyLimit is a flag for the history command.
var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	if len(args) > 0 {
		run, err := historyService.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get run: %w", err)
		}
		printRun(cmd, run)
		return nil
	}

	runs, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No import runs recorded.")
		return nil
	}

	for i := range runs {
		run := &runs[i]
		cmd.Printf("%s  %s  %-8s %s %q\n",
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			phaseStyle(string(run.Phase)).Render(string(run.Phase)),
			run.FileKey,
			run.Pattern)
	}
	return nil
}

func printRun(cmd *cobra.Command, run *domain.ImportRun) {
	cmd.Println(titleStyle.Render("Run " + run.ID))
	cmd.Printf("  File:    %s\n", run.FileKey)
	cmd.Printf("  Pattern: %q\n", run.Pattern)
	cmd.Printf("  Output:  %s\n", run.OutputDir)
	cmd.Printf("  Phase:   %s\n", phaseStyle(string(run.Phase)).Render(string(run.Phase)))
	cmd.Printf("  Started: %s\n", run.StartedAt.Local().Format(time.DateTime))
	if !run.EndedAt.IsZero() {
		cmd.Printf("  Took:    %s\n", run.EndedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
	if run.Error != "" {
		cmd.Printf("  Error:   %s\n", failStyle.Render(run.Error))
	}
	if len(run.Targets) == 0 {
		return
	}

	cmd.Printf("  Targets: %d (%d failed)\n", len(run.Targets), run.CountFailed())
	for _, t := range run.Targets {
		if t.OK() {
			cmd.Printf("    %s %s %s -> %s\n", okStyle.Render("ok"), t.Name, formatBorder(t.Border), t.Path)
		} else {
			cmd.Printf("    %s %s: %s\n", failStyle.Render("failed"), t.Name, t.Error)
		}
	}
}
