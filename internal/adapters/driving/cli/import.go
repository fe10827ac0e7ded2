package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
	"github.com/custodia-labs/nineslice-cli/internal/core/ports/driving"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import nine-slice sprites from a Figma file",
	Long: `Fetches the Figma file, selects every layer whose name matches the
pattern, renders each one to PNG and writes it to the output directory with
its nine-slice border.

Flags override environment variables, which override the config file.
A failed target does not stop the others; the command exits with an error
if the run aborted or any target failed.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List targets and their borders without importing",
	Long: `Fetches the Figma file and prints every layer that would be imported,
with the border inferred for it. No images are downloaded or written.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

// progressInterval is how often import progress is polled.
var progressInterval = 500 * time.Millisecond

func init() {
	addSourceFlags(importCmd.Flags())
	importCmd.Flags().StringP("out", "o", "", "Existing directory to write sprites to")
	importCmd.Flags().Float64("scale", 0, "Image export scale (default 1)")
	importCmd.Flags().IntP("concurrency", "j", 0, "Targets fetched and written at once (default 4)")

	addSourceFlags(inspectCmd.Flags())

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(inspectCmd)
}

func addSourceFlags(flags *pflag.FlagSet) {
	flags.StringP("file", "f", "", "Figma file key")
	flags.String("token", "", "Figma access token")
	flags.String("token-type", "", "Token type: pat or oauth")
	flags.StringP("pattern", "p", "", "Regular expression matched against layer names")
}

// resolveImportConfig layers command-line flags over the saved settings.
func resolveImportConfig(cmd *cobra.Command) (domain.ImportConfig, error) {
	cfg := domain.DefaultImportConfig()
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return cfg, fmt.Errorf("failed to get settings: %w", err)
		}
		cfg = settings.Import
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.FileKey, _ = flags.GetString("file")
	}
	if flags.Changed("token") {
		cfg.Token, _ = flags.GetString("token")
	}
	if flags.Changed("token-type") {
		raw, _ := flags.GetString("token-type")
		tt, err := domain.ParseTokenType(raw)
		if err != nil {
			return cfg, err
		}
		cfg.TokenType = tt
	}
	if flags.Changed("pattern") {
		cfg.TargetPattern, _ = flags.GetString("pattern")
	}
	if flags.Changed("out") {
		cfg.OutputDir, _ = flags.GetString("out")
	}
	if flags.Changed("scale") {
		cfg.Scale, _ = flags.GetFloat64("scale")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}

	if cfg.Token == "" {
		cfg.Token = promptToken(cmd)
	}
	return cfg, nil
}

func runImport(cmd *cobra.Command, _ []string) error {
	if importer == nil {
		return errors.New("import service not configured")
	}

	cfg, err := resolveImportConfig(cmd)
	if err != nil {
		return err
	}

	cmd.Printf("Importing %s from %s into %s\n",
		cfg.TargetPattern, cfg.FileKey, cfg.OutputDir)

	report, err := importWithProgress(cmd.Context(), cmd, importer, cfg)
	if report != nil {
		printReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if report == nil {
		return nil
	}

	if failed := len(report.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d targets failed", failed, len(report.Results))
	}
	return nil
}

// importWithProgress runs the import while displaying progress updates.
func importWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	imp driving.Importer,
	cfg domain.ImportConfig,
) (*domain.ImportReport, error) {
	type outcome struct {
		report *domain.ImportReport
		err    error
	}

	// Start import in goroutine
	done := make(chan outcome, 1)
	go func() {
		report, err := imp.Import(ctx, cfg)
		done <- outcome{report, err}
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case out := <-done:
			if lastCount > 0 {
				cmd.Println()
			}
			return out.report, out.err
		case <-ticker.C:
			status := imp.Status()
			if n := status.Persisted + status.Failed; status.Total > 0 && n > lastCount {
				cmd.Printf("\rPersisting... %d/%d", n, status.Total)
				lastCount = n
			}
		}
	}
}

func printReport(cmd *cobra.Command, report *domain.ImportReport) {
	for _, res := range report.Results {
		if res.OK() {
			cmd.Printf("  %s %s %s -> %s\n",
				okStyle.Render("ok"), res.Target.Name, formatBorder(res.Target.Border), res.Path)
		} else {
			cmd.Printf("  %s %s: %v\n", failStyle.Render("failed"), res.Target.Name, targetReason(res.Err))
		}
	}

	if report.Fatal != nil {
		cmd.Printf("%s %v\n", failStyle.Render("Aborted:"), report.Fatal)
		return
	}
	if len(report.Results) == 0 {
		cmd.Println(warnStyle.Render("No targets matched."))
		return
	}
	cmd.Printf("%s %d persisted, %d failed in %s\n",
		titleStyle.Render("Done:"),
		len(report.Succeeded()), len(report.Failed()),
		report.Duration().Round(time.Millisecond))
}

func runInspect(cmd *cobra.Command, _ []string) error {
	if importer == nil {
		return errors.New("import service not configured")
	}

	cfg, err := resolveImportConfig(cmd)
	if err != nil {
		return err
	}

	targets, err := importer.Inspect(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}

	if len(targets) == 0 {
		cmd.Println(warnStyle.Render("No targets matched."))
		return nil
	}

	cmd.Printf("%s (%d)\n", titleStyle.Render("Targets"), len(targets))
	for _, t := range targets {
		cmd.Printf("  %s %s %s\n", t.Name, mutedStyle.Render(t.ID), formatBorder(t.Border))
	}
	return nil
}

// targetReason returns the cause of a per-target error without its target
// prefix.
func targetReason(err error) error {
	var targetErr *domain.TargetError
	if errors.As(err, &targetErr) && targetErr.Err != nil {
		return targetErr.Err
	}
	return err
}

// formatBorder prints a border in left, top, right, bottom order.
func formatBorder(b domain.Border) string {
	return fmt.Sprintf("[L %g T %g R %g B %g]", b.Left, b.Top, b.Right, b.Bottom)
}
