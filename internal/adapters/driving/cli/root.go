// Package cli provides the nineslice command-line interface.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/nineslice-cli/internal/core/ports/driving"
	"github.com/custodia-labs/nineslice-cli/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// verbose enables debug logging for every command.
var verbose bool

// Services injected by main.
var (
	importer        driving.Importer
	settingsService driving.SettingsService
	historyService  driving.HistoryService
)

var rootCmd = &cobra.Command{
	Use:   "nineslice",
	Short: "Import nine-slice sprites from Figma",
	Long: `nineslice imports layers from a Figma file as nine-slice sprites.

Layers whose names match a pattern are rendered to PNG, and the stretchable
border of each is inferred from the child layer with the largest area. Each
image is written with a .slice.toml sidecar describing its border.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to stderr")
}

// SetVersion sets the version reported by `nineslice version`.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices injects the core services used by commands.
func SetServices(imp driving.Importer, settings driving.SettingsService, history driving.HistoryService) {
	importer = imp
	settingsService = settings
	historyService = history
}

// Execute runs the root command. An interrupt cancels the running command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
