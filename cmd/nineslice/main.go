// Command nineslice imports nine-slice sprites from Figma.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/nineslice-cli/internal/adapters/driven/assets"
	"github.com/custodia-labs/nineslice-cli/internal/adapters/driven/assets/filesystem"
	"github.com/custodia-labs/nineslice-cli/internal/adapters/driven/assets/s3"
	"github.com/custodia-labs/nineslice-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/nineslice-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/nineslice-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/nineslice-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/nineslice-cli/internal/connectors/figma"
	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
	"github.com/custodia-labs/nineslice-cli/internal/core/ports/driven"
	"github.com/custodia-labs/nineslice-cli/internal/core/services"
	"github.com/custodia-labs/nineslice-cli/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cleanup, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = cli.Execute()
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}

// setup wires adapters into services and injects them into the CLI.
func setup() (func(), error) {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	// Bad settings must not block `config` from fixing them; the importer
	// validates its own config per run.
	settings, err := settingsService.Get()
	if err != nil {
		logger.Error("Ignoring saved settings: %v", err)
		defaults := domain.DefaultSettings()
		settings = &defaults
	}

	cleanup := func() {}
	var history driven.HistoryStore
	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("Import history unavailable, keeping it in memory: %v", err)
		history = memory.NewHistoryStore()
	} else {
		history = store.HistoryStore()
		cleanup = func() { _ = store.Close() }
	}

	var sink driven.AssetSink = filesystem.NewSink()
	if settings.Mirror.IsConfigured() {
		mirror, err := s3.NewSink(settings.Mirror)
		if err != nil {
			logger.Error("Mirror disabled: %v", err)
		} else {
			sink = assets.NewMultiSink(sink, mirror)
		}
	}

	client := figma.NewClient()
	importer := services.NewImporter(client, client, sink, history)
	importer.SetHistoryKeep(settings.HistoryKeep)

	cli.SetVersion(version)
	cli.SetServices(importer, settingsService, services.NewHistoryService(history))
	return cleanup, nil
}
