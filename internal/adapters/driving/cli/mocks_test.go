package cli

import (
	"bytes"
	"context"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/nineslice-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
	"github.com/custodia-labs/nineslice-cli/internal/core/services"
)

// mockImporter is a mock implementation of driving.Importer.
type mockImporter struct {
	mu      sync.Mutex
	report  *domain.ImportReport
	targets []domain.Target
	err     error
	gotCfg  domain.ImportConfig
}

func (m *mockImporter) Import(_ context.Context, cfg domain.ImportConfig) (*domain.ImportReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gotCfg = cfg
	return m.report, m.err
}

func (m *mockImporter) Inspect(_ context.Context, cfg domain.ImportConfig) ([]domain.Target, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gotCfg = cfg
	return m.targets, m.err
}

func (m *mockImporter) Status() domain.ImportStatus {
	return domain.ImportStatus{Phase: domain.PhaseIdle}
}

func (m *mockImporter) config() domain.ImportConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gotCfg
}

type testServices struct {
	importer *mockImporter
	settings *services.SettingsService
	config   *memory.ConfigStore
	history  *memory.HistoryStore
}

// setupTestServices injects a mock importer and real settings and history
// services over memory stores. The returned func restores the previous
// services and flag state.
func setupTestServices() (*testServices, func()) {
	oldImporter, oldSettings, oldHistory := importer, settingsService, historyService
	oldPrompt := promptToken

	ts := &testServices{
		importer: &mockImporter{},
		config:   memory.NewConfigStore(),
		history:  memory.NewHistoryStore(),
	}
	ts.settings = services.NewSettingsService(ts.config).WithLookupEnv(nil)
	SetServices(ts.importer, ts.settings, services.NewHistoryService(ts.history))
	promptToken = func(*cobra.Command) string { return "" }

	return ts, func() {
		importer, settingsService, historyService = oldImporter, oldSettings, oldHistory
		promptToken = oldPrompt
		resetFlags(rootCmd)
	}
}

// resetFlags returns every flag to its default so state does not leak
// between executions of the shared rootCmd.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs rootCmd with args and returns its combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
