package mcp

import (
	"context"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

// mockImporter is a mock implementation of driving.Importer.
type mockImporter struct {
	targets []domain.Target
	report  *domain.ImportReport
	err     error

	gotCfg domain.ImportConfig
}

func (m *mockImporter) Import(_ context.Context, cfg domain.ImportConfig) (*domain.ImportReport, error) {
	m.gotCfg = cfg
	return m.report, m.err
}

func (m *mockImporter) Inspect(_ context.Context, cfg domain.ImportConfig) ([]domain.Target, error) {
	m.gotCfg = cfg
	return m.targets, m.err
}

func (m *mockImporter) Status() domain.ImportStatus {
	return domain.ImportStatus{Phase: domain.PhaseIdle}
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.Settings
	err      error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Set(_, _ string) error { return m.err }

func (m *mockSettingsService) Unset(_ string) error { return m.err }

func (m *mockSettingsService) Path() string { return ":memory:" }

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	runs []domain.ImportRun
	run  *domain.ImportRun
	err  error
}

func (m *mockHistoryService) List(_ context.Context, _ int) ([]domain.ImportRun, error) {
	return m.runs, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.ImportRun, error) {
	return m.run, m.err
}
