// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Importer is the import state machine; HistoryService and SettingsService
// are thin views over their stores.
package services
