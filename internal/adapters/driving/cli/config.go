package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the saved import profile",
	Long: `View and change the settings used by import and inspect.

Keys:
  ` + strings.Join(domain.SortedSettingKeys(), "\n  "),
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Clear a setting so its default applies",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("File: %s\n", settingsService.Path())
	cmd.Println()

	imp := settings.Import
	cmd.Println("[Figma]")
	cmd.Printf("  File key:   %s\n", valueOrUnset(imp.FileKey))
	cmd.Printf("  Token:      %s\n", maskSecret(imp.Token))
	cmd.Printf("  Token type: %s\n", imp.TokenType)
	cmd.Println()

	cmd.Println("[Import]")
	cmd.Printf("  Pattern:     %s\n", valueOrUnset(imp.TargetPattern))
	cmd.Printf("  Output dir:  %s\n", valueOrUnset(imp.OutputDir))
	cmd.Printf("  Scale:       %g\n", imp.Scale)
	cmd.Printf("  Concurrency: %d\n", imp.Concurrency)
	cmd.Println()

	m := settings.Mirror
	cmd.Println("[Mirror]")
	cmd.Printf("  Endpoint:   %s\n", valueOrUnset(m.Endpoint))
	cmd.Printf("  Region:     %s\n", m.Region)
	cmd.Printf("  Bucket:     %s\n", valueOrUnset(m.Bucket))
	cmd.Printf("  Prefix:     %s\n", valueOrUnset(m.Prefix))
	cmd.Printf("  Access key: %s\n", maskSecret(m.AccessKey))
	cmd.Printf("  Secret key: %s\n", maskSecret(m.SecretKey))
	cmd.Printf("  Use SSL:    %t\n", m.UseSSL)
	status := "configured"
	if !m.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status:     %s\n", status)
	cmd.Println()

	cmd.Println("[History]")
	cmd.Printf("  Keep: %d\n", settings.HistoryKeep)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if key == domain.KeyToken || key == domain.KeyMirrorSecret || key == domain.KeyMirrorAccess {
		shown = maskSecret(value)
	}
	cmd.Printf("%s = %s\n", key, shown)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Unset(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}
	cmd.Printf("%s cleared\n", args[0])
	return nil
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
