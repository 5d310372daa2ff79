// Package cli holds duotask's cobra commands. The bare command runs the
// terminal UI; the subcommands work on the local store offline.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/duotask/internal/app"
	"github.com/dori/duotask/internal/config"
	"github.com/dori/duotask/internal/ui"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command
func NewRootCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duotask",
		Short: "duotask - work and personal todos, offline first",
		Long: `duotask keeps two task lists, work and personal, in a local cache.
Sign in from the UI to sync them through a shared SQLite database.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	cmd.PersistentFlags().String("config", config.DefaultPath(), "Path to config.toml")

	cmd.AddCommand(
		newAddCommand(),
		newListCommand(),
		newTagCommand(),
		newStatsCommand(),
		newExportCommand(),
		newResetCommand(),
		newVersionCommand(version),
	)
	return cmd
}

// loadConfig reads the file named by --config, creating it on first use
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openApp builds the application for a subcommand. Offline commands pass
// withRemote=false.
func openApp(cmd *cobra.Command, withRemote bool) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, app.WithRemote(withRemote))
}

// runTUI starts the Bubble Tea UI
func runTUI(cmd *cobra.Command, args []string) error {
	application, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer application.Close()

	m := ui.NewRootModel(application)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Remote callbacks arrive on other goroutines and re-enter through Send
	application.Sync.SetSender(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
