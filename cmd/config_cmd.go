package cmd

import (
	"fmt"

	"github.com/theirongolddev/cxdash/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Bundled seed:  %v\n", cfg.General.Seed)
	if cfg.General.SeedFile != "" {
		fmt.Printf("    Seed file:     %s\n", cfg.General.SeedFile)
	}
	fmt.Printf("    Rows per page: %d\n", cfg.General.PageSize)
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    Backend: %s\n", cfg.Store.Backend)
	if cfg.Store.Path != "" {
		fmt.Printf("    Path:    %s\n", cfg.Store.Path)
	}
	fmt.Println()

	fmt.Println("  [Remote]")
	fmt.Printf("    Chat URL:        %s\n", orNotSet(cfg.Remote.ChatURL))
	fmt.Printf("    Import URL:      %s\n", orNotSet(cfg.Remote.ImportURL))
	fmt.Printf("    Timeout:         %s\n", cfg.Remote.Timeout())
	fmt.Printf("    Forward imports: %v\n", cfg.Remote.ForwardImports)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  Run `cxdash setup` to reconfigure.")
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "not configured"
	}
	return s
}
