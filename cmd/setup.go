package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/cxdash/internal/config"
	"github.com/theirongolddev/cxdash/internal/store"
	"github.com/theirongolddev/cxdash/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	themeName := cfg.Appearance.Theme
	pageSize := strconv.Itoa(cfg.General.PageSize)
	backend := cfg.Store.Backend
	dbPath := cfg.Store.Path
	chatURL := cfg.Remote.ChatURL
	importURL := cfg.Remote.ImportURL
	forward := cfg.Remote.ForwardImports

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cxdash").
				Description("Settings are saved to "+config.Path()),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
			huh.NewInput().
				Title("Rows per page").
				Value(&pageSize).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 || n > 100 {
						return errors.New("enter a number from 1 to 100")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Record store").
				Options(
					huh.NewOption("In memory (records reset every run)", store.BackendMemory),
					huh.NewOption("SQLite file", store.BackendSQLite),
				).
				Value(&backend),
			huh.NewInput().
				Title("SQLite database file").
				Description("Used with the SQLite store. Empty keeps the database in memory.").
				Value(&dbPath),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Chat endpoint").
				Value(&chatURL),
			huh.NewInput().
				Title("Import endpoint").
				Value(&importURL),
			huh.NewConfirm().
				Title("Forward JSON imports to the import endpoint?").
				Value(&forward),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("\n  Setup canceled, nothing saved.")
			return nil
		}
		return err
	}

	cfg.Appearance.Theme = themeName
	cfg.General.PageSize, _ = strconv.Atoi(strings.TrimSpace(pageSize))
	cfg.Store.Backend = backend
	cfg.Store.Path = strings.TrimSpace(dbPath)
	cfg.Remote.ChatURL = strings.TrimSpace(chatURL)
	cfg.Remote.ImportURL = strings.TrimSpace(importURL)
	cfg.Remote.ForwardImports = forward

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `cxdash setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
