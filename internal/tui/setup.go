package tui

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/theirongolddev/cxdash/internal/config"
	"github.com/theirongolddev/cxdash/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the first-run form answers.
type setupValues struct {
	theme    string
	pageSize string
	chatURL  string
	forward  bool
}

func newSetupForm(vals *setupValues, cfg config.Config) *huh.Form {
	vals.theme = cfg.Appearance.Theme
	vals.pageSize = strconv.Itoa(cfg.General.PageSize)
	vals.chatURL = cfg.Remote.ChatURL
	vals.forward = cfg.Remote.ForwardImports

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cxdash").
				Description("Capex/Opex project dashboard.\nA few settings, then the dashboard opens."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
			huh.NewInput().
				Title("Rows per page").
				Value(&vals.pageSize).
				Validate(validatePageSize),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Chat endpoint").
				Description("Questions from the chat tab are POSTed here. Leave empty to disable chat.").
				Value(&vals.chatURL).
				Validate(validateURL),
			huh.NewConfirm().
				Title("Forward JSON imports to the import endpoint?").
				Value(&vals.forward),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func validatePageSize(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 100 {
		return errors.New("enter a number from 1 to 100")
	}
	return nil
}

func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("not a URL: %q", s)
	}
	return nil
}

// saveSetupConfig applies the setup answers to the running app and writes
// them to the config file.
func (a *App) saveSetupConfig() error {
	cfg := a.cfg

	if a.setupVals.theme != "" {
		cfg.Appearance.Theme = a.setupVals.theme
		theme.SetActive(cfg.Appearance.Theme)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(a.setupVals.pageSize)); err == nil {
		cfg.General.PageSize = n
	}
	cfg.Remote.ChatURL = strings.TrimSpace(a.setupVals.chatURL)
	cfg.Remote.ForwardImports = a.setupVals.forward

	if err := config.SaveTo(a.cfgPth, cfg); err != nil {
		return err
	}
	a.cfg = cfg
	a.applyRemoteConfig()
	return nil
}
