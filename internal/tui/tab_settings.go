package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/cxdash/internal/cli"
	"github.com/theirongolddev/cxdash/internal/config"
	"github.com/theirongolddev/cxdash/internal/remote"
	"github.com/theirongolddev/cxdash/internal/tui/components"
	"github.com/theirongolddev/cxdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldPageSize
	settingsFieldChatURL
	settingsFieldImportURL
	settingsFieldTimeout
	settingsFieldForward
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := a.cfg
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldPageSize:
		ti.Placeholder = "5 (1-100)"
		ti.SetValue(strconv.Itoa(cfg.General.PageSize))
	case settingsFieldChatURL:
		ti.Placeholder = "http://127.0.0.1:8000/chat (empty disables chat)"
		ti.SetValue(cfg.Remote.ChatURL)
	case settingsFieldImportURL:
		ti.Placeholder = "http://localhost:8000/api/projects (empty disables forwarding)"
		ti.SetValue(cfg.Remote.ImportURL)
	case settingsFieldTimeout:
		ti.Placeholder = "30 (seconds)"
		ti.SetValue(strconv.Itoa(cfg.Remote.TimeoutSec))
	case settingsFieldForward:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(cfg.Remote.ForwardImports))
	}

	a.settings.input = ti
	return a, a.settings.input.Focus()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.saveErr = a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

var errInvalidSetting = errors.New("invalid value")

// settingsSave applies the edited field. The change takes effect only if the
// whole config still validates and is written successfully.
func (a *App) settingsSave() error {
	cfg := a.cfg
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldTheme:
		found := false
		for _, t := range theme.All {
			if t.Name == val {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: unknown theme %q", errInvalidSetting, val)
		}
		cfg.Appearance.Theme = val
	case settingsFieldPageSize:
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: page size %q", errInvalidSetting, val)
		}
		cfg.General.PageSize = n
	case settingsFieldChatURL:
		cfg.Remote.ChatURL = val
	case settingsFieldImportURL:
		cfg.Remote.ImportURL = val
	case settingsFieldTimeout:
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: timeout %q", errInvalidSetting, val)
		}
		cfg.Remote.TimeoutSec = n
	case settingsFieldForward:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%w: %q is not true or false", errInvalidSetting, val)
		}
		cfg.Remote.ForwardImports = b
	}

	if err := config.SaveTo(a.cfgPth, cfg); err != nil {
		return err
	}

	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	a.applyRemoteConfig()
	a.recompute()
	return nil
}

// applyRemoteConfig rebuilds the remote client from the current config.
func (a *App) applyRemoteConfig() {
	a.remote = remote.NewClient(remote.Options{
		ImportURL: a.cfg.Remote.ImportURL,
		ChatURL:   a.cfg.Remote.ChatURL,
		Timeout:   a.cfg.Remote.Timeout(),
	})
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceHover).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover)

	orNotSet := func(s string) string {
		if s == "" {
			return "(not set)"
		}
		return s
	}

	fields := []struct {
		label string
		value string
	}{
		{"Theme", cfg.Appearance.Theme},
		{"Rows Per Page", strconv.Itoa(cfg.General.PageSize)},
		{"Chat URL", orNotSet(cfg.Remote.ChatURL)},
		{"Import URL", orNotSet(cfg.Remote.ImportURL)},
		{"Request Timeout", fmt.Sprintf("%ds", cfg.Remote.TimeoutSec)},
		{"Forward Imports", strconv.FormatBool(cfg.Remote.ForwardImports)},
	}

	var formBody strings.Builder
	for i, f := range fields {
		// Show text input if currently editing this field
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker)
			formBody.WriteString(label)
			formBody.WriteString(value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			padLen := components.CardInnerWidth(cw) - usedWidth
			if padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceHover).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	// General info card
	backend := cfg.Store.Backend
	if backend == "sqlite" {
		backend += " " + orNotSet(cfg.Store.Path)
	}
	loadStatus := fmt.Sprintf("%.1fs", a.loadTime.Seconds())
	if a.loadErr != nil {
		loadStatus += " (startup import failed)"
	}

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Store:            ") + valueStyle.Render(backend) + "\n")
	infoBody.WriteString(labelStyle.Render("Projects loaded:  ") + valueStyle.Render(cli.FormatNumber(int64(len(a.records)))) + "\n")
	infoBody.WriteString(labelStyle.Render("Imported at start:") + valueStyle.Render(" "+cli.FormatNumber(int64(a.imported))) + "\n")
	infoBody.WriteString(labelStyle.Render("Load time:        ") + valueStyle.Render(loadStatus) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:      ") + valueStyle.Render(a.cfgPth))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))

	return b.String()
}
