package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// SETTINGS
func (m *model) updateSettings(msg tea.Msg) tea.Cmd {
	switch m.state {
	case stateSettingsEditName, stateSettingsEditTimezone:
		return m.updateSettingsEdit(msg)
	}

	var cmds []tea.Cmd
	if focus := m.ensureMenuInput("1=Name  2=Timezone  3=Back", 40); focus != nil {
		cmds = append(cmds, focus)
	}
	var cmd tea.Cmd
	m.menuInput, cmd = m.menuInput.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return batchCmds(cmds)
	}
	switch key.Type {
	case tea.KeyEnter:
		choice := strings.TrimSpace(strings.ToLower(m.menuInput.Value()))
		m.menuInput.SetValue("")
		switch choice {
		case "1", "name":
			m.settings = newSettingsModel()
			m.settings.input.Placeholder = "Your name"
			m.settings.input.SetValue(m.cfg.Config.Name)
			if focus := m.settings.input.Focus(); focus != nil {
				cmds = append(cmds, focus)
			}
			m.state = stateSettingsEditName
		case "2", "timezone", "tz":
			m.settings = newSettingsModel()
			m.settings.input.Placeholder = "IANA zone, e.g. America/Chicago"
			m.settings.input.SetValue(m.cfg.Config.Timezone)
			if focus := m.settings.input.Focus(); focus != nil {
				cmds = append(cmds, focus)
			}
			m.state = stateSettingsEditTimezone
		case "3", "back", "/", "":
			m.popState()
			cmds = append(cmds, m.returnToMenuInput())
		case "exit.", "exit", "quit":
			m.prevStates = nil
			m.state = stateMainMenu
			cmds = append(cmds, m.returnToMenuInput())
		default:
			m.errMessage = "Choose 1, 2 or 3"
		}
	case tea.KeyEsc:
		m.popState()
		cmds = append(cmds, m.returnToMenuInput())
	}
	return batchCmds(cmds)
}

func (m *model) updateSettingsEdit(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.settings.input, cmd = m.settings.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return batchCmds(cmds)
	}
	switch key.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(m.settings.input.Value())
		switch m.state {
		case stateSettingsEditName:
			if value == "" {
				m.settings.err = "Name cannot be empty"
				return batchCmds(cmds)
			}
			m.cfg.Config.Name = value
			m.infoMessage = "Name updated"
		case stateSettingsEditTimezone:
			if _, err := time.LoadLocation(value); err != nil {
				m.settings.err = "Unknown timezone"
				return batchCmds(cmds)
			}
			m.cfg.Config.Timezone = value
			m.infoMessage = "Timezone updated"
		}
		if err := m.cfg.Save(); err != nil {
			m.logger.Error("save config", zap.Error(err))
			m.errMessage = "Could not write the config file"
		}
		m.settings = newSettingsModel()
		m.state = stateSettings
		cmds = append(cmds, m.setMenuInput("1=Name  2=Timezone  3=Back", 40))
	case tea.KeyEsc:
		m.settings = newSettingsModel()
		m.state = stateSettings
		cmds = append(cmds, m.setMenuInput("1=Name  2=Timezone  3=Back", 40))
	}
	return batchCmds(cmds)
}

func (m *model) viewSettings() string {
	lines := []string{m.theme.Title.Render("Settings")}
	lines = append(lines, m.theme.Secondary.Render("Name: ")+m.theme.Primary.Render(m.cfg.Config.Name))
	lines = append(lines, m.theme.Secondary.Render("Timezone: ")+m.theme.Primary.Render(m.cfg.Config.Timezone))
	lines = append(lines, m.theme.Secondary.Render("Catalog: ")+m.theme.Faint.Render(m.cfg.Config.CatalogURL))
	lines = append(lines, "")

	switch m.state {
	case stateSettingsEditName:
		lines = append(lines, m.theme.Primary.Render("New name:"))
		lines = append(lines, m.settings.input.View())
	case stateSettingsEditTimezone:
		lines = append(lines, m.theme.Primary.Render("New timezone:"))
		lines = append(lines, m.settings.input.View())
	default:
		lines = append(lines, m.theme.Secondary.Render("1. Edit name"))
		lines = append(lines, m.theme.Secondary.Render("2. Edit timezone"))
		lines = append(lines, m.theme.Faint.Render("3. Back"))
		lines = append(lines, "")
		lines = append(lines, m.theme.Accent.Render("> ")+m.menuInput.View())
	}
	if m.settings.err != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.settings.err))
	}
	if m.infoMessage != "" {
		lines = append(lines, "", m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.errMessage))
	}
	return strings.Join(lines, "\n") + "\n"
}
