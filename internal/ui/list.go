package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"fitterm/internal/client"
)

// CLIENTS LIST
func (m *model) updateClients(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.clientFilter, cmd = m.clientFilter.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch key := msg.(type) {
	case tea.KeyMsg:
		switch key.Type {
		case tea.KeyEnter:
			value := strings.TrimSpace(m.clientFilter.Value())
			if isExitCommand(value) {
				m.clientFilter.SetValue("")
				m.prevStates = nil
				m.state = stateMainMenu
				cmds = append(cmds, m.returnToMenuInput())
				return batchCmds(cmds)
			}
			if isBackCommand(value) {
				m.clientFilter.SetValue("")
				m.popState()
				cmds = append(cmds, m.returnToMenuInput())
				return batchCmds(cmds)
			}
			if done := m.handleRowCommand(value, &cmds); done {
				return batchCmds(cmds)
			}
			m.refreshClients()
		case tea.KeyEsc:
			m.popState()
			cmds = append(cmds, m.returnToMenuInput())
			return batchCmds(cmds)
		}
	}

	m.refreshClients()
	return batchCmds(cmds)
}

// handleRowCommand interprets "view N", "edit N", "del N" and bare
// selections against the currently rendered rows. It reports whether the
// input was consumed as a command.
func (m *model) handleRowCommand(value string, cmds *[]tea.Cmd) bool {
	if value == "" {
		return false
	}
	verb, rest := splitVerb(value)
	switch verb {
	case "view", "open", "show":
		if target, ok := m.resolveClientSelection(rest); ok {
			m.clientFilter.SetValue("")
			*cmds = append(*cmds, m.openClientDetail(target.ID))
			return true
		}
		m.errMessage = "No matching client"
		return true
	case "edit", "update":
		if target, ok := m.resolveClientSelection(rest); ok {
			m.clientFilter.SetValue("")
			m.beginEditClient(target.ID)
			return true
		}
		m.errMessage = "No matching client"
		return true
	case "del", "delete", "rm":
		if target, ok := m.resolveClientSelection(rest); ok {
			m.clientFilter.SetValue("")
			*cmds = append(*cmds, m.beginDelete(target))
			return true
		}
		m.errMessage = "No matching client"
		return true
	}
	// A bare number or name opens the detail view, like "view".
	if target, ok := m.resolveClientSelection(value); ok {
		m.clientFilter.SetValue("")
		*cmds = append(*cmds, m.openClientDetail(target.ID))
		return true
	}
	return false
}

func splitVerb(value string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(value), " ", 2)
	verb := strings.ToLower(parts[0])
	rest := ""
	if len(parts) > 1 {
		rest = strings.TrimSpace(parts[1])
	}
	return verb, rest
}

// resolveClientSelection matches a row number or a (prefix of a) client name
// against the rendered rows, falling back to the full list.
func (m *model) resolveClientSelection(input string) (client.Client, bool) {
	var empty client.Client
	all := m.repo.All()
	if len(all) == 0 {
		return empty, false
	}
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		if len(m.visible) == 1 {
			return m.visible[0], true
		}
		return empty, false
	}
	if idx, err := strconv.Atoi(trimmed); err == nil {
		if idx > 0 && idx <= len(m.visible) {
			return m.visible[idx-1], true
		}
		return empty, false
	}
	for _, list := range [][]client.Client{m.visible, all} {
		for i := range list {
			if strings.EqualFold(list[i].FullName, trimmed) {
				return list[i], true
			}
		}
	}
	queryLower := strings.ToLower(trimmed)
	var match client.Client
	count := 0
	for _, list := range [][]client.Client{m.visible, all} {
		for i := range list {
			if strings.HasPrefix(strings.ToLower(list[i].FullName), queryLower) {
				match = list[i]
				count++
			}
		}
		if count == 1 {
			return match, true
		}
	}
	return empty, false
}

func (m *model) beginEditClient(id int64) {
	record, err := m.repo.BeginEdit(id)
	if err != nil {
		m.logger.Warn("edit action on missing client", zap.Int64("id", id), zap.Error(err))
		m.errMessage = "That client no longer exists"
		return
	}
	m.resetMessages()
	m.form = newClientForm(&record)
	m.pushState(stateClientForm)
}

func (m *model) viewClients() string {
	lines := []string{m.theme.Title.Render("Clients")}
	lines = append(lines, m.theme.Faint.Render("Type to search. 'view N', 'edit N', 'del N' or a number to act on a row. '/' back, 'exit.' home."))
	lines = append(lines, "")

	rows := buildRows(m.visible)
	if len(rows) == 0 {
		width := m.width
		if width <= 0 {
			width = 80
		}
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center, m.theme.Warning.Render("No clients found.")))
	} else {
		header := fmt.Sprintf("%-4s %-22s %-26s %-18s %-20s %-11s %-11s",
			"#", "Name", "Email", "Phone", "Goal", "Start", "End")
		lines = append(lines, m.theme.Subtitle.Render(header))
		for _, r := range rows {
			line := fmt.Sprintf("%-4d %-22s %-26s %-18s %-20s %-11s %-11s",
				r.Index, truncate(r.Name, 22), truncate(r.Email, 26), truncate(r.Phone, 18), truncate(r.Goal, 20), r.Start, r.End)
			lines = append(lines, m.theme.Primary.Render(line))
		}
	}
	lines = append(lines, "")
	lines = append(lines, m.theme.Secondary.Render(countSummary(len(rows))))
	if m.infoMessage != "" {
		lines = append(lines, m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, m.theme.Danger.Render(m.errMessage))
	}
	lines = append(lines, m.theme.Border.Render(strings.Repeat("─", 40)))
	lines = append(lines, m.theme.Accent.Render("find> ")+m.clientFilter.View())
	return strings.Join(lines, "\n") + "\n"
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// DELETE CONFIRMATION
func (m *model) beginDelete(target client.Client) tea.Cmd {
	m.resetMessages()
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "y/n"
	input.CharLimit = 5
	m.confirm = confirmModel{id: target.ID, name: target.FullName, input: input}
	m.pushState(stateConfirmDelete)
	return m.confirm.input.Focus()
}

func (m *model) updateConfirmDelete(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.confirm.input, cmd = m.confirm.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			value := strings.ToLower(strings.TrimSpace(m.confirm.input.Value()))
			switch value {
			case "y", "yes":
				m.deleteConfirmed()
				m.popState()
				m.refreshClients()
				return batchCmds(cmds)
			case "n", "no", "":
				m.infoMessage = "Delete cancelled"
				m.popState()
				return batchCmds(cmds)
			default:
				m.errMessage = "Please answer y or n"
				m.confirm.input.SetValue("")
			}
		case tea.KeyEsc:
			m.infoMessage = "Delete cancelled"
			m.popState()
			return batchCmds(cmds)
		}
	}
	return batchCmds(cmds)
}

func (m *model) deleteConfirmed() {
	err := m.repo.Remove(context.Background(), m.confirm.id)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			m.logger.Warn("delete action on missing client", zap.Int64("id", m.confirm.id))
			return
		}
		m.logger.Error("delete client", zap.Int64("id", m.confirm.id), zap.Error(err))
		m.errMessage = "Could not save the change"
		return
	}
	m.infoMessage = fmt.Sprintf("Client '%s' removed", m.confirm.name)
}

func (m *model) viewConfirmDelete() string {
	lines := []string{
		m.theme.Title.Render("Delete Client"),
		"",
		m.theme.Warning.Render(fmt.Sprintf("Delete '%s'? This cannot be undone.", m.confirm.name)),
		"",
		m.theme.Accent.Render("y/n> ") + m.confirm.input.View(),
	}
	if m.errMessage != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.errMessage))
	}
	return strings.Join(lines, "\n") + "\n"
}
