package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fitterm/internal/client"
)

// Form field positions. The goal is captured twice: a preset pick and a
// free-text value; free text wins when both are set.
const (
	fieldFullName = iota
	fieldAge
	fieldGender
	fieldEmail
	fieldPhone
	fieldGoalPreset
	fieldGoalCustom
	fieldStartDate
	fieldEndDate
)

var goalPresets = []string{"Lose weight", "Build muscle", "Improve endurance", "General fitness"}

// validationTarget maps a rejected field back to its wizard position.
var validationTarget = map[string]int{
	"FullName":  fieldFullName,
	"Age":       fieldAge,
	"Gender":    fieldGender,
	"Email":     fieldEmail,
	"Phone":     fieldPhone,
	"Goal":      fieldGoalCustom,
	"StartDate": fieldStartDate,
	"EndDate":   fieldEndDate,
}

type clientForm struct {
	index    int
	fields   []formField
	input    textinput.Model
	err      string
	editing  bool
	original client.Client
}

type formField struct {
	label       string
	placeholder string
	value       string
	required    bool
}

func newClientForm(existing *client.Client) clientForm {
	fields := []formField{
		{label: "Full name", placeholder: "Full name", required: true},
		{label: "Age", placeholder: "Age 5-120 (optional)"},
		{label: "Gender", placeholder: "male / female / other (optional)"},
		{label: "Email", placeholder: "name@example.com or .edu", required: true},
		{label: "Phone", placeholder: "11 digits, any formatting", required: true},
		{label: "Goal preset", placeholder: goalPresetPrompt()},
		{label: "Goal", placeholder: "Your own words (overrides preset)"},
		{label: "Start date", placeholder: "YYYY-MM-DD, today or later", required: true},
		{label: "End date", placeholder: "YYYY-MM-DD, after start", required: true},
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = fields[0].placeholder
	ti.CharLimit = 96
	ti.Focus()

	form := clientForm{fields: fields, input: ti}
	if existing != nil {
		clone := *existing
		form.editing = true
		form.original = clone
		form.fields[fieldFullName].value = clone.FullName
		form.fields[fieldAge].value = clone.Age
		form.fields[fieldGender].value = clone.Gender
		form.fields[fieldEmail].value = clone.Email
		form.fields[fieldPhone].value = clone.Phone
		// The stored goal always lands in the free-text field.
		form.fields[fieldGoalCustom].value = clone.Goal
		form.fields[fieldStartDate].value = clone.StartDate
		form.fields[fieldEndDate].value = clone.EndDate
		form.input.SetValue(clone.FullName)
	}
	return form
}

func goalPresetPrompt() string {
	parts := make([]string, 0, len(goalPresets)+1)
	for i, preset := range goalPresets {
		parts = append(parts, fmt.Sprintf("%d=%s", i+1, preset))
	}
	parts = append(parts, "(blank=skip)")
	return strings.Join(parts, "  ")
}

// input builds the submission; the free-text goal overrides the preset.
func (f *clientForm) submission() client.Input {
	goal := f.fields[fieldGoalCustom].value
	if goal == "" {
		goal = f.fields[fieldGoalPreset].value
	}
	return client.Input{
		FullName:  f.fields[fieldFullName].value,
		Age:       f.fields[fieldAge].value,
		Gender:    f.fields[fieldGender].value,
		Email:     f.fields[fieldEmail].value,
		Phone:     f.fields[fieldPhone].value,
		Goal:      goal,
		StartDate: f.fields[fieldStartDate].value,
		EndDate:   f.fields[fieldEndDate].value,
	}
}

// CLIENT FORM
func (m *model) updateClientForm(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.form.input, cmd = m.form.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return batchCmds(cmds)
	}
	switch key.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(m.form.input.Value())
		if isExitCommand(value) {
			m.cancelForm()
			m.prevStates = nil
			m.state = stateMainMenu
			cmds = append(cmds, m.returnToMenuInput())
			return batchCmds(cmds)
		}
		if isBackCommand(value) {
			if m.form.index == 0 {
				m.cancelForm()
				m.popState()
				cmds = append(cmds, m.returnToMenuInput())
				return batchCmds(cmds)
			}
			m.form.index--
			m.loadFormField()
			return batchCmds(cmds)
		}
		if m.form.fields[m.form.index].required && value == "" {
			m.form.err = "This field is required"
			return batchCmds(cmds)
		}
		if m.form.index == fieldGoalPreset {
			resolved, ok := resolveGoalPreset(value)
			if !ok {
				m.form.err = fmt.Sprintf("Choose 1-%d or leave blank", len(goalPresets))
				return batchCmds(cmds)
			}
			value = resolved
		}
		m.form.fields[m.form.index].value = value
		m.form.err = ""
		if m.form.index >= len(m.form.fields)-1 {
			m.submitForm(&cmds)
			return batchCmds(cmds)
		}
		m.form.index++
		m.loadFormField()
	case tea.KeyEsc:
		m.cancelForm()
		m.popState()
		cmds = append(cmds, m.returnToMenuInput())
		return batchCmds(cmds)
	}
	return batchCmds(cmds)
}

func resolveGoalPreset(value string) (string, bool) {
	if value == "" {
		return "", true
	}
	for i, preset := range goalPresets {
		if value == fmt.Sprintf("%d", i+1) || strings.EqualFold(value, preset) {
			return preset, true
		}
	}
	return "", false
}

func (m *model) loadFormField() {
	field := m.form.fields[m.form.index]
	m.form.input.Placeholder = field.placeholder
	m.form.input.SetValue(field.value)
	m.form.err = ""
}

func (m *model) cancelForm() {
	if m.form.editing {
		m.repo.CancelEdit()
	}
	m.form = newClientForm(nil)
}

func (m *model) submitForm(cmds *[]tea.Cmd) {
	saved, err := m.repo.Submit(context.Background(), m.form.submission())

	var verr *client.ValidationError
	if errors.As(err, &verr) {
		m.form.err = verr.Message
		if idx, ok := validationTarget[verr.Field]; ok {
			m.form.index = idx
			m.loadFormField()
			m.form.err = verr.Message
		}
		return
	}
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			m.logger.Warn("edited client vanished before save", zap.Error(err))
			m.cancelForm()
			m.popState()
			*cmds = append(*cmds, m.returnToMenuInput())
			m.errMessage = "That client no longer exists"
			return
		}
		// The in-memory list is already updated; only the flush failed.
		m.logger.Error("persist clients", zap.Error(err))
		m.errMessage = "Saved in memory, but writing to disk failed"
	}

	if m.form.editing {
		m.infoMessage = fmt.Sprintf("Client '%s' updated", saved.FullName)
	} else {
		m.infoMessage = fmt.Sprintf("Client '%s' added", saved.FullName)
	}
	wasEditing := m.form.editing
	m.form = newClientForm(nil)
	m.popState()
	*cmds = append(*cmds, m.returnToMenuInput())
	m.refreshClients()
	if wasEditing && m.state == stateClientDetail {
		m.detail.record = saved
	}
}

func (m *model) viewClientForm() string {
	field := m.form.fields[m.form.index]
	title := "Add Client"
	if m.form.editing {
		title = "Edit Client"
	}
	lines := []string{
		m.theme.Title.Render(title),
		m.theme.Faint.Render("Enter details. '/' to go back a field, 'exit.' to cancel."),
		"",
		m.theme.Secondary.Render(fmt.Sprintf("%d/%d", m.form.index+1, len(m.form.fields))),
		m.theme.Primary.Render(field.label + ":"),
		m.form.input.View(),
	}
	if m.form.err != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.form.err))
	}
	return strings.Join(lines, "\n") + "\n"
}
