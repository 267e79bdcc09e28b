package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fitterm/internal/client"
	"fitterm/internal/wger"
)

type fetchStatus int

const (
	fetchLoading fetchStatus = iota
	fetchDone
	fetchFailed
)

type detailModel struct {
	record    client.Client
	exercises []string
	status    fetchStatus
	message   string
}

// exercisesMsg delivers the result of one suggestion fetch. seq identifies
// the fetch so stale responses are dropped.
type exercisesMsg struct {
	seq   int
	names []string
	err   error
}

// openClientDetail switches to the detail view and kicks off the suggestion
// fetch without blocking the rest of the rendering.
func (m *model) openClientDetail(id int64) tea.Cmd {
	record, ok := m.repo.Get(id)
	if !ok {
		m.logger.Warn("view action on missing client", zap.Int64("id", id))
		m.errMessage = "No client selected"
		return nil
	}
	m.resetMessages()
	m.detail = detailModel{record: record, status: fetchLoading}
	m.pushState(stateClientDetail)
	return batchCmds([]tea.Cmd{
		m.setMenuInput(detailPrompt, 64),
		m.fetchExercisesCmd(),
	})
}

func (m *model) fetchExercisesCmd() tea.Cmd {
	m.fetchSeq++
	seq := m.fetchSeq
	catalog := m.catalog
	language := m.cfg.Config.CatalogLanguage
	return func() tea.Msg {
		if catalog == nil {
			return exercisesMsg{seq: seq, err: errors.New("no catalog configured")}
		}
		exercises, err := catalog.FetchExercises(context.Background())
		if err != nil {
			return exercisesMsg{seq: seq, err: err}
		}
		names := wger.Suggest(exercises, language, wger.SuggestionCount, nil)
		return exercisesMsg{seq: seq, names: names}
	}
}

func (m *model) applyExercises(msg exercisesMsg) {
	if msg.seq != m.fetchSeq {
		// A newer fetch superseded this one; the user moved on.
		m.logger.Debug("dropping stale exercise fetch", zap.Int("seq", msg.seq))
		return
	}
	// The user may have stepped into the edit form meanwhile; the result
	// still belongs to the client underneath, so apply it and let the
	// detail view show it on return.
	if msg.err != nil {
		m.detail.status = fetchFailed
		var serr *wger.StatusError
		if errors.As(msg.err, &serr) {
			m.detail.message = fmt.Sprintf("Exercise catalog error (status %d).", serr.Code)
		} else {
			m.detail.message = "Could not reach the exercise catalog."
		}
		m.logger.Warn("exercise fetch failed", zap.Error(msg.err))
		return
	}
	if len(msg.names) == 0 {
		m.detail.status = fetchFailed
		m.detail.message = "No exercises found to suggest."
		return
	}
	m.detail.status = fetchDone
	m.detail.exercises = msg.names
	m.detail.message = ""
}

// CLIENT DETAIL
func (m *model) updateClientDetail(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if focus := m.ensureMenuInput(detailPrompt, 64); focus != nil {
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
		action, ok := resolveMenuSelection(detailOptions, choice)
		if !ok {
			if choice == "" {
				return batchCmds(cmds)
			}
			m.errMessage = "Unknown choice"
			return batchCmds(cmds)
		}
		m.errMessage = ""
		switch action {
		case detailActionEdit:
			m.beginEditClient(m.detail.record.ID)
			return batchCmds(cmds)
		case detailActionRefresh:
			m.detail.status = fetchLoading
			m.detail.exercises = nil
			cmds = append(cmds, m.fetchExercisesCmd())
			return batchCmds(cmds)
		case detailActionBack:
			m.popState()
			cmds = append(cmds, m.returnToMenuInput())
			return batchCmds(cmds)
		}
	case tea.KeyEsc:
		m.popState()
		cmds = append(cmds, m.returnToMenuInput())
		return batchCmds(cmds)
	}
	return batchCmds(cmds)
}

func (m *model) viewClientDetail() string {
	c := m.detail.record
	lines := []string{m.theme.Title.Render(c.FullName)}

	pairs := []struct{ label, value string }{
		{"Age", orDash(c.Age)},
		{"Gender", orDash(c.Gender)},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"Goal", c.Goal},
		{"Start date", c.StartDate},
		{"End date", c.EndDate},
	}
	for _, p := range pairs {
		lines = append(lines, m.theme.Secondary.Render(fmt.Sprintf("%-11s %s", p.label+":", p.value)))
	}
	lines = append(lines, "")

	lines = append(lines, m.theme.Subtitle.Render("Suggested Exercises"))
	switch m.detail.status {
	case fetchLoading:
		lines = append(lines, m.theme.Faint.Render("Fetching exercise ideas…"))
	case fetchFailed:
		lines = append(lines, m.theme.Warning.Render(m.detail.message))
	case fetchDone:
		for i, name := range m.detail.exercises {
			lines = append(lines, m.theme.Primary.Render(fmt.Sprintf("%d. %s", i+1, name)))
		}
	}
	lines = append(lines, "")

	lines = append(lines, m.theme.Subtitle.Render("Actions"))
	lines = append(lines, m.theme.Secondary.Render("1. Edit this client"))
	lines = append(lines, m.theme.Secondary.Render("2. New suggestions"))
	lines = append(lines, m.theme.Faint.Render("3. Back"))
	lines = append(lines, "")
	lines = append(lines, m.theme.Accent.Render("> ")+m.menuInput.View())
	if m.infoMessage != "" {
		lines = append(lines, "", m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.errMessage))
	}
	return strings.Join(lines, "\n") + "\n"
}
