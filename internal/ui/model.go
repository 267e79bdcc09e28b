package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fitterm/internal/client"
	"fitterm/internal/config"
	"fitterm/internal/theme"
	"fitterm/internal/wger"
)

// Program wraps the Bubble Tea program lifecycle.
type Program struct {
	program *tea.Program
}

// NewProgram constructs a new interactive session.
func NewProgram(repo *client.Repository, catalog wger.CatalogFetcher, cfg *config.Store, logger *zap.Logger) *Program {
	m := newModel(repo, catalog, cfg, logger)
	return &Program{program: tea.NewProgram(m)}
}

// Start launches the Bubble Tea program.
func (p *Program) Start() error {
	if p == nil || p.program == nil {
		return errNilProgram
	}
	return p.program.Start()
}

var errNilProgram = errors.New("nil program")

type viewState int

const (
	stateMainMenu viewState = iota
	stateClients
	stateClientForm
	stateClientDetail
	stateConfirmDelete
	stateSettings
	stateSettingsEditName
	stateSettingsEditTimezone
)

type model struct {
	state       viewState
	prevStates  []viewState
	repo        *client.Repository
	catalog     wger.CatalogFetcher
	cfg         *config.Store
	logger      *zap.Logger
	theme       theme.Theme
	width       int
	height      int
	infoMessage string
	errMessage  string
	showSplash  bool

	menuInput textinput.Model

	clientFilter textinput.Model
	visible      []client.Client

	form     clientForm
	detail   detailModel
	confirm  confirmModel
	settings settingsModel

	// fetchSeq tags exercise fetches so a late response for a previously
	// viewed client is discarded instead of painting the current view.
	fetchSeq int
}

type confirmModel struct {
	id    int64
	name  string
	input textinput.Model
}

type settingsModel struct {
	input textinput.Model
	err   string
}

type menuOption struct {
	id       string
	keywords []string
	synonyms []string
}

const (
	menuClients   = "clients"
	menuAddClient = "add-client"
	menuSettings  = "settings"
	menuQuit      = "quit"
)

const (
	detailActionEdit    = "edit-client"
	detailActionRefresh = "refresh-suggestions"
	detailActionBack    = "back"
)

var mainMenuOptions = []menuOption{
	{
		id:       menuClients,
		keywords: []string{"clients", "view"},
		synonyms: []string{"1", "c", "clients", "view", "view clients"},
	},
	{
		id:       menuAddClient,
		keywords: []string{"add", "new"},
		synonyms: []string{"2", "add", "add client", "new client"},
	},
	{
		id:       menuSettings,
		keywords: []string{"settings", "help"},
		synonyms: []string{"3", "settings", "help"},
	},
	{
		id:       menuQuit,
		keywords: []string{"quit", "exit"},
		synonyms: []string{"4", "quit", "exit", "exit.", "q"},
	},
}

var detailOptions = []menuOption{
	{
		id:       detailActionEdit,
		keywords: []string{"edit", "update"},
		synonyms: []string{"1", "edit", "update", "edit client"},
	},
	{
		id:       detailActionRefresh,
		keywords: []string{"suggestions", "refresh"},
		synonyms: []string{"2", "refresh", "suggestions", "new suggestions"},
	},
	{
		id:       detailActionBack,
		keywords: []string{"back", "close"},
		synonyms: []string{"3", "back", "exit", "exit.", "/"},
	},
}

const splashBanner = `    _______ __  ______
   / ____(_) /_/_  __/__  _________ ___
  / /_  / / __/ / / / _ \/ ___/ __ '__ \
 / __/ / / /_  / / /  __/ /  / / / / / /
/_/   /_/\__/ /_/  \___/_/  /_/ /_/ /_/
`

const detailPrompt = "1=Edit  2=New suggestions  3=Back"

func newModel(repo *client.Repository, catalog wger.CatalogFetcher, cfg *config.Store, logger *zap.Logger) *model {
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Choose an option"
	ti.CharLimit = 32
	ti.Focus()

	filter := textinput.New()
	filter.Prompt = ""
	filter.Placeholder = "Type to search names, / to go back"
	filter.CharLimit = 64

	m := model{
		state:        stateMainMenu,
		repo:         repo,
		catalog:      catalog,
		cfg:          cfg,
		logger:       logger,
		theme:        theme.Default(),
		menuInput:    ti,
		clientFilter: filter,
		showSplash:   true,
	}
	m.form = newClientForm(nil)
	m.settings = newSettingsModel()
	m.refreshClients()
	return &m
}

func newSettingsModel() settingsModel {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 96
	return settingsModel{input: input}
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case exercisesMsg:
		m.applyExercises(msg)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateMainMenu:
		cmd = m.updateMainMenu(msg)
	case stateClients:
		cmd = m.updateClients(msg)
	case stateClientForm:
		cmd = m.updateClientForm(msg)
	case stateClientDetail:
		cmd = m.updateClientDetail(msg)
	case stateConfirmDelete:
		cmd = m.updateConfirmDelete(msg)
	case stateSettings, stateSettingsEditName, stateSettingsEditTimezone:
		cmd = m.updateSettings(msg)
	default:
		m.state = stateMainMenu
		cmd = m.updateMainMenu(msg)
	}
	return m, cmd
}

func (m *model) View() string {
	switch m.state {
	case stateMainMenu:
		return m.viewMainMenu()
	case stateClients:
		return m.viewClients()
	case stateClientForm:
		return m.viewClientForm()
	case stateClientDetail:
		return m.viewClientDetail()
	case stateConfirmDelete:
		return m.viewConfirmDelete()
	case stateSettings, stateSettingsEditName, stateSettingsEditTimezone:
		return m.viewSettings()
	default:
		return ""
	}
}

// Navigation helpers
func (m *model) pushState(next viewState) {
	m.prevStates = append(m.prevStates, m.state)
	m.state = next
}

func (m *model) popState() {
	if len(m.prevStates) == 0 {
		m.state = stateMainMenu
		return
	}
	idx := len(m.prevStates) - 1
	m.state = m.prevStates[idx]
	m.prevStates = m.prevStates[:idx]
}

func (m *model) resetMessages() {
	m.errMessage = ""
	m.infoMessage = ""
}

func (m *model) setMenuInput(placeholder string, limit int) tea.Cmd {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	if limit > 0 {
		input.CharLimit = limit
	}
	cmd := input.Focus()
	m.menuInput = input
	return cmd
}

func (m *model) ensureMenuInput(placeholder string, limit int) tea.Cmd {
	if strings.TrimSpace(m.menuInput.Placeholder) == placeholder {
		if limit <= 0 || m.menuInput.CharLimit == limit {
			if !m.menuInput.Focused() {
				return m.menuInput.Focus()
			}
			return nil
		}
	}
	return m.setMenuInput(placeholder, limit)
}

// returnToMenuInput restores the main-menu prompt after popping state.
func (m *model) returnToMenuInput() tea.Cmd {
	switch m.state {
	case stateMainMenu:
		return m.setMenuInput("Choose an option", 32)
	case stateClientDetail:
		return m.setMenuInput(detailPrompt, 64)
	}
	return nil
}

func resolveMenuSelection(options []menuOption, input string) (string, bool) {
	value := strings.TrimSpace(strings.ToLower(input))
	if value == "" {
		return "", false
	}
	// direct matches first
	for _, option := range options {
		for _, syn := range option.synonyms {
			if value == syn {
				return option.id, true
			}
		}
	}

	matches := make(map[string]struct{})
	for _, option := range options {
		for _, keyword := range option.keywords {
			if strings.HasPrefix(keyword, value) {
				matches[option.id] = struct{}{}
				break
			}
		}
	}
	if len(matches) == 1 {
		for id := range matches {
			return id, true
		}
	}
	return "", false
}

func batchCmds(cmds []tea.Cmd) tea.Cmd {
	filtered := cmds[:0]
	for _, c := range cmds {
		if c != nil {
			filtered = append(filtered, c)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	default:
		return tea.Batch(filtered...)
	}
}

// global command helpers
func isExitCommand(value string) bool {
	v := strings.TrimSpace(strings.ToLower(value))
	return v == "exit." || v == "quit"
}

func isBackCommand(value string) bool {
	v := strings.TrimSpace(strings.ToLower(value))
	return v == "/" || v == "back"
}

func (m *model) refreshClients() {
	m.visible = m.repo.Search(m.clientFilter.Value())
}

// MAIN MENU
func (m *model) updateMainMenu(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if focus := m.ensureMenuInput("Choose an option", 32); focus != nil {
		cmds = append(cmds, focus)
	}

	var cmd tea.Cmd
	m.menuInput, cmd = m.menuInput.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		choice := strings.TrimSpace(strings.ToLower(m.menuInput.Value()))
		m.menuInput.SetValue("")
		m.showSplash = false
		action, ok := resolveMenuSelection(mainMenuOptions, choice)
		if !ok {
			if choice == "" || choice == "0" {
				return batchCmds(cmds)
			}
			m.errMessage = "Unknown choice"
			return batchCmds(cmds)
		}
		switch action {
		case menuClients:
			m.resetMessages()
			m.pushState(stateClients)
			if !m.clientFilter.Focused() {
				if focus := m.clientFilter.Focus(); focus != nil {
					cmds = append(cmds, focus)
				}
			}
			m.refreshClients()
		case menuAddClient:
			m.resetMessages()
			m.form = newClientForm(nil)
			m.pushState(stateClientForm)
		case menuSettings:
			m.resetMessages()
			m.settings = newSettingsModel()
			m.pushState(stateSettings)
			if focus := m.setMenuInput("1=Name  2=Timezone  3=Back", 40); focus != nil {
				cmds = append(cmds, focus)
			}
		case menuQuit:
			cmds = append(cmds, tea.Quit)
		}
	}

	return batchCmds(cmds)
}

func (m *model) viewMainMenu() string {
	lines := []string{}
	if m.showSplash {
		lines = append(lines, splashBanner)
		lines = append(lines, "")
	}
	lines = append(lines, m.theme.Title.Render("FitTerm"))
	lines = append(lines, m.theme.Secondary.Render("Client management for fitness professionals"))
	if m.infoMessage != "" {
		lines = append(lines, m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, m.theme.Danger.Render(m.errMessage))
	}
	menu := []string{
		"1. View clients",
		"2. Add client",
		"3. Settings",
		"4. Quit",
	}
	lines = append(lines, "")
	for _, item := range menu {
		lines = append(lines, m.theme.Primary.Render(item))
	}
	lines = append(lines, "")
	lines = append(lines, m.theme.Accent.Render("> ")+m.menuInput.View())
	return strings.Join(lines, "\n") + "\n"
}
