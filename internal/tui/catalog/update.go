package catalog

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail.Width = msg.Width
		m.detail.Height = max(msg.Height-4, 1)
		m.refreshDetail()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case CatalogLoadedMsg:
		m.setItems(msg.Items)
		return m, nil

	case CalculationCompleteMsg:
		delete(m.running, msg.ID)
		delete(m.failures, msg.ID)
		m.results[msg.ID] = msg.Result
		m.refreshDetail()
		return m, nil

	case CalculationErrorMsg:
		delete(m.running, msg.ID)
		delete(m.results, msg.ID)
		m.failures[msg.ID] = msg.Error.Error()
		m.refreshDetail()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	default:
		return m.handleListKeys(msg)
	}
}

// handleListKeys handles keys in list view
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		m.MoveCursorUp()

	case "down", "j":
		m.MoveCursorDown()

	case "c":
		m.cycleCategory()

	case "enter":
		if selected, ok := m.Selected(); ok {
			m.selectedID = selected.ID
			m.viewMode = ViewDetail
			m.detail.GotoTop()
			m.refreshDetail()
		}

	case "r":
		if selected, ok := m.Selected(); ok {
			return m.runExample(selected.ID)
		}

	case "?":
		m.viewMode = ViewHelp
	}
	return m, nil
}

// handleDetailKeys handles keys in detail view
func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc", "backspace":
		m.viewMode = ViewList
		m.selectedID = ""
		return m, nil

	case "r":
		return m.runExample(m.selectedID)

	case "?":
		m.viewMode = ViewHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// handleHelpKeys handles keys in help view
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		if m.selectedID != "" {
			m.viewMode = ViewDetail
		} else {
			m.viewMode = ViewList
		}
	}
	return m, nil
}

func (m Model) runExample(id score.ID) (tea.Model, tea.Cmd) {
	meta, ok := m.byID(id)
	if !ok || m.running[meta.ID] {
		return m, nil
	}
	m.running[meta.ID] = true
	m.refreshDetail()
	return m, tea.Batch(m.spinner.Tick, calculateExampleCmd(m.ctx, m.service, meta))
}
