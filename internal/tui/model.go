// Package tui renders the interactive finder: a query line above a ranked
// result list. All selection state lives in the session controller; this
// package only translates key events and draws.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mvp-joe/symseek/internal/session"
)

// Model is the bubbletea model for the finder.
type Model struct {
	controller *session.Controller
	keys       keyMap
	styles     *Styles

	width  int
	height int
}

// New creates a finder model over the given controller.
func New(controller *session.Controller) Model {
	return Model{
		controller: controller,
		keys:       defaultKeyMap(),
		styles:     DefaultStyles(),
		width:      80,
		height:     24,
	}
}

// Controller returns the underlying session controller.
func (m Model) Controller() *session.Controller {
	return m.controller
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Every handled key mutates the controller
// and the next View call renders the new state; Confirm and Cancel end
// the program.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.controller.Cancel()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Confirm):
			if m.controller.Confirm() {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Up):
			m.controller.MoveUp()
			return m, nil

		case key.Matches(msg, m.keys.Down):
			m.controller.MoveDown()
			return m, nil

		case key.Matches(msg, m.keys.Backspace):
			m.controller.Backspace()
			return m, nil
		}

		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			for _, r := range msg.Runes {
				m.controller.InsertRune(r)
			}
			return m, nil
		}
	}

	return m, nil
}

// View implements tea.Model: query line on top, results below, selection
// highlighted.
func (m Model) View() string {
	query := m.styles.Query.Width(m.width - 2).Render(m.controller.Query() + "█")
	results := m.styles.Results.Width(m.width - 2).Render(m.renderResults())
	return lipgloss.JoinVertical(lipgloss.Left, query, results)
}

// renderResults draws the visible slice of the ranked list, keeping the
// cursor in view.
func (m Model) renderResults() string {
	results := m.controller.Results()
	if len(results) == 0 {
		return m.styles.Muted.Render("No matches")
	}

	cursor := m.controller.Cursor()

	// Space left after the query block and borders.
	visible := m.height - 6
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(results) {
		end = len(results)
	}

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		rec := results[i].Record
		location := fmt.Sprintf("%s:%d:%d", rec.File, rec.Line, rec.Column)

		if i == cursor {
			lines = append(lines, m.styles.Selected.Render("> "+rec.Signature)+"  "+m.styles.Muted.Render(location))
		} else {
			lines = append(lines, m.styles.Normal.Render("  "+rec.Signature)+"  "+m.styles.Muted.Render(location))
		}
	}

	lines = append(lines, "")
	lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("%d/%d", cursor+1, len(results))))
	return strings.Join(lines, "\n")
}
