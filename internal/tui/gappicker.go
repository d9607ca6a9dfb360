package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cadence/internal/focus"
)

// GapPickerResult holds the proposal the user selected and the task name
// they typed for it.
type GapPickerResult struct {
	Index    int // index into the proposals passed to NewGapPickerApp
	TaskName string
	Canceled bool
}

// GapPickerApp is a two-step picker: choose a focus opportunity, then name
// the task. Wrap it with tea.NewProgram.
type GapPickerApp struct {
	picker gapPickerModel
	result *GapPickerResult
}

func NewGapPickerApp(proposals []focus.Proposal) *GapPickerApp {
	return &GapPickerApp{picker: newGapPicker(proposals)}
}

func (a *GapPickerApp) Init() tea.Cmd {
	return a.picker.Init()
}

func (a *GapPickerApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.picker.Update(msg)
	a.picker = m.(gapPickerModel)

	if a.picker.done || a.picker.canceled {
		a.result = a.picker.Result()
		return a, tea.Quit
	}

	return a, cmd
}

func (a *GapPickerApp) View() string {
	return a.picker.View()
}

func (a *GapPickerApp) GetResult() *GapPickerResult {
	return a.result
}

type gapPickerModel struct {
	proposals []focus.Proposal
	cursor    int
	naming    bool // second step: typing the task name
	taskInput textinput.Model
	done      bool
	canceled  bool
}

func newGapPicker(proposals []focus.Proposal) gapPickerModel {
	ti := textinput.New()
	ti.Placeholder = "What will you work on?"

	return gapPickerModel{
		proposals: proposals,
		taskInput: ti,
	}
}

func (m gapPickerModel) Init() tea.Cmd {
	return nil
}

func (m gapPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, nil
		case "enter":
			if !m.naming {
				m.naming = true
				m.taskInput.Focus()
				return m, textinput.Blink
			}
			m.done = true
			return m, nil
		case "up", "k":
			if !m.naming && m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if !m.naming && m.cursor < len(m.proposals)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	if m.naming {
		var cmd tea.Cmd
		m.taskInput, cmd = m.taskInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m gapPickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Focus Opportunities"))
	b.WriteString("\n")

	for i, p := range m.proposals {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		window := fmt.Sprintf("%s–%s", p.Start.Local().Format("15:04"), p.End.Local().Format("15:04"))
		line := fmt.Sprintf("%s%s  %d min — %s", cursor, window, p.Minutes, p.SuggestedTimer)
		if i == m.cursor {
			line = highlightStyle.Render(cursor+window) + fmt.Sprintf("  %d min — %s", p.Minutes, p.SuggestedTimer)
		}
		b.WriteString(line)
		b.WriteString("\n")

		var context []string
		if p.After != "" {
			context = append(context, "after: "+p.After)
		}
		if p.Before != "" {
			context = append(context, "before: "+p.Before)
		}
		if len(context) > 0 {
			b.WriteString(dimStyle.Render("      " + strings.Join(context, " · ")))
			b.WriteString("\n")
		}
	}

	if m.naming {
		b.WriteString("\n")
		b.WriteString(m.taskInput.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("Enter: start session — Esc: cancel"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓: select — Enter: choose — Esc: cancel"))
	}

	return b.String()
}

func (m gapPickerModel) Result() *GapPickerResult {
	if m.canceled {
		return &GapPickerResult{Canceled: true}
	}
	return &GapPickerResult{
		Index:    m.cursor,
		TaskName: strings.TrimSpace(m.taskInput.Value()),
	}
}
