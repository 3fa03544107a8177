package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/focuslens/internal/models"
)

const (
	fieldPauses = iota
	fieldRessenti
)

// StopForm collects the feedback recorded when a session ends. Learning
// projects have no ressenti field.
type StopForm struct {
	inputs   []textinput.Model
	focus    int // index into inputs, or len(inputs) for the completion toggle
	learning bool
	complete bool
	err      string
}

// NewStopForm creates the form with the pauses field focused
func NewStopForm(learning bool) StopForm {
	n := 2
	if learning {
		n = 1
	}

	inputs := make([]textinput.Model, n)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 10
		inputs[i].CharLimit = 4
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	}
	inputs[fieldPauses].Placeholder = "0"
	inputs[fieldPauses].Focus()
	if !learning {
		inputs[fieldRessenti].Placeholder = "1-5, empty to skip"
		inputs[fieldRessenti].CharLimit = 1
	}

	return StopForm{inputs: inputs, learning: learning}
}

// ParseStopForm validates the raw form values. An empty pauses field means
// no pauses; an empty ressenti field means none recorded.
func ParseStopForm(pauses, ressenti string, learning bool) (int, *int, error) {
	minutes := 0
	if s := strings.TrimSpace(pauses); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, nil, fmt.Errorf("pauses must be a whole number of minutes")
		}
		minutes = n
	}

	if learning {
		return minutes, nil, nil
	}
	s := strings.TrimSpace(ressenti)
	if s == "" {
		return minutes, nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < models.MinRessenti || n > models.MaxRessenti {
		return 0, nil, fmt.Errorf("ressenti must be between %d and %d", models.MinRessenti, models.MaxRessenti)
	}
	return minutes, &n, nil
}

// Values parses the current input
func (f StopForm) Values() (int, *int, error) {
	ressenti := ""
	if !f.learning {
		ressenti = f.inputs[fieldRessenti].Value()
	}
	return ParseStopForm(f.inputs[fieldPauses].Value(), ressenti, f.learning)
}

// Complete reports whether the task should be marked completed
func (f StopForm) Complete() bool {
	return f.complete
}

// Update handles a key press. submitted is true once enter is pressed on
// valid values.
func (f StopForm) Update(msg tea.KeyMsg) (form StopForm, cmd tea.Cmd, submitted bool) {
	switch msg.String() {
	case "tab", "down":
		return f.moveFocus(1), textinput.Blink, false
	case "shift+tab", "up":
		return f.moveFocus(-1), textinput.Blink, false
	case " ", "x":
		if f.focus == len(f.inputs) {
			f.complete = !f.complete
			return f, nil, false
		}
	case "enter":
		if _, _, err := f.Values(); err != nil {
			f.err = err.Error()
			return f, nil, false
		}
		f.err = ""
		return f, nil, true
	}

	if f.focus < len(f.inputs) {
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		f.err = ""
	}
	return f, cmd, false
}

func (f StopForm) moveFocus(delta int) StopForm {
	stops := len(f.inputs) + 1
	f.focus = (f.focus + delta + stops) % stops
	for i := range f.inputs {
		if i == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return f
}

// View renders the form
func (f StopForm) View(width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Width(22)
	activeLabel := labelStyle.Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)

	label := func(i int, text string) string {
		if f.focus == i {
			return activeLabel.Render(text)
		}
		return labelStyle.Render(text)
	}

	var rows []string
	rows = append(rows, label(fieldPauses, "Pauses (minutes)")+f.inputs[fieldPauses].View())
	if !f.learning {
		rows = append(rows, label(fieldRessenti, "Ressenti")+f.inputs[fieldRessenti].View())
	}

	box := "[ ]"
	if f.complete {
		box = "[x]"
	}
	rows = append(rows, label(len(f.inputs), "Mark task completed")+box)

	if f.err != "" {
		rows = append(rows, "", lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render(f.err))
	}

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Render("STOP SESSION")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(1, 2).
		Width(min(width-4, 56)).
		Render(title + "\n\n" + strings.Join(rows, "\n"))
}
