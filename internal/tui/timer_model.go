package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/focuslens/internal/models"
	"github.com/balkashynov/focuslens/internal/parser"
)

// TimerModel shows a running session and collects its stop feedback
type TimerModel struct {
	width  int
	height int

	task    models.Task
	project models.Project
	session models.Session
	now     func() time.Time

	// Timer state
	elapsed time.Duration
	frame   int // header animation frame

	// Stop form, nil while the clock is shown alone
	form *StopForm

	// Outcome
	stopping bool // feedback submitted, the session must be closed
	exiting  bool // left without stopping, the session keeps running
}

// timerTickMsg is sent every second to update the timer
type timerTickMsg struct{}

// animationTickMsg drives the header animation
type animationTickMsg struct{}

// NewTimerModel creates a timer for the open session of task
func NewTimerModel(task models.Task, project models.Project, session models.Session, now func() time.Time) TimerModel {
	if now == nil {
		now = time.Now
	}
	return TimerModel{
		task:    task,
		project: project,
		session: session,
		now:     now,
		elapsed: session.Elapsed(now()),
	}
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return timerTickMsg{} })
}

func animationTick() tea.Cmd {
	return tea.Tick(400*time.Millisecond, func(time.Time) tea.Msg { return animationTickMsg{} })
}

// Init starts the tickers
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(timerTick(), animationTick())
}

func (m TimerModel) done() bool {
	return m.stopping || m.exiting
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.elapsed = m.session.Elapsed(m.now())
		if m.done() {
			return m, nil
		}
		return m, timerTick()

	case animationTickMsg:
		m.frame = (m.frame + 1) % 4
		if m.done() {
			return m, nil
		}
		return m, animationTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.exiting = true
			return m, tea.Quit
		}
		if m.form != nil {
			return m.updateForm(msg)
		}

		switch msg.String() {
		case "s", "S":
			form := NewStopForm(m.project.Category == models.CategoryLearning)
			m.form = &form
			return m, nil
		case "esc", "q":
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m TimerModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.form = nil
		return m, nil
	}

	form, cmd, submitted := m.form.Update(msg)
	m.form = &form
	if submitted {
		m.stopping = true
		return m, tea.Quit
	}
	return m, cmd
}

// Stopping reports whether the user submitted the stop form
func (m TimerModel) Stopping() bool {
	return m.stopping
}

// Feedback returns the submitted stop form values
func (m TimerModel) Feedback() (pauses int, ressenti *int, complete bool, err error) {
	if m.form == nil {
		return 0, nil, false, fmt.Errorf("no stop feedback entered")
	}
	pauses, ressenti, err = m.form.Values()
	return pauses, ressenti, m.form.Complete(), err
}

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderTimerPanel(m.width, contentHeight), helpBar)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2
	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderTaskPanel(rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
}

func (m TimerModel) renderTimerPanel(width, height int) string {
	var parts []string

	marks := []string{"◐", "◓", "◑", "◒"}
	header := fmt.Sprintf("%s  FOCUS  %s", marks[m.frame], marks[m.frame])
	parts = append(parts, centered(width).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Render(header))

	parts = append(parts, centered(width).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Render(truncate(m.task.Title, width-4)))

	clockColor := ColorAccentMain
	if m.task.EstHours > 0 && m.elapsed > time.Duration(m.task.EstHours)*time.Hour {
		clockColor = ColorWarning
	}
	var clock []string
	for _, line := range strings.Split(bigClock(m.elapsed, clockColor), "\n") {
		clock = append(clock, centered(width).Render(line))
	}
	parts = append(parts, strings.Join(clock, "\n"))

	info := fmt.Sprintf("Started at %s", m.session.Start.In(time.Local).Format("15:04:05"))
	if m.session.PausesMinutes > 0 {
		info += fmt.Sprintf(" · %dm paused", m.session.PausesMinutes)
	}
	parts = append(parts, centered(width).
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Render(info))

	if m.form != nil {
		parts = append(parts, centered(width).Render(m.form.View(width)))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(parts, "\n\n"))
}

func (m TimerModel) renderTaskPanel(width, height int) string {
	inner := width - 8
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width-12).
		Padding(0, 1).
		Render(m.task.Title))
	b.WriteString("\n\n")

	field := func(label, value, color string) {
		line := fmt.Sprintf("%s: %s", label, lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(value))
		b.WriteString(centered(inner).Render(line))
		b.WriteString("\n")
	}

	projectColor := m.project.ColorHex
	if projectColor == "" {
		projectColor = categoryColor(m.project.Category)
	}
	field("Project", m.project.Name, projectColor)
	field("Category", m.project.Category.Label(), categoryColor(m.project.Category))
	field("Type", m.task.Type.Label(), ColorSecondaryText)
	field("Estimate", fmt.Sprintf("%dh", m.task.EstHours), ColorSecondaryText)

	now := m.now()
	dueColor := ColorSecondaryText
	if parser.DayKey(m.task.DueDate) < parser.DayKey(now) {
		dueColor = ColorWarning
	}
	field("Due", parser.FormatDueDate(m.task.DueDate, now), dueColor)

	tracked := m.task.TrackedTime(now)
	field("Tracked", FormatDuration(tracked), ColorAccentBright)
	field("Sessions", fmt.Sprintf("%d", len(m.task.Sessions)), ColorSecondaryText)

	return lipgloss.NewStyle().Height(height).Render(b.String())
}

func (m TimerModel) renderHelpBar() string {
	help := "s stop session · esc/q exit (keep running) · ctrl+c force quit"
	if m.form != nil {
		help = "tab next field · space toggle completed · enter save · esc back to timer"
	}
	return centered(m.width).
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Render(help)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width < 4 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
