package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"finquest/internal/app"
	"finquest/internal/habits"
)

var (
	habitsTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	habitsDoneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	habitsCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	habitsStreakStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	calendarOnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	calendarOffStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newHabitsCmd() *cobra.Command {
	habitsCmd := &cobra.Command{
		Use:   "habits",
		Short: "Daily money habits checklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer s.finish()

			model := newHabitsModel(s.app)
			if _, err := tea.NewProgram(model).Run(); err != nil {
				return fmt.Errorf("habits ui: %w", err)
			}
			return nil
		},
	}
	habitsCmd.AddCommand(&cobra.Command{
		Use:   "calendar",
		Short: "Streak calendar for the last 30 days",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer s.finish()

			renderHabitCalendar(s.app.Snapshot().Habits)
			return nil
		},
	})
	habitsCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset the habit streak to zero",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer s.finish()

			streak := s.app.Snapshot().Habits.Streak
			answer, err := promptChoice(
				fmt.Sprintf("Reset your %d-day habit streak? This cannot be undone", streak.Current),
				[]string{"y", "n"}, "n")
			if err != nil {
				return err
			}
			if answer != "y" {
				printInfo("Streak kept.")
				return nil
			}
			s.app.ResetHabits()
			return nil
		},
	})
	return habitsCmd
}

type habitsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

func (k habitsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Quit}
}

func (k habitsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Toggle, k.Quit}}
}

var habitsKeys = habitsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "toggle"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// habitsModel is the interactive checklist. Every toggle goes through the app
// so streak rules and persistence run exactly as they would anywhere else.
type habitsModel struct {
	app    *app.App
	state  habits.State
	cursor int
	keys   habitsKeyMap
	help   help.Model
}

func newHabitsModel(a *app.App) habitsModel {
	return habitsModel{
		app:   a,
		state: a.Snapshot().Habits,
		keys:  habitsKeys,
		help:  help.New(),
	}
}

func (m habitsModel) Init() tea.Cmd {
	return nil
}

func (m habitsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.state.Tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if m.cursor < len(m.state.Tasks) {
				m.app.ToggleHabit(m.state.Tasks[m.cursor].ID)
				m.state = m.app.Snapshot().Habits
			}
		}
	}
	return m, nil
}

func (m habitsModel) View() string {
	var b strings.Builder
	b.WriteString(habitsTitleStyle.Render("Daily habits") + "\n\n")

	for i, task := range m.state.Tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = habitsCursorStyle.Render("> ")
		}
		mark := "[ ]"
		desc := task.Description
		if task.Done {
			mark = habitsDoneStyle.Render("[x]")
			desc = habitsDoneStyle.Render(desc)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, mark, desc))
	}

	b.WriteString("\n")
	streak := m.state.Streak
	b.WriteString(habitsStreakStyle.Render(
		fmt.Sprintf("Streak: %d day(s), best %d", streak.Current, streak.Best)) + "\n")
	if m.state.AllDone() {
		b.WriteString(habitsDoneStyle.Render("All done for today!") + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}

func renderHabitCalendar(state habits.State) {
	accent.Println("\n== HABIT CALENDAR ==")
	days := habits.Calendar(state, todayDate(), 30)
	var cells []string
	for _, d := range days {
		if d.Active {
			cells = append(cells, calendarOnStyle.Render("#"))
		} else {
			cells = append(cells, calendarOffStyle.Render("."))
		}
	}
	fmt.Printf("%s .. %s\n", days[0].Date, days[len(days)-1].Date)
	fmt.Println(strings.Join(cells, " "))
	fmt.Printf("Streak: %d day(s), best %d\n\n", state.Streak.Current, state.Streak.Best)
}
