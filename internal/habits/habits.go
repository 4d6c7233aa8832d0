// Package habits tracks the daily checklist and its completion streak.
//
// The streak lives on calendar days: it advances at most once per day, when
// the task set first transitions to all-done, and only stays unbroken when
// that happens exactly one day after the previous completion.
package habits

import (
	"finquest/internal/caldate"
)

// Task is one checklist item. The set is fixed for a day and resets daily.
type Task struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// Streak is the completion counter over calendar days.
type Streak struct {
	Current       int            `json:"current"`
	Best          int            `json:"best"`
	LastCompleted caldate.Date   `json:"last_completed"`
	History       []caldate.Date `json:"history"`
}

// State is the tracker's full persisted state. TaskDay records which calendar
// day the Done flags belong to, so a restart on a later day clears them.
type State struct {
	Tasks   []Task       `json:"tasks"`
	TaskDay caldate.Date `json:"task_day"`
	Streak  Streak       `json:"streak"`
}

// CalendarDay is one cell of the streak calendar projection.
type CalendarDay struct {
	Date   caldate.Date
	Active bool
}

// DefaultTasks is the stock daily checklist.
func DefaultTasks() []Task {
	return []Task{
		{ID: "track-spending", Description: "Log today's spending"},
		{ID: "check-budget", Description: "Review your budget"},
		{ID: "save-something", Description: "Move something into savings"},
		{ID: "learn", Description: "Read one money lesson"},
	}
}

// NewState returns the default tracker state for a first run.
func NewState() State {
	return State{Tasks: DefaultTasks(), Streak: Streak{History: []caldate.Date{}}}
}

func (s State) clone() State {
	next := s
	next.Tasks = append([]Task{}, s.Tasks...)
	next.Streak.History = append([]caldate.Date{}, s.Streak.History...)
	return next
}

// AllDone reports whether every task is checked off.
func (s State) AllDone() bool {
	if len(s.Tasks) == 0 {
		return false
	}
	for _, t := range s.Tasks {
		if !t.Done {
			return false
		}
	}
	return true
}

// RollDay clears the Done flags when the stored flags belong to an earlier
// day. The streak itself is untouched; missing a day shows up as a reset on
// the next completion.
func RollDay(s State, today caldate.Date) State {
	if s.TaskDay == today {
		return s
	}
	next := s.clone()
	next.TaskDay = today
	for i := range next.Tasks {
		next.Tasks[i].Done = false
	}
	return next
}

// ToggleTask flips one task's Done flag. When the flip completes the whole
// set and the streak has not already advanced today, the streak transition
// fires: +1 on a completion exactly one day after the last, otherwise back to
// 1. Toggling tasks off and on again later the same day cannot fire it twice.
func ToggleTask(s State, taskID string, today caldate.Date) State {
	next := RollDay(s, today).clone()
	found := false
	for i := range next.Tasks {
		if next.Tasks[i].ID == taskID {
			next.Tasks[i].Done = !next.Tasks[i].Done
			found = true
			break
		}
	}
	if !found {
		return s
	}

	if next.AllDone() && next.Streak.LastCompleted != today {
		if !next.Streak.LastCompleted.IsZero() && caldate.DaysBetween(next.Streak.LastCompleted, today) == 1 {
			next.Streak.Current++
		} else {
			next.Streak.Current = 1
		}
		if next.Streak.Current > next.Streak.Best {
			next.Streak.Best = next.Streak.Current
		}
		next.Streak.LastCompleted = today
		next.Streak.History = append(next.Streak.History, today)
	}
	return next
}

// Reset zeroes the streak and un-dones every task. The confirmation prompt
// guarding this lives at the UI boundary.
func Reset(s State) State {
	next := s.clone()
	next.Streak = Streak{History: []caldate.Date{}}
	for i := range next.Tasks {
		next.Tasks[i].Done = false
	}
	return next
}

// Calendar projects the last windowDays days ending today, each tagged with
// whether the checklist was completed on that day. Pure projection.
func Calendar(s State, today caldate.Date, windowDays int) []CalendarDay {
	done := make(map[caldate.Date]bool, len(s.Streak.History))
	for _, d := range s.Streak.History {
		done[d] = true
	}
	out := make([]CalendarDay, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		day := today.Add(-i)
		out = append(out, CalendarDay{Date: day, Active: done[day]})
	}
	return out
}
