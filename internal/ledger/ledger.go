// Package ledger is the state machine over a user's financial progress: the
// balance, the bounded transaction history, open investment positions, the
// login streak, and the article-reward guard.
//
// Every transition is a total, pure function from one Account snapshot to the
// next. There is no error path: spend affordability is the caller's check, an
// already-read article or an unknown investment id is a silent no-op, and the
// balance clamps at zero instead of rejecting.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"finquest/internal/caldate"
	"finquest/internal/money"
)

// Event styles understood by the notification layer.
const (
	StyleDefault = "default"
	StyleSuccess = "success"
	StyleDanger  = "danger"
)

// Event describes a user-facing message produced by a transition. Transitions
// stay pure; the session owner forwards events to the notification emitter.
type Event struct {
	Text  string
	Style string
}

// Meta labels a transaction with where it came from.
type Meta struct {
	Source string
	Label  string
}

// ApplyTransaction moves the balance by the signed amount, clamped at zero,
// and appends exactly one ledger entry whose BalanceAfter matches the
// post-mutation balance. The entry records the requested amount unclamped.
func ApplyTransaction(state Account, amount float64, meta Meta) (Account, []Event) {
	next := state.Clone()
	newBalance := state.Balance + amount
	if newBalance < 0 {
		newBalance = 0
	}
	next.Balance = money.Round2(newBalance)
	next.Transactions = append(next.Transactions, Transaction{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Amount:       amount,
		BalanceAfter: next.Balance,
		Source:       meta.Source,
		Label:        meta.Label,
	})
	if over := len(next.Transactions) - MaxTransactions; over > 0 {
		next.Transactions = next.Transactions[over:]
	}

	style := StyleSuccess
	if amount < 0 {
		style = StyleDanger
	}
	events := []Event{{
		Text:  fmt.Sprintf("%s  %s", money.FormatSigned(amount), meta.Label),
		Style: style,
	}}
	return next, events
}

// RecordLogin applies the daily-login rules for today.
//
// Same-day re-login changes nothing. A login exactly one day after the last
// one extends the streak and pays LoginBonus. A gap of two or more days (or a
// first-ever login) resets the streak to 1; the MissedDayPenalty applies only
// when a previous login existed. Today always lands in the bounded LoginDates
// window, duplicates collapsed.
func RecordLogin(state Account, username string, today caldate.Date) (Account, []Event) {
	if state.LastLoginDate == today {
		return state, nil
	}

	next := state.Clone()
	if username != "" {
		next.Username = username
	}

	var events []Event
	switch {
	case state.LastLoginDate.IsZero():
		next.LoginStreak = 1
		events = append(events, Event{Text: "Welcome to FinQuest!", Style: StyleSuccess})
	case caldate.DaysBetween(state.LastLoginDate, today) == 1:
		next.LoginStreak = state.LoginStreak + 1
		var bonus []Event
		next, bonus = ApplyTransaction(next, LoginBonus, Meta{Source: "login", Label: "Daily login bonus"})
		events = append(events, Event{
			Text:  fmt.Sprintf("Login streak: %d days", next.LoginStreak),
			Style: StyleSuccess,
		})
		events = append(events, bonus...)
	default:
		next.LoginStreak = 1
		var penalty []Event
		next, penalty = ApplyTransaction(next, -MissedDayPenalty, Meta{Source: "login", Label: "Missed day penalty"})
		events = append(events, Event{Text: "Streak broken. Starting over.", Style: StyleDanger})
		events = append(events, penalty...)
	}

	next.LastLoginDate = today
	next.LoginDates = appendBoundedDate(next.LoginDates, today.String(), MaxLoginDates)
	return next, events
}

// MarkArticleRead credits the reward for an article exactly once per account.
// A second call for the same id returns the state unchanged.
func MarkArticleRead(state Account, articleID string, reward float64) (Account, []Event) {
	if state.ReadArticles[articleID] {
		return state, nil
	}
	next := state.Clone()
	next.ReadArticles[articleID] = true
	return ApplyTransaction(next, reward, Meta{Source: "article", Label: "Article reward: " + articleID})
}

// OpenInvestment appends a position. The spend that funded it is applied
// separately by the caller before opening.
func OpenInvestment(state Account, inv Investment) Account {
	next := state.Clone()
	next.Investments = append(next.Investments, inv)
	return next
}

// RealizeInvestment closes the position with the given id and credits
// round2(amount * multiplier). The multiplier may be below 1 for a loss; the
// only floor is the global balance clamp. An unknown id is a silent no-op.
func RealizeInvestment(state Account, id string, multiplier float64) (Account, []Event) {
	inv, ok := state.FindInvestment(id)
	if !ok {
		return state, nil
	}
	returned := money.Round2(inv.Amount * multiplier)
	next, events := ApplyTransaction(state, returned, Meta{
		Source: "invest",
		Label:  "Closed position " + inv.Symbol,
	})
	kept := next.Investments[:0]
	for _, open := range next.Investments {
		if open.ID != id {
			kept = append(kept, open)
		}
	}
	next.Investments = kept
	return next, events
}

// appendBoundedDate keeps insertion order, drops an existing duplicate of the
// new entry, and trims from the oldest end past the cap.
func appendBoundedDate(dates []string, day string, limit int) []string {
	out := make([]string, 0, len(dates)+1)
	for _, d := range dates {
		if d != day {
			out = append(out, d)
		}
	}
	out = append(out, day)
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
