// Package app owns the live session state. It replaces the original page
// global: components get a handle to App, mutations run one at a time, and
// observers receive immutable snapshots after every change.
package app

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"finquest/internal/caldate"
	"finquest/internal/habits"
	"finquest/internal/ledger"
	"finquest/internal/notify"
	"finquest/internal/store"
)

// ErrInsufficientFunds is returned for a spend the balance cannot cover. The
// ledger itself would clamp; affordability is checked here, at the boundary.
var ErrInsufficientFunds = errors.New("insufficient funds")

const notificationTTL = 4 * time.Second

// Snapshot is an immutable view of the session state.
type Snapshot struct {
	Account ledger.Account
	Habits  habits.State
}

// App is the single writer over the session's account and habit state. One
// mutation runs to completion, including its local persistence write, before
// the next; only the remote sync is asynchronous.
type App struct {
	log      *slog.Logger
	bridge   *store.Bridge
	notifier *notify.Emitter

	mu        sync.Mutex
	account   ledger.Account
	habits    habits.State
	observers []func(Snapshot)
}

func New(bridge *store.Bridge, notifier *notify.Emitter, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		log:      logger,
		bridge:   bridge,
		notifier: notifier,
		account:  ledger.NewAccount(),
		habits:   habits.NewState(),
	}
}

// Start loads persisted state and rolls the habit checklist to today. It
// pushes the "welcome" or "progress loaded" notification per load outcome.
func (a *App) Start(ctx context.Context) store.LoadStatus {
	account, habitState, status := a.bridge.Load(ctx)

	a.mu.Lock()
	a.account = account
	a.habits = habits.RollDay(habitState, caldate.Today())
	if a.habits.TaskDay != habitState.TaskDay {
		a.bridge.SaveHabits(a.habits)
	}
	a.mu.Unlock()

	switch status {
	case store.LoadedRemote:
		a.push("Progress loaded.", notify.StyleSuccess)
	case store.CreatedRemote:
		a.push("Welcome! A fresh account was created for you.", notify.StyleSuccess)
	default:
		a.push("Working offline. Progress is saved on this device.", notify.StyleDefault)
	}
	return status
}

// Subscribe registers an observer called with a snapshot after every mutation.
func (a *App) Subscribe(fn func(Snapshot)) {
	a.mu.Lock()
	a.observers = append(a.observers, fn)
	a.mu.Unlock()
}

// Snapshot returns the current state.
func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{Account: a.account, Habits: a.habits}
}

// Login applies the daily-login rules for today.
func (a *App) Login(username string) {
	a.mutate(func(account ledger.Account) (ledger.Account, []ledger.Event) {
		return ledger.RecordLogin(account, username, caldate.Today())
	})
}

// Adjust applies a signed balance delta with no affordability check: rewards
// and game events that simply happen to the player. Optional purchases go
// through Spend instead.
func (a *App) Adjust(amount float64, source, label string) {
	a.mutate(func(account ledger.Account) (ledger.Account, []ledger.Event) {
		return ledger.ApplyTransaction(account, amount, ledger.Meta{Source: source, Label: label})
	})
}

// Spend debits the balance after an affordability check.
func (a *App) Spend(amount float64, source, label string) error {
	a.mu.Lock()
	if amount > a.account.Balance {
		a.mu.Unlock()
		return ErrInsufficientFunds
	}
	next, events := ledger.ApplyTransaction(a.account, -amount, ledger.Meta{Source: source, Label: label})
	a.commitAndUnlock(next, events)
	return nil
}

// ReadArticle pays the article reward at most once per article.
func (a *App) ReadArticle(articleID string, reward float64) {
	a.mutate(func(account ledger.Account) (ledger.Account, []ledger.Event) {
		return ledger.MarkArticleRead(account, articleID, reward)
	})
}

// Invest spends the position cost and opens the position as one mutation.
func (a *App) Invest(inv ledger.Investment) error {
	a.mu.Lock()
	if inv.Amount > a.account.Balance {
		a.mu.Unlock()
		return ErrInsufficientFunds
	}
	next, events := ledger.ApplyTransaction(a.account, -inv.Amount, ledger.Meta{
		Source: "invest",
		Label:  "Opened position " + inv.Symbol,
	})
	next = ledger.OpenInvestment(next, inv)
	a.commitAndUnlock(next, events)
	return nil
}

// Realize closes an open position at the given multiplier. Unknown ids are a
// silent no-op, mirroring the ledger.
func (a *App) Realize(id string, multiplier float64) {
	a.mutate(func(account ledger.Account) (ledger.Account, []ledger.Event) {
		return ledger.RealizeInvestment(account, id, multiplier)
	})
}

// ToggleHabit flips one checklist task and reports the streak state after.
func (a *App) ToggleHabit(taskID string) habits.Streak {
	a.mu.Lock()
	before := a.habits.Streak
	a.habits = habits.ToggleTask(a.habits, taskID, caldate.Today())
	after := a.habits.Streak
	allDone := a.habits.AllDone()
	a.bridge.SaveHabits(a.habits)
	snapshot := Snapshot{Account: a.account, Habits: a.habits}
	observers := append([]func(Snapshot){}, a.observers...)
	a.mu.Unlock()

	if allDone && after.LastCompleted != before.LastCompleted {
		a.push("All habits done today! Streak: "+strconv.Itoa(after.Current), notify.StyleSuccess)
	}
	for _, fn := range observers {
		fn(snapshot)
	}
	return after
}

// ResetHabits zeroes the habit streak. The confirmation lives in the UI.
func (a *App) ResetHabits() {
	a.mu.Lock()
	a.habits = habits.Reset(a.habits)
	a.bridge.SaveHabits(a.habits)
	snapshot := Snapshot{Account: a.account, Habits: a.habits}
	observers := append([]func(Snapshot){}, a.observers...)
	a.mu.Unlock()

	a.push("Habit streak reset.", notify.StyleDanger)
	for _, fn := range observers {
		fn(snapshot)
	}
}

// Flush waits for in-flight remote persistence. Called before process exit.
func (a *App) Flush() {
	a.bridge.Flush()
}

// mutate runs one ledger transition to completion, persists, and notifies.
func (a *App) mutate(fn func(ledger.Account) (ledger.Account, []ledger.Event)) {
	a.mu.Lock()
	next, events := fn(a.account)
	a.commitAndUnlock(next, events)
}

// commitAndUnlock stores the next snapshot, kicks persistence, and releases
// the lock before fanning out notifications and observer callbacks.
func (a *App) commitAndUnlock(next ledger.Account, events []ledger.Event) {
	a.account = next
	a.bridge.SaveAccount(next)
	snapshot := Snapshot{Account: a.account, Habits: a.habits}
	observers := append([]func(Snapshot){}, a.observers...)
	a.mu.Unlock()

	for _, ev := range events {
		a.push(ev.Text, ev.Style)
	}
	for _, fn := range observers {
		fn(snapshot)
	}
}

func (a *App) push(text, style string) {
	if a.notifier == nil {
		return
	}
	a.notifier.Push(text, notificationTTL, style)
}
