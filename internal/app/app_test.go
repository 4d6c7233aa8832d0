package app

import (
	"context"
	"testing"
	"time"

	"finquest/internal/ledger"
	"finquest/internal/notify"
	"finquest/internal/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	bridge := store.NewBridge(store.NewCache(t.TempDir()), nil, nil, store.FireAndForget)
	a := New(bridge, notify.NewEmitter(), nil)
	a.Start(context.Background())
	return a
}

func TestSpendChecksAffordability(t *testing.T) {
	a := newTestApp(t)

	if err := a.Spend(ledger.StarterBalance+1, "shop", "too much"); err != ErrInsufficientFunds {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if err := a.Spend(50, "shop", "tea"); err != nil {
		t.Fatalf("affordable spend failed: %v", err)
	}
	if got := a.Snapshot().Account.Balance; got != ledger.StarterBalance-50 {
		t.Fatalf("balance = %v", got)
	}
}

func TestObserverReceivesSnapshots(t *testing.T) {
	a := newTestApp(t)

	var got []float64
	a.Subscribe(func(s Snapshot) { got = append(got, s.Account.Balance) })

	a.Adjust(500, "quiz", "Quiz reward")
	if err := a.Spend(20, "shop", "tea"); err != nil {
		t.Fatalf("spend: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("observer called %d times, want 2", len(got))
	}
	if got[0] != ledger.StarterBalance+500 || got[1] != ledger.StarterBalance+480 {
		t.Fatalf("observed balances %v", got)
	}
}

func TestReadArticleIdempotentThroughApp(t *testing.T) {
	a := newTestApp(t)
	a.ReadArticle("a1", 50)
	a.ReadArticle("a1", 50)
	if got := a.Snapshot().Account.Balance; got != ledger.StarterBalance+50 {
		t.Fatalf("balance = %v, want single reward", got)
	}
}

func TestInvestAndRealize(t *testing.T) {
	a := newTestApp(t)
	inv := ledger.Investment{ID: "inv-1", Amount: 200, Symbol: "NIMBUS"}
	if err := a.Invest(inv); err != nil {
		t.Fatalf("invest: %v", err)
	}
	snap := a.Snapshot()
	if snap.Account.Balance != ledger.StarterBalance-200 {
		t.Fatalf("balance after invest = %v", snap.Account.Balance)
	}
	if _, ok := snap.Account.FindInvestment("inv-1"); !ok {
		t.Fatalf("position missing")
	}

	a.Realize("inv-1", 1.5)
	snap = a.Snapshot()
	if snap.Account.Balance != ledger.StarterBalance+100 {
		t.Fatalf("balance after realize = %v", snap.Account.Balance)
	}
	if len(snap.Account.Investments) != 0 {
		t.Fatalf("position not closed")
	}
}

func TestInvestRejectsUnaffordable(t *testing.T) {
	a := newTestApp(t)
	err := a.Invest(ledger.Investment{ID: "inv-1", Amount: ledger.StarterBalance + 1, Symbol: "NIMBUS"})
	if err != ErrInsufficientFunds {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if len(a.Snapshot().Account.Investments) != 0 {
		t.Fatalf("rejected invest still opened a position")
	}
}

func TestToggleHabitNotifiesOnCompletion(t *testing.T) {
	bridge := store.NewBridge(store.NewCache(t.TempDir()), nil, nil, store.FireAndForget)
	notifier := notify.NewEmitter()
	a := New(bridge, notifier, nil)
	a.Start(context.Background())

	for _, task := range a.Snapshot().Habits.Tasks {
		a.ToggleHabit(task.ID)
	}
	streak := a.Snapshot().Habits.Streak
	if streak.Current != 1 {
		t.Fatalf("streak = %d, want 1", streak.Current)
	}

	found := false
	for _, msg := range notifier.Active() {
		if msg.Style == notify.StyleSuccess && msg.ExpiresAt.After(time.Now()) {
			found = true
		}
	}
	if !found {
		t.Fatalf("no completion notification pushed")
	}
}
