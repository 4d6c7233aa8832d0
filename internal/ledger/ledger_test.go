package ledger

import (
	"fmt"
	"reflect"
	"testing"

	"finquest/internal/caldate"
)

func TestApplyTransactionEndToEnd(t *testing.T) {
	state := NewAccount() // starts at 1000

	steps := []struct {
		amount float64
		label  string
	}{
		{-50, "food"},
		{500, "freelance"},
		{-20, "tea"},
	}
	for _, s := range steps {
		state, _ = ApplyTransaction(state, s.amount, Meta{Source: "test", Label: s.label})
	}

	if state.Balance != 1430.00 {
		t.Fatalf("balance = %v, want 1430.00", state.Balance)
	}
	if len(state.Transactions) != 3 {
		t.Fatalf("transactions = %d, want 3", len(state.Transactions))
	}
	last := state.Transactions[2]
	if last.BalanceAfter != 1430.00 {
		t.Fatalf("last balance_after = %v, want 1430.00", last.BalanceAfter)
	}
	if last.Amount != -20 {
		t.Fatalf("last amount = %v, want -20", last.Amount)
	}
}

func TestApplyTransactionClampsBalanceNotAmount(t *testing.T) {
	state := NewAccount()
	state.Balance = 30

	state, _ = ApplyTransaction(state, -100, Meta{Source: "test", Label: "overdraft"})
	if state.Balance != 0 {
		t.Fatalf("balance = %v, want 0", state.Balance)
	}
	tx := state.Transactions[len(state.Transactions)-1]
	if tx.Amount != -100 {
		t.Fatalf("recorded amount = %v, want the requested -100", tx.Amount)
	}
	if tx.BalanceAfter != 0 {
		t.Fatalf("balance_after = %v, want 0", tx.BalanceAfter)
	}
}

func TestTransactionHistoryBounded(t *testing.T) {
	state := NewAccount()
	n := MaxTransactions + 25
	for i := 0; i < n; i++ {
		state, _ = ApplyTransaction(state, 1, Meta{Source: "test", Label: fmt.Sprintf("t%d", i)})
	}
	if len(state.Transactions) != MaxTransactions {
		t.Fatalf("retained %d transactions, want %d", len(state.Transactions), MaxTransactions)
	}
	// Oldest entries dropped first: the first retained entry is t25.
	if got := state.Transactions[0].Label; got != "t25" {
		t.Fatalf("oldest retained label = %q, want t25", got)
	}
	if got := state.Transactions[MaxTransactions-1].Label; got != fmt.Sprintf("t%d", n-1) {
		t.Fatalf("newest label = %q", got)
	}
}

func TestApplyTransactionDoesNotMutateInput(t *testing.T) {
	before := NewAccount()
	snapshot := before.Clone()
	_, _ = ApplyTransaction(before, -10, Meta{Source: "test", Label: "x"})
	if !reflect.DeepEqual(before, snapshot) {
		t.Fatalf("input state mutated by ApplyTransaction")
	}
}

func TestRecordLoginSameDayIdempotent(t *testing.T) {
	today := caldate.MustParse("2026-08-28")
	state := NewAccount()
	state, _ = RecordLogin(state, "sam", today)

	again, events := RecordLogin(state, "sam", today)
	if len(events) != 0 {
		t.Fatalf("expected no events on same-day re-login, got %d", len(events))
	}
	if !reflect.DeepEqual(again, state) {
		t.Fatalf("same-day re-login changed state")
	}
}

func TestRecordLoginStreakSequence(t *testing.T) {
	d := caldate.MustParse("2026-08-01")
	state := NewAccount()

	state, _ = RecordLogin(state, "sam", d)
	if state.LoginStreak != 1 {
		t.Fatalf("day D streak = %d, want 1", state.LoginStreak)
	}
	if state.Balance != StarterBalance {
		t.Fatalf("first login changed balance to %v", state.Balance)
	}

	state, _ = RecordLogin(state, "sam", d.Add(1))
	if state.LoginStreak != 2 {
		t.Fatalf("day D+1 streak = %d, want 2", state.LoginStreak)
	}
	if state.Balance != StarterBalance+LoginBonus {
		t.Fatalf("day D+1 balance = %v, want %v", state.Balance, StarterBalance+LoginBonus)
	}

	// Skip D+2 entirely.
	state, _ = RecordLogin(state, "sam", d.Add(3))
	if state.LoginStreak != 1 {
		t.Fatalf("day D+3 streak = %d, want 1", state.LoginStreak)
	}
	want := StarterBalance + LoginBonus - MissedDayPenalty
	if state.Balance != want {
		t.Fatalf("day D+3 balance = %v, want %v", state.Balance, want)
	}
}

func TestRecordLoginPenaltyClampsAtZero(t *testing.T) {
	d := caldate.MustParse("2026-08-01")
	state := NewAccount()
	state.Balance = 5
	state, _ = RecordLogin(state, "sam", d)
	state, _ = RecordLogin(state, "sam", d.Add(4))
	if state.Balance != 0 {
		t.Fatalf("balance = %v, want 0 after clamped penalty", state.Balance)
	}
}

func TestRecordLoginDatesBounded(t *testing.T) {
	d := caldate.MustParse("2026-01-01")
	state := NewAccount()
	for i := 0; i < MaxLoginDates+10; i++ {
		state, _ = RecordLogin(state, "sam", d.Add(i))
	}
	if len(state.LoginDates) != MaxLoginDates {
		t.Fatalf("login dates = %d, want %d", len(state.LoginDates), MaxLoginDates)
	}
	if state.LoginDates[len(state.LoginDates)-1] != d.Add(MaxLoginDates+9).String() {
		t.Fatalf("newest login date = %q", state.LoginDates[len(state.LoginDates)-1])
	}
}

func TestMarkArticleReadIdempotent(t *testing.T) {
	state := NewAccount()
	once, _ := MarkArticleRead(state, "a1", 50)
	if once.Balance != StarterBalance+50 {
		t.Fatalf("balance = %v, want %v", once.Balance, StarterBalance+50)
	}
	twice, events := MarkArticleRead(once, "a1", 50)
	if len(events) != 0 {
		t.Fatalf("expected no events on repeat read")
	}
	if !reflect.DeepEqual(twice, once) {
		t.Fatalf("repeat read changed state")
	}
	if twice.Balance != StarterBalance+50 {
		t.Fatalf("reward paid twice: balance = %v", twice.Balance)
	}
}

func TestRealizeInvestment(t *testing.T) {
	state := NewAccount()
	state = OpenInvestment(state, Investment{ID: "inv-1", Amount: 200, Symbol: "NIMBUS"})

	gain, _ := RealizeInvestment(state, "inv-1", 1.5)
	if gain.Balance != StarterBalance+300 {
		t.Fatalf("balance = %v, want %v", gain.Balance, StarterBalance+300)
	}
	if len(gain.Investments) != 0 {
		t.Fatalf("position not removed")
	}

	loss, _ := RealizeInvestment(state, "inv-1", 0.25)
	if loss.Balance != StarterBalance+50 {
		t.Fatalf("loss balance = %v, want %v", loss.Balance, StarterBalance+50)
	}
}

func TestRealizeInvestmentUnknownIDNoOp(t *testing.T) {
	state := NewAccount()
	state = OpenInvestment(state, Investment{ID: "inv-1", Amount: 200, Symbol: "NIMBUS"})
	out, events := RealizeInvestment(state, "nope", 2.0)
	if len(events) != 0 {
		t.Fatalf("expected no events for unknown id")
	}
	if !reflect.DeepEqual(out, state) {
		t.Fatalf("unknown id changed state")
	}
}

func TestOpenInvestmentHasNoBalanceEffect(t *testing.T) {
	state := NewAccount()
	next := OpenInvestment(state, Investment{ID: "inv-1", Amount: 200, Symbol: "NIMBUS",
		Metadata: map[string]string{"units": "2"}})
	if next.Balance != state.Balance {
		t.Fatalf("balance changed by OpenInvestment")
	}
	if len(next.Transactions) != 0 {
		t.Fatalf("OpenInvestment wrote a transaction")
	}
	if _, ok := next.FindInvestment("inv-1"); !ok {
		t.Fatalf("position missing")
	}
}
