package market

import (
	"testing"

	"finquest/internal/caldate"
)

func TestQuoteDeterministicPerDay(t *testing.T) {
	m := New(VolatilityMor)
	day := caldate.MustParse("2026-08-28")

	a, ok := m.Quote("NIMBUS", day)
	if !ok {
		t.Fatalf("NIMBUS missing")
	}
	b, _ := m.Quote("NIMBUS", day)
	if a != b {
		t.Fatalf("same-day quotes differ: %v vs %v", a, b)
	}
	if a < 1 {
		t.Fatalf("quote %v below floor", a)
	}

	// Quotes are reproducible across Market instances too.
	c, _ := New(VolatilityMor).Quote("NIMBUS", day)
	if c != a {
		t.Fatalf("quotes differ across instances: %v vs %v", c, a)
	}
}

func TestQuoteUnknownSymbol(t *testing.T) {
	m := New(VolatilityCalm)
	if _, ok := m.Quote("NOPERS", caldate.Today()); ok {
		t.Fatalf("unknown symbol quoted")
	}
}

func TestPrepareBuyAndExitMultiplier(t *testing.T) {
	m := New(VolatilityCalm)
	day := caldate.MustParse("2026-08-28")

	pos, err := m.PrepareBuy("inv-1", "VECTRA", 2, day)
	if err != nil {
		t.Fatalf("prepare buy: %v", err)
	}
	quote, _ := m.Quote("VECTRA", day)
	if pos.Cost <= 0 || pos.Investment.Symbol != "VECTRA" {
		t.Fatalf("bad position %+v", pos)
	}
	if pos.Investment.Metadata[MetaBuyPrice] == "" {
		t.Fatalf("buy price metadata missing")
	}

	// Exit the same day: multiplier is exactly 1.
	mult, err := m.ExitMultiplier(pos.Investment, day)
	if err != nil {
		t.Fatalf("exit multiplier: %v", err)
	}
	if mult != 1 {
		t.Fatalf("same-day multiplier = %v, want 1 (quote %v)", mult, quote)
	}

	// A later day prices against that day's quote.
	later, err := m.ExitMultiplier(pos.Investment, day.Add(30))
	if err != nil {
		t.Fatalf("later multiplier: %v", err)
	}
	laterQuote, _ := m.Quote("VECTRA", day.Add(30))
	buyQuote, _ := m.Quote("VECTRA", day)
	if want := laterQuote / buyQuote; later != want {
		t.Fatalf("multiplier = %v, want %v", later, want)
	}
}

func TestPrepareBuyRejectsBadInput(t *testing.T) {
	m := New(VolatilityMor)
	day := caldate.Today()
	if _, err := m.PrepareBuy("inv-1", "VECTRA", 0, day); err == nil {
		t.Fatalf("expected zero units to fail")
	}
	if _, err := m.PrepareBuy("inv-1", "NOPERS", 1, day); err == nil {
		t.Fatalf("expected unknown symbol to fail")
	}
}

func TestSymbolsSorted(t *testing.T) {
	m := New(VolatilityMor)
	symbols := m.Symbols()
	for i := 1; i < len(symbols); i++ {
		if symbols[i-1].Code >= symbols[i].Code {
			t.Fatalf("symbols not sorted at %d", i)
		}
	}
}
