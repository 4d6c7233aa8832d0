// Package market is the practice trading floor: a fixed symbol table with
// deterministic day-seeded quotes. No real market data is involved; the point
// is feeling gains and losses with play money.
package market

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strconv"

	"finquest/internal/caldate"
	"finquest/internal/ledger"
	"finquest/internal/money"
)

// Volatility tiers. Wilder tiers swing quotes harder day to day.
const (
	VolatilityCalm = "calm"
	VolatilityMor  = "mor"
	VolatilityWild = "wild"
)

// Metadata keys stored on investment positions.
const (
	MetaUnits    = "units"
	MetaBuyPrice = "buy_price"
)

// quotes walk forward from this date; it only needs to predate any session.
var epoch = caldate.New(2024, 1, 1)

// Symbol is one tradable instrument.
type Symbol struct {
	Code      string
	Name      string
	BasePrice float64
}

// Market quotes a fixed symbol table.
type Market struct {
	symbols   []Symbol
	stepRange float64
}

func defaultSymbols() []Symbol {
	return []Symbol{
		{"NIMBUS", "Nimbus Labs", 95},
		{"COBOLT", "Cobalt Dynamics", 130},
		{"RUSTIC", "Rustic Systems", 115},
		{"PYLONS", "Pylon Networks", 80},
		{"VECTRA", "Vectra AI", 165},
		{"DATUMX", "Datumx Data", 85},
		{"ELIXIR", "Elixir Ops", 125},
		{"SWIFTR", "Swiftr Mobile", 150},
	}
}

// New builds a market with the stock symbol table and the given volatility
// tier. Unknown tiers fall back to the middle one.
func New(volatility string) *Market {
	step := 0.03
	switch volatility {
	case VolatilityCalm:
		step = 0.01
	case VolatilityWild:
		step = 0.08
	}
	return &Market{symbols: defaultSymbols(), stepRange: step}
}

// Symbols returns the table sorted by code.
func (m *Market) Symbols() []Symbol {
	out := append([]Symbol{}, m.symbols...)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Lookup finds a symbol by code.
func (m *Market) Lookup(code string) (Symbol, bool) {
	for _, s := range m.symbols {
		if s.Code == code {
			return s, true
		}
	}
	return Symbol{}, false
}

// Quote returns the price of code on the given day. Quotes are a
// deterministic random walk from the symbol's base price, so every client
// sees the same price for the same day and prices have day-to-day
// continuity.
func (m *Market) Quote(code string, on caldate.Date) (float64, bool) {
	sym, ok := m.Lookup(code)
	if !ok {
		return 0, false
	}
	days := caldate.DaysBetween(epoch, on)
	if days < 0 {
		days = 0
	}
	rng := rand.New(rand.NewSource(seed(code)))
	price := sym.BasePrice
	for i := 0; i < days; i++ {
		step := (rng.Float64()*2 - 1) * m.stepRange
		price *= 1 + step
		if price < 1 {
			price = 1
		}
	}
	return money.Round2(price), true
}

// Position describes a buy order ready to hand to the ledger: the cash cost
// and the open position carrying enough metadata to price the exit.
type Position struct {
	Cost       float64
	Investment ledger.Investment
}

// PrepareBuy prices a buy of the given units at today's quote.
func (m *Market) PrepareBuy(id, code string, units float64, on caldate.Date) (Position, error) {
	if units <= 0 {
		return Position{}, fmt.Errorf("units must be positive")
	}
	quote, ok := m.Quote(code, on)
	if !ok {
		return Position{}, fmt.Errorf("unknown symbol %q", code)
	}
	cost := money.Round2(quote * units)
	return Position{
		Cost: cost,
		Investment: ledger.Investment{
			ID:     id,
			Amount: cost,
			Symbol: code,
			Metadata: map[string]string{
				MetaUnits:    strconv.FormatFloat(units, 'f', -1, 64),
				MetaBuyPrice: strconv.FormatFloat(quote, 'f', -1, 64),
			},
		},
	}, nil
}

// ExitMultiplier prices an open position against today's quote: the ratio the
// ledger applies to the invested amount when the position is realized.
func (m *Market) ExitMultiplier(inv ledger.Investment, on caldate.Date) (float64, error) {
	quote, ok := m.Quote(inv.Symbol, on)
	if !ok {
		return 0, fmt.Errorf("unknown symbol %q", inv.Symbol)
	}
	buyPrice, err := strconv.ParseFloat(inv.Metadata[MetaBuyPrice], 64)
	if err != nil || buyPrice <= 0 {
		return 0, fmt.Errorf("position %s has no valid buy price", inv.ID)
	}
	return quote / buyPrice, nil
}

func seed(code string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(code))
	return int64(h.Sum64())
}
