package ledger

import (
	"time"

	"finquest/internal/caldate"
)

const (
	// StarterBalance seeds a brand-new account.
	StarterBalance = 1000.0

	// LoginBonus is credited for logging in on consecutive calendar days.
	LoginBonus = 10.0
	// MissedDayPenalty is debited when a login streak is broken.
	MissedDayPenalty = 20.0

	// MaxTransactions bounds the retained ledger history, oldest dropped first.
	MaxTransactions = 200
	// MaxLoginDates bounds the retained login-date window.
	MaxLoginDates = 30
)

// Transaction is one ledger entry. Amount keeps the signed value as requested
// by the caller; only BalanceAfter reflects the clamp at zero.
type Transaction struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Amount       float64   `json:"amount"`
	BalanceAfter float64   `json:"balance_after"`
	Source       string    `json:"source"`
	Label        string    `json:"label"`
}

// Investment is an open position created by OpenInvestment and removed by
// RealizeInvestment.
type Investment struct {
	ID       string            `json:"id"`
	Amount   float64           `json:"amount"`
	Symbol   string            `json:"symbol"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Account is the full per-user financial state. Transitions never mutate an
// Account in place; they return the next snapshot.
type Account struct {
	Username      string          `json:"username,omitempty"`
	Balance       float64         `json:"balance"`
	LastLoginDate caldate.Date    `json:"last_login_date"`
	LoginStreak   int             `json:"login_streak"`
	LoginDates    []string        `json:"login_dates"`
	ReadArticles  map[string]bool `json:"read_articles"`
	Investments   []Investment    `json:"investments"`
	Transactions  []Transaction   `json:"transactions"`
}

// NewAccount returns the default state for a first run.
func NewAccount() Account {
	return Account{
		Balance:      StarterBalance,
		LoginDates:   []string{},
		ReadArticles: map[string]bool{},
		Investments:  []Investment{},
		Transactions: []Transaction{},
	}
}

// Clone returns a deep copy so a transition can build the next snapshot
// without aliasing the previous one.
func (a Account) Clone() Account {
	next := a
	next.LoginDates = append([]string{}, a.LoginDates...)
	next.ReadArticles = make(map[string]bool, len(a.ReadArticles))
	for k, v := range a.ReadArticles {
		next.ReadArticles[k] = v
	}
	next.Investments = make([]Investment, len(a.Investments))
	for i, inv := range a.Investments {
		next.Investments[i] = inv
		if inv.Metadata != nil {
			next.Investments[i].Metadata = make(map[string]string, len(inv.Metadata))
			for k, v := range inv.Metadata {
				next.Investments[i].Metadata[k] = v
			}
		}
	}
	next.Transactions = append([]Transaction{}, a.Transactions...)
	return next
}

// FindInvestment returns the open position with the given id, if any.
func (a Account) FindInvestment(id string) (Investment, bool) {
	for _, inv := range a.Investments {
		if inv.ID == id {
			return inv, true
		}
	}
	return Investment{}, false
}
