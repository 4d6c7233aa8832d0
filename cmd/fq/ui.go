package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"finquest/internal/app"
	"finquest/internal/caldate"
	"finquest/internal/ledger"
	"finquest/internal/lifegame"
	"finquest/internal/market"
	"finquest/internal/money"
	"finquest/internal/notify"
	"finquest/internal/quiz"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func todayDate() caldate.Date {
	return caldate.Today()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolvePosition matches an open position by full id or unique prefix.
func resolvePosition(account ledger.Account, ref string) (ledger.Investment, bool) {
	var match ledger.Investment
	hits := 0
	for _, inv := range account.Investments {
		if inv.ID == ref {
			return inv, true
		}
		if strings.HasPrefix(inv.ID, ref) {
			match = inv
			hits++
		}
	}
	if hits == 1 {
		return match, true
	}
	return ledger.Investment{}, false
}

// renderNotifications drains the transient feed to the terminal. In a CLI the
// messages have nowhere to fade out, so they print once at command exit.
func renderNotifications(e *notify.Emitter) {
	for _, msg := range e.Active() {
		switch msg.Style {
		case notify.StyleSuccess:
			success.Println("* " + msg.Text)
		case notify.StyleDanger:
			danger.Println("* " + msg.Text)
		default:
			neutral.Println("* " + msg.Text)
		}
	}
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptIndex(label string, count int) (int, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(text)
		if err != nil || v < 1 || v > count {
			printWarn(fmt.Sprintf("Enter a number between 1 and %d.", count))
			continue
		}
		return v - 1, nil
	}
}

func promptQuiz(deck quiz.Deck) ([]int, error) {
	accent.Printf("\n== QUIZ: %s ==\n", deck.Name)
	answers := make([]int, 0, len(deck.Questions))
	for i, q := range deck.Questions {
		fmt.Printf("\n%d. %s\n", i+1, q.Prompt)
		for j, opt := range q.Options {
			fmt.Printf("   %d) %s\n", j+1, opt)
		}
		idx, err := promptIndex("Your answer", len(q.Options))
		if err != nil {
			return nil, err
		}
		answers = append(answers, idx)
	}
	fmt.Println()
	return answers, nil
}

func promptScenario(s lifegame.Scenario) (int, error) {
	accent.Printf("\n== %s ==\n", strings.ToUpper(s.Title))
	fmt.Println(s.Prompt)
	fmt.Println()
	for i, c := range s.Choices {
		fmt.Printf("   %d) %s\n", i+1, c.Label)
	}
	return promptIndex("Your choice", len(s.Choices))
}

func renderDashboard(snap app.Snapshot, m *market.Market) {
	account := snap.Account
	accent.Println("\n== FINQUEST ==")
	if account.Username != "" {
		fmt.Printf("Player:        %s\n", account.Username)
	}
	fmt.Printf("Balance:       %s\n", money.Format(account.Balance))
	fmt.Printf("Login streak:  %d day(s)\n", account.LoginStreak)
	fmt.Printf("Habit streak:  %d day(s) (best %d)\n", snap.Habits.Streak.Current, snap.Habits.Streak.Best)
	fmt.Printf("Articles read: %d\n", len(account.ReadArticles))

	fmt.Println()
	accent.Println("Today's habits")
	for _, task := range snap.Habits.Tasks {
		mark := "[ ]"
		if task.Done {
			mark = success.Sprint("[x]")
		}
		fmt.Printf("  %s %s\n", mark, task.Description)
	}

	fmt.Println()
	accent.Println("Open positions")
	if len(account.Investments) == 0 {
		printInfo("No open positions. Try `fq market list`.")
	} else {
		renderPositionRows(account, m)
	}
	fmt.Println()
}

func renderHistory(account ledger.Account, limit int) {
	accent.Println("\n== HISTORY ==")
	if len(account.Transactions) == 0 {
		printInfo("No transactions yet.")
		return
	}
	fmt.Printf("%-17s %-10s %14s %14s  %s\n", "WHEN", "SOURCE", "AMOUNT", "BALANCE", "LABEL")
	txns := account.Transactions
	start := len(txns) - limit
	if start < 0 {
		start = 0
	}
	for i := len(txns) - 1; i >= start; i-- {
		t := txns[i]
		fmt.Printf("%-17s %-10s %14s %14s  %s\n",
			t.Timestamp.Local().Format("2006-01-02 15:04"),
			t.Source,
			colorizeAmount(t.Amount),
			money.Format(t.BalanceAfter),
			t.Label,
		)
	}
	fmt.Println()
}

func renderQuotes(m *market.Market) {
	accent.Println("\n== MARKET ==")
	today := todayDate()
	fmt.Printf("%-8s %-20s %12s %12s\n", "SYMBOL", "NAME", "PRICE", "DAY")
	for _, s := range m.Symbols() {
		quote, _ := m.Quote(s.Code, today)
		prev, _ := m.Quote(s.Code, today.Add(-1))
		fmt.Printf("%-8s %-20s %12s %12s\n",
			s.Code,
			s.Name,
			money.Format(quote),
			colorizeAmount(money.Round2(quote-prev)),
		)
	}
	fmt.Println()
}

func renderPositions(account ledger.Account, m *market.Market) {
	accent.Println("\n== POSITIONS ==")
	if len(account.Investments) == 0 {
		printInfo("No open positions.")
		return
	}
	renderPositionRows(account, m)
	fmt.Println()
}

func renderPositionRows(account ledger.Account, m *market.Market) {
	today := todayDate()
	fmt.Printf("%-10s %-8s %10s %12s %12s %14s %14s\n", "ID", "SYMBOL", "UNITS", "BUY", "NOW", "VALUE", "P/L")
	for _, inv := range account.Investments {
		units, _ := strconv.ParseFloat(inv.Metadata[market.MetaUnits], 64)
		buyPrice, _ := strconv.ParseFloat(inv.Metadata[market.MetaBuyPrice], 64)
		quote, ok := m.Quote(inv.Symbol, today)
		if !ok {
			fmt.Printf("%-10s %-8s %10.4f %12s %12s %14s %14s\n",
				shortID(inv.ID), inv.Symbol, units, money.Format(buyPrice), "?", "?", "?")
			continue
		}
		value := money.Round2(quote * units)
		fmt.Printf("%-10s %-8s %10.4f %12s %12s %14s %14s\n",
			shortID(inv.ID),
			inv.Symbol,
			units,
			money.Format(buyPrice),
			money.Format(quote),
			money.Format(value),
			colorizeAmount(money.Round2(value-inv.Amount)),
		)
	}
}

func renderScenarioList(scenarios []lifegame.Scenario) {
	accent.Println("\n== LIFE SCENARIOS ==")
	fmt.Printf("%-12s %s\n", "ID", "TITLE")
	for _, s := range scenarios {
		fmt.Printf("%-12s %s\n", s.ID, s.Title)
	}
	fmt.Println()
	printInfo("Play one with `fq life <id>`.")
}

func renderArticles(catalog []article, account ledger.Account) {
	accent.Println("\n== READING LIST ==")
	fmt.Printf("%-16s %-34s %10s %-6s\n", "ID", "TITLE", "REWARD", "READ")
	for _, a := range catalog {
		read := ""
		if account.ReadArticles[a.ID] {
			read = success.Sprint("yes")
		}
		fmt.Printf("%-16s %-34s %10s %-6s\n", a.ID, a.Title, money.Format(a.Reward), read)
	}
	fmt.Println()
	printInfo("Read one with `fq read <id>`. Each article pays out once.")
}

func colorizeAmount(v float64) string {
	text := money.FormatSigned(v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}
