package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"finquest/internal/app"
	"finquest/internal/config"
	"finquest/internal/fincalc"
	"finquest/internal/lifegame"
	"finquest/internal/market"
	"finquest/internal/money"
	"finquest/internal/notify"
	"finquest/internal/quiz"
	"finquest/internal/store"
)

func main() {
	root := &cobra.Command{
		Use:          "fq",
		Short:        "FinQuest: learn money by playing with it",
		SilenceUsage: true,
	}

	root.AddCommand(
		newLoginCmd(),
		newDashCmd(),
		newHistoryCmd(),
		newSpendCmd(),
		newQuizCmd(),
		newReadCmd(),
		newLifeCmd(),
		newMarketCmd(),
		newHabitsCmd(),
		newCalcCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// session bundles everything a command needs for one run.
type session struct {
	cfg      config.ClientConfig
	app      *app.App
	notifier *notify.Emitter
}

// openSession loads state, applies the daily login, and returns the live app.
// Commands call finish() before returning so in-flight syncs complete.
func openSession(ctx context.Context, username string) (*session, error) {
	cfg := config.LoadClientFromEnv()

	dir := cfg.CacheDir
	if dir == "" {
		var err error
		dir, err = store.DefaultCacheDir()
		if err != nil {
			return nil, fmt.Errorf("cache dir: %w", err)
		}
	}

	var remote *store.Client
	if !cfg.Offline {
		remote = store.NewClient(cfg.APIBaseURL, cfg.APIKey)
	}
	policy := store.FireAndForget
	if cfg.SyncPolicy == "serial" {
		policy = store.Serial
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	notifier := notify.NewEmitter()
	bridge := store.NewBridge(store.NewCache(dir), remote, logger, policy)

	a := app.New(bridge, notifier, logger)
	a.Start(ctx)
	a.Login(username)

	return &session{cfg: cfg, app: a, notifier: notifier}, nil
}

func (s *session) finish() {
	renderNotifications(s.notifier)
	s.app.Flush()
	s.notifier.Close()
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Record today's login (and optionally set your name)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := ""
			if len(args) > 0 {
				username = strings.TrimSpace(args[0])
			}
			s, err := openSession(cmd.Context(), username)
			if err != nil {
				return err
			}
			defer s.finish()

			snap := s.app.Snapshot()
			printSuccess(fmt.Sprintf("Logged in. Streak: %d day(s). Balance: %s",
				snap.Account.LoginStreak, money.Format(snap.Account.Balance)))
			return nil
		},
	}
}

func newDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Your balance, streaks, and open positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer s.finish()

			renderDashboard(s.app.Snapshot(), market.New(s.cfg.Volatility))
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [n]",
		Short: "Recent ledger entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := 15
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid count %q", args[0])
				}
				limit = n
			}
			s, err := openSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer s.finish()

			renderHistory(s.app.Snapshot().Account, limit)
			return nil
		},
	}
}

func newSpendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spend <amount> <label>",
		Short: "Log a purchase against your balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil || amount <= 0 {
				return fmt.Errorf("invalid amount %q", args[0])
			}
			s, err := openSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer s.finish()

			if err := s.app.Spend(amount, "spend", args[1]); err != nil {
				return err
			}
			printInfo("Balance: " + money.Format(s.app.Snapshot().Account.Balance))
			return nil
		},
	}
}

func newQuizCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quiz",
		Short: "Take a money quiz for rewards",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer s.finish()

			deck := quiz.DefaultDeck()
			if s.cfg.QuizDeck != "" {
				deck, err = quiz.LoadDeck(s.cfg.QuizDeck)
				if err != nil {
					return err
				}
			}

			answers, err := promptQuiz(deck)
			if err != nil {
				return err
			}
			res := quiz.Grade(deck, answers)
			if res.Reward > 0 {
				s.app.Adjust(res.Reward, "quiz", fmt.Sprintf("Quiz: %s (%d/%d)", deck.Name, res.Correct, res.Total))
			}
			printSuccess(fmt.Sprintf("%d/%d correct. Earned %s.", res.Correct, res.Total, money.Format(res.Reward)))
			return nil
		},
	}
}

func newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read [article_id]",
		Short: "Read an article; each one pays out once",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer s.finish()

			if len(args) == 0 {
				renderArticles(articleCatalog, s.app.Snapshot().Account)
				return nil
			}
			article, ok := findArticle(args[0])
			if !ok {
				return fmt.Errorf("unknown article %q (run `fq read` to list)", args[0])
			}
			printInfo(article.Title)
			printInfo(strings.Repeat("-", len(article.Title)))
			printInfo(article.Body)
			s.app.ReadArticle(article.ID, article.Reward)
			return nil
		},
	}
}

func newLifeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "life [scenario_id]",
		Short: "Play a life-simulator scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer s.finish()

			scenarios := lifegame.Default()
			if s.cfg.Scenarios != "" {
				scenarios, err = lifegame.Load(s.cfg.Scenarios)
				if err != nil {
					return err
				}
			}

			if len(args) == 0 {
				renderScenarioList(scenarios)
				return nil
			}
			scenario, ok := lifegame.Find(scenarios, args[0])
			if !ok {
				return fmt.Errorf("unknown scenario %q (run `fq life` to list)", args[0])
			}

			idx, err := promptScenario(scenario)
			if err != nil {
				return err
			}
			choice, err := lifegame.Pick(scenario, idx)
			if err != nil {
				return err
			}
			if choice.Delta != 0 {
				s.app.Adjust(choice.Delta, "life", scenario.Title)
			}
			printInfo(choice.Outcome)
			return nil
		},
	}
}

func newMarketCmd() *cobra.Command {
	mk := &cobra.Command{
		Use:   "market",
		Short: "Practice trading with play money",
	}
	mk.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Today's quotes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer s.finish()
			renderQuotes(market.New(s.cfg.Volatility))
			return nil
		},
	})
	mk.AddCommand(&cobra.Command{
		Use:   "buy <symbol> <units>",
		Short: "Open a position at today's quote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := strconv.ParseFloat(args[1], 64)
			if err != nil || units <= 0 {
				return fmt.Errorf("invalid units %q", args[1])
			}
			s, err := openSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer s.finish()

			m := market.New(s.cfg.Volatility)
			pos, err := m.PrepareBuy(uuid.NewString(), strings.ToUpper(args[0]), units, todayDate())
			if err != nil {
				return err
			}
			if err := s.app.Invest(pos.Investment); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Bought %s %s for %s (position %s)",
				args[1], pos.Investment.Symbol, money.Format(pos.Cost), shortID(pos.Investment.ID)))
			return nil
		},
	})
	mk.AddCommand(&cobra.Command{
		Use:   "positions",
		Short: "Open positions priced at today's quotes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer s.finish()
			renderPositions(s.app.Snapshot().Account, market.New(s.cfg.Volatility))
			return nil
		},
	})
	mk.AddCommand(&cobra.Command{
		Use:   "sell <position_id>",
		Short: "Close a position at today's quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			defer s.finish()

			account := s.app.Snapshot().Account
			inv, ok := resolvePosition(account, args[0])
			if !ok {
				return fmt.Errorf("no open position matching %q", args[0])
			}
			mult, err := market.New(s.cfg.Volatility).ExitMultiplier(inv, todayDate())
			if err != nil {
				return err
			}
			s.app.Realize(inv.ID, mult)
			printSuccess(fmt.Sprintf("Closed %s at %.2fx. Balance: %s",
				inv.Symbol, mult, money.Format(s.app.Snapshot().Account.Balance)))
			return nil
		},
	})
	return mk
}

func newCalcCmd() *cobra.Command {
	calc := &cobra.Command{
		Use:   "calc",
		Short: "Financial calculators",
	}
	calc.AddCommand(&cobra.Command{
		Use:   "compound <principal> <annual_rate> <years> [compounds_per_year]",
		Short: "Future value with compound interest",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, rate, err := parseMoneyRate(args[0], args[1])
			if err != nil {
				return err
			}
			years, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid years %q", args[2])
			}
			n := 12
			if len(args) == 4 {
				if n, err = strconv.Atoi(args[3]); err != nil {
					return fmt.Errorf("invalid compounding frequency %q", args[3])
				}
			}
			fv, err := fincalc.CompoundInterest(principal, rate, years, n)
			if err != nil {
				return err
			}
			printInfo(fmt.Sprintf("%s grows to %s over %g years at %.2f%%",
				money.Format(principal), money.Format(fv), years, rate*100))
			return nil
		},
	})
	calc.AddCommand(&cobra.Command{
		Use:   "loan <principal> <annual_rate> <months>",
		Short: "Fixed monthly payment for an amortized loan",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, rate, err := parseMoneyRate(args[0], args[1])
			if err != nil {
				return err
			}
			months, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid months %q", args[2])
			}
			pay, err := fincalc.LoanPayment(principal, rate, months)
			if err != nil {
				return err
			}
			printInfo(fmt.Sprintf("%s per month for %d months", money.Format(pay), months))
			return nil
		},
	})
	calc.AddCommand(&cobra.Command{
		Use:   "goal <start> <target> <monthly> [annual_rate]",
		Short: "Months of saving until a goal",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid start %q", args[0])
			}
			target, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid target %q", args[1])
			}
			monthly, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid monthly %q", args[2])
			}
			rate := 0.0
			if len(args) == 4 {
				if rate, err = strconv.ParseFloat(args[3], 64); err != nil {
					return fmt.Errorf("invalid rate %q", args[3])
				}
			}
			months, err := fincalc.MonthsToGoal(start, target, monthly, rate)
			if err != nil {
				return err
			}
			printInfo(fmt.Sprintf("%d month(s) to reach %s", months, money.Format(target)))
			return nil
		},
	})
	return calc
}

func parseMoneyRate(amountArg, rateArg string) (float64, float64, error) {
	amount, err := strconv.ParseFloat(amountArg, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid amount %q", amountArg)
	}
	rate, err := strconv.ParseFloat(rateArg, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid rate %q", rateArg)
	}
	return amount, rate, nil
}
