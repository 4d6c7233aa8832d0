package main

// article is one entry in the built-in reading list. Rewards pay out once per
// article; the ledger remembers which ids were already read.
type article struct {
	ID     string
	Title  string
	Reward float64
	Body   string
}

var articleCatalog = []article{
	{
		ID:     "budget-basics",
		Title:  "Budgeting: Pay Yourself First",
		Reward: 50,
		Body: `A budget is not a punishment, it is a plan. Before spending on
anything else, move a fixed slice of every paycheck into savings. What is left
is what you actually have to spend. People who save first and spend second
almost never wonder where the money went.`,
	},
	{
		ID:     "emergency-fund",
		Title:  "Why You Need an Emergency Fund",
		Reward: 50,
		Body: `Cars break. Phones crack. Jobs end. An emergency fund of three to
six months of expenses turns a crisis into an inconvenience. Keep it somewhere
boring and liquid, a savings account, not stocks. Its job is to exist, not to
grow.`,
	},
	{
		ID:     "compound-interest",
		Title:  "Compound Interest Works Both Ways",
		Reward: 75,
		Body: `Money invested early earns returns, and those returns earn
returns. Start ten years sooner and you can end up with double the result from
the same contributions. The same force works against you on debt: carrying a
credit card balance means compounding in reverse.`,
	},
	{
		ID:     "needs-vs-wants",
		Title:  "Needs, Wants, and the 24-Hour Rule",
		Reward: 40,
		Body: `Rent is a need. The third pair of sneakers is a want. Wants are
fine when they are planned. For any unplanned purchase over a day's spending
money, wait 24 hours. Most of the urge evaporates overnight, and what survives
the wait is usually worth buying.`,
	},
	{
		ID:     "diversification",
		Title:  "Don't Bet It All on One Stock",
		Reward: 75,
		Body: `Any single company can fail, even a famous one. Spreading money
across many investments means no single failure can sink you. The practice
market here works the same way: watch what happens to a portfolio of one
symbol versus five through a rough week.`,
	},
}

func findArticle(id string) (article, bool) {
	for _, a := range articleCatalog {
		if a.ID == id {
			return a, true
		}
	}
	return article{}, false
}
