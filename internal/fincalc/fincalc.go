// Package fincalc implements the teaching calculators. Pure arithmetic, no
// state.
package fincalc

import (
	"fmt"
	"math"

	"finquest/internal/money"
)

// CompoundInterest returns the future value of principal compounded n times
// per year at the given annual rate for the given number of years.
func CompoundInterest(principal, annualRate float64, years float64, compoundsPerYear int) (float64, error) {
	if principal < 0 || years < 0 || compoundsPerYear < 1 {
		return 0, fmt.Errorf("principal, years, and compounding frequency must be non-negative")
	}
	if annualRate <= -1 {
		return 0, fmt.Errorf("annual rate must be greater than -100%%")
	}
	n := float64(compoundsPerYear)
	fv := principal * math.Pow(1+annualRate/n, n*years)
	return money.Round2(fv), nil
}

// LoanPayment returns the fixed monthly payment for an amortized loan.
func LoanPayment(principal, annualRate float64, months int) (float64, error) {
	if principal <= 0 || months < 1 {
		return 0, fmt.Errorf("principal and term must be positive")
	}
	if annualRate < 0 {
		return 0, fmt.Errorf("annual rate must be non-negative")
	}
	if annualRate == 0 {
		return money.Round2(principal / float64(months)), nil
	}
	r := annualRate / 12
	factor := math.Pow(1+r, float64(months))
	payment := principal * r * factor / (factor - 1)
	return money.Round2(payment), nil
}

// MonthsToGoal returns how many whole months of fixed contributions, grown
// monthly at the given annual rate, reach the target from the starting
// amount. Returns an error when the goal is unreachable.
func MonthsToGoal(start, target, monthly, annualRate float64) (int, error) {
	if target <= start {
		return 0, nil
	}
	if monthly <= 0 && annualRate <= 0 {
		return 0, fmt.Errorf("goal unreachable without contributions or growth")
	}
	r := annualRate / 12
	balance := start
	for m := 1; m <= 1200; m++ {
		balance = balance*(1+r) + monthly
		if balance >= target {
			return m, nil
		}
	}
	return 0, fmt.Errorf("goal not reachable within 100 years")
}
