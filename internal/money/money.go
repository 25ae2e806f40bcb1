// Package money carries the listing-price helpers: dollar/euro conversion and
// the amortized loan simulation.
package money

import (
	"errors"
	"math"
)

// Approximate conversion rates; the app only needs ballpark figures.
const (
	dollarToEuroRate = 0.812
	euroToDollarRate = 1.23
)

func DollarToEuro(dollars int) int {
	return int(math.Round(float64(dollars) * dollarToEuroRate))
}

func EuroToDollar(euros int) int {
	return int(math.Round(float64(euros) * euroToDollarRate))
}

var ErrDownPaymentTooHigh = errors.New("money: down payment must be lower than the price")

// Loan is the outcome of an amortized mortgage simulation.
type Loan struct {
	Amount         float64 `json:"amount"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalCost      float64 `json:"totalCost"`
	TotalInterest  float64 `json:"totalInterest"`
}

// Simulate computes the monthly payment for price minus downPayment at the
// given annual rate (percent) over years. A zero rate degrades to straight
// division.
func Simulate(price, downPayment, annualRatePct float64, years int) (Loan, error) {
	if downPayment >= price {
		return Loan{}, ErrDownPaymentTooHigh
	}
	amount := price - downPayment
	months := float64(years * 12)

	var monthly float64
	if annualRatePct == 0 {
		monthly = amount / months
	} else {
		monthlyRate := annualRatePct / 100 / 12
		monthly = (amount * monthlyRate) / (1 - math.Pow(1+monthlyRate, -months))
	}

	total := monthly * months
	return Loan{
		Amount:         amount,
		MonthlyPayment: monthly,
		TotalCost:      total,
		TotalInterest:  total - amount,
	}, nil
}
