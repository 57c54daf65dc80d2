// Package odds holds pure American-odds math: conversions, implied
// probability, expected value, Kelly sizing, and settlement payouts.
package odds

import "math"

// AmericanToDecimal converts American odds to decimal odds.
// AmericanToDecimal(-110) ≈ 1.909, AmericanToDecimal(150) = 2.5.
func AmericanToDecimal(american int) float64 {
	if american == 0 {
		return 1
	}
	if american > 0 {
		return float64(american)/100 + 1
	}
	return 100/math.Abs(float64(american)) + 1
}

// DecimalToAmerican converts decimal odds to American odds, rounded to the
// nearest integer.
func DecimalToAmerican(decimal float64) int {
	if decimal <= 1 {
		return 0
	}
	if decimal >= 2 {
		return int(math.Round((decimal - 1) * 100))
	}
	return int(math.Round(-100 / (decimal - 1)))
}

// ImpliedProbability returns the bookmaker's raw probability for the given
// American odds, vig included.
func ImpliedProbability(american int) float64 {
	if american == 0 {
		return 0
	}
	a := math.Abs(float64(american))
	if american > 0 {
		return 100 / (a + 100)
	}
	return a / (a + 100)
}

// FairProbabilities removes the vig from a two-way market using the
// multiplicative method and returns fair home/away probabilities plus the
// overround.
func FairProbabilities(homeOdds, awayOdds int) (home, away, overround float64) {
	homeImpl := ImpliedProbability(homeOdds)
	awayImpl := ImpliedProbability(awayOdds)
	total := homeImpl + awayImpl

	if total == 0 {
		return 0, 0, 0
	}
	return homeImpl / total, awayImpl / total, total - 1
}

// ExpectedValue returns the EV of a bet as a percentage of the stake,
// given an estimated true probability and the offered American odds.
func ExpectedValue(probability float64, american int) float64 {
	decimal := AmericanToDecimal(american)
	ev := probability*(decimal-1) - (1 - probability)
	return ev * 100
}

// KellyStake returns the recommended fraction of bankroll and dollar
// amount for a bet, scaled by the given Kelly fraction (0.25 =
// quarter-Kelly). A non-positive edge recommends zero.
func KellyStake(probability float64, american int, bankroll, fraction float64) (frac, amount, fullKelly float64) {
	b := AmericanToDecimal(american) - 1
	if b <= 0 {
		return 0, 0, 0
	}

	q := 1 - probability
	fullKelly = (b*probability - q) / b
	if fullKelly <= 1e-10 {
		return 0, 0, 0
	}

	frac = fullKelly * fraction
	amount = math.Round(frac*bankroll*100) / 100
	return frac, amount, fullKelly
}

// BookPrice is one bookmaker's quote for an outcome.
type BookPrice struct {
	Bookmaker string
	Price     int
}

// BestPrice returns the quote most favorable to the bettor, comparing
// decimal equivalents so positive and negative American odds order
// correctly. Returns false when the slice is empty.
func BestPrice(quotes []BookPrice) (BookPrice, bool) {
	if len(quotes) == 0 {
		return BookPrice{}, false
	}

	best := quotes[0]
	for _, q := range quotes[1:] {
		if AmericanToDecimal(q.Price) > AmericanToDecimal(best.Price) {
			best = q
		}
	}
	return best, true
}

// ProfitLoss returns the signed settlement amount for a wager: the
// American-odds payout on a win, the lost stake on a loss, zero on a push.
func ProfitLoss(result string, american int, units float64) float64 {
	switch result {
	case "won":
		var payout float64
		if american > 0 {
			payout = units * float64(american) / 100
		} else if american < 0 {
			payout = units * 100 / math.Abs(float64(american))
		}
		return math.Round(payout*100) / 100
	case "lost":
		return -units
	default:
		return 0
	}
}
