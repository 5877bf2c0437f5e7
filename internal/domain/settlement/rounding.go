package settlement

import "github.com/shopspring/decimal"

// Round2 rounds to cent precision.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Round4 rounds share percentages to four decimals.
func Round4(d decimal.Decimal) decimal.Decimal {
	return d.Round(4)
}

// DistributeWithRemainder splits target proportionally to weights, rounds each
// share to cents and pushes the rounding difference onto the share at
// correctionIdx so the result sums to target exactly. When all weights are
// zero the full target lands on correctionIdx.
func DistributeWithRemainder(target decimal.Decimal, weights []decimal.Decimal, correctionIdx int) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(weights))
	if len(weights) == 0 {
		return shares
	}
	if correctionIdx < 0 || correctionIdx >= len(weights) {
		correctionIdx = len(weights) - 1
	}

	total := decimal.Zero
	for _, w := range weights {
		total = total.Add(w)
	}
	if total.IsZero() {
		shares[correctionIdx] = Round2(target)
		return shares
	}

	sum := decimal.Zero
	for i, w := range weights {
		shares[i] = Round2(target.Mul(w).Div(total))
		sum = sum.Add(shares[i])
	}
	shares[correctionIdx] = shares[correctionIdx].Add(Round2(target).Sub(sum))
	return shares
}

// FirstNonZeroIndex returns the index of the first nonzero value, or -1.
func FirstNonZeroIndex(values []decimal.Decimal) int {
	for i, v := range values {
		if !v.IsZero() {
			return i
		}
	}
	return -1
}

// LastNonZeroIndex returns the index of the last nonzero value, or -1.
func LastNonZeroIndex(values []decimal.Decimal) int {
	for i := len(values) - 1; i >= 0; i-- {
		if !values[i].IsZero() {
			return i
		}
	}
	return -1
}
