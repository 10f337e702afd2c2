// Package ratio derives growth, structure and financial ratios from cleaned statements.
package ratio

import "math"

// Epsilon replaces an exactly-zero denominator in growth and structure percentages.
// A zero base therefore yields a very large but finite percentage.
const Epsilon = 1e-9

// SafeDivide returns num/den, or 0 when den is zero or NaN or the quotient is not finite.
func SafeDivide(num, den float64) float64 {
	if den == 0 || math.IsNaN(den) {
		return 0
	}
	q := num / den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

// EpsilonDivide returns num/den with a zero den replaced by Epsilon.
func EpsilonDivide(num, den float64) float64 {
	if den == 0 {
		den = Epsilon
	}
	return num / den
}

// Growth returns the percentage change from prev to cur.
func Growth(prev, cur float64) float64 {
	return EpsilonDivide(cur-prev, prev) * 100
}

// Average returns the mean of a balance at the current and previous period.
func Average(cur, prev float64) float64 {
	return (cur + prev) / 2
}
