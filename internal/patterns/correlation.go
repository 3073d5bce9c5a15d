package patterns

import "math"

// Pearson returns the correlation coefficient of x and y, clamped to [-1, 1].
// It is 0 when the series are empty, differ in length or either is constant.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0
	}

	fn := float64(n)
	var meanX, meanY float64
	for i := range x {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= fn
	meanY /= fn

	var cov, varX, varY, sqX, sqY float64
	for i := range x {
		dx, dy := x[i]-meanX, y[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
		sqX += x[i] * x[i]
		sqY += y[i] * y[i]
	}
	// Rounding in the mean leaves a residue on constant series.
	if varX <= constantEpsilon*sqX || varY <= constantEpsilon*sqY {
		return 0
	}

	r := cov / math.Sqrt(varX*varY)
	return math.Max(-1, math.Min(1, r))
}

const constantEpsilon = 1e-12
