package core

import "errors"

// ErrZeroPrecision is returned by EstimatePi for a zero subinterval count.
var ErrZeroPrecision = errors.New("precision must be positive")

// EstimatePi approximates π as the integral of 4/(1+x²) over [0,1] using the
// midpoint rule with precision equal subintervals.
func EstimatePi(precision uint64) (float64, error) {
	if precision == 0 {
		return 0, ErrZeroPrecision
	}
	step := 1.0 / float64(precision)
	var sum float64
	for i := uint64(0); i < precision; i++ {
		x := (float64(i) + 0.5) * step
		sum += 4.0 / (1.0 + x*x)
	}
	return sum * step, nil
}
