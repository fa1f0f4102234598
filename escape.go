package fractal

// MaxIterations is the default iteration cap. A point that has not escaped
// after MaxIterations steps is treated as inside the set.
const MaxIterations = 1000

// escapeRadiusSq is the squared escape radius (|z| >= 2 escapes).
const escapeRadiusSq = 4.0

// Iterate runs z <- z*z + c from z = 0 with c = (x0, y0) and returns the
// number of steps taken before |z| reached 2, or maxIter if it never did.
//
// Iterate does not allocate and is safe for concurrent use.
func Iterate(x0, y0 float64, maxIter int) int {
	xx, yy := 0.0, 0.0
	it := 0
	for ; xx*xx+yy*yy < escapeRadiusSq && it < maxIter; it++ {
		xt := xx*xx - yy*yy + x0
		yy = 2*xx*yy + y0
		xx = xt
	}
	return it
}

// Inside reports whether an iteration result means "did not escape".
func Inside(it, maxIter int) bool {
	return it >= maxIter
}
