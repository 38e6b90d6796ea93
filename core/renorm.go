package core

import "math"

// Renorm derives the renormalisation value for a systematic yield relative
// to the nominal yield. A zero nominal yield has no defined ratio and maps
// to NaN; callers keep the row and let the rest of the run complete. The
// calculator does not care whether the yields came from a reweighted or an
// alternate-sample systematic.
func Renorm(nominal, syst float64) float64 {
	if nominal == 0 {
		return math.NaN()
	}
	return syst / nominal
}
