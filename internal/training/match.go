package training

import "strings"

const (
	minOverlapRatio = 0.3
	minOverlapCount = 3
)

// Match returns the first example, in storage order, whose input overlaps text.
//
// Both sides are lowercased and split on whitespace. An example token counts toward
// the overlap when any user token contains it or is contained by it. An example
// qualifies when the overlap is nonzero and either covers more than 30% of its
// tokens or reaches three tokens.
func Match(examples []Example, text string) (Example, bool) {
	userTokens := strings.Fields(strings.ToLower(text))
	if len(userTokens) == 0 {
		return Example{}, false
	}
	for _, ex := range examples {
		exTokens := strings.Fields(strings.ToLower(ex.Input))
		if len(exTokens) == 0 {
			continue
		}
		overlap := Overlap(exTokens, userTokens)
		if overlap == 0 {
			continue
		}
		if float64(overlap)/float64(len(exTokens)) > minOverlapRatio || overlap >= minOverlapCount {
			return ex, true
		}
	}
	return Example{}, false
}

// Overlap counts example tokens with a two-way substring hit among user tokens.
// Short tokens match loosely ("a" is contained in "app").
func Overlap(exampleTokens, userTokens []string) int {
	n := 0
	for _, et := range exampleTokens {
		for _, ut := range userTokens {
			if strings.Contains(ut, et) || strings.Contains(et, ut) {
				n++
				break
			}
		}
	}
	return n
}
