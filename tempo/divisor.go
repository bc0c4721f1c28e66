package tempo

// NearestIntResultDenominator returns the divisor of numerator closest to
// denominator. Ties go to the smaller divisor. Used to sanitize the beat
// length so StepsPerWholeNote/beatLength is a whole number of steps.
// denominator is clamped into [1, numerator]; a numerator below 1 yields 1.
func NearestIntResultDenominator(numerator, denominator int) int {
	if numerator < 1 {
		return 1
	}
	denominator = max(1, min(denominator, numerator))
	closest := 1

	// search lower than denominator
	for i := denominator; i >= 1; i-- {
		if numerator%i == 0 {
			closest = i
			break
		}
	}

	// search higher, only while it could still beat the lower match
	for i := denominator; i <= numerator && abs(denominator-i) < abs(denominator-closest); i++ {
		if numerator%i == 0 {
			closest = i
			break
		}
	}

	return closest
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
