package tempo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestIntResultDenominator(t *testing.T) {
	cases := []struct {
		numerator, denominator, want int
	}{
		{16, 1, 1},
		{16, 2, 2},
		{16, 3, 2}, // tie between 2 and 4, lower wins
		{16, 4, 4},
		{16, 5, 4},
		{16, 6, 4},
		{16, 7, 8},
		{16, 8, 8},
		{16, 11, 8},
		{16, 12, 8}, // tie between 8 and 16
		{16, 13, 16},
		{16, 16, 16},
		{12, 5, 4},
		{7, 4, 1},
		{16, 0, 1},
		{16, -3, 1},
		{16, 40, 16},
		{0, 4, 1},
	}
	for _, tc := range cases {
		got := NearestIntResultDenominator(tc.numerator, tc.denominator)
		assert.Equal(t, tc.want, got, "NearestIntResultDenominator(%d, %d)", tc.numerator, tc.denominator)
	}
}

func TestNearestIntResultDenominator_AlwaysDivides(t *testing.T) {
	for d := 1; d <= StepsPerWholeNote; d++ {
		got := NearestIntResultDenominator(StepsPerWholeNote, d)
		assert.Zero(t, StepsPerWholeNote%got, "%d -> %d", d, got)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 40, clamp(-1, 40, 600))
	assert.Equal(t, 41, clamp(40.5, 40, 600))
	assert.Equal(t, 600, clamp(1e18, 40, 600))
	assert.Equal(t, 100, clamp(99.6, 40, 600))
}
