package screener

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	// (0.70)(2.0)(sqrt 9) = 4.2
	assert.InDelta(t, 4.2, Score(70, 2.0, 9), 0.0001)
}

func TestScore_Components(t *testing.T) {
	assert.Equal(t, 0.0, Score(0, 2.0, 9), "zero win rate zeroes the score")
	assert.Equal(t, 0.0, Score(70, 0, 9), "zero average zeroes the score")

	// Negative averages rank below any positive pattern.
	assert.Less(t, Score(70, -1.5, 9), 0.0)

	// Sample depth contributes sub-linearly: 4x the history, 2x the score.
	assert.InDelta(t, 2*Score(100, 1.0, 4), Score(100, 1.0, 16), 0.0001)
}
