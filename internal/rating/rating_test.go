package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingForTopBuckets(t *testing.T) {
	tests := []struct {
		name       string
		level      float64
		rate       float64
		wantRating int
		wantGrade  string
	}{
		{"SSS+ at cap", 14.0, 100.5, 313, "SSS+"},
		{"SSS+ above cap", 14.0, 101.0, 313, "SSS+"},
		{"S lower bound", 13.0, 97.0, 252, "S"},
		{"SSS lower bound", 13.0, 100.0, 280, "SSS"},
		{"SS", 12.5, 99.2, 257, "SS"},
		{"S+", 13.0, 98.5, 259, "S+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, grade := RatingFor(tt.level, tt.rate)
			assert.Equal(t, tt.wantRating, got)
			assert.Equal(t, tt.wantGrade, grade)
		})
	}
}

func TestRatingForBaseBuckets(t *testing.T) {
	// Below S the rating is a fixed base value, not a formula.
	tests := []struct {
		rate      float64
		wantGrade string
	}{
		{96.9, "AAA"},
		{94.0, "AAA"},
		{90.0, "AA"},
		{85.0, "A"},
		{76.0, "BBB"},
		{72.0, "BB"},
		{65.0, "B"},
		{55.0, "C"},
		{10.0, "D"},
		{0.0, "D"},
	}

	for _, tt := range tests {
		ratingLow, gradeLow := RatingFor(10.0, tt.rate)
		ratingHigh, gradeHigh := RatingFor(15.0, tt.rate)
		assert.Equal(t, tt.wantGrade, gradeLow)
		assert.Equal(t, tt.wantGrade, gradeHigh)
		// fixed base: independent of the level value
		assert.Equal(t, ratingLow, ratingHigh)
	}
}

func TestGradeFor(t *testing.T) {
	assert.Equal(t, "D", GradeFor(49.99))
	assert.Equal(t, "C", GradeFor(50.0))
	assert.Equal(t, "S", GradeFor(97.0))
	assert.Equal(t, "SSS+", GradeFor(100.5))
}

func TestGradeThresholds(t *testing.T) {
	thresholds := GradeThresholds(14.0)

	assert.Len(t, thresholds, 6)

	wantOrder := []string{"S", "S+", "SS", "SS+", "SSS", "SSS+"}
	for i, th := range thresholds {
		assert.Equal(t, wantOrder[i], th.Grade)
	}

	// Ratings strictly ascend from S to SSS+.
	for i := 1; i < len(thresholds); i++ {
		assert.Greater(t, thresholds[i].Rating, thresholds[i-1].Rating)
	}
}

func TestGradeThresholdsRestartable(t *testing.T) {
	first := GradeThresholds(13.2)
	second := GradeThresholds(13.2)
	assert.Equal(t, first, second)
}

func TestDXScoreTier(t *testing.T) {
	tests := []struct {
		name    string
		earned  int
		maximum int
		want    int
	}{
		{"zero maximum", 0, 0, 0},
		{"zero earned", 0, 1000, 0},
		{"85 percent", 850, 1000, 0},
		{"just above 85", 851, 1000, 1},
		{"90 percent", 900, 1000, 1},
		{"93 percent", 930, 1000, 2},
		{"95 percent", 950, 1000, 3},
		{"96 percent", 960, 1000, 4},
		{"97 percent", 970, 1000, 4},
		{"above 97", 971, 1000, 5},
		{"full score", 1000, 1000, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DXScoreTier(tt.earned, tt.maximum))
		})
	}
}
