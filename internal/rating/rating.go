// Package rating implements the achievement-rate to rating formula, the
// grade threshold table and the DX-score tier calculation.
package rating

import "math"

// maxRate caps the achievement rate used in the rating formula.
const maxRate = 100.5

// gradeBucket is one row of the piecewise rating table. Buckets at S and
// above compute the rating from the coefficient; buckets below S carry a
// fixed base value instead. Both paths are kept separate on purpose.
type gradeBucket struct {
	minRate     float64
	grade       string
	coefficient float64 // S and above
	base        int     // below S
}

// Ordered from the highest bucket down; lookup picks the first bucket whose
// lower bound the rate reaches.
var gradeTable = []gradeBucket{
	{minRate: 100.5, grade: "SSS+", coefficient: 22.4},
	{minRate: 100.0, grade: "SSS", coefficient: 21.6},
	{minRate: 99.5, grade: "SS+", coefficient: 21.1},
	{minRate: 99.0, grade: "SS", coefficient: 20.8},
	{minRate: 98.0, grade: "S+", coefficient: 20.3},
	{minRate: 97.0, grade: "S", coefficient: 20.0},
	{minRate: 94.0, grade: "AAA", base: 16},
	{minRate: 90.0, grade: "AA", base: 15},
	{minRate: 80.0, grade: "A", base: 13},
	{minRate: 75.0, grade: "BBB", base: 12},
	{minRate: 70.0, grade: "BB", base: 11},
	{minRate: 60.0, grade: "B", base: 9},
	{minRate: 50.0, grade: "C", base: 8},
	{minRate: 0, grade: "D", base: 5},
}

// RatingFor computes the rating and grade label for a chart at the given
// level value and achievement rate. S-and-above ratings use
// floor(level * factor * coefficient) where the rate factor saturates at
// 100%; lower grades use the bucket's fixed base value. The floor must not
// be replaced with any other rounding: upstream-reported ratings are
// compared against it exactly.
func RatingFor(levelValue, achievementRate float64) (int, string) {
	b := bucketFor(achievementRate)
	if b.coefficient == 0 {
		return b.base, b.grade
	}
	factor := math.Min(maxRate, achievementRate) / 100
	if factor > 1 {
		factor = 1
	}
	return int(math.Floor(levelValue * factor * b.coefficient)), b.grade
}

// GradeFor returns just the grade label for an achievement rate.
func GradeFor(achievementRate float64) string {
	return bucketFor(achievementRate).grade
}

func bucketFor(rate float64) gradeBucket {
	for _, b := range gradeTable {
		if rate >= b.minRate {
			return b
		}
	}
	return gradeTable[len(gradeTable)-1]
}

// Threshold is one entry of the grade threshold series.
type Threshold struct {
	Grade  string `json:"grade"`
	Rating int    `json:"rating"`
}

// GradeThresholds returns the rating earned at each grade's lower bound for
// the six top grades, ordered S through SSS+ (ascending rating). Used to
// render "rating at grade X" hint tables.
func GradeThresholds(levelValue float64) []Threshold {
	out := make([]Threshold, 0, 6)
	for i := len(gradeTable) - 1; i >= 0; i-- {
		b := gradeTable[i]
		if b.coefficient == 0 {
			continue
		}
		out = append(out, Threshold{
			Grade:  b.grade,
			Rating: int(math.Floor(levelValue * (b.minRate / 100) * b.coefficient)),
		})
	}
	return out
}

// DXScoreTier maps the earned/maximum DX-score ratio to a display tier in
// [0,5]. A zero maximum yields tier 0.
func DXScoreTier(earned, maximum int) int {
	if maximum <= 0 || earned <= 0 {
		return 0
	}
	ratio := float64(earned) / float64(maximum)
	switch {
	case ratio <= 0.85:
		return 0
	case ratio <= 0.90:
		return 1
	case ratio <= 0.93:
		return 2
	case ratio <= 0.95:
		return 3
	case ratio <= 0.97:
		return 4
	default:
		return 5
	}
}
