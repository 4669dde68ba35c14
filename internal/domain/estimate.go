package domain

import (
	"math"
	"strings"
	"unicode/utf16"
)

// engineeringSchools are institutions whose Engineering outcomes track CS
// closely. Matching uses only the first word of each entry, so
// "Illinois Institute of Technology" also matches "University of Illinois".
var engineeringSchools = []string{
	"Massachusetts Institute of Technology",
	"Rose-Hulman Institute of Technology",
	"Worcester Polytechnic Institute",
	"Rensselaer Polytechnic Institute",
	"Stevens Institute of Technology",
	"Colorado School of Mines",
	"Illinois Institute of Technology",
	"Kettering University",
	"Michigan Technological University",
	"Wentworth Institute of Technology",
	"Clarkson University",
	"Lawrence Technological University",
	"Purdue",
}

const (
	engineeringSchoolRatio = 0.98
	ratioStep              = 0.01
	ratioChoices           = 6
)

// EstimateEngineeringSalary returns the Engineering starting salary for u.
// An explicit override wins; otherwise the figure is derived from the CS
// salary with a name-keyed ratio. The result never exceeds u.Salary unless
// an override says so.
func EstimateEngineeringSalary(u University) int {
	if u.EngSalary != nil && *u.EngSalary != 0 {
		return *u.EngSalary
	}

	cs := float64(u.Salary)
	if isEngineeringSchool(u.Name) {
		return roundHalfUp(float64(cs * engineeringSchoolRatio))
	}

	// The explicit float64 conversions stop the compiler from fusing
	// multiply-add, which would change results on some architectures.
	idx := absInt32(nameHash(u.Name)) % ratioChoices
	ratio := tierBaseRatio(u.Salary) + float64(float64(idx)*ratioStep)
	return roundHalfUp(float64(cs * ratio))
}

// tierBaseRatio is the lowest ratio of the CS salary band.
func tierBaseRatio(salary int) float64 {
	switch {
	case salary > 100000:
		return 0.90
	case salary > 70000:
		return 0.88
	default:
		return 0.85
	}
}

func isEngineeringSchool(name string) bool {
	lower := strings.ToLower(name)
	for _, school := range engineeringSchools {
		first, _, _ := strings.Cut(school, " ")
		if strings.Contains(lower, strings.ToLower(first)) {
			return true
		}
	}
	return false
}

// nameHash is the classic h = h*31 + c string hash over UTF-16 code units,
// wrapping as a signed 32-bit integer after every step.
func nameHash(name string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(name)) {
		h = h*31 + int32(unit)
	}
	return h
}

// absInt32 widens before negating so math.MinInt32 stays positive.
func absInt32(v int32) int64 {
	w := int64(v)
	if w < 0 {
		return -w
	}
	return w
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
