package domain

import (
	"math"

	"github.com/dustin/go-humanize"
)

// salaryBands are checked top-down; the first floor the salary reaches wins.
var salaryBands = []struct {
	floor float64
	color string
}{
	{150000, "#4caf50"},
	{120000, "#66bb6a"},
	{100000, "#81c784"},
	{80000, "#a5d6a7"},
	{70000, "#c8e6c9"},
	{60000, "#fff9c4"},
	{50000, "#ffe082"},
	{40000, "#ffb74d"},
}

// lowestBandColor is used below the last band floor.
const lowestBandColor = "#ef5350"

// SalaryColor maps a salary onto the nine-step green-to-red scale.
func SalaryColor(salary float64) string {
	for _, b := range salaryBands {
		if salary >= b.floor {
			return b.color
		}
	}
	return lowestBandColor
}

// FormatUSD renders a dollar amount rounded to whole dollars, e.g. "$95,000".
func FormatUSD(amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return "-$" + humanize.Comma(-rounded)
	}
	return "$" + humanize.Comma(rounded)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
