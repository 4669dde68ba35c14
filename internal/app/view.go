package app

import (
	"github.com/couchcryptid/salary-map/internal/compare"
	"github.com/couchcryptid/salary-map/internal/domain"
	"github.com/couchcryptid/salary-map/internal/mapview"
	"github.com/couchcryptid/salary-map/internal/table"
)

// ViewModel is everything a renderer needs after an update.
type ViewModel struct {
	Sort       table.SortState `json:"sort"`
	Table      []table.Row     `json:"table"`
	Comparison ComparisonPanel `json:"comparison"`
	Detail     *mapview.Detail `json:"detail,omitempty"`
}

// ComparisonPanel is the rendered comparison set.
type ComparisonPanel struct {
	Open        bool              `json:"open"`
	ButtonLabel string            `json:"button_label"`
	Entries     []ComparisonEntry `json:"entries"`
	Stats       *ComparisonStats  `json:"stats,omitempty"`
}

// ComparisonEntry is one compared university with display values.
type ComparisonEntry struct {
	compare.Entry
	Index      int    `json:"index"`
	CSDisplay  string `json:"cs_display"`
	CSColor    string `json:"cs_color"`
	EngDisplay string `json:"eng_display"`
	EngColor   string `json:"eng_color"`
}

// Figure is a salary with its display string and colour.
type Figure struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	Color   string  `json:"color"`
}

// ComparisonStats is compare.Statistics prepared for display.
type ComparisonStats struct {
	AvgCS  Figure `json:"avg_cs"`
	AvgEng Figure `json:"avg_eng"`
	MaxCS  Figure `json:"max_cs"`
	MaxEng Figure `json:"max_eng"`
	MinCS  Figure `json:"min_cs"`
	MinEng Figure `json:"min_eng"`
}

func figure(v float64) Figure {
	return Figure{Value: v, Display: domain.FormatUSD(v), Color: domain.SalaryColor(v)}
}

func renderEntries(entries []compare.Entry) []ComparisonEntry {
	out := make([]ComparisonEntry, len(entries))
	for i, e := range entries {
		out[i] = ComparisonEntry{
			Entry:      e,
			Index:      i,
			CSDisplay:  domain.FormatUSD(float64(e.CSSalary)),
			CSColor:    domain.SalaryColor(float64(e.CSSalary)),
			EngDisplay: domain.FormatUSD(float64(e.EngSalary)),
			EngColor:   domain.SalaryColor(float64(e.EngSalary)),
		}
	}
	return out
}

func renderStats(st compare.Statistics) *ComparisonStats {
	return &ComparisonStats{
		AvgCS:  figure(st.AvgCS),
		AvgEng: figure(st.AvgEng),
		MaxCS:  figure(float64(st.MaxCS)),
		MaxEng: figure(float64(st.MaxEng)),
		MinCS:  figure(float64(st.MinCS)),
		MinEng: figure(float64(st.MinEng)),
	}
}
