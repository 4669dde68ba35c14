// Package mapview derives map markers, clusters and the detail panel from
// the dataset. Every figure goes through domain.EstimateEngineeringSalary,
// so popups, the detail panel and the table always agree.
package mapview

import (
	"github.com/couchcryptid/salary-map/internal/domain"
)

// Popup is the content bound to a single marker.
type Popup struct {
	Name             string `json:"name"`
	CSDisplay        string `json:"cs_display"`
	CSColor          string `json:"cs_color"`
	EngDisplay       string `json:"eng_display"`
	EngColor         string `json:"eng_color"`
	GraduatesText    string `json:"graduates_text"`
	ConvertedFromCAD bool   `json:"converted_from_cad,omitempty"`
}

// Marker is one university on the map.
type Marker struct {
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Color     string  `json:"color"`
	CSSalary  int     `json:"cs_salary"`
	EngSalary int     `json:"eng_salary"`
	Popup     Popup   `json:"popup"`
}

// Detail is the single-selection side panel.
type Detail struct {
	Name             string `json:"name"`
	CSSalary         int    `json:"cs_salary"`
	EngSalary        int    `json:"eng_salary"`
	CSDisplay        string `json:"cs_display"`
	CSColor          string `json:"cs_color"`
	EngDisplay       string `json:"eng_display"`
	EngColor         string `json:"eng_color"`
	GraduatesText    string `json:"graduates_text"`
	ConvertedFromCAD bool   `json:"converted_from_cad,omitempty"`
	Place            string `json:"place,omitempty"`
}

// NewMarker builds the marker for u. Its colour reflects the higher of the
// CS and Engineering figures.
func NewMarker(u domain.University) Marker {
	eng := domain.EstimateEngineeringSalary(u)
	return Marker{
		Name:      u.Name,
		Lat:       u.Lat,
		Lng:       u.Lng,
		Color:     domain.SalaryColor(float64(max(u.Salary, eng))),
		CSSalary:  u.Salary,
		EngSalary: eng,
		Popup: Popup{
			Name:             u.Name,
			CSDisplay:        domain.FormatUSD(float64(u.Salary)),
			CSColor:          domain.SalaryColor(float64(u.Salary)),
			EngDisplay:       domain.FormatUSD(float64(eng)),
			EngColor:         domain.SalaryColor(float64(eng)),
			GraduatesText:    graduatesText(u.Graduates),
			ConvertedFromCAD: u.IsCanadian,
		},
	}
}

// NewDetail builds the detail panel for u. place is an optional location
// line; pass "" when none is known.
func NewDetail(u domain.University, place string) Detail {
	eng := domain.EstimateEngineeringSalary(u)
	return Detail{
		Name:             u.Name,
		CSSalary:         u.Salary,
		EngSalary:        eng,
		CSDisplay:        domain.FormatUSD(float64(u.Salary)),
		CSColor:          domain.SalaryColor(float64(u.Salary)),
		EngDisplay:       domain.FormatUSD(float64(eng)),
		EngColor:         domain.SalaryColor(float64(eng)),
		GraduatesText:    graduatesText(u.Graduates),
		ConvertedFromCAD: u.IsCanadian,
		Place:            place,
	}
}

func graduatesText(n int) string {
	return domain.FormatCount(n) + " graduates"
}
