// Package table derives the ranked, sortable salary table from a dataset.
//
// Rank is the position in the currently displayed order, except when the
// table is sorted by the rank column itself: then each row shows the rank it
// was assigned in the default (CS salary, descending) order.
package table

import (
	"sort"

	"github.com/couchcryptid/salary-map/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Column identifies a sortable table column.
type Column string

const (
	ColumnName Column = "name"
	ColumnRank Column = "rank"
	ColumnCS   Column = "cs"
	ColumnEng  Column = "eng"
)

// ParseColumn validates a column identifier.
func ParseColumn(s string) (Column, bool) {
	switch c := Column(s); c {
	case ColumnName, ColumnRank, ColumnCS, ColumnEng:
		return c, true
	default:
		return "", false
	}
}

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortState is the active column and direction.
type SortState struct {
	Column    Column    `json:"column"`
	Direction Direction `json:"direction"`
}

// DefaultSort orders by CS salary, highest first.
func DefaultSort() SortState {
	return SortState{Column: ColumnCS, Direction: Descending}
}

const (
	compareLabel = "+ Compare"
	addedLabel   = "✓ Added"
)

// Row is one rendered table line.
type Row struct {
	Rank         int    `json:"rank"`
	Name         string `json:"name"`
	IsCanadian   bool   `json:"is_canadian,omitempty"`
	CSSalary     int    `json:"cs_salary"`
	EngSalary    int    `json:"eng_salary"`
	Graduates    int    `json:"graduates"`
	CSDisplay    string `json:"cs_display"`
	EngDisplay   string `json:"eng_display"`
	CSColor      string `json:"cs_color"`
	EngColor     string `json:"eng_color"`
	GradDisplay  string `json:"graduates_display"`
	InComparison bool   `json:"in_comparison"`
	CompareLabel string `json:"compare_label"`
}

// MembershipFunc reports whether a university is in the comparison set.
type MembershipFunc func(name string) bool

type line struct {
	university domain.University
	engSalary  int
	rank       int // assigned once, in default order
}

// View is the working list behind the table. It is not safe for concurrent use.
type View struct {
	lines    []line
	position map[string]int
	sort     SortState
	collator *collate.Collator
}

// New builds the table in default order and assigns ranks 1..N.
func New(ds *domain.Dataset) *View {
	records := ds.All()
	v := &View{
		lines:    make([]line, len(records)),
		position: make(map[string]int, len(records)),
		sort:     DefaultSort(),
		collator: collate.New(language.English),
	}
	for i, u := range records {
		v.lines[i] = line{university: u, engSalary: domain.EstimateEngineeringSalary(u)}
	}

	v.apply()
	for i := range v.lines {
		v.lines[i].rank = i + 1
	}
	return v
}

// Sort returns the active sort state.
func (v *View) Sort() SortState { return v.sort }

// SortBy selects a column. Choosing the active column flips its direction;
// any other column starts descending. Unknown columns are ignored and
// false is returned.
func (v *View) SortBy(col Column) bool {
	if _, ok := ParseColumn(string(col)); !ok {
		return false
	}

	if v.sort.Column == col {
		if v.sort.Direction == Ascending {
			v.sort.Direction = Descending
		} else {
			v.sort.Direction = Ascending
		}
	} else {
		v.sort = SortState{Column: col, Direction: Descending}
	}

	v.apply()
	return true
}

// apply stable-sorts lines by the active state, starting from the current
// order, and refreshes the name index.
func (v *View) apply() {
	less := v.lessFunc()
	sort.SliceStable(v.lines, func(i, j int) bool {
		if v.sort.Direction == Ascending {
			return less(v.lines[i], v.lines[j])
		}
		return less(v.lines[j], v.lines[i])
	})
	for i := range v.lines {
		v.position[v.lines[i].university.Name] = i
	}
}

func (v *View) lessFunc() func(a, b line) bool {
	switch v.sort.Column {
	case ColumnName:
		return func(a, b line) bool {
			return v.collator.CompareString(a.university.Name, b.university.Name) < 0
		}
	case ColumnRank:
		return func(a, b line) bool { return a.rank < b.rank }
	case ColumnEng:
		return func(a, b line) bool { return a.engSalary < b.engSalary }
	default:
		return func(a, b line) bool { return a.university.Salary < b.university.Salary }
	}
}

// Len returns the number of rows.
func (v *View) Len() int { return len(v.lines) }

// Rows renders every row in display order.
func (v *View) Rows(isMember MembershipFunc) []Row {
	rows := make([]Row, len(v.lines))
	for i := range v.lines {
		rows[i] = v.render(i, isMember)
	}
	return rows
}

// Row renders a single row by name without re-sorting, for incremental
// updates after a comparison toggle.
func (v *View) Row(name string, isMember MembershipFunc) (Row, bool) {
	i, ok := v.position[name]
	if !ok {
		return Row{}, false
	}
	return v.render(i, isMember), true
}

func (v *View) render(i int, isMember MembershipFunc) Row {
	l := v.lines[i]
	u := l.university

	rank := i + 1
	if v.sort.Column == ColumnRank {
		rank = l.rank
	}

	member := isMember != nil && isMember(u.Name)
	label := compareLabel
	if member {
		label = addedLabel
	}

	return Row{
		Rank:         rank,
		Name:         u.Name,
		IsCanadian:   u.IsCanadian,
		CSSalary:     u.Salary,
		EngSalary:    l.engSalary,
		Graduates:    u.Graduates,
		CSDisplay:    domain.FormatUSD(float64(u.Salary)),
		EngDisplay:   domain.FormatUSD(float64(l.engSalary)),
		CSColor:      domain.SalaryColor(float64(u.Salary)),
		EngColor:     domain.SalaryColor(float64(l.engSalary)),
		GradDisplay:  domain.FormatCount(u.Graduates),
		InComparison: member,
		CompareLabel: label,
	}
}
