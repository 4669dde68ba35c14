package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/salary-map/internal/domain"
	"github.com/couchcryptid/salary-map/internal/mapview"
	"github.com/couchcryptid/salary-map/internal/table"
	"github.com/google/go-cmp/cmp"
)

// GoldenRow is the derived display data for one university. A file of these
// pins the estimator, the colour scale and the default ranking.
type GoldenRow struct {
	Name        string `json:"name"`
	CSSalary    int    `json:"cs_salary"`
	EngSalary   int    `json:"eng_salary"`
	Estimated   bool   `json:"estimated"`
	CSColor     string `json:"cs_color"`
	EngColor    string `json:"eng_color"`
	MarkerColor string `json:"marker_color"`
	Rank        int    `json:"rank"`
}

// BuildGolden derives one row per record, in dataset order.
func BuildGolden(ds *domain.Dataset) []GoldenRow {
	ranks := make(map[string]int, ds.Len())
	for _, r := range table.New(ds).Rows(nil) {
		ranks[r.Name] = r.Rank
	}

	records := ds.All()
	rows := make([]GoldenRow, len(records))
	for i, u := range records {
		m := mapview.NewMarker(u)
		rows[i] = GoldenRow{
			Name:        u.Name,
			CSSalary:    u.Salary,
			EngSalary:   m.EngSalary,
			Estimated:   u.EngSalary == nil || *u.EngSalary == 0,
			CSColor:     m.Popup.CSColor,
			EngColor:    m.Popup.EngColor,
			MarkerColor: m.Color,
			Rank:        ranks[u.Name],
		}
	}
	return rows
}

// EncodeGolden renders rows as indented JSON with a trailing newline.
func EncodeGolden(rows []GoldenRow) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return nil, fmt.Errorf("encode golden rows: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteGolden writes rows to path.
func WriteGolden(path string, rows []GoldenRow) error {
	data, err := EncodeGolden(rows)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644) //nolint:gosec // fixture file, not sensitive
}

// ReadGolden reads a fixture written by WriteGolden.
func ReadGolden(path string) ([]GoldenRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read golden fixture: %w", err)
	}
	var rows []GoldenRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode golden fixture %s: %w", path, err)
	}
	return rows, nil
}

// CompareGolden matches rows by name and describes every difference.
// An empty result means the fixtures agree.
func CompareGolden(want, got []GoldenRow) []string {
	byName := make(map[string]GoldenRow, len(got))
	for _, g := range got {
		byName[g.Name] = g
	}

	var diffs []string
	seen := make(map[string]bool, len(want))
	for _, w := range want {
		seen[w.Name] = true
		g, ok := byName[w.Name]
		if !ok {
			diffs = append(diffs, fmt.Sprintf("%s: missing", w.Name))
			continue
		}
		if d := cmp.Diff(w, g); d != "" {
			diffs = append(diffs, fmt.Sprintf("%s: (-want +got)\n%s", w.Name, d))
		}
	}
	for _, g := range got {
		if !seen[g.Name] {
			diffs = append(diffs, fmt.Sprintf("%s: unexpected", g.Name))
		}
	}
	return diffs
}
