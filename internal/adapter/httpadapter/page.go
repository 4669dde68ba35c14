package httpadapter

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/couchcryptid/salary-map/internal/app"
	"github.com/couchcryptid/salary-map/internal/mapview"
	"github.com/couchcryptid/salary-map/internal/table"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// columnHeader is one sortable table header.
type columnHeader struct {
	Key   table.Column
	Label string
	Class string // sort-asc, sort-desc or empty
}

// mapConfig is handed to the page script as JSON.
type mapConfig struct {
	DefaultZoom int             `json:"defaultZoom"`
	MaxZoom     int             `json:"maxZoom"`
	FitBounds   bool            `json:"fitBounds"`
	Bounds      *mapview.Bounds `json:"bounds,omitempty"`
	HasDetail   bool            `json:"hasDetail"`
	Selected    string          `json:"selected,omitempty"`
}

type pageData struct {
	View    app.ViewModel
	Columns []columnHeader
	Map     mapConfig
}

var columnLabels = []struct {
	key   table.Column
	label string
}{
	{table.ColumnRank, "Rank"},
	{table.ColumnName, "University"},
	{table.ColumnCS, "CS Salary"},
	{table.ColumnEng, "Engineering Salary"},
}

func (s *Server) pageData(vm app.ViewModel) pageData {
	cols := make([]columnHeader, len(columnLabels))
	for i, c := range columnLabels {
		cols[i] = columnHeader{Key: c.key, Label: c.label}
		if vm.Sort.Column == c.key {
			cols[i].Class = "sort-" + string(vm.Sort.Direction)
		}
	}

	cfg := mapConfig{
		DefaultZoom: s.opts.DefaultZoom,
		MaxZoom:     s.mapView.MaxZoom(),
		FitBounds:   s.opts.FitBounds,
		HasDetail:   vm.Detail != nil,
	}
	if vm.Detail != nil {
		cfg.Selected = vm.Detail.Name
	}
	if b, ok := s.mapView.Bounds(); ok {
		cfg.Bounds = &b
	}
	return pageData{View: vm, Columns: cols, Map: cfg}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, s.pageData(s.store.Snapshot())); err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
