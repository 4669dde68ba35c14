package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/couchcryptid/salary-map/internal/adapter/httpadapter"
	"github.com/couchcryptid/salary-map/internal/app"
	"github.com/couchcryptid/salary-map/internal/domain"
	"github.com/couchcryptid/salary-map/internal/mapview"
	"github.com/couchcryptid/salary-map/internal/observability"
	"github.com/couchcryptid/salary-map/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, records []domain.University) *httpadapter.Server {
	t.Helper()
	ds, err := domain.NewDataset(records)
	require.NoError(t, err)

	store := app.NewStore(app.NewState(ds), nil, nil, discardLogger(), observability.NewMetricsForTesting())
	mv := mapview.New(ds, mapview.Options{})
	return httpadapter.NewServer(":0", store, mv, httpadapter.Options{DefaultZoom: 4, FitBounds: true}, discardLogger())
}

func defaultServer(t *testing.T) *httpadapter.Server {
	return newTestServer(t, []domain.University{
		{Name: "Stanford University", Salary: 145000, Lat: 37.4275, Lng: -122.1697, Graduates: 310},
		{Name: "University of California, Berkeley", Salary: 138000, Lat: 37.8719, Lng: -122.2585, Graduates: 1250},
		{Name: "Purdue University", Salary: 95000, Lat: 40.4237, Lng: -86.9212, Graduates: 850},
		{Name: "University of Waterloo", Salary: 98000, Lat: 43.4723, Lng: -80.5449, Graduates: 1500, IsCanadian: true},
	})
}

func do(t *testing.T, srv http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestIndexRendersPage(t *testing.T) {
	rec := do(t, defaultServer(t), http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Show Comparison (0)")
	assert.Contains(t, body, "No universities selected")
	assert.Contains(t, body, "Purdue University")
	assert.Contains(t, body, "$93,100")
	assert.Contains(t, body, "(CA)")
	assert.Contains(t, body, `class="sort-desc"`)
	assert.NotContains(t, body, `id="infoPanel"`)
}

func TestIndexRendersDetailAndComparison(t *testing.T) {
	srv := defaultServer(t)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/commands", `{"kind":"select","name":"University of Waterloo"}`).Code)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/commands", `{"kind":"add_selected"}`).Code)

	body := do(t, srv, http.MethodGet, "/", "").Body.String()

	assert.Contains(t, body, `id="infoPanel"`)
	assert.Contains(t, body, "Engineering (Estimated)")
	assert.Contains(t, body, "(Converted from CAD)")
	assert.Contains(t, body, "1,500 graduates")
	assert.Contains(t, body, "Show Comparison (1)")
	assert.Contains(t, body, "Average CS:")
	assert.Contains(t, body, "✓ Added")
}

func TestUnknownPathReturns404(t *testing.T) {
	rec := do(t, defaultServer(t), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStateEndpoint(t *testing.T) {
	rec := do(t, defaultServer(t), http.MethodGet, "/api/state", "")

	require.Equal(t, http.StatusOK, rec.Code)
	vm := decode[app.ViewModel](t, rec)
	require.Len(t, vm.Table, 4)
	assert.Equal(t, "Stanford University", vm.Table[0].Name)
	assert.Equal(t, table.DefaultSort(), vm.Sort)
	assert.Equal(t, "Show Comparison (0)", vm.Comparison.ButtonLabel)
}

func TestCommandEndpoint_Toggle(t *testing.T) {
	srv := defaultServer(t)

	rec := do(t, srv, http.MethodPost, "/api/commands", `{"kind":"toggle","name":"Purdue University"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	vm := decode[app.ViewModel](t, rec)
	require.Len(t, vm.Comparison.Entries, 1)
	assert.Equal(t, "Purdue University", vm.Comparison.Entries[0].Name)
	assert.Equal(t, 93100, vm.Comparison.Entries[0].EngSalary)

	rec = do(t, srv, http.MethodGet, "/api/table/rows/"+url.PathEscape("Purdue University"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	row := decode[table.Row](t, rec)
	assert.True(t, row.InComparison)
	assert.Equal(t, "✓ Added", row.CompareLabel)
}

func TestCommandEndpoint_ToggleUpdatesOnlyThatRow(t *testing.T) {
	srv := defaultServer(t)
	before := decode[app.ViewModel](t, do(t, srv, http.MethodGet, "/api/state", ""))

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/commands", `{"kind":"toggle","name":"University of Waterloo"}`).Code)

	after := decode[app.ViewModel](t, do(t, srv, http.MethodGet, "/api/state", ""))
	require.Len(t, after.Table, len(before.Table))
	for i := range before.Table {
		if after.Table[i].Name == "University of Waterloo" {
			continue
		}
		assert.Equal(t, before.Table[i], after.Table[i])
	}

	row := decode[table.Row](t, do(t, srv, http.MethodGet, "/api/table/rows/"+url.PathEscape("University of Waterloo"), ""))
	assert.True(t, row.InComparison)
	assert.Equal(t, 3, row.Rank)

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/commands", `{"kind":"toggle","name":"University of Waterloo"}`).Code)

	row = decode[table.Row](t, do(t, srv, http.MethodGet, "/api/table/rows/"+url.PathEscape("University of Waterloo"), ""))
	assert.False(t, row.InComparison)
	assert.Equal(t, "+ Compare", row.CompareLabel)
}

func TestIndexWiresRowRefreshAndPopups(t *testing.T) {
	srv := defaultServer(t)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/commands", `{"kind":"select","name":"Purdue University"}`).Code)

	body := do(t, srv, http.MethodGet, "/", "").Body.String()

	assert.Contains(t, body, "fetch('/api/table/rows/'")
	assert.Contains(t, body, `data-name="Purdue University"`)
	assert.Contains(t, body, "bindPopup(popupContent(")
	assert.NotContains(t, body, "bindTooltip")
	assert.Contains(t, body, `"selected":"Purdue University"`)
}

func TestCommandEndpoint_Sort(t *testing.T) {
	srv := defaultServer(t)

	rec := do(t, srv, http.MethodPost, "/api/commands", `{"kind":"sort","column":"name"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	vm := decode[app.ViewModel](t, rec)
	assert.Equal(t, table.SortState{Column: table.ColumnName, Direction: table.Descending}, vm.Sort)
	assert.Equal(t, "University of Waterloo", vm.Table[0].Name)
}

func TestCommandEndpoint_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"kind":`, "invalid command"},
		{"unknown field", `{"kind":"add","university":"Purdue University"}`, "invalid command"},
		{"unknown kind", `{"kind":"explode"}`, "unknown command"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, defaultServer(t), http.MethodPost, "/api/commands", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode[map[string]string](t, rec)["error"], tc.want)
		})
	}
}

func TestCommandEndpoint_NoopStillReturnsState(t *testing.T) {
	rec := do(t, defaultServer(t), http.MethodPost, "/api/commands", `{"kind":"remove","index":7}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[app.ViewModel](t, rec).Comparison.Entries)
}

func TestCommandEndpoint_WrongMethod(t *testing.T) {
	rec := do(t, defaultServer(t), http.MethodGet, "/api/commands", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTableRowEndpoint_Unknown(t *testing.T) {
	rec := do(t, defaultServer(t), http.MethodGet, "/api/table/rows/Hogwarts", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "Hogwarts")
}

func TestMarkersEndpoint(t *testing.T) {
	srv := defaultServer(t)

	rec := do(t, srv, http.MethodGet, "/api/markers?zoom=0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	layer := decode[mapview.Layer](t, rec)
	assert.Equal(t, 0, layer.Zoom)
	require.Len(t, layer.Clusters, 1)
	assert.Equal(t, 4, layer.Clusters[0].Count)
	assert.Empty(t, layer.Markers)

	rec = do(t, srv, http.MethodGet, "/api/markers?zoom=19", "")
	layer = decode[mapview.Layer](t, rec)
	assert.Empty(t, layer.Clusters)
	assert.Len(t, layer.Markers, 4)
}

func TestMarkersEndpoint_DefaultZoom(t *testing.T) {
	rec := do(t, defaultServer(t), http.MethodGet, "/api/markers", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, decode[mapview.Layer](t, rec).Zoom)
}

func TestMarkersEndpoint_BadZoom(t *testing.T) {
	rec := do(t, defaultServer(t), http.MethodGet, "/api/markers?zoom=close", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthzReturns200(t *testing.T) {
	rec := do(t, defaultServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := do(t, defaultServer(t), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenDatasetEmpty(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(t, defaultServer(t), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestCommandBodyIsBounded(t *testing.T) {
	big := `{"kind":"add","name":"` + string(bytes.Repeat([]byte("x"), 8<<10)) + `"}`
	rec := do(t, defaultServer(t), http.MethodPost, "/api/commands", big)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
