package mapview

import (
	"fmt"
	"math"

	"github.com/couchcryptid/salary-map/internal/domain"
)

const (
	tileSize = 256.0

	// maxLatitude is the Web Mercator cut-off.
	maxLatitude = 85.0511287798

	DefaultMaxClusterRadius = 50.0
	DefaultMaxZoom          = 19
)

// Options tunes clustering.
type Options struct {
	MaxClusterRadius float64 // pixels
	MaxZoom          int
}

// Bounds is a south-west / north-east box.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

func (b *Bounds) extend(lat, lng float64) {
	b.South = math.Min(b.South, lat)
	b.North = math.Max(b.North, lat)
	b.West = math.Min(b.West, lng)
	b.East = math.Max(b.East, lng)
}

func pointBounds(lat, lng float64) Bounds {
	return Bounds{South: lat, West: lng, North: lat, East: lng}
}

// Cluster groups markers that are within MaxClusterRadius pixels at a zoom.
// Clicking it should zoom to ExpansionZoom, or fan the markers out when
// Spiderfy is set (they never separate, even at max zoom).
type Cluster struct {
	ID            string   `json:"id"`
	Count         int      `json:"count"`
	Lat           float64  `json:"lat"`
	Lng           float64  `json:"lng"`
	Color         string   `json:"color"`
	Bounds        Bounds   `json:"bounds"`
	Members       []string `json:"members"`
	ExpansionZoom int      `json:"expansion_zoom"`
	Spiderfy      bool     `json:"spiderfy,omitempty"`
}

// Layer is what the map shows at one zoom level.
type Layer struct {
	Zoom     int       `json:"zoom"`
	Clusters []Cluster `json:"clusters"`
	Markers  []Marker  `json:"markers"`
	Bounds   Bounds    `json:"bounds"`
}

// View holds one marker per dataset record.
type View struct {
	markers []Marker
	byName  map[string]int
	opts    Options
}

// New builds markers for every record. Zero option values fall back to the
// defaults.
func New(ds *domain.Dataset, opts Options) *View {
	if opts.MaxClusterRadius <= 0 {
		opts.MaxClusterRadius = DefaultMaxClusterRadius
	}
	if opts.MaxZoom <= 0 {
		opts.MaxZoom = DefaultMaxZoom
	}

	records := ds.All()
	v := &View{
		markers: make([]Marker, len(records)),
		byName:  make(map[string]int, len(records)),
		opts:    opts,
	}
	for i, u := range records {
		v.markers[i] = NewMarker(u)
		v.byName[u.Name] = i
	}
	return v
}

// MaxZoom returns the deepest zoom level clusters are computed for.
func (v *View) MaxZoom() int { return v.opts.MaxZoom }

// Markers returns every marker in dataset order.
func (v *View) Markers() []Marker {
	out := make([]Marker, len(v.markers))
	copy(out, v.markers)
	return out
}

// Marker finds the marker for a university.
func (v *View) Marker(name string) (Marker, bool) {
	i, ok := v.byName[name]
	if !ok {
		return Marker{}, false
	}
	return v.markers[i], true
}

// Bounds covers every marker, for the initial fit-to-bounds view. ok is
// false when there are no markers.
func (v *View) Bounds() (b Bounds, ok bool) {
	if len(v.markers) == 0 {
		return Bounds{}, false
	}
	b = pointBounds(v.markers[0].Lat, v.markers[0].Lng)
	for _, m := range v.markers[1:] {
		b.extend(m.Lat, m.Lng)
	}
	return b, true
}

// Layer clusters the markers for a zoom level. The zoom is clamped to
// [0, MaxZoom]. Groups of one are returned as plain markers.
func (v *View) Layer(zoom int) Layer {
	zoom = min(max(zoom, 0), v.opts.MaxZoom)
	layer := Layer{Zoom: zoom, Clusters: []Cluster{}, Markers: []Marker{}}
	layer.Bounds, _ = v.Bounds()

	for _, g := range v.group(v.markers, zoom) {
		if len(g.members) == 1 {
			layer.Markers = append(layer.Markers, g.members[0])
			continue
		}
		layer.Clusters = append(layer.Clusters, v.cluster(g, zoom, len(layer.Clusters)))
	}
	return layer
}

type group struct {
	members        []Marker
	sumLat, sumLng float64
	x, y           float64 // pixel position of the centroid
}

func (g *group) add(m Marker, zoom int) {
	g.members = append(g.members, m)
	g.sumLat += m.Lat
	g.sumLng += m.Lng
	n := float64(len(g.members))
	g.x, g.y = project(g.sumLat/n, g.sumLng/n, zoom)
}

// group assigns each marker, in order, to the nearest existing group whose
// centroid is within the cluster radius, or starts a new group.
func (v *View) group(markers []Marker, zoom int) []*group {
	var groups []*group
	for _, m := range markers {
		x, y := project(m.Lat, m.Lng, zoom)

		var best *group
		bestDist := v.opts.MaxClusterRadius
		for _, g := range groups {
			if d := math.Hypot(g.x-x, g.y-y); d <= bestDist {
				best, bestDist = g, d
			}
		}
		if best == nil {
			best = &group{}
			groups = append(groups, best)
		}
		best.add(m, zoom)
	}
	return groups
}

func (v *View) cluster(g *group, zoom, index int) Cluster {
	n := float64(len(g.members))
	c := Cluster{
		ID:      fmt.Sprintf("z%d-c%d", zoom, index),
		Count:   len(g.members),
		Lat:     g.sumLat / n,
		Lng:     g.sumLng / n,
		Bounds:  pointBounds(g.members[0].Lat, g.members[0].Lng),
		Members: make([]string, len(g.members)),
	}

	best := 0
	for i, m := range g.members {
		c.Members[i] = m.Name
		c.Bounds.extend(m.Lat, m.Lng)
		best = max(best, m.CSSalary, m.EngSalary)
	}
	c.Color = domain.SalaryColor(float64(best))
	c.ExpansionZoom, c.Spiderfy = v.expansionZoom(g.members, zoom)
	return c
}

// expansionZoom finds the first deeper zoom at which members split apart.
func (v *View) expansionZoom(members []Marker, zoom int) (int, bool) {
	for z := zoom + 1; z <= v.opts.MaxZoom; z++ {
		if len(v.group(members, z)) > 1 {
			return z, false
		}
	}
	return v.opts.MaxZoom, true
}

// project converts WGS-84 coordinates to Web Mercator pixels at zoom.
func project(lat, lng float64, zoom int) (x, y float64) {
	lat = math.Max(-maxLatitude, math.Min(maxLatitude, lat))
	scale := tileSize * math.Exp2(float64(zoom))
	sin := math.Sin(lat * math.Pi / 180)

	x = (lng + 180) / 360 * scale
	y = (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * scale
	return x, y
}
