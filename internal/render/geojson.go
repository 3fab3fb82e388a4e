// Package render turns a route graph into map artifacts: a GeoJSON
// FeatureCollection and a standalone Leaflet page that displays it.
package render

import (
	"log"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mini-jeepney/network/internal/geo"
	"github.com/mini-jeepney/network/internal/network"
)

// Feature kinds
const (
	KindStop    = "stop"
	KindSegment = "segment"
	KindRoad    = "road"
)

// Router finds the road polyline between two stops
type Router interface {
	Path(from, to geo.Coordinate) ([]geo.Coordinate, error)
}

// RoadPath is a graph edge drawn along the street network
type RoadPath struct {
	Line   int
	Points []geo.Coordinate
}

// Options control which features are emitted
type Options struct {
	ClusterLevel int
	RoadPaths    []RoadPath
}

// SnapEdges asks r for the road path of every graph edge. Edges without a
// road path are logged and left out.
func SnapEdges(g *network.Graph, r Router) []RoadPath {
	var out []RoadPath
	for _, e := range g.Edges() {
		points, err := r.Path(e.From, e.To)
		if err != nil {
			log.Printf("Render: error drawing route from %v to %v: %v", e.From, e.To, err)
			continue
		}
		if len(points) < 2 {
			continue
		}
		out = append(out, RoadPath{Line: e.Line, Points: points})
	}
	log.Printf("Render: snapped %d of %d segments to roads", len(out), g.EdgeCount())
	return out
}

// GeoJSON builds one Point per stop, one LineString per edge and one
// LineString per road path
func GeoJSON(g *network.Graph, opts Options) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, c := range g.Nodes() {
		f := geojson.NewFeature(point(c))
		f.Properties["kind"] = KindStop
		f.Properties["lat"] = c.Lat
		f.Properties["lon"] = c.Lon
		f.Properties["degree"] = g.Degree(c)
		if opts.ClusterLevel > 0 {
			f.Properties["cluster"] = geo.ClusterToken(c, opts.ClusterLevel)
		}
		fc.Append(f)
	}

	for _, e := range g.Edges() {
		f := geojson.NewFeature(orb.LineString{point(e.From), point(e.To)})
		f.Properties["kind"] = KindSegment
		f.Properties["line"] = e.Line
		f.Properties["weight_km"] = e.WeightKM
		fc.Append(f)
	}

	for _, p := range opts.RoadPaths {
		ls := make(orb.LineString, len(p.Points))
		for i, c := range p.Points {
			ls[i] = point(c)
		}
		f := geojson.NewFeature(ls)
		f.Properties["kind"] = KindRoad
		f.Properties["line"] = p.Line
		fc.Append(f)
	}

	return fc
}

func point(c geo.Coordinate) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// Cluster is a group of stops sharing an S2 cell
type Cluster struct {
	Token  string
	Center geo.Coordinate
	Stops  int
}

// ClusterStops groups the stops of g by S2 cell at level. Clusters are
// ordered by size, then token.
func ClusterStops(g *network.Graph, level int) []Cluster {
	members := make(map[string][]geo.Coordinate)
	for _, c := range g.Nodes() {
		token := geo.ClusterToken(c, level)
		members[token] = append(members[token], c)
	}

	out := make([]Cluster, 0, len(members))
	for token, stops := range members {
		center, _ := geo.Center(stops)
		out = append(out, Cluster{Token: token, Center: center, Stops: len(stops)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stops != out[j].Stops {
			return out[i].Stops > out[j].Stops
		}
		return out[i].Token < out[j].Token
	})
	return out
}
