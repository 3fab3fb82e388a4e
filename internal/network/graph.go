// Package network builds the jeepney route graph: stops are nodes and
// consecutive stops of a line are joined by edges weighted in kilometres.
package network

import (
	"log"

	"github.com/mini-jeepney/network/internal/geo"
	"github.com/mini-jeepney/network/internal/route"
)

// Edge is an undirected segment between two distinct stops.
// Line is the row index of the last route that used it.
type Edge struct {
	From     geo.Coordinate
	To       geo.Coordinate
	WeightKM float64
	Line     int
}

type edgeKey struct {
	a, b int
}

// Graph is an undirected, distance-weighted route graph.
// Nodes and edges keep their first insertion order.
type Graph struct {
	order []geo.Coordinate
	index map[geo.Coordinate]int
	adj   map[geo.Coordinate][]geo.Coordinate
	edges []Edge
	byKey map[edgeKey]int
}

// New returns an empty graph
func New() *Graph {
	return &Graph{
		index: make(map[geo.Coordinate]int),
		adj:   make(map[geo.Coordinate][]geo.Coordinate),
		byKey: make(map[edgeKey]int),
	}
}

// Build creates a graph from every route in order
func Build(routes []route.Route) *Graph {
	g := New()
	for _, r := range routes {
		g.AddRoute(r)
	}
	log.Printf("Graph: built %d nodes and %d edges from %d routes", g.NodeCount(), g.EdgeCount(), len(routes))
	return g
}

// AddRoute joins each pair of consecutive stops. Identical consecutive stops
// add their node but no self-loop. A single-stop route adds nothing.
func (g *Graph) AddRoute(r route.Route) {
	for i := 1; i < len(r.Stops); i++ {
		a, b := r.Stops[i-1], r.Stops[i]
		if a == b {
			if geo.Valid(a) {
				g.addNode(a)
			}
			continue
		}

		d, err := geo.DistanceKM(a, b)
		if err != nil {
			log.Printf("Graph: line %d: skipping segment %v -> %v: %v", r.Line, a, b, err)
			continue
		}
		g.addEdge(a, b, d, r.Line)
	}
}

func (g *Graph) addNode(c geo.Coordinate) int {
	if idx, ok := g.index[c]; ok {
		return idx
	}
	idx := len(g.order)
	g.order = append(g.order, c)
	g.index[c] = idx
	return idx
}

func (g *Graph) addEdge(a, b geo.Coordinate, weight float64, line int) {
	ia, ib := g.addNode(a), g.addNode(b)
	key := edgeKey{a: ia, b: ib}
	if ib < ia {
		key = edgeKey{a: ib, b: ia}
	}

	if pos, ok := g.byKey[key]; ok {
		g.edges[pos].Line = line
		g.edges[pos].WeightKM = weight
		return
	}

	g.byKey[key] = len(g.edges)
	g.edges = append(g.edges, Edge{From: a, To: b, WeightKM: weight, Line: line})
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
}

// NodeCount returns the number of distinct stops
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of distinct undirected edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns the stops in insertion order
func (g *Graph) Nodes() []geo.Coordinate {
	out := make([]geo.Coordinate, len(g.order))
	copy(out, g.order)
	return out
}

// Edges returns the edges in insertion order
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// HasNode reports whether c is a stop of the graph
func (g *Graph) HasNode(c geo.Coordinate) bool {
	_, ok := g.index[c]
	return ok
}

// Edge returns the edge between a and b in either direction
func (g *Graph) Edge(a, b geo.Coordinate) (Edge, bool) {
	ia, okA := g.index[a]
	ib, okB := g.index[b]
	if !okA || !okB {
		return Edge{}, false
	}
	key := edgeKey{a: ia, b: ib}
	if ib < ia {
		key = edgeKey{a: ib, b: ia}
	}
	pos, ok := g.byKey[key]
	if !ok {
		return Edge{}, false
	}
	return g.edges[pos], true
}

// Neighbors returns the stops adjacent to c
func (g *Graph) Neighbors(c geo.Coordinate) []geo.Coordinate {
	n := g.adj[c]
	out := make([]geo.Coordinate, len(n))
	copy(out, n)
	return out
}

// Degree returns the number of edges touching c
func (g *Graph) Degree(c geo.Coordinate) int {
	return len(g.adj[c])
}

// Bounds returns the bounding box of all stops
func (g *Graph) Bounds() (geo.Bounds, bool) {
	return geo.BoundingBox(g.order)
}

// Center returns the mean stop position
func (g *Graph) Center() (geo.Coordinate, bool) {
	return geo.Center(g.order)
}

// RouteLength sums the hop distances of r. It does not consult any graph, so
// edges a route shares with other routes are counted in full.
func RouteLength(r route.Route) (float64, error) {
	return geo.LineLengthKM(r.Stops)
}
