// Package streets snaps route segments onto a road network read from a
// local OpenStreetMap extract.
package streets

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/mini-jeepney/network/internal/geo"
)

// highway values that are not drivable or walkable roads
var excludedHighways = map[string]bool{
	"abandoned":    true,
	"construction": true,
	"platform":     true,
	"proposed":     true,
	"raceway":      true,
}

// Network is the road graph inside a bounding box. Edge weights are metres.
type Network struct {
	nodes []geo.Coordinate
	ids   map[osm.NodeID]int
	g     *simple.WeightedUndirectedGraph
}

func newNetwork() *Network {
	return &Network{
		ids: make(map[osm.NodeID]int),
		g:   simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
	}
}

// NodeCount returns the number of road nodes
func (n *Network) NodeCount() int {
	return len(n.nodes)
}

// EdgeCount returns the number of road segments
func (n *Network) EdgeCount() int {
	return n.g.Edges().Len()
}

// LoadOSM reads an .osm or .osm.pbf file and keeps the roads inside bbox
func LoadOSM(ctx context.Context, path string, bbox geo.Bounds) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OSM extract: %w", err)
	}
	defer f.Close()

	n, err := Read(ctx, f, strings.HasSuffix(path, ".pbf"), bbox)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	log.Printf("Streets: loaded %d road nodes and %d segments from %s", n.NodeCount(), n.EdgeCount(), path)
	return n, nil
}

// Read scans OSM data from r. Nodes must precede the ways that use them,
// which holds for extracts written by the usual tools.
func Read(ctx context.Context, r io.Reader, pbf bool, bbox geo.Bounds) (*Network, error) {
	var s osm.Scanner
	if pbf {
		s = osmpbf.New(ctx, r, 1)
	} else {
		s = osmxml.New(ctx, r)
	}
	defer s.Close()

	inside := make(map[osm.NodeID]geo.Coordinate)
	n := newNetwork()
	ways := 0

	for s.Scan() {
		switch o := s.Object().(type) {
		case *osm.Node:
			c := geo.Coordinate{Lat: o.Lat, Lon: o.Lon}
			if bbox.Contains(c) {
				inside[o.ID] = c
			}
		case *osm.Way:
			if !isRoad(o.Tags) {
				continue
			}
			ways++
			n.addWay(o, inside)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan OSM data: %w", err)
	}

	if ways == 0 {
		log.Printf("Streets: no road ways inside the bounding box")
	}
	return n, nil
}

func isRoad(tags osm.Tags) bool {
	highway := tags.Find("highway")
	if highway == "" || excludedHighways[highway] {
		return false
	}
	return tags.Find("area") != "yes"
}

// addWay adds every segment of w whose two ends are inside the bbox
func (n *Network) addWay(w *osm.Way, inside map[osm.NodeID]geo.Coordinate) {
	for i := 1; i < len(w.Nodes); i++ {
		a, okA := inside[w.Nodes[i-1].ID]
		b, okB := inside[w.Nodes[i].ID]
		if !okA || !okB || w.Nodes[i-1].ID == w.Nodes[i].ID {
			continue
		}

		km, err := geo.DistanceKM(a, b)
		if err != nil {
			continue
		}

		u := simple.Node(n.addNode(w.Nodes[i-1].ID, a))
		v := simple.Node(n.addNode(w.Nodes[i].ID, b))
		n.g.SetWeightedEdge(n.g.NewWeightedEdge(u, v, km*1000))
	}
}

func (n *Network) addNode(id osm.NodeID, c geo.Coordinate) int {
	if idx, ok := n.ids[id]; ok {
		return idx
	}
	idx := len(n.nodes)
	n.nodes = append(n.nodes, c)
	n.ids[id] = idx
	n.g.AddNode(simple.Node(idx))
	return idx
}
