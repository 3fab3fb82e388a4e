package streets

import (
	"errors"
	"fmt"

	"github.com/bluele/gcache"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/mini-jeepney/network/internal/geo"
)

// ErrNoRoads is returned when the network has no node to snap to
var ErrNoRoads = errors.New("road network is empty")

// Router finds road paths between stops. Snapped nodes are cached per stop.
type Router struct {
	net   *Network
	snaps gcache.Cache
}

// NewRouter creates a router with an LRU snap cache of cacheSize entries
func NewRouter(net *Network, cacheSize int) *Router {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	return &Router{
		net:   net,
		snaps: gcache.New(cacheSize).LRU().Build(),
	}
}

// Nearest returns the index of the road node closest to c
func (r *Router) Nearest(c geo.Coordinate) (int, error) {
	if v, err := r.snaps.Get(c); err == nil {
		return v.(int), nil
	}

	idx := geo.FindClosestPointIndex(r.net.nodes, c)
	if idx < 0 {
		return 0, ErrNoRoads
	}
	_ = r.snaps.Set(c, idx)
	return idx, nil
}

// Path returns the road polyline from the node nearest from to the node
// nearest to, following the shortest path by length
func (r *Router) Path(from, to geo.Coordinate) ([]geo.Coordinate, error) {
	u, err := r.Nearest(from)
	if err != nil {
		return nil, err
	}
	v, err := r.Nearest(to)
	if err != nil {
		return nil, err
	}

	nodes, _ := path.DijkstraFrom(simple.Node(u), r.net.g).To(int64(v))
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no road path from %v to %v", from, to)
	}

	out := make([]geo.Coordinate, len(nodes))
	for i, n := range nodes {
		out[i] = r.net.nodes[n.ID()]
	}
	return out, nil
}

// CacheStats returns snap cache hits and misses
func (r *Router) CacheStats() (hits, misses uint64) {
	return r.snaps.HitCount(), r.snaps.MissCount()
}
