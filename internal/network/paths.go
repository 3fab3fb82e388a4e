package network

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/mini-jeepney/network/internal/geo"
)

// ComputationError reports a path statistic that could not be computed
type ComputationError struct {
	Op     string
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// weighted mirrors g into a gonum graph whose node IDs are insertion indexes
func (g *Graph) weighted() *simple.WeightedUndirectedGraph {
	wg := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := range g.order {
		wg.AddNode(simple.Node(i))
	}
	for _, e := range g.edges {
		u := simple.Node(g.index[e.From])
		v := simple.Node(g.index[e.To])
		wg.SetWeightedEdge(wg.NewWeightedEdge(u, v, e.WeightKM))
	}
	return wg
}

// ConnectedComponents partitions the stops. Each component lists its stops
// in insertion order and components are ordered by their first stop.
func (g *Graph) ConnectedComponents() [][]geo.Coordinate {
	if len(g.order) == 0 {
		return nil
	}

	raw := topo.ConnectedComponents(g.weighted())
	ids := make([][]int, 0, len(raw))
	for _, comp := range raw {
		members := make([]int, 0, len(comp))
		for _, n := range comp {
			members = append(members, int(n.ID()))
		}
		sort.Ints(members)
		ids = append(ids, members)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i][0] < ids[j][0] })

	out := make([][]geo.Coordinate, len(ids))
	for i, members := range ids {
		out[i] = make([]geo.Coordinate, len(members))
		for j, id := range members {
			out[i][j] = g.order[id]
		}
	}
	return out
}

// LargestComponent returns the component with the most stops. Ties go to the
// component whose first stop was inserted earliest. Nil for an empty graph.
func (g *Graph) LargestComponent() []geo.Coordinate {
	var largest []geo.Coordinate
	for _, comp := range g.ConnectedComponents() {
		if len(comp) > len(largest) {
			largest = comp
		}
	}
	return largest
}

// PathStats returns the weighted diameter and the mean shortest-path length
// over all pairs of the given stops. It fails with a *ComputationError when
// there are fewer than two stops or some pair has no path.
func (g *Graph) PathStats(stops []geo.Coordinate) (diameter, average float64, err error) {
	if len(g.order) == 0 {
		return 0, 0, &ComputationError{Op: "shortest paths", Reason: "graph is empty"}
	}
	if len(stops) < 2 {
		return 0, 0, &ComputationError{Op: "shortest paths", Reason: "component has a single node"}
	}

	nodes := make([]graph.Node, len(stops))
	for i, c := range stops {
		idx, ok := g.index[c]
		if !ok {
			return 0, 0, &ComputationError{Op: "shortest paths", Reason: fmt.Sprintf("stop %v is not in the graph", c)}
		}
		nodes[i] = simple.Node(idx)
	}

	wg := g.weighted()
	var sum float64
	pairs := 0
	for i, u := range nodes {
		tree := path.DijkstraFrom(u, wg)
		for _, v := range nodes[i+1:] {
			w := tree.WeightTo(v.ID())
			if math.IsInf(w, 1) {
				return 0, 0, &ComputationError{
					Op:     "shortest paths",
					Reason: fmt.Sprintf("Graph is not connected: no path from %v to %v", g.order[u.ID()], g.order[v.ID()]),
				}
			}
			diameter = math.Max(diameter, w)
			sum += w
			pairs++
		}
	}

	return diameter, sum / float64(pairs), nil
}
