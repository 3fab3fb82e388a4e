package network

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/mini-jeepney/network/internal/geo"
	"github.com/mini-jeepney/network/internal/route"
)

var (
	stopA = geo.Coordinate{Lat: 14.55, Lon: 121.03}
	stopB = geo.Coordinate{Lat: 14.56, Lon: 121.05}
	stopC = geo.Coordinate{Lat: 14.57, Lon: 121.04}
	stopD = geo.Coordinate{Lat: 14.60, Lon: 121.00}
	stopE = geo.Coordinate{Lat: 14.61, Lon: 121.01}
)

func dist(t *testing.T, a, b geo.Coordinate) float64 {
	t.Helper()
	d, err := geo.DistanceKM(a, b)
	if err != nil {
		t.Fatalf("DistanceKM error: %v", err)
	}
	return d
}

func TestBuild_ThreeStops(t *testing.T) {
	g := Build([]route.Route{{Line: 0, Stops: []geo.Coordinate{stopA, stopB, stopC}}})

	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}

	e, ok := g.Edge(stopB, stopA)
	if !ok {
		t.Fatal("edge A-B should exist in either direction")
	}
	if want := dist(t, stopA, stopB); math.Abs(e.WeightKM-want) > 1e-12 {
		t.Errorf("weight = %f, want %f", e.WeightKM, want)
	}
	if _, ok := g.Edge(stopA, stopC); ok {
		t.Error("A and C are not consecutive")
	}
	if g.Degree(stopB) != 2 || g.Degree(stopA) != 1 {
		t.Errorf("degrees: A=%d B=%d", g.Degree(stopA), g.Degree(stopB))
	}
	if n := g.Neighbors(stopB); len(n) != 2 || n[0] != stopA || n[1] != stopC {
		t.Errorf("Neighbors(B) = %v", n)
	}
}

func TestBuild_RepeatedStopHasNoSelfLoop(t *testing.T) {
	r := route.Route{Line: 0, Stops: []geo.Coordinate{stopA, stopA, stopB}}
	g := Build([]route.Route{r})

	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("got %d nodes, %d edges; want 2, 1", g.NodeCount(), g.EdgeCount())
	}
	if _, ok := g.Edge(stopA, stopA); ok {
		t.Error("self-loop should not exist")
	}

	length, err := RouteLength(r)
	if err != nil {
		t.Fatalf("RouteLength error: %v", err)
	}
	if want := dist(t, stopA, stopB); math.Abs(length-want) > 1e-12 {
		t.Errorf("RouteLength = %f, want %f", length, want)
	}
}

func TestBuild_SharedEdgeLastLineWins(t *testing.T) {
	g := Build([]route.Route{
		{Line: 0, Stops: []geo.Coordinate{stopA, stopB}},
		{Line: 1, Stops: []geo.Coordinate{stopB, stopA, stopC}},
	})

	if g.EdgeCount() != 2 {
		t.Fatalf("EdgeCount = %d, want 2", g.EdgeCount())
	}
	e, _ := g.Edge(stopA, stopB)
	if e.Line != 1 {
		t.Errorf("Line = %d, want 1", e.Line)
	}
	if nodes := g.Nodes(); nodes[0] != stopA || nodes[1] != stopB || nodes[2] != stopC {
		t.Errorf("Nodes not in insertion order: %v", nodes)
	}
}

func TestBuild_SingleStopRouteAddsNothing(t *testing.T) {
	g := Build([]route.Route{{Line: 0, Stops: []geo.Coordinate{stopA}}, {Line: 1}})
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("got %d nodes, %d edges; want empty graph", g.NodeCount(), g.EdgeCount())
	}
}

func TestConnectedComponents_TwoDisjointRoutes(t *testing.T) {
	g := Build([]route.Route{
		{Line: 0, Stops: []geo.Coordinate{stopA, stopB}},
		{Line: 1, Stops: []geo.Coordinate{stopD, stopE, stopC}},
	})

	comps := g.ConnectedComponents()
	if len(comps) != 2 {
		t.Fatalf("got %d components, want 2", len(comps))
	}
	if comps[0][0] != stopA || len(comps[0]) != 2 {
		t.Errorf("first component = %v", comps[0])
	}
	if largest := g.LargestComponent(); len(largest) != 3 || largest[0] != stopD {
		t.Errorf("LargestComponent = %v", largest)
	}
}

func TestLargestComponent_TieGoesToEarliest(t *testing.T) {
	g := Build([]route.Route{
		{Line: 0, Stops: []geo.Coordinate{stopD, stopE}},
		{Line: 1, Stops: []geo.Coordinate{stopA, stopB}},
	})
	if largest := g.LargestComponent(); largest[0] != stopD {
		t.Errorf("LargestComponent = %v, want the D-E component", largest)
	}
}

func TestPathStats_Line(t *testing.T) {
	a := geo.Coordinate{Lat: 0, Lon: 0}
	b := geo.Coordinate{Lat: 1, Lon: 0}
	c := geo.Coordinate{Lat: 2, Lon: 0}
	g := Build([]route.Route{{Line: 0, Stops: []geo.Coordinate{a, b, c}}})

	diameter, average, err := g.PathStats(g.LargestComponent())
	if err != nil {
		t.Fatalf("PathStats error: %v", err)
	}

	ab, bc := dist(t, a, b), dist(t, b, c)
	if math.Abs(diameter-(ab+bc)) > 1e-9 {
		t.Errorf("diameter = %f, want %f", diameter, ab+bc)
	}
	if want := (ab + bc + ab + bc) / 3; math.Abs(average-want) > 1e-9 {
		t.Errorf("average = %f, want %f", average, want)
	}
}

func TestPathStats_NotApplicable(t *testing.T) {
	tests := []struct {
		name  string
		graph *Graph
	}{
		{"empty graph", New()},
		{"single node", Build([]route.Route{{Line: 0, Stops: []geo.Coordinate{stopA, stopA}}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.graph.PathStats(tt.graph.LargestComponent())
			var compErr *ComputationError
			if !errors.As(err, &compErr) {
				t.Fatalf("expected *ComputationError, got %v", err)
			}
		})
	}
}

func TestPathStats_Unreachable(t *testing.T) {
	g := Build([]route.Route{
		{Line: 0, Stops: []geo.Coordinate{stopA, stopB}},
		{Line: 1, Stops: []geo.Coordinate{stopD, stopE}},
	})
	_, _, err := g.PathStats([]geo.Coordinate{stopA, stopD})
	var compErr *ComputationError
	if !errors.As(err, &compErr) {
		t.Fatalf("expected *ComputationError, got %v", err)
	}
	if !strings.Contains(compErr.Reason, "not connected") {
		t.Errorf("Reason = %q", compErr.Reason)
	}
}

func TestCompute(t *testing.T) {
	routes := []route.Route{
		{Line: 0, Stops: []geo.Coordinate{stopA, stopB, stopC}},
		{Line: 1, Stops: []geo.Coordinate{stopD}},
		{Line: 2, Stops: []geo.Coordinate{stopD, stopE}},
		{Line: 3},
	}
	g := Build(routes)
	s := Compute(g, routes)

	if s.Routes != 4 || s.UniqueStops != 5 || s.Edges != 3 {
		t.Errorf("counts = %d routes, %d stops, %d edges", s.Routes, s.UniqueStops, s.Edges)
	}
	if s.Components != 2 || s.LargestComponent != 3 {
		t.Errorf("components = %d, largest = %d", s.Components, s.LargestComponent)
	}
	if !s.Diameter.Valid || !s.AveragePath.Valid {
		t.Error("diameter and average path should apply to the A-B-C component")
	}

	// single-stop and empty routes are excluded, not counted as zero
	if s.MeasuredRoutes != 2 {
		t.Errorf("MeasuredRoutes = %d, want 2", s.MeasuredRoutes)
	}
	abc := dist(t, stopA, stopB) + dist(t, stopB, stopC)
	de := dist(t, stopD, stopE)
	if math.Abs(s.ShortestRoute.Value-math.Min(abc, de)) > 1e-9 {
		t.Errorf("ShortestRoute = %f", s.ShortestRoute.Value)
	}
	if math.Abs(s.LongestRoute.Value-math.Max(abc, de)) > 1e-9 {
		t.Errorf("LongestRoute = %f", s.LongestRoute.Value)
	}
	if math.Abs(s.AverageRoute.Value-(abc+de)/2) > 1e-9 {
		t.Errorf("AverageRoute = %f", s.AverageRoute.Value)
	}
	if len(s.RouteLengths) != 2 || s.RouteLengths[1].Line != 2 {
		t.Errorf("RouteLengths = %+v", s.RouteLengths)
	}
}

func TestCompute_SingleNodeReportsNotApplicable(t *testing.T) {
	routes := []route.Route{{Line: 0, Stops: []geo.Coordinate{stopA, stopA}}}
	s := Compute(Build(routes), routes)

	if s.Diameter.Valid || s.AveragePath.Valid {
		t.Error("diameter and average path should not apply to a single node")
	}
	if !s.ShortestRoute.Valid || s.ShortestRoute.Value != 0 {
		t.Errorf("ShortestRoute = %+v, want a valid 0", s.ShortestRoute)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Network diameter of largest connected component: N/A (component has a single node)") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "Number of unique stops: 1") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestCompute_EmptyInput(t *testing.T) {
	s := Compute(New(), nil)

	if s.Diameter.Valid || s.ShortestRoute.Valid || s.AverageRoute.Valid {
		t.Error("no statistic should apply to an empty network")
	}
	if got := s.ShortestRoute.Format(); got != "N/A (no route with at least two stops)" {
		t.Errorf("Format = %q", got)
	}
	if s.Components != 0 {
		t.Errorf("Components = %d, want 0", s.Components)
	}
}

func TestMeasureFormat(t *testing.T) {
	if got := measured(2.345).Format(); got != "2.35 km" && got != "2.34 km" {
		t.Errorf("Format = %q", got)
	}
	if got := notApplicable("Graph is not connected").Format(); got != "N/A (Graph is not connected)" {
		t.Errorf("Format = %q", got)
	}
}

func TestGraphBoundsAndCenter(t *testing.T) {
	g := Build([]route.Route{{Line: 0, Stops: []geo.Coordinate{stopA, stopB}}})

	b, ok := g.Bounds()
	if !ok || b.MinLat != stopA.Lat || b.MaxLon != stopB.Lon {
		t.Errorf("Bounds = %+v, %v", b, ok)
	}
	c, ok := g.Center()
	if !ok || math.Abs(c.Lat-14.555) > 1e-9 {
		t.Errorf("Center = %v, %v", c, ok)
	}
}
