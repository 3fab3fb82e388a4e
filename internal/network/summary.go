package network

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mini-jeepney/network/internal/metrics"
	"github.com/mini-jeepney/network/internal/route"
)

// Measure is a statistic that may not apply to a given network
type Measure struct {
	Value  float64
	Valid  bool
	Reason string
}

func measured(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

func notApplicable(reason string) Measure {
	return Measure{Reason: reason}
}

// Format renders the value in kilometres or "N/A (reason)"
func (m Measure) Format() string {
	if !m.Valid {
		return fmt.Sprintf("N/A (%s)", m.Reason)
	}
	return fmt.Sprintf("%.2f km", m.Value)
}

// RouteLengthStat is the length of one route with at least two stops
type RouteLengthStat struct {
	Line     int
	Stops    int
	LengthKM float64
}

// Summary gathers every network statistic of one run
type Summary struct {
	Routes           int
	UniqueStops      int
	Edges            int
	Components       int
	LargestComponent int

	Diameter    Measure
	AveragePath Measure

	MeasuredRoutes int
	ShortestRoute  Measure
	LongestRoute   Measure
	AverageRoute   Measure
	RouteLengthDev Measure
	RouteLengths   []RouteLengthStat
}

// Compute derives the summary of g and the routes it was built from.
// Statistics that cannot be computed are reported as not applicable.
func Compute(g *Graph, routes []route.Route) Summary {
	s := Summary{
		Routes:      len(routes),
		UniqueStops: g.NodeCount(),
		Edges:       g.EdgeCount(),
	}

	components := g.ConnectedComponents()
	s.Components = len(components)
	largest := g.LargestComponent()
	s.LargestComponent = len(largest)

	diameter, average, err := g.PathStats(largest)
	if err != nil {
		var compErr *ComputationError
		if !errors.As(err, &compErr) {
			compErr = &ComputationError{Op: "shortest paths", Reason: err.Error()}
		}
		log.Printf("Graph: %v", compErr)
		s.Diameter = notApplicable(compErr.Reason)
		s.AveragePath = notApplicable(compErr.Reason)
	} else {
		s.Diameter = measured(diameter)
		s.AveragePath = measured(average)
	}

	var lengths metrics.Running
	for _, r := range routes {
		if !r.HasSegments() {
			continue
		}
		km, err := RouteLength(r)
		if err != nil {
			log.Printf("Graph: line %d: failed to measure route: %v", r.Line, err)
			continue
		}
		lengths.Update(km)
		s.RouteLengths = append(s.RouteLengths, RouteLengthStat{Line: r.Line, Stops: len(r.Stops), LengthKM: km})
	}

	s.MeasuredRoutes = lengths.Count
	if lengths.Empty() {
		reason := "no route with at least two stops"
		s.ShortestRoute = notApplicable(reason)
		s.LongestRoute = notApplicable(reason)
		s.AverageRoute = notApplicable(reason)
		s.RouteLengthDev = notApplicable(reason)
	} else {
		s.ShortestRoute = measured(lengths.Min)
		s.LongestRoute = measured(lengths.Max)
		s.AverageRoute = measured(lengths.Mean)
		s.RouteLengthDev = measured(lengths.StdDev())
	}

	return s
}

// WriteTo prints the console summary
func (s Summary) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Number of routes: %d\n", s.Routes)
	fmt.Fprintf(&b, "Number of unique stops: %d\n", s.UniqueStops)
	fmt.Fprintf(&b, "Number of edges: %d\n", s.Edges)
	fmt.Fprintf(&b, "Network diameter of largest connected component: %s\n", s.Diameter.Format())
	fmt.Fprintf(&b, "Shortest route: %s\n", s.ShortestRoute.Format())
	fmt.Fprintf(&b, "Longest route: %s\n", s.LongestRoute.Format())
	fmt.Fprintf(&b, "Average path length of largest connected component: %s\n", s.AveragePath.Format())
	fmt.Fprintf(&b, "Average route length: %s\n", s.AverageRoute.Format())
	fmt.Fprintf(&b, "Route length standard deviation: %s\n", s.RouteLengthDev.Format())
	fmt.Fprintf(&b, "Routes with at least two stops: %d\n", s.MeasuredRoutes)
	fmt.Fprintf(&b, "Number of connected components: %d\n", s.Components)
	fmt.Fprintf(&b, "Size of largest connected component: %d\n", s.LargestComponent)

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
