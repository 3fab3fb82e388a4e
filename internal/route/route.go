// Package route turns rows of the route table into jeepney lines: ordered
// stop coordinates parsed from free-form "[lat, long]" cells.
package route

import (
	"fmt"
	"log"

	"github.com/mini-jeepney/network/internal/geo"
	"github.com/mini-jeepney/network/internal/table"
)

// Route is one jeepney line. Line is the zero-based data row index.
type Route struct {
	Line  int
	Stops []geo.Coordinate
}

// HasSegments reports whether the route has at least one hop
func (r Route) HasSegments() bool {
	return len(r.Stops) >= 2
}

// RowStats counts what happened to the cells of a single row
type RowStats struct {
	Cells    int
	Rejected int
}

// LoadStats summarises a whole table
type LoadStats struct {
	Rows      int
	Cells     int
	Rejected  int
	EmptyRows int
}

// Options control how the table is read
type Options struct {
	MaxRows int
	Bounds  geo.Bounds
}

// Load reads the route table at path and parses every row.
// A missing or unreadable file is returned as an error; bad cells are not.
func Load(path string, opts Options) ([]Route, LoadStats, error) {
	t, err := table.ReadFile(path, opts.MaxRows)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to load routes: %w", err)
	}

	bounds := opts.Bounds
	if bounds == (geo.Bounds{}) {
		bounds = geo.World
	}

	routes, stats := FromTable(t, NewParser(bounds))
	log.Printf("Parser: %d rows, %d cells, %d rejected, %d rows without stops",
		stats.Rows, stats.Cells, stats.Rejected, stats.EmptyRows)
	return routes, stats, nil
}

// FromTable parses every row of t. One Route is returned per row, including
// rows with no valid stop.
func FromTable(t *table.Table, p *Parser) ([]Route, LoadStats) {
	routes := make([]Route, 0, len(t.Rows))
	var stats LoadStats

	for _, row := range t.Rows {
		r, rs := p.ParseRow(row)
		stats.Rows++
		stats.Cells += rs.Cells
		stats.Rejected += rs.Rejected
		if len(r.Stops) == 0 {
			log.Printf("Parser: row %d has no valid stops", row.Index)
			stats.EmptyRows++
		}
		routes = append(routes, r)
	}

	return routes, stats
}

// AllStops returns every stop of every route in order, duplicates included
func AllStops(routes []Route) []geo.Coordinate {
	var out []geo.Coordinate
	for _, r := range routes {
		out = append(out, r.Stops...)
	}
	return out
}
