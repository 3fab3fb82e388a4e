package route

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/mini-jeepney/network/internal/geo"
	"github.com/mini-jeepney/network/internal/table"
)

// ParseError reports a cell whose text does not decode to a coordinate pair
type ParseError struct {
	Text   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error parsing lat-long string %q: %s: %v", e.Text, e.Reason, e.Err)
	}
	return fmt.Sprintf("error parsing lat-long string %q: %s", e.Text, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser turns cell text into coordinates inside Bounds
type Parser struct {
	Bounds geo.Bounds
}

// NewParser creates a parser that rejects coordinates outside bounds
func NewParser(bounds geo.Bounds) *Parser {
	return &Parser{Bounds: bounds}
}

var defaultParser = NewParser(geo.World)

// ParseCoordinate parses text with world bounds
func ParseCoordinate(text string) (geo.Coordinate, error) {
	return defaultParser.Parse(text)
}

// Parse decodes text such as "[14.55, 121.03]" or "14.55, 121.03,".
// Surrounding whitespace, brackets and trailing commas are removed first;
// what remains must be exactly two numbers separated by a comma.
func (p *Parser) Parse(text string) (geo.Coordinate, error) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return geo.Coordinate{}, &ParseError{Text: text, Reason: "empty value"}
	}
	if !balanced(cleaned) {
		return geo.Coordinate{}, &ParseError{Text: text, Reason: "unbalanced brackets"}
	}

	cleaned = clean(cleaned)
	if strings.ContainsAny(cleaned, "[]") {
		return geo.Coordinate{}, &ParseError{Text: text, Reason: "nested list"}
	}

	parts := strings.Split(cleaned, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, &ParseError{
			Text:   text,
			Reason: fmt.Sprintf("expected 2 values, got %d", len(parts)),
		}
	}

	var values [2]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return geo.Coordinate{}, &ParseError{Text: text, Reason: "non-numeric value", Err: errors.Unwrap(err)}
		}
		values[i] = v
	}

	c := geo.Coordinate{Lat: values[0], Lon: values[1]}
	if !p.Bounds.Contains(c) {
		return geo.Coordinate{}, &ParseError{Text: text, Reason: "coordinate out of bounds"}
	}
	return c, nil
}

// ParseRow maps Parse over the present cells of row in column order.
// Cells that fail are logged and dropped; the survivors are the route's stops.
func (p *Parser) ParseRow(row table.Row) (Route, RowStats) {
	r := Route{Line: row.Index}
	var stats RowStats

	for _, cell := range row.Cells {
		if !cell.Present {
			continue
		}
		stats.Cells++

		c, err := p.Parse(cell.Text)
		if err != nil {
			log.Printf("Parser: row %d: %v", row.Index, err)
			stats.Rejected++
			continue
		}
		r.Stops = append(r.Stops, c)
	}

	return r, stats
}

// clean strips brackets, whitespace and trailing commas from both ends until
// nothing more can be removed
func clean(s string) string {
	for {
		next := strings.TrimSpace(s)
		next = strings.Trim(next, "[]")
		next = strings.TrimSpace(next)
		next = strings.TrimRight(next, ",")
		if next == s {
			return s
		}
		s = next
	}
}

func balanced(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
