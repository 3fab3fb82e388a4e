package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusKM is the IUGG mean Earth radius
const EarthRadiusKM = 6371.0088

// Coordinate is a stop position. Equality is exact-value.
type Coordinate struct {
	Lat float64
	Lon float64
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%g, %g)", c.Lat, c.Lon)
}

// LatLng converts to the s2 representation
func (c Coordinate) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat, c.Lon)
}

// Bounds is a plausible region for coordinates
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// World accepts any coordinate on the globe
var World = Bounds{MinLat: -90, MaxLat: 90, MinLon: -180, MaxLon: 180}

// Contains reports whether c is finite and inside b
func (b Bounds) Contains(c Coordinate) bool {
	if !finite(c.Lat) || !finite(c.Lon) {
		return false
	}
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

// Expand grows b by margin degrees on every side
func (b Bounds) Expand(margin float64) Bounds {
	return Bounds{
		MinLat: b.MinLat - margin,
		MaxLat: b.MaxLat + margin,
		MinLon: b.MinLon - margin,
		MaxLon: b.MaxLon + margin,
	}
}

// Valid reports whether c is a finite coordinate on the globe
func Valid(c Coordinate) bool {
	return World.Contains(c)
}

// BoundingBox returns the smallest Bounds containing all coords.
// ok is false when coords is empty.
func BoundingBox(coords []Coordinate) (b Bounds, ok bool) {
	if len(coords) == 0 {
		return Bounds{}, false
	}
	b = Bounds{MinLat: coords[0].Lat, MaxLat: coords[0].Lat, MinLon: coords[0].Lon, MaxLon: coords[0].Lon}
	for _, c := range coords[1:] {
		b.MinLat = math.Min(b.MinLat, c.Lat)
		b.MaxLat = math.Max(b.MaxLat, c.Lat)
		b.MinLon = math.Min(b.MinLon, c.Lon)
		b.MaxLon = math.Max(b.MaxLon, c.Lon)
	}
	return b, true
}

// DistanceKM returns the great-circle distance between a and b in kilometres
func DistanceKM(a, b Coordinate) (float64, error) {
	if !Valid(a) {
		return 0, fmt.Errorf("invalid coordinate %v", a)
	}
	if !Valid(b) {
		return 0, fmt.Errorf("invalid coordinate %v", b)
	}
	if a == b {
		return 0, nil
	}
	return a.LatLng().Distance(b.LatLng()).Radians() * EarthRadiusKM, nil
}

// LineLengthKM sums consecutive distances along coords
func LineLengthKM(coords []Coordinate) (float64, error) {
	var total float64
	for i := 1; i < len(coords); i++ {
		d, err := DistanceKM(coords[i-1], coords[i])
		if err != nil {
			return 0, fmt.Errorf("hop %d: %w", i, err)
		}
		total += d
	}
	return total, nil
}

// FindClosestPointIndex returns the index of the coordinate closest to target,
// or -1 if coords is empty
func FindClosestPointIndex(coords []Coordinate, target Coordinate) int {
	minDist := math.MaxFloat64
	minIdx := -1

	t := target.LatLng()
	for i, c := range coords {
		// angles compare the same as distances
		dist := float64(c.LatLng().Distance(t))
		if dist < minDist {
			minDist = dist
			minIdx = i
		}
	}

	return minIdx
}

// ClusterToken returns the token of the S2 cell at level containing c.
// Level 15 cells are roughly 300m across.
func ClusterToken(c Coordinate, level int) string {
	return s2.CellIDFromLatLng(c.LatLng()).Parent(level).ToToken()
}

// Center returns the arithmetic mean of coords, used to centre maps
func Center(coords []Coordinate) (Coordinate, bool) {
	if len(coords) == 0 {
		return Coordinate{}, false
	}
	var lat, lon float64
	for _, c := range coords {
		lat += c.Lat
		lon += c.Lon
	}
	n := float64(len(coords))
	return Coordinate{Lat: lat / n, Lon: lon / n}, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
