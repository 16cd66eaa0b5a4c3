// Package geo provides the distance and answer-validation primitives for the
// quiz: Haversine distance, per-feature distance tolerances, and Spain's
// map constants. Everything here is pure and side-effect free.
package geo

import (
	"fmt"
	"math"
)

// EarthRadius is the mean Earth radius in meters used by the Haversine formula.
const EarthRadius = 6371000.0

// Point is a coordinate pair in [longitude, latitude] order, matching the
// order used by the map layer and the dataset files.
type Point [2]float64

// Lon returns the longitude component.
func (p Point) Lon() float64 { return p[0] }

// Lat returns the latitude component.
func (p Point) Lat() float64 { return p[1] }

// Bounds describes a latitude/longitude bounding box.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// SpainBounds is Spain's approximate bounding box (peninsula + Balearics).
var SpainBounds = Bounds{North: 44.0, South: 36.0, East: 4.5, West: -9.5}

// SpainCenter is the map's home position (Madrid area).
var SpainCenter = Point{-3.7038, 40.4168}

// DefaultZoom shows all of Spain.
const DefaultZoom = 5

// Default tolerances in meters per location type. Unknown types fall back to
// the city tolerance.
const (
	ToleranceRegion       = 100000
	ToleranceProvince     = 75000
	ToleranceCity         = 50000
	ToleranceMunicipality = 25000
	ToleranceRiver        = 10000
	ToleranceMountain     = 5000
	ToleranceLake         = 30000
)

// Distance returns the great-circle distance in meters between two points
// using the Haversine formula.
func Distance(a, b Point) float64 {
	lat1 := radians(a.Lat())
	lat2 := radians(b.Lat())
	dLat := radians(b.Lat() - a.Lat())
	dLon := radians(b.Lon() - a.Lon())

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadius * c
}

func radians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// DefaultTolerance returns the answer tolerance in meters for a location
// type. Mountain ranges share the mountain tolerance.
func DefaultTolerance(locationType string) float64 {
	switch locationType {
	case "region":
		return ToleranceRegion
	case "province":
		return ToleranceProvince
	case "city":
		return ToleranceCity
	case "municipality":
		return ToleranceMunicipality
	case "river":
		return ToleranceRiver
	case "mountain", "mountain-range":
		return ToleranceMountain
	case "lake":
		return ToleranceLake
	default:
		return ToleranceCity
	}
}

// ValidatePoint reports whether a tapped point is close enough to the correct
// location. A tolerance of zero or less selects the default for the location
// type. A distance exactly equal to the tolerance counts as correct.
func ValidatePoint(user, correct Point, locationType string, tolerance float64) bool {
	if tolerance <= 0 {
		tolerance = DefaultTolerance(locationType)
	}
	return Distance(user, correct) <= tolerance
}

// WithinSpainBounds reports whether a point falls inside Spain's bounding
// box. Used for input sanity only; answers outside the box are still scored.
func WithinSpainBounds(p Point) bool {
	return p.Lat() >= SpainBounds.South &&
		p.Lat() <= SpainBounds.North &&
		p.Lon() >= SpainBounds.West &&
		p.Lon() <= SpainBounds.East
}

// FormatDistance renders a distance for display: meters below 1 km, otherwise
// kilometers with one decimal.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}
