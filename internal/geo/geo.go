// Package geo implements the cheap bounding-box pre-filter and the precise
// distance calculation used by parking search.
package geo

import "math"

// kmPerDegreeLat is the approximate length of one degree of latitude. Good
// enough for search radii up to 50 km.
const kmPerDegreeLat = 111.0

const earthRadiusKm = 6371.0

// BoundingBox is a lat/lng rectangle enclosing a search circle.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// BoxAround returns the bounding box enclosing a circle of radiusKm around
// (lat, lng). Longitude degrees shrink with cos(lat); near the poles the box
// degenerates to the full longitude range.
func BoxAround(lat, lng, radiusKm float64) BoundingBox {
	latRange := radiusKm / kmPerDegreeLat
	cosLat := math.Cos(lat * math.Pi / 180)
	lngRange := 180.0
	if cosLat > 1e-9 {
		lngRange = radiusKm / (kmPerDegreeLat * cosLat)
	}
	return BoundingBox{
		MinLat: lat - latRange,
		MaxLat: lat + latRange,
		MinLng: lng - lngRange,
		MaxLng: lng + lngRange,
	}
}

// Contains reports whether the point lies inside the box.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// DistanceKm returns the great-circle distance between two points using the
// haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := math.Pi / 180
	dLat := (lat2 - lat1) * toRad
	dLng := (lng2 - lng1) * toRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*toRad)*math.Cos(lat2*toRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}
