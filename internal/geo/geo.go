// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package geo

import (
	"fmt"
	"math"
)

const (
	// EarthRadiusKm is the mean Earth radius used for haversine distances.
	EarthRadiusKm = 6371.0

	// MetersPerDegreeLat is the approximate length of one degree of latitude.
	MetersPerDegreeLat = 111000.0
)

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lon float64 `json:"lon" bson:"lon"`
}

// Valid reports whether the point lies within the legal coordinate ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180 &&
		!math.IsNaN(p.Lat) && !math.IsNaN(p.Lon)
}

// String formats the point with six decimals (roughly 0.1 m).
func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}

// HaversineKm returns the great-circle distance between a and b in kilometers.
func HaversineKm(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// MetersToLatDegrees approximates how many degrees of latitude span the given meters.
func MetersToLatDegrees(meters float64) float64 {
	return meters / MetersPerDegreeLat
}

// MetersToLonDegrees approximates how many degrees of longitude span the given
// meters at the given latitude.
func MetersToLonDegrees(meters, latitude float64) float64 {
	return meters / (MetersPerDegreeLat * math.Cos(toRadians(latitude)))
}

// MetersToKm converts meters to kilometers.
func MetersToKm(meters float64) float64 {
	return meters / 1000
}

// KmToMeters converts kilometers to meters.
func KmToMeters(km float64) float64 {
	return km * 1000
}

// GridOffsets returns the (2*gridSize+1)^2 points of a square grid centered
// on center, spaced stepMeters apart. Rows run south to north and columns
// west to east, so the center is always the middle element.
func GridOffsets(center Point, gridSize int, stepMeters float64) []Point {
	if gridSize < 0 {
		gridSize = 0
	}
	latStep := MetersToLatDegrees(stepMeters)
	lonStep := MetersToLonDegrees(stepMeters, center.Lat)

	side := 2*gridSize + 1
	points := make([]Point, 0, side*side)
	for i := -gridSize; i <= gridSize; i++ {
		for j := -gridSize; j <= gridSize; j++ {
			points = append(points, Point{
				Lat: center.Lat + float64(i)*latStep,
				Lon: center.Lon + float64(j)*lonStep,
			})
		}
	}
	return points
}

// CellKey snaps a point to a grid cell of the given size in degrees and
// returns a stable key for it. Used to share cached pools between nearby
// requests.
func CellKey(p Point, cellDegrees float64) string {
	if cellDegrees <= 0 {
		return p.String()
	}
	return fmt.Sprintf("%d:%d",
		int64(math.Floor(p.Lat/cellDegrees)),
		int64(math.Floor(p.Lon/cellDegrees)))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
