// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

/*
Package geo provides the small amount of spherical math the recommender
and the places client need.

Distances are great-circle distances on a spherical Earth of radius
6371 km. Meter to degree conversions use the flat approximation of
111 km per degree of latitude, scaled by cos(latitude) for longitude,
which is accurate enough for the few hundred meters a search grid spans.

# Usage Example

	sf := geo.Point{Lat: 37.7749, Lon: -122.4194}
	oak := geo.Point{Lat: 37.8044, Lon: -122.2712}
	km := geo.HaversineKm(sf, oak) // ~13.4

	for _, p := range geo.GridOffsets(sf, 1, 400) {
	    // 3x3 grid of query points spaced 400 m apart
	}
*/
package geo
