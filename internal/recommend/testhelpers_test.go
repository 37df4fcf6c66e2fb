// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package recommend

import (
	"time"

	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/hours"
	"github.com/tomtom215/tablepick/internal/profile"
)

var testCenter = geo.Point{Lat: 37.7749, Lon: -122.4194}

// testNow is Wednesday 2026-03-04 19:00 UTC.
var testNow = time.Date(2026, 3, 4, 19, 0, 0, 0, time.UTC)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }
func ptrBool(v bool) *bool        { return &v }

// north returns a point the given km due north of testCenter.
func north(km float64) *geo.Point {
	p := geo.Point{Lat: testCenter.Lat + geo.MetersToLatDegrees(km*1000), Lon: testCenter.Lon}
	return &p
}

func member(liked []string, targets []int, cuisine, price, distance int) profile.UserProfile {
	p := profile.Default()
	p.Soft.LikedCuisines = liked
	p.Soft.TargetPrices = targets
	p.Weights = profile.Weights{Cuisine: cuisine, Price: price, Distance: distance}
	return p
}

func candidate(id string, cuisines []string, tier int, rating float64, loc *geo.Point) Candidate {
	return Candidate{
		ID:        id,
		Name:      id,
		Cuisines:  cuisines,
		PriceTier: tier,
		Rating:    ptrFloat(rating),
		Location:  loc,
		OpenHours: hours.ParseString("00:00-24:00"),
		DietarySupport: DietarySupport{
			VeganFriendly:      true,
			VegetarianFriendly: true,
			GlutenFreeOptions:  true,
			HalalOptions:       true,
		},
	}
}

func defaultGroupContext() GroupContext {
	return GroupContext{Now: testNow, Location: &testCenter}
}
