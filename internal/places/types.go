// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package places

import (
	"strings"

	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/recommend"
)

// restaurantCategory is the Geoapify category prefix for restaurants.
const restaurantCategory = "catering.restaurant"

// Place is a normalized Geoapify feature.
type Place struct {
	ID         string
	Name       string
	Cuisine    string
	Categories []string
	Location   geo.Point
	Address    recommend.Address
	Contact    recommend.Contact

	// Hours is the raw opening_hours string, nil when absent.
	Hours *string
}

// featureCollection is the GeoJSON envelope of a place-details response.
type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties properties `json:"properties"`
}

type properties struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Categories  []string `json:"categories"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Housenumber string   `json:"housenumber"`
	Street      string   `json:"street"`
	City        string   `json:"city"`
	StateCode   string   `json:"state_code"`
	Postcode    string   `json:"postcode"`
	CountryCode string   `json:"country_code"`
	Website     string   `json:"website"`

	OpeningHours *string `json:"opening_hours"`

	Catering *struct {
		Cuisine string `json:"cuisine"`
	} `json:"catering"`

	Contact *struct {
		Phone string `json:"phone"`
	} `json:"contact"`
}

// normalizePlace flattens Geoapify properties into a Place.
func normalizePlace(p *properties) Place {
	place := Place{
		ID:       p.PlaceID,
		Name:     p.Name,
		Location: geo.Point{Lat: p.Lat, Lon: p.Lon},
		Address: recommend.Address{
			Street:   joinNonEmpty(" ", p.Housenumber, p.Street),
			City:     p.City,
			State:    p.StateCode,
			Postcode: p.Postcode,
			Country:  strings.ToUpper(p.CountryCode),
		},
		Contact: recommend.Contact{
			Website: p.Website,
		},
		Hours: p.OpeningHours,
	}
	if p.Catering != nil {
		place.Cuisine = p.Catering.Cuisine
	}
	if p.Contact != nil {
		place.Contact.Phone = p.Contact.Phone
	}
	for _, c := range p.Categories {
		if strings.HasPrefix(c, restaurantCategory) {
			place.Categories = append(place.Categories, c)
		}
	}
	return place
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
