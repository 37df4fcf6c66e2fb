// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package places

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/tablepick/internal/geo"
	"github.com/tomtom215/tablepick/internal/hours"
	"github.com/tomtom215/tablepick/internal/recommend"
	"github.com/tomtom215/tablepick/internal/tags"
)

// candidateNamespace seeds v5 ids for places without a provider id.
var candidateNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("places.tablepick"))

// Draft is a restaurant that has been mapped from a provider but not yet
// turned into a scoring candidate.
type Draft struct {
	ID       string
	Name     string
	Cuisines []string
	Location geo.Point
	Address  *recommend.Address
	Contact  *recommend.Contact

	// OpenHoursRaw is the provider string; OpenHours is set by Enrich.
	OpenHoursRaw *string
	OpenHours    hours.Schedule

	// DistanceKm is set by Enrich.
	DistanceKm *float64
}

// ToDraft maps a Place to a Draft. Cuisines combine the catering cuisine with
// the restaurant sub-categories, lowercased and de-duplicated in order.
// Dietary, allergen, rating and price data stay unknown.
func ToDraft(p Place) Draft {
	raw := make([]string, 0, len(p.Categories)+1)
	if p.Cuisine != "" {
		raw = append(raw, p.Cuisine)
	}
	for _, c := range p.Categories {
		if !strings.HasPrefix(c, restaurantCategory+".") {
			continue
		}
		raw = append(raw, strings.TrimPrefix(c, restaurantCategory+"."))
	}
	for i := range raw {
		raw[i] = strings.ToLower(strings.TrimSpace(raw[i]))
	}

	addr := p.Address
	contact := p.Contact
	return Draft{
		ID:           p.ID,
		Name:         p.Name,
		Cuisines:     tags.Dedupe(raw),
		Location:     p.Location,
		Address:      &addr,
		Contact:      &contact,
		OpenHoursRaw: p.Hours,
	}
}

// Enrich parses the raw hours and computes the distance from center.
func Enrich(d Draft, center geo.Point) Draft {
	d.OpenHours = hours.Parse(d.OpenHoursRaw)
	km := geo.HaversineKm(center, d.Location)
	d.DistanceKm = &km
	return d
}

// DedupKey identifies a venue across providers: lowercased name plus location
// rounded to six decimals.
func DedupKey(d *Draft) string {
	return fmt.Sprintf("%s|%.6f|%.6f", strings.ToLower(strings.TrimSpace(d.Name)), d.Location.Lat, d.Location.Lon)
}

// DedupDrafts drops drafts whose DedupKey was already seen. The first
// occurrence wins and order is kept.
func DedupDrafts(drafts []Draft) []Draft {
	seen := make(map[string]struct{}, len(drafts))
	out := make([]Draft, 0, len(drafts))
	for i := range drafts {
		key := DedupKey(&drafts[i])
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, drafts[i])
	}
	return out
}

// FilterByDistance keeps drafts within maxKm of center, inclusive.
func FilterByDistance(drafts []Draft, center geo.Point, maxKm float64) []Draft {
	out := make([]Draft, 0, len(drafts))
	for i := range drafts {
		if geo.HaversineKm(center, drafts[i].Location) <= maxKm {
			out = append(out, drafts[i])
		}
	}
	return out
}

// Candidate converts the draft into a scoring candidate. Places without a
// provider id get a stable v5 UUID derived from DedupKey.
func (d *Draft) Candidate() recommend.Candidate {
	id := d.ID
	if id == "" {
		id = uuid.NewSHA1(candidateNamespace, []byte(DedupKey(d))).String()
	}

	loc := d.Location
	c := recommend.Candidate{
		ID:        id,
		Name:      d.Name,
		Cuisines:  append([]string(nil), d.Cuisines...),
		Location:  &loc,
		OpenHours: d.OpenHours,
		Address:   d.Address,
		Contact:   d.Contact,
	}
	if d.DistanceKm != nil {
		km := *d.DistanceKm
		c.DistanceKm = &km
	}
	return c
}
