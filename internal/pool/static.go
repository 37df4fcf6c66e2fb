// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package pool

import (
	"github.com/tomtom215/tablepick/internal/hours"
	"github.com/tomtom215/tablepick/internal/recommend"
)

// everyDay is shared by seed rows; Static copies it per candidate.
var everyDay = []int{0, 1, 2, 3, 4, 5, 6}

// seed is one row of the static fallback pool. Distances are precomputed
// relative to an unspecified center since the rows carry no geometry.
type seed struct {
	id, name   string
	cuisines   []string
	tier       int
	km         float64
	days       []int
	open, shut string
	support    recommend.DietarySupport
	allergens  []string
	rating     float64
}

func diet(vegan, vegetarian, glutenFree, halal bool) recommend.DietarySupport {
	return recommend.DietarySupport{
		VeganFriendly:      vegan,
		VegetarianFriendly: vegetarian,
		GlutenFreeOptions:  glutenFree,
		HalalOptions:       halal,
	}
}

var seeds = []seed{
	{"r1", "Burger Joint", []string{"American", "Burgers"}, 2, 1.2, everyDay, "11:00", "23:00", diet(false, true, true, false), []string{"gluten", "dairy"}, 4.2},
	{"r2", "Green Leaf Cafe", []string{"Healthy", "Salad", "Vegan"}, 2, 0.5, everyDay, "08:00", "20:00", diet(true, true, true, true), []string{"nuts"}, 4.5},
	{"r3", "Pasta Palace", []string{"Italian"}, 3, 2.0, everyDay, "17:00", "22:00", diet(false, true, true, false), []string{"gluten", "eggs", "dairy"}, 4.0},
	{"r4", "Sushi Zen", []string{"Japanese", "Sushi"}, 4, 3.5, []int{1, 2, 3, 4, 5, 6}, "12:00", "22:00", diet(true, true, true, false), []string{"shellfish", "fish", "soy"}, 4.8},
	{"r5", "Taco Fiesta", []string{"Mexican", "Tacos"}, 1, 1.5, everyDay, "10:00", "24:00", diet(true, true, true, false), []string{"dairy", "corn"}, 4.1},
	{"r6", "Curry House", []string{"Indian", "Curry"}, 2, 2.5, everyDay, "11:00", "22:00", diet(true, true, true, true), []string{"dairy", "nuts"}, 4.4},
	{"r7", "Pizza Heaven", []string{"Italian", "Pizza"}, 2, 1.0, everyDay, "11:00", "23:00", diet(true, true, true, false), []string{"gluten", "dairy"}, 4.3},
	{"r8", "Steakhouse Prime", []string{"Steakhouse", "American"}, 4, 4.0, everyDay, "17:00", "23:00", diet(false, false, true, false), []string{"dairy"}, 4.6},
	{"r9", "Pho Real", []string{"Vietnamese", "Pho"}, 1, 1.8, everyDay, "10:00", "21:00", diet(true, true, true, false), []string{"fish", "soy"}, 4.2},
	{"r10", "Falafel Corner", []string{"Mediterranean", "Falafel"}, 1, 0.8, everyDay, "10:00", "22:00", diet(true, true, true, true), []string{"sesame", "gluten"}, 4.5},
	{"r11", "BBQ Barn", []string{"BBQ", "American"}, 3, 5.0, everyDay, "11:00", "21:00", diet(false, false, true, false), []string{"gluten", "mustard"}, 4.3},
	{"r12", "Dim Sum Delight", []string{"Chinese", "Dim Sum"}, 2, 2.2, []int{0, 6}, "09:00", "15:00", diet(false, true, false, false), []string{"shellfish", "soy", "gluten", "pork"}, 4.1},
	{"r13", "Thai Spice", []string{"Thai"}, 2, 1.5, everyDay, "11:00", "22:00", diet(true, true, true, false), []string{"peanuts", "fish", "shellfish"}, 4.4},
	{"r14", "French Bistro", []string{"French"}, 4, 3.2, []int{2, 3, 4, 5, 6}, "18:00", "22:00", diet(false, true, true, false), []string{"dairy", "eggs", "gluten"}, 4.7},
	{"r15", "Bagel Shop", []string{"Breakfast", "Bagels"}, 1, 0.3, everyDay, "06:00", "14:00", diet(true, true, false, true), []string{"gluten", "sesame"}, 4.0},
	{"r16", "K-BBQ House", []string{"Korean", "BBQ"}, 3, 2.8, everyDay, "16:00", "23:00", diet(false, false, false, false), []string{"soy", "sesame", "beef"}, 4.6},
	{"r17", "Seafood Shack", []string{"Seafood"}, 3, 4.5, everyDay, "12:00", "21:00", diet(false, true, true, false), []string{"shellfish", "fish"}, 4.2},
	{"r18", "Ramen Bar", []string{"Japanese", "Ramen"}, 2, 1.7, everyDay, "11:00", "23:00", diet(true, true, false, false), []string{"wheat", "soy", "egg", "pork"}, 4.5},
	{"r19", "Smoothie Bowl", []string{"Healthy", "Breakfast"}, 2, 0.9, everyDay, "07:00", "16:00", diet(true, true, true, true), []string{"nuts"}, 4.3},
	{"r20", "Ethiopian Eats", []string{"Ethiopian"}, 2, 3.1, []int{2, 3, 4, 5, 6, 0}, "17:00", "22:00", diet(true, true, false, true), []string{"gluten"}, 4.4},
	{"r21", "Diner 24", []string{"American", "Diner"}, 1, 1.6, everyDay, "00:00", "24:00", diet(false, true, true, false), []string{"dairy", "eggs", "gluten"}, 3.8},
	{"r22", "Greek Taverna", []string{"Greek", "Mediterranean"}, 3, 2.1, everyDay, "12:00", "22:00", diet(true, true, true, false), []string{"dairy", "gluten"}, 4.5},
	{"r23", "Pancake House", []string{"Breakfast", "American"}, 2, 1.3, everyDay, "06:00", "14:00", diet(false, true, true, false), []string{"eggs", "dairy", "gluten"}, 4.1},
	{"r24", "Hot Pot City", []string{"Chinese", "Hot Pot"}, 3, 2.9, everyDay, "11:00", "23:00", diet(true, true, true, false), []string{"soy", "shellfish", "sesame"}, 4.6},
	{"r25", "Wings World", []string{"American", "Wings"}, 2, 2.3, everyDay, "11:00", "01:00", diet(false, false, true, true), []string{"dairy"}, 3.9},
	{"r26", "Sandwich Board", []string{"Sandwiches", "Deli"}, 1, 0.6, []int{1, 2, 3, 4, 5}, "10:00", "16:00", diet(true, true, true, true), []string{"gluten", "mustard"}, 4.2},
	{"r27", "Ice Cream Parlor", []string{"Dessert"}, 1, 1.1, everyDay, "12:00", "22:00", diet(true, true, true, true), []string{"dairy", "nuts"}, 4.8},
	{"r28", "Brazilian Steakhouse", []string{"Brazilian", "Steakhouse"}, 4, 5.2, everyDay, "17:00", "22:00", diet(false, false, true, false), []string{"dairy"}, 4.7},
	{"r29", "Donut Shop", []string{"Bakery", "Breakfast"}, 1, 0.7, everyDay, "05:00", "13:00", diet(true, true, false, true), []string{"gluten", "eggs", "dairy"}, 4.4},
	{"r30", "Vegetarian Village", []string{"Vegetarian", "Healthy"}, 2, 1.9, everyDay, "11:00", "21:00", diet(true, true, true, true), []string{"soy", "nuts"}, 4.3},
}

// Static returns a fresh copy of the 30-restaurant fallback pool.
func Static() []recommend.Candidate {
	out := make([]recommend.Candidate, len(seeds))
	for i := range seeds {
		s := &seeds[i]
		km := s.km
		rating := s.rating
		out[i] = recommend.Candidate{
			ID:         s.id,
			Name:       s.name,
			Cuisines:   append([]string(nil), s.cuisines...),
			PriceTier:  s.tier,
			DistanceKm: &km,
			OpenHours: hours.Schedule{{
				Days:  append([]int(nil), s.days...),
				Start: s.open,
				End:   s.shut,
			}},
			DietarySupport: s.support,
			Allergens:      append([]string(nil), s.allergens...),
			Rating:         &rating,
		}
	}
	return out
}
