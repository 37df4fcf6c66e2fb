// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package tags

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Italian", "italian"},
		{"  Tacos ", "taco"},
		{"BURGERS", "burger"},
		{"swiss", "swiss"},
		{"s", "s"},
		{"", ""},
		{"   ", ""},
		{"Dim Sum", "dim sum"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want bool
	}{
		{"dairy", "Dairy", true},
		{"eggs", "egg", true},
		{"Peanuts", " peanut ", true},
		{"egg", "eggplant", false},
		{"nut", "nutmeg", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"exact", "Italian", "italian", true},
		{"plural fold", "Burgers", "burger", true},
		{"prefix either way", "sushi", "Sushi Bar", true},
		{"prefix reversed", "Sushi Bar", "sushi", true},
		{"restaurant category", "pizza", "Pizza", true},
		{"unrelated", "Mexican", "Italian", false},
		{"empty never matches", "", "italian", false},
		{"whitespace only", "  ", "italian", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Match(tt.a, tt.b); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Match(tt.b, tt.a); got != tt.want {
				t.Errorf("Match is not symmetric for %q, %q", tt.a, tt.b)
			}
		})
	}
}

func TestMatching(t *testing.T) {
	t.Parallel()

	got := Matching([]string{"Italian", "Pizza", "Wine Bar"}, []string{"pizzas", "italian"})
	want := []string{"Italian", "Pizza"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Matching() = %v, want %v", got, want)
	}

	if got := Matching([]string{"Thai"}, []string{"Mexican"}); got != nil {
		t.Errorf("Matching() with no hits = %v, want nil", got)
	}
	if !AnyMatch([]string{"Korean", "BBQ"}, []string{"bbq"}) {
		t.Error("AnyMatch() = false, want true")
	}
	if AnyMatch(nil, []string{"bbq"}) {
		t.Error("AnyMatch(nil) = true, want false")
	}
}

func TestSetAndDedupe(t *testing.T) {
	t.Parallel()

	s := Set([]string{"Eggs", "egg", " ", "Dairy"})
	if len(s) != 2 {
		t.Errorf("len(Set) = %d, want 2", len(s))
	}
	if _, ok := s["egg"]; !ok {
		t.Error("Set missing egg")
	}

	got := Dedupe([]string{" Italian", "italian", "", "Thai", "THAI"})
	want := []string{"Italian", "Thai"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dedupe() = %v, want %v", got, want)
	}
	if Dedupe(nil) != nil {
		t.Error("Dedupe(nil) should be nil")
	}
}
