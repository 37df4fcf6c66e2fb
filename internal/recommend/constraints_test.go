// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package recommend

import (
	"reflect"
	"testing"

	"github.com/tomtom215/tablepick/internal/profile"
)

func TestAggregate(t *testing.T) {
	t.Parallel()

	a := profile.Default()
	a.Hard.Allergies = []string{"Peanuts", "Dairy"}
	a.Hard.Dietary = []string{"Vegan"}
	a.Hard.HardMaxBudget = ptrInt(3)

	b := profile.Default()
	b.Hard.Allergies = []string{"dairy", "Shellfish"}
	b.Hard.Dietary = []string{" halal "}
	b.Hard.HardMaxBudget = ptrInt(2)
	b.Hard.HardMaxDistance = ptrFloat(5)

	c := profile.Default()
	c.Hard.HardMaxDistance = ptrFloat(3.5)

	got := Aggregate([]profile.UserProfile{a, b, c})

	if want := []string{"dairy", "peanut", "shellfish"}; !reflect.DeepEqual(got.AllergyList(), want) {
		t.Errorf("allergies = %v, want %v", got.AllergyList(), want)
	}
	if want := []string{"halal", "vegan"}; !reflect.DeepEqual(got.DietaryList(), want) {
		t.Errorf("dietary = %v, want %v", got.DietaryList(), want)
	}
	if got.MaxBudget == nil || *got.MaxBudget != 2 {
		t.Errorf("MaxBudget = %v, want 2", got.MaxBudget)
	}
	if got.MaxDistanceKm == nil || *got.MaxDistanceKm != 3.5 {
		t.Errorf("MaxDistanceKm = %v, want 3.5", got.MaxDistanceKm)
	}
}

func TestAggregate_Empty(t *testing.T) {
	t.Parallel()

	got := Aggregate(nil)
	if !got.Empty() {
		t.Error("Aggregate(nil) should be empty")
	}
	if got.MaxBudget != nil || got.MaxDistanceKm != nil {
		t.Error("Aggregate(nil) should have no caps")
	}
}

func TestAggregate_DoesNotAliasProfiles(t *testing.T) {
	t.Parallel()

	p := profile.Default()
	p.Hard.HardMaxBudget = ptrInt(3)

	got := Aggregate([]profile.UserProfile{p})
	*got.MaxBudget = 1

	if *p.Hard.HardMaxBudget != 3 {
		t.Error("Aggregate caps alias the profile's value")
	}
}
