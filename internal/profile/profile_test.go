// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package profile

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goccy/go-json"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestNormalize_LegacyV1(t *testing.T) {
	t.Parallel()

	raw := RawProfile{
		Hard: RawHard{
			Allergies: []string{" Peanuts", "peanuts", ""},
			Dietary:   []string{"Vegan"},
		},
		Soft: RawSoft{
			LikedCuisines: []string{"Italian"},
			TargetPrice:   PriceTargets{2},
		},
		Weights: Weights{Cuisine: 5, Price: 3, Distance: 0},
	}

	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if got.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", got.SchemaVersion, CurrentSchemaVersion)
	}
	want := Weights{Cuisine: 10, Price: 6, Distance: DefaultWeight}
	if got.Weights != want {
		t.Errorf("Weights = %+v, want %+v", got.Weights, want)
	}
	if !reflect.DeepEqual(got.Soft.TargetPrices, []int{2}) {
		t.Errorf("TargetPrices = %v, want [2]", got.Soft.TargetPrices)
	}
	if !reflect.DeepEqual(got.Hard.Allergies, []string{"Peanuts"}) {
		t.Errorf("Allergies = %v, want [Peanuts]", got.Hard.Allergies)
	}
}

func TestNormalize_V2(t *testing.T) {
	t.Parallel()

	raw := RawProfile{
		SchemaVersion: SchemaV2,
		Hard: RawHard{
			HardMaxBudget:   intPtr(9),
			HardMaxDistance: floatPtr(-1),
		},
		Soft: RawSoft{
			TargetPrices:       []int{3, 1, 3, 7, 0},
			TargetPrice:        PriceTargets{2},
			DistancePreference: " Near ",
		},
		Weights: Weights{Cuisine: 10, Price: 1, Distance: 14},
	}

	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if want := (Weights{Cuisine: 10, Price: 1, Distance: 10}); got.Weights != want {
		t.Errorf("Weights = %+v, want %+v", got.Weights, want)
	}
	if !reflect.DeepEqual(got.Soft.TargetPrices, []int{1, 2, 3}) {
		t.Errorf("TargetPrices = %v, want [1 2 3]", got.Soft.TargetPrices)
	}
	if got.Hard.HardMaxBudget == nil || *got.Hard.HardMaxBudget != MaxPriceTier {
		t.Errorf("HardMaxBudget = %v, want %d", got.Hard.HardMaxBudget, MaxPriceTier)
	}
	if got.Hard.HardMaxDistance != nil {
		t.Errorf("HardMaxDistance = %v, want nil", *got.Hard.HardMaxDistance)
	}
	if got.Soft.DistancePreference != DistanceNear {
		t.Errorf("DistancePreference = %q, want %q", got.Soft.DistancePreference, DistanceNear)
	}
}

func TestNormalize_UnsupportedSchema(t *testing.T) {
	t.Parallel()

	_, err := Normalize(RawProfile{SchemaVersion: 99})
	if !errors.Is(err, ErrUnsupportedSchema) {
		t.Fatalf("Normalize() error = %v, want ErrUnsupportedSchema", err)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	first, err := Normalize(RawProfile{
		Soft:    RawSoft{LikedCuisines: []string{"Thai"}, TargetPrice: PriceTargets{1}},
		Weights: Weights{Cuisine: 2, Price: 4, Distance: 5},
	})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	second, err := Normalize(FromCanonical(first))
	if err != nil {
		t.Fatalf("Normalize() second pass error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass changed profile:\n first  %+v\n second %+v", first, second)
	}
}

func TestNormalizeAll(t *testing.T) {
	t.Parallel()

	got, err := NormalizeAll([]RawProfile{{}, {SchemaVersion: SchemaV2}})
	if err != nil {
		t.Fatalf("NormalizeAll() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	_, err = NormalizeAll([]RawProfile{{}, {SchemaVersion: 3}})
	if !errors.Is(err, ErrUnsupportedSchema) {
		t.Errorf("NormalizeAll() error = %v, want ErrUnsupportedSchema", err)
	}
}

func TestPriceTargets_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    []int
		wantErr bool
	}{
		{"single number", `{"target_price": 2}`, []int{2}, false},
		{"fractional number rounds up", `{"target_price": 2.7}`, []int{3}, false},
		{"fractional number rounds down", `{"target_price": 1.2}`, []int{1}, false},
		{"array", `{"target_price": [1, 3]}`, []int{1, 3}, false},
		{"null", `{"target_price": null}`, nil, false},
		{"absent", `{}`, nil, false},
		{"string is rejected", `{"target_price": "cheap"}`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var soft RawSoft
			err := json.Unmarshal([]byte(tt.payload), &soft)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual([]int(soft.TargetPrice), tt.want) {
				t.Errorf("TargetPrice = %v, want %v", soft.TargetPrice, tt.want)
			}
		})
	}
}

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()

	p := Default()
	p.Hard.Allergies = []string{"dairy"}
	p.Hard.HardMaxBudget = intPtr(2)
	p.Soft.TargetPrices = []int{2}

	c := p.Clone()
	c.Hard.Allergies[0] = "gluten"
	*c.Hard.HardMaxBudget = 4
	c.Soft.TargetPrices[0] = 3

	if p.Hard.Allergies[0] != "dairy" || *p.Hard.HardMaxBudget != 2 || p.Soft.TargetPrices[0] != 2 {
		t.Errorf("Clone shares memory with the original: %+v", p)
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	p := Default()
	if p.Weights.Cuisine != DefaultWeight || p.Weights.Price != DefaultWeight || p.Weights.Distance != DefaultWeight {
		t.Errorf("Default weights = %+v", p.Weights)
	}
	if p.HasHardConstraints() {
		t.Error("Default profile should have no hard constraints")
	}
}
