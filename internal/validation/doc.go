// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once with WithRequiredStructEnabled,
// reports field names by their JSON tag, and registers two custom tags:
//
//   - pricetier: an integer tier between 1 and 4
//   - weight: a cuisine weight between 1 and 10
//
// Both work on slices and map values with dive:
//
//	type ProfileRequest struct {
//	    PriceTiers     []int          `json:"price_tiers" validate:"dive,pricetier"`
//	    CuisineWeights map[string]int `json:"cuisine_weights" validate:"dive,weight"`
//	}
//
// # Error Translation
//
// ValidateStruct returns a *RequestValidationError whose messages are built
// from per-tag templates:
//
//	required   -> "uid is required"
//	len=6      -> "code must be exactly 6 characters"
//	pricetier  -> "hard_max_budget must be a price tier between 1 and 4"
//	oneof=a b  -> "vote must be one of: a b"
//
// ToAPIError converts the result into the VALIDATION_ERROR payload used by
// internal/api. A single failure carries field, tag, and value details; several
// failures are listed under "fields".
package validation
