// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package recommend

import (
	"strconv"
	"strings"
)

// Reason texts shown to users.
const (
	ReasonPerfectPrice  = "Perfect price match for everyone"
	ReasonSomePrice     = "Fits budget for some members"
	ReasonVeryClose     = "Very close to you"
	ReasonVerifyDietary = "No dietary or allergen data available; verify manually"

	// FallbackExplanation is used when no reason was recorded.
	FallbackExplanation = "A decent option based on general criteria."

	bullet = "• "
)

// CuisineReason formats the cuisine match reason.
func CuisineReason(matched []string) string {
	return "Matches group preference for " + strings.Join(matched, ", ")
}

// RatingReason formats the highly rated reason.
func RatingReason(rating float64) string {
	return "Highly rated (" + strconv.FormatFloat(rating, 'f', -1, 64) + " stars)"
}

// Explain renders reasons as a bulleted list, or the fallback text.
func Explain(reasons []string) string {
	if len(reasons) == 0 {
		return FallbackExplanation
	}
	return bullet + strings.Join(reasons, "\n"+bullet)
}

// reasonSet collects reasons once each, in first-recorded order.
type reasonSet struct {
	seen  map[string]struct{}
	order []string
}

func (r *reasonSet) add(reason string) {
	if r.seen == nil {
		r.seen = make(map[string]struct{})
	}
	if _, dup := r.seen[reason]; dup {
		return
	}
	r.seen[reason] = struct{}{}
	r.order = append(r.order, reason)
}

func (r *reasonSet) list() []string {
	if len(r.order) == 0 {
		return []string{}
	}
	return r.order
}
