// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

// Package tags normalizes and compares free-text cuisine and allergen tags.
//
// Two comparison strengths are offered. Equal is normalized equality and is
// what the allergen filter uses. Match additionally accepts either tag being a
// prefix of the other, so "burger" matches "burgers" and "sushi" matches
// "sushi bar".
package tags

import (
	"strings"
)

// Normalize lowercases and trims a tag and folds a single trailing plural "s".
// One-letter tags and tags ending in "ss" are left alone.
func Normalize(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	if len(t) > 1 && strings.HasSuffix(t, "s") && !strings.HasSuffix(t, "ss") {
		t = t[:len(t)-1]
	}
	return t
}

// Equal reports whether two tags are the same after normalization.
func Equal(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	return na != "" && na == nb
}

// Match reports whether two tags match after normalization, treating either
// one being a prefix of the other as a match. Empty tags never match.
func Match(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.HasPrefix(na, nb) || strings.HasPrefix(nb, na)
}

// Matching returns the members of candidates that Match at least one of
// wanted, in candidate order. The returned tags keep their original spelling.
func Matching(candidates, wanted []string) []string {
	var out []string
	for _, c := range candidates {
		for _, w := range wanted {
			if Match(c, w) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// AnyMatch reports whether any candidate Matches any wanted tag.
func AnyMatch(candidates, wanted []string) bool {
	for _, c := range candidates {
		for _, w := range wanted {
			if Match(c, w) {
				return true
			}
		}
	}
	return false
}

// Set builds a lookup set of normalized tags, skipping empties.
func Set(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, t := range in {
		if n := Normalize(t); n != "" {
			out[n] = struct{}{}
		}
	}
	return out
}

// Dedupe trims tags and drops empties and case-insensitive duplicates while
// keeping the first spelling seen and the input order.
func Dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
