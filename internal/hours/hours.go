// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

// Package hours parses free-text opening hours into a weekly schedule and
// answers whether a venue is open at a given instant.
//
// A nil Schedule means the hours are unknown. That is a different state from
// a schedule that has no entry for today, which means closed.
package hours

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// AllDays lists every weekday, 0=Sunday through 6=Saturday.
var AllDays = []int{0, 1, 2, 3, 4, 5, 6}

var rangePattern = regexp.MustCompile(`^(\d{2}:\d{2})-(\d{2}:\d{2})$`)

// Entry is one opening window. An entry whose End is earlier than its Start
// runs past midnight and belongs to the weekday it starts on. An End equal to
// Start, as in "00:00-00:00", is a full 24 hours.
type Entry struct {
	Days  []int  `json:"days" bson:"days"`
	Start string `json:"start" bson:"start"`
	End   string `json:"end" bson:"end"`
}

// Schedule is an ordered list of opening windows.
type Schedule []Entry

// Known reports whether the schedule carries any information.
func (s Schedule) Known() bool {
	return s != nil
}

// Parse converts a raw "HH:MM-HH:MM" string into a schedule covering all
// seven days. Any other format, including nil or blank input, yields nil.
func Parse(raw *string) Schedule {
	if raw == nil {
		return nil
	}
	return ParseString(*raw)
}

// ParseString is Parse for a plain string.
func ParseString(raw string) Schedule {
	m := rangePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return nil
	}
	start, end := m[1], m[2]
	if _, ok := ToFractional(start); !ok {
		return nil
	}
	if _, ok := ToFractional(end); !ok {
		return nil
	}

	days := make([]int, len(AllDays))
	copy(days, AllDays)
	return Schedule{{Days: days, Start: start, End: end}}
}

// ToFractional converts "HH:MM" to fractional hours, so "17:30" is 17.5.
// "24:00" is accepted as the end of day.
func ToFractional(clock string) (float64, bool) {
	hh, mm, found := strings.Cut(clock, ":")
	if !found || len(hh) != 2 || len(mm) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, false
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, false
	}
	return float64(h) + float64(m)/60, true
}

// IsOpenAt reports whether the schedule has a window covering t, using t's
// own location for the weekday and clock.
//
// Windows are anchored to their start day: an entry 23:00-02:00 on Monday
// covers Monday 23:30 and Tuesday 01:00, but not Monday 01:00.
// Entries with unparseable clock values are skipped.
func IsOpenAt(s Schedule, t time.Time) bool {
	day := int(t.Weekday())
	prev := (day + 6) % 7
	hour := float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600

	for _, e := range s {
		start, end, ok := e.window()
		if !ok {
			continue
		}
		if e.covers(day) && hour >= start && hour < end {
			return true
		}
		// Spill-over from yesterday's overnight window.
		if end > 24 && e.covers(prev) && hour+24 >= start && hour+24 < end {
			return true
		}
	}
	return false
}

func (e Entry) window() (start, end float64, ok bool) {
	start, ok = ToFractional(e.Start)
	if !ok {
		return 0, 0, false
	}
	end, ok = ToFractional(e.End)
	if !ok {
		return 0, 0, false
	}
	if end <= start {
		end += 24
	}
	return start, end, true
}

func (e Entry) covers(day int) bool {
	for _, d := range e.Days {
		if d == day {
			return true
		}
	}
	return false
}
