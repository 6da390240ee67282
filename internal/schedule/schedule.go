// Package schedule turns a human-authored weekly opening-hours description
// into a structured availability grid.
//
// The source text is a comma-separated list of clauses such as
// "Mon-Fri: 9 AM - 6 PM, Sat: 10 AM - 4 PM". The literal "closed" (any
// casing) or an empty string means no day is ever open. Parsing is
// permissive: clauses that do not match the expected shape are skipped.
package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Days lists the canonical weekday abbreviations in schedule order.
var Days = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

const (
	// FirstHour is the clock hour covered by the first bucket.
	FirstHour = 8
	// BucketCount is the number of one-hour buckets per day. Bucket i covers
	// the hour starting at FirstHour+i, so the grid spans 08:00 through the
	// 20:00 appointment start.
	BucketCount = 13
)

var (
	clauseRe    = regexp.MustCompile(`^([A-Za-z\-]+):\s*(.+)$`)
	timeRangeRe = regexp.MustCompile(`(?i)(\d+)\s*(AM|PM)\s*-\s*(\d+)\s*(AM|PM)`)
)

// Grid maps each canonical day abbreviation to its hour buckets. Every day
// key is always present; a day with no open buckets is closed.
type Grid map[string][]bool

// DayOpen reports whether the day has at least one open bucket.
func (g Grid) DayOpen(day string) bool {
	for _, open := range g[day] {
		if open {
			return true
		}
	}
	return false
}

// OpenAt reports whether the bucket starting at the given clock hour is open.
func (g Grid) OpenAt(day string, hour int) bool {
	i := hour - FirstHour
	if i < 0 || i >= BucketCount {
		return false
	}
	buckets := g[day]
	return len(buckets) == BucketCount && buckets[i]
}

// Parse builds the weekly availability grid from the schedule text. It is a
// pure function: same input, same grid, no side effects.
func Parse(text string) Grid {
	grid := make(Grid, len(Days))
	for _, day := range Days {
		grid[day] = make([]bool, BucketCount)
	}

	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "closed") {
		return grid
	}

	for _, part := range strings.Split(text, ",") {
		m := clauseRe.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		days := ExpandDaySpec(m[1])
		if len(days) == 0 {
			continue
		}
		for _, rangeText := range strings.Split(m[2], ",") {
			tm := timeRangeRe.FindStringSubmatch(rangeText)
			if tm == nil {
				continue
			}
			start := toClockHour(tm[1], tm[2])
			end := toClockHour(tm[3], tm[4])
			for _, day := range days {
				buckets := grid[day]
				for i := range buckets {
					// The end hour is exclusive: a range ending at 6 PM does
					// not open the 18:00 appointment start.
					if hour := FirstHour + i; hour >= start && hour < end {
						buckets[i] = true
					}
				}
			}
		}
	}
	return grid
}

// ExpandDaySpec resolves the weekday-selecting portion of a clause to the
// canonical abbreviations it covers. A spec containing "-" is an inclusive
// range in canonical order; a reversed range resolves to nothing. A
// single-day spec matches the first canonical abbreviation it contains.
func ExpandDaySpec(spec string) []string {
	spec = strings.TrimSpace(spec)
	if strings.Contains(spec, "-") {
		parts := strings.SplitN(spec, "-", 2)
		start := dayIndex(strings.TrimSpace(parts[0]))
		end := dayIndex(strings.TrimSpace(parts[1]))
		if start < 0 || end < 0 {
			return nil
		}
		var days []string
		for i := start; i <= end; i++ {
			days = append(days, Days[i])
		}
		return days
	}
	for _, day := range Days {
		if strings.Contains(spec, day) {
			return []string{day}
		}
	}
	return nil
}

// CoversDay reports whether any clause's day-spec covers the given weekday.
// Time ranges are ignored: a clause whose hours fail to parse still counts
// as covering its days.
func CoversDay(text string, weekday time.Weekday) bool {
	day := DayAbbrev(weekday)
	for _, part := range strings.Split(text, ",") {
		m := clauseRe.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		for _, d := range ExpandDaySpec(m[1]) {
			if d == day {
				return true
			}
		}
	}
	return false
}

// DayAbbrev maps a time.Weekday to the canonical abbreviation.
func DayAbbrev(weekday time.Weekday) string {
	return Days[(int(weekday)+6)%7]
}

func dayIndex(day string) int {
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

func toClockHour(digits, meridiem string) int {
	hour, _ := strconv.Atoi(digits)
	switch strings.ToUpper(meridiem) {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	}
	return hour
}
