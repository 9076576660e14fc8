package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var (
	inDaysPattern   = regexp.MustCompile(`in\s+(\d+)\s+days?`)
	monthEndPattern = regexp.MustCompile(`by\s+([a-z]+)\s+end`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// parseISODate accepts a bare ISO calendar date or a full RFC 3339
// timestamp, returning the date portion.
func parseISODate(s string) (time.Time, bool) {
	if t, err := time.Parse(isoDate, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ParseRelativeDate resolves phrases like "in 7 days" or "by april end"
// against the reference time. Returns nil when no phrase matches.
func ParseRelativeDate(text string, now time.Time) *string {
	lower := strings.ToLower(text)

	if m := inDaysPattern.FindStringSubmatch(lower); m != nil {
		days, err := strconv.Atoi(m[1])
		if err == nil {
			d := now.AddDate(0, 0, days).Format(isoDate)
			return &d
		}
	}

	if m := monthEndPattern.FindStringSubmatch(lower); m != nil {
		if month, ok := monthsByName[m[1]]; ok {
			// Day zero of the following month is the last day of this one.
			last := time.Date(now.Year(), month+1, 0, 0, 0, 0, 0, time.UTC)
			d := last.Format(isoDate)
			return &d
		}
	}

	return nil
}
