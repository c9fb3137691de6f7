package voice

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// relativeDates are checked in order; longer phrases come first so "day
// after tomorrow" is not swallowed by the "tomorrow" substring.
var relativeDates = []struct {
	phrase string
	offset int
}{
	{"day after tomorrow", 2},
	{"tomorrow", 1},
	{"today", 0},
	{"next week", 7},
}

// weekdayNames are checked sunday through saturday so an utterance naming
// two weekdays always resolves to the same one.
var weekdayNames = []struct {
	name    string
	weekday time.Weekday
}{
	{"sunday", time.Sunday},
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
}

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

const monthAlternation = `january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec`

var (
	// "January 15", "jan 3rd"
	monthDayPattern = regexp.MustCompile(`(?i)\b(` + monthAlternation + `)\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	// "15th of January", "3 june"
	dayMonthPattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthAlternation + `)\b`)
	// "1/15" assumed M/D
	numericDatePattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})\b`)
)

// extractDate resolves a calendar date from the transcript, trying relative
// keywords, then weekday names, then absolute month-day expressions. Returns
// "" when nothing matches.
func (p *Parser) extractDate(text string) string {
	now := p.Now()

	for _, rel := range relativeDates {
		if strings.Contains(text, rel.phrase) {
			return formatDate(now.AddDate(0, 0, rel.offset))
		}
	}

	for _, wd := range weekdayNames {
		if strings.Contains(text, wd.name) {
			return formatDate(nextWeekday(now, wd.weekday))
		}
	}

	if m := monthDayPattern.FindStringSubmatch(text); m != nil {
		month := monthNames[strings.ToLower(m[1])]
		day, _ := strconv.Atoi(m[2])
		return formatDate(resolveMonthDay(now, month, day))
	}
	if m := dayMonthPattern.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month := monthNames[strings.ToLower(m[2])]
		return formatDate(resolveMonthDay(now, month, day))
	}
	if m := numericDatePattern.FindStringSubmatch(text); m != nil {
		monthNum, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if monthNum >= 1 && monthNum <= 12 {
			return formatDate(resolveMonthDay(now, time.Month(monthNum), day))
		}
	}

	return ""
}

// nextWeekday returns the next occurrence of the weekday strictly after
// today: speaking today's own weekday means the same day next week.
func nextWeekday(now time.Time, target time.Weekday) time.Time {
	daysUntil := (int(target) - int(now.Weekday()) + 7) % 7
	if daysUntil == 0 {
		daysUntil = 7
	}
	return now.AddDate(0, 0, daysUntil)
}

// resolveMonthDay pins a month-day expression to the current year, rolling
// to next year when that date has already passed.
func resolveMonthDay(now time.Time, month time.Month, day int) time.Time {
	date := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		date = date.AddDate(1, 0, 0)
	}
	return date
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
