package voice

import (
	"testing"
	"time"
)

func TestExtractDateRelative(t *testing.T) {
	p := testParser()
	cases := []struct {
		text string
		want string
	}{
		{"book a wash today", "2026-03-04"},
		{"book a wash tomorrow", "2026-03-05"},
		{"book a wash day after tomorrow", "2026-03-06"},
		{"book a wash next week", "2026-03-11"},
	}
	for _, tc := range cases {
		if got := p.extractDate(tc.text); got != tc.want {
			t.Errorf("extractDate(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractDateWeekdays(t *testing.T) {
	p := testParser() // reference date is Wednesday 2026-03-04
	cases := []struct {
		text string
		want string
	}{
		{"schedule for thursday", "2026-03-05"},
		{"schedule for saturday", "2026-03-07"},
		{"schedule for monday", "2026-03-09"},
		// Today's own weekday resolves to next week, never today.
		{"schedule for wednesday", "2026-03-11"},
	}
	for _, tc := range cases {
		if got := p.extractDate(tc.text); got != tc.want {
			t.Errorf("extractDate(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractDateTwoWeekdaysStable(t *testing.T) {
	p := testParser() // reference date is Wednesday 2026-03-04

	// Sunday wins over saturday regardless of the order spoken: weekday
	// names resolve in a fixed sunday-through-saturday scan.
	for i := 0; i < 50; i++ {
		if got := p.extractDate("book a wash for saturday or sunday"); got != "2026-03-08" {
			t.Fatalf("extractDate = %q, want sunday 2026-03-08", got)
		}
		if got := p.extractDate("book a wash for sunday or saturday"); got != "2026-03-08" {
			t.Fatalf("extractDate = %q, want sunday 2026-03-08", got)
		}
	}
}

func TestExtractDateAbsolute(t *testing.T) {
	p := testParser()
	cases := []struct {
		text string
		want string
	}{
		{"book for June 1", "2026-06-01"},
		{"book for march 4th", "2026-03-04"},
		{"book for the 15th of March", "2026-03-15"},
		{"book for 3/15", "2026-03-15"},
		{"book for 12/31", "2026-12-31"},
		// Already passed this year: roll to next year.
		{"book for January 15", "2027-01-15"},
		{"book for 1/2", "2027-01-02"},
	}
	for _, tc := range cases {
		if got := p.extractDate(tc.text); got != tc.want {
			t.Errorf("extractDate(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractDateNone(t *testing.T) {
	p := testParser()
	if got := p.extractDate("book a wash sometime"); got != "" {
		t.Fatalf("extractDate = %q, want empty", got)
	}
}

func TestNextWeekdayAlwaysFuture(t *testing.T) {
	now := refNow
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		next := nextWeekday(now, wd)
		if !next.After(now) {
			t.Errorf("nextWeekday(%v) = %v, not after reference", wd, next)
		}
		if next.Weekday() != wd {
			t.Errorf("nextWeekday(%v) landed on %v", wd, next.Weekday())
		}
		if days := int(next.Sub(now).Hours() / 24); days > 7 {
			t.Errorf("nextWeekday(%v) is %d days out", wd, days)
		}
	}
}
