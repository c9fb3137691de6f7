package voice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	businessOpenHour  = 8
	businessCloseHour = 18
)

var (
	clockMeridiemPattern = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm|a\.m\.|p\.m\.)`)
	hourMeridiemPattern  = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm|a\.m\.|p\.m\.)`)
	clock24Pattern       = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
	oclockPattern        = regexp.MustCompile(`(?i)\b(\d{1,2})\s*o'?clock\b`)
	bareAtHourPattern    = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})\b`)
	periodWordPattern    = regexp.MustCompile(`(?i)\b(morning|afternoon|evening|noon)\b`)
)

var periodTimes = map[string]string{
	"morning":   "09:00",
	"noon":      "12:00",
	"afternoon": "14:00",
	"evening":   "17:00",
}

// extractTime resolves a pickup hour from the transcript. Patterns run in
// order from most to least explicit; the result is always on the hour and
// inside business hours. Returns "" when no pattern matches.
func extractTime(text string) string {
	if m := clockMeridiemPattern.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		return resolveHour(hours, minutes, m[3])
	}
	if m := hourMeridiemPattern.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		return resolveHour(hours, 0, m[2])
	}
	if m := clock24Pattern.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		return resolveHour(hours, minutes, meridiem24Hour)
	}
	if m := oclockPattern.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		return resolveHour(hours, 0, "")
	}
	if m := bareAtHourPattern.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		return resolveHour(hours, 0, "")
	}
	if m := periodWordPattern.FindStringSubmatch(text); m != nil {
		return periodTimes[strings.ToLower(m[1])]
	}
	return ""
}

// meridiem24Hour marks an hour that came from an HH:MM clock reading, which
// is already unambiguous and must not get the bare-hour PM treatment.
const meridiem24Hour = "24h"

// resolveHour applies the meridiem, rounds minutes to the hour, and clamps
// the result into business hours. Bare hours 1-7 are assumed PM; this is a
// usability heuristic, not a guarantee the speaker meant the afternoon.
func resolveHour(hours, minutes int, meridiem string) string {
	meridiem = strings.ToLower(strings.ReplaceAll(meridiem, ".", ""))
	switch {
	case meridiem == "pm" && hours < 12:
		hours += 12
	case meridiem == "am" && hours == 12:
		hours = 0
	case meridiem == "" && hours >= 1 && hours <= 7:
		hours += 12
	}

	// Slots are hour-aligned: round below the half hour down, at or above
	// it up.
	if minutes >= 30 {
		hours++
	}

	if hours < businessOpenHour {
		hours = businessOpenHour
	}
	if hours > businessCloseHour {
		hours = businessCloseHour
	}

	return fmt.Sprintf("%02d:00", hours)
}
