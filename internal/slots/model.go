// Package slots tracks finite pickup capacity per (date, hour bucket) pair.
// Slot rows are pre-provisioned; bookings consume units and cancellations
// return them, never past the provisioned total.
package slots

import (
	"fmt"
	"regexp"
	"time"
)

const (
	// Business hours bound the provisioned buckets: one bucket per hour
	// from open to close inclusive.
	OpenHour  = 8
	CloseHour = 18
)

// DateFormat is the calendar-date wire format used throughout.
const DateFormat = "2006-01-02"

// TimeSlot is one unit of the capacity ledger. Identity is the (Date,
// TimeBucket) pair.
type TimeSlot struct {
	ID                string `json:"id"`
	Date              string `json:"date"`        // YYYY-MM-DD
	TimeBucket        string `json:"time_bucket"` // HH:00
	CapacityTotal     int    `json:"capacity_total"`
	CapacityAvailable int    `json:"capacity_available"`
}

// Buckets lists the hour-aligned time buckets within business hours.
func Buckets() []string {
	out := make([]string, 0, CloseHour-OpenHour+1)
	for h := OpenHour; h <= CloseHour; h++ {
		out = append(out, fmt.Sprintf("%02d:00", h))
	}
	return out
}

var bucketPattern = regexp.MustCompile(`^([01]\d|2[0-3]):00$`)

// ValidBucket reports whether s is an hour-aligned bucket inside business
// hours.
func ValidBucket(s string) bool {
	if !bucketPattern.MatchString(s) {
		return false
	}
	var h int
	fmt.Sscanf(s, "%02d:00", &h)
	return h >= OpenHour && h <= CloseHour
}

// ValidDate reports whether s is a well-formed calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateFormat, s)
	return err == nil
}
