package expiry

import (
	"fmt"
	"time"
)

// Class buckets a product by how close its sell-by date is.
type Class string

const (
	// ClassOK marks products with no date, an unreadable date, or a date
	// comfortably in the future.
	ClassOK Class = "ok"
	// ClassExpiringSoon marks products whose sell-by date is within
	// ExpiringSoonDays from today.
	ClassExpiringSoon Class = "expiring-soon"
	// ClassExpired marks products whose sell-by date has passed.
	ClassExpired Class = "expired"
)

// ExpiringSoonDays is the window, in whole days including today, within
// which a product counts as expiring soon.
const ExpiringSoonDays = 2

// Status is the derived shelf state of a product. Label is a short human
// hint ("expired", "expires in 2d") and is empty for ClassOK.
type Status struct {
	Class Class
	Label string
}

// DaysUntil returns the number of whole calendar days from now until date,
// comparing both at UTC midnight so time of day never shifts the result.
// The value is negative for past dates and zero when both fall on the same
// UTC day.
func DaysUntil(date, now time.Time) int {
	return int(midnightUTC(date).Sub(midnightUTC(now)) / (24 * time.Hour))
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ProductStatus derives the shelf state from a masked sell-by date. A
// missing or unparseable date yields ClassOK: absence of a date is not an
// error at display time.
func ProductStatus(sellBy string, now time.Time) Status {
	d, ok := ParseDate(sellBy)
	if !ok {
		return Status{Class: ClassOK}
	}
	days := DaysUntil(d, now)
	switch {
	case days < 0:
		return Status{Class: ClassExpired, Label: "expired"}
	case days <= ExpiringSoonDays:
		return Status{Class: ClassExpiringSoon, Label: fmt.Sprintf("expires in %dd", days)}
	default:
		return Status{Class: ClassOK}
	}
}
