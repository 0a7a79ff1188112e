// Package age computes calendar-aware ages for the registration gate.
package age

import (
	"fmt"
	"time"
)

// Layout is the wire format for dates of birth.
const Layout = "2006-01-02"

// Age returns whole elapsed years between dob (ISO YYYY-MM-DD) and now,
// evaluated in loc. ok is false when dob does not parse; callers treat that
// as "cannot verify" and do not block.
//
// The math is calendar-aware, not day-count division: someone born 2006-03-01
// turns 18 on 2024-03-01 and not a day earlier. A dob after now would yield a
// negative age; it is reported as ok=false like any other unverifiable input
// rather than being folded into an absolute year count.
func Age(dob string, now time.Time, loc *time.Location) (int, bool) {
	if loc == nil {
		loc = time.UTC
	}
	born, err := time.ParseInLocation(Layout, dob, loc)
	if err != nil {
		return 0, false
	}

	now = now.In(loc)
	years := now.Year() - born.Year()
	// Birthday not yet reached this year.
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	if years < 0 {
		return 0, false
	}
	return years, true
}

// Compose assembles split year/month/day form inputs into the ISO form.
// Returns "" unless all three parts are positive integers.
func Compose(year, month, day int) string {
	if year <= 0 || month <= 0 || day <= 0 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
