// Package dateutil buckets timestamps into Asia/Seoul calendar days.
// All rollup and snapshot tables key on the KST day regardless of the
// caller's local time.
package dateutil

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDate is returned for a date string in neither accepted layout.
var ErrInvalidDate = errors.New("invalid date")

// DayFormat is the canonical day key layout. ISO day strings compare
// lexicographically in date order, which the forward-propagation queries
// rely on.
const DayFormat = "2006-01-02"

// Seoul is the fixed bucketing timezone. KST has no DST, so the fixed-zone
// fallback is exact when the tz database is unavailable.
var Seoul = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}()

// DayKey returns the KST calendar day of t.
func DayKey(t time.Time) string {
	return t.In(Seoul).Format(DayFormat)
}

// Today returns the current KST calendar day.
func Today() string {
	return DayKey(time.Now())
}

// ParseDay normalizes s to a KST day key. It accepts a plain day string or
// an RFC 3339 timestamp.
func ParseDay(s string) (string, error) {
	if t, err := time.ParseInLocation(DayFormat, s, Seoul); err == nil {
		return t.Format(DayFormat), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DayKey(t), nil
	}
	return "", fmt.Errorf("%w %q: want YYYY-MM-DD or RFC 3339", ErrInvalidDate, s)
}

// AddDays shifts a day key by n calendar days.
func AddDays(day string, n int) string {
	t, err := time.ParseInLocation(DayFormat, day, Seoul)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, n).Format(DayFormat)
}

// MonthRange returns the first and last day keys of a calendar month.
func MonthRange(year, month int) (first, last string) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, Seoul)
	end := start.AddDate(0, 1, -1)
	return start.Format(DayFormat), end.Format(DayFormat)
}
