package calendar

import (
	"errors"
	"fmt"
	"time"
)

const (
	isoLayout   = "2006-01-02"
	labelLayout = "Jan 2, 2006"
	secsPerDay  = 24 * 60 * 60

	// epochOffset shifts Unix day numbers so that 0001-01-01 is ordinal 0.
	epochOffset = 719162
)

var (
	ErrMalformedDate = errors.New("malformed date")
	ErrInvalidDay    = errors.New("invalid calendar day")
)

// Date is a civil calendar day. It carries no time of day and no zone, so
// two Dates compare equal whenever their year, month and day match.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Parse reads a zero-padded YYYY-MM-DD string from its three numeric parts.
// Out-of-range components are rejected instead of being normalized, so
// "2024-02-30" is an error rather than March 1st.
func Parse(s string) (Date, error) {
	if len(s) != len(isoLayout) || s[4] != '-' || s[7] != '-' {
		return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}

	year, okYear := atoi(s[0:4])
	month, okMonth := atoi(s[5:7])
	day, okDay := atoi(s[8:10])
	if !okYear || !okMonth || !okDay {
		return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	if year < 1 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}

	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

func atoi(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// FromTime returns the civil day of t in t's own location.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the civil day of now as observed in loc. A nil loc keeps
// now's location.
func Today(now time.Time, loc *time.Location) Date {
	if loc != nil {
		now = now.In(loc)
	}
	return FromTime(now)
}

// FromOrdinal is the inverse of Date.Ordinal.
func FromOrdinal(n int) Date {
	return FromTime(time.Unix(int64(n-epochOffset)*secsPerDay, 0).UTC())
}

// Ordinal numbers days consecutively starting at 0001-01-01.
func (d Date) Ordinal() int {
	return int(d.utcMidnight().Unix()/secsPerDay) + epochOffset
}

// utcMidnight pins the civil day to UTC so day arithmetic never sees a
// 23 or 25 hour day around DST changes.
func (d Date) utcMidnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Midnight returns local midnight of d in loc.
func (d Date) Midnight(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) AddDays(n int) Date {
	return FromTime(d.utcMidnight().AddDate(0, 0, n))
}

func (d Date) Before(o Date) bool { return d.Ordinal() < o.Ordinal() }

func (d Date) After(o Date) bool { return d.Ordinal() > o.Ordinal() }

func (d Date) IsZero() bool { return d == Date{} }

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// DayDifference returns the number of calendar days from b to a. It is
// negative when a is earlier than b.
func DayDifference(a, b Date) int {
	return a.Ordinal() - b.Ordinal()
}

// ToISODateString formats the local year, month and day of t, never its UTC
// rendering, so a value entered as a local date round-trips unchanged.
func ToISODateString(t time.Time) string {
	return FromTime(t).String()
}

// FormatDateLabel renders a stored date as e.g. "Jan 5, 2024". Unparseable
// input is returned untouched; labels are display only.
func FormatDateLabel(dateStr string) string {
	d, err := Parse(dateStr)
	if err != nil {
		return dateStr
	}
	return d.utcMidnight().Format(labelLayout)
}
