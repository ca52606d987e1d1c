package statistic

import (
	"github.com/RoaringBitmap/roaring/v2"

	"hobbyd/internal/calendar"
)

// daySet collects the distinct civil days of dates as ordinals. The bitmap
// keeps them deduplicated and ordered; unparseable entries are skipped.
func daySet(dates []string) *roaring.Bitmap {
	days := roaring.New()
	for _, s := range dates {
		d, err := calendar.Parse(s)
		if err != nil {
			continue
		}
		days.Add(uint32(d.Ordinal()))
	}
	return days
}

// CurrentStreak counts consecutive practiced days walking back from today.
// The chain may start today or yesterday, since today is not over yet, and
// stops at the first gap. Days after today do not count and do not break
// the chain.
func CurrentStreak(dates []string, today calendar.Date) int {
	return currentStreak(daySet(dates), today)
}

func currentStreak(days *roaring.Bitmap, today calendar.Date) int {
	todayOrd := today.Ordinal()
	check := todayOrd
	streak := 0

	it := days.ReverseIterator()
	for it.HasNext() {
		day := int(it.Next())
		if day > todayOrd {
			continue
		}
		if check-day > 1 {
			break
		}
		streak++
		check = day
	}
	return streak
}

// LongestStreak is the longest run of day-over-day consecutive dates in the
// whole history, independent of today.
func LongestStreak(dates []string) int {
	return longestStreak(daySet(dates))
}

func longestStreak(days *roaring.Bitmap) int {
	if days.IsEmpty() {
		return 0
	}

	it := days.Iterator()
	prev := int(it.Next())
	longest, run := 1, 1
	for it.HasNext() {
		day := int(it.Next())
		if day-prev == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
		prev = day
	}
	return longest
}

// Streaks computes both streaks from a single pass over the input.
func Streaks(dates []string, today calendar.Date) (current, longest int) {
	days := daySet(dates)
	return currentStreak(days, today), longestStreak(days)
}
