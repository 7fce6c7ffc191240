package recurrence

import (
	"sort"
	"time"
)

// HardLimit is the internal safety cap on generated dates. It exists purely
// to guarantee termination for pathological ranges and stops generation
// silently; the caller-facing bulk-creation cap is enforced by the service
// layer and surfaced as a validation error instead.
const HardLimit = 1000

// Generate expands start under rule into an ascending, deduplicated slice of
// calendar dates (midnight UTC, no time component). The start date itself is
// included when it matches the rule. A start after the rule's end date yields
// an empty slice, not an error.
func Generate(start time.Time, rule Rule) []time.Time {
	start = dateOnly(start)
	end := dateOnly(rule.Until())
	if start.After(end) {
		return nil
	}

	var dates []time.Time
	switch r := rule.(type) {
	case Daily:
		dates = generateDaily(start, end)
	case Weekly:
		dates = generateWeekly(start, end, r.Weekdays)
	case Monthly:
		dates = generateMonthlyStep(start, end, 1)
	case Yearly:
		dates = generateYearlyStep(start, end, 1)
	case Interval:
		dates = generateInterval(start, end, r)
	case OrdinalWeekday:
		dates = generateOrdinal(start, end, r)
	}
	return dedupeSorted(dates)
}

func generateDaily(start, end time.Time) []time.Time {
	var out []time.Time
	for d := start; !d.After(end) && len(out) < HardLimit; d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func generateWeekly(start, end time.Time, weekdays []time.Weekday) []time.Time {
	set := make(map[time.Weekday]bool, len(weekdays))
	for _, wd := range weekdays {
		set[wd] = true
	}
	if len(set) == 0 {
		// No explicit selection: repeat on the start date's own weekday.
		set[start.Weekday()] = true
	}

	var out []time.Time
	for d := start; !d.After(end) && len(out) < HardLimit; d = d.AddDate(0, 0, 1) {
		if set[d.Weekday()] {
			out = append(out, d)
		}
	}
	return out
}

// generateMonthlyStep emits the start day-of-month every stepMonths months,
// clamping to the target month's length. The anchor day is the start date's
// day, not the previous occurrence's, so a clamp never sticks: Jan 31 yields
// Feb 29, then Mar 31 again.
func generateMonthlyStep(start, end time.Time, stepMonths int) []time.Time {
	var out []time.Time
	year, month, day := start.Year(), int(start.Month()), start.Day()
	for i := 0; len(out) < HardLimit; i += stepMonths {
		d := clampedDate(year, month+i, day, start.Location())
		if d.After(end) {
			break
		}
		if !d.Before(start) {
			out = append(out, d)
		}
	}
	return out
}

func generateYearlyStep(start, end time.Time, stepYears int) []time.Time {
	var out []time.Time
	year, month, day := start.Year(), int(start.Month()), start.Day()
	for i := 0; len(out) < HardLimit; i += stepYears {
		d := clampedDate(year+i, month, day, start.Location())
		if d.After(end) {
			break
		}
		out = append(out, d)
	}
	return out
}

func generateInterval(start, end time.Time, r Interval) []time.Time {
	every := r.Every
	if every < 1 {
		every = 1
	}
	switch r.Unit {
	case UnitWeeks:
		return generateDayStep(start, end, every*7)
	case UnitMonths:
		return generateMonthlyStep(start, end, every)
	case UnitYears:
		return generateYearlyStep(start, end, every)
	default:
		return generateDayStep(start, end, every)
	}
}

func generateDayStep(start, end time.Time, stepDays int) []time.Time {
	var out []time.Time
	for d := start; !d.After(end) && len(out) < HardLimit; d = d.AddDate(0, 0, stepDays) {
		out = append(out, d)
	}
	return out
}

// generateOrdinal walks every month touched by [start, end] and resolves each
// (week, weekday) pair: first occurrence of the weekday in the month plus
// (week-1)*7 days. Pairs that overflow the month are skipped. Per-month,
// per-pair iteration order is not globally sorted, hence the final sort in
// Generate.
func generateOrdinal(start, end time.Time, r OrdinalWeekday) []time.Time {
	if len(r.Weeks) == 0 || len(r.Weekdays) == 0 {
		return nil
	}

	var out []time.Time
	loc := start.Location()
	year, month := start.Year(), int(start.Month())
	endYear, endMonth := end.Year(), int(end.Month())

	for y, m := year, month; y < endYear || (y == endYear && m <= endMonth); {
		days := daysInMonth(y, m, loc)
		for _, week := range r.Weeks {
			if week < 1 || week > 5 {
				continue
			}
			for _, wd := range r.Weekdays {
				first := firstWeekdayOfMonth(y, m, wd, loc)
				day := first + (week-1)*7
				if day > days {
					continue
				}
				d := time.Date(y, time.Month(m), day, 0, 0, 0, 0, loc)
				if d.Before(start) || d.After(end) {
					continue
				}
				out = append(out, d)
				if len(out) >= HardLimit {
					return out
				}
			}
		}
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return out
}

// firstWeekdayOfMonth returns the day of month (1-based) of the first
// occurrence of wd in the given month.
func firstWeekdayOfMonth(year, month int, wd time.Weekday, loc *time.Location) int {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	offset := (int(wd) - int(first.Weekday()) + 7) % 7
	return 1 + offset
}

// clampedDate builds a date from a possibly out-of-range month index and a
// day that may exceed the month's length, clamping the day to the month's
// last day. Month overflow (13 -> January next year) is normalized first.
func clampedDate(year, month, day int, loc *time.Location) time.Time {
	year += (month - 1) / 12
	month = (month-1)%12 + 1
	if month < 1 {
		month += 12
		year--
	}
	if max := daysInMonth(year, month, loc); day > max {
		day = max
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}

func daysInMonth(year, month int, loc *time.Location) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, loc).Day()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dedupeSorted(dates []time.Time) []time.Time {
	if len(dates) == 0 {
		return nil
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	out := dates[:1]
	for _, d := range dates[1:] {
		if !d.Equal(out[len(out)-1]) {
			out = append(out, d)
		}
	}
	return out
}
