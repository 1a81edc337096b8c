package workload

import "time"

type PeriodMode string

const (
	PeriodLast7Days   PeriodMode = "last-7-days"
	PeriodLast1Month  PeriodMode = "last-1-month"
	PeriodLast3Months PeriodMode = "last-3-months"
	PeriodLast1Year   PeriodMode = "last-1-year"
	PeriodAllTime     PeriodMode = "all-time"
	PeriodCustom      PeriodMode = "custom"
)

// Selection is the period chosen by the host. CustomStart and CustomEnd are
// only consulted when Mode is PeriodCustom and use YYYY-MM-DD format.
type Selection struct {
	Mode        PeriodMode `json:"mode"`
	CustomStart string     `json:"custom_start,omitempty"`
	CustomEnd   string     `json:"custom_end,omitempty"`
}

// Range is an inclusive date window. When Unbounded is true the bounds are
// meaningless and every task matches.
type Range struct {
	Start     time.Time
	End       time.Time
	Unbounded bool
}

const customDateLayout = "2006-01-02"

// ResolvePeriod turns a period selection into a concrete range relative to
// now. Unparsable custom dates degrade to the epoch (start) or now (end)
// rather than failing. An unrecognized mode resolves to unbounded.
func ResolvePeriod(sel Selection, now time.Time) Range {
	switch sel.Mode {
	case PeriodLast7Days:
		return presetRange(now, 0, 0, -7)
	case PeriodLast1Month:
		return presetRange(now, 0, -1, 0)
	case PeriodLast3Months:
		return presetRange(now, 0, -3, 0)
	case PeriodLast1Year:
		return presetRange(now, -1, 0, 0)
	case PeriodCustom:
		start := time.Unix(0, 0)
		if t, err := time.ParseInLocation(customDateLayout, sel.CustomStart, now.Location()); err == nil {
			start = startOfDay(t)
		}
		end := now
		if t, err := time.ParseInLocation(customDateLayout, sel.CustomEnd, now.Location()); err == nil {
			end = endOfDay(t)
		}
		return Range{Start: start, End: end}
	default:
		return Range{Unbounded: true}
	}
}

func presetRange(now time.Time, years, months, days int) Range {
	return Range{
		Start: startOfDay(now).AddDate(years, months, days),
		End:   endOfDay(now),
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
