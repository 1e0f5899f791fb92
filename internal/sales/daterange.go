package sales

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

type InvalidDateRangeError struct {
	Reason string
}

func (e *InvalidDateRangeError) Error() string {
	return "invalid date range: " + e.Reason
}

// DateRange is an inclusive range of calendar days in a reporting timezone.
type DateRange struct {
	StartDate time.Time // midnight of the first day
	EndDate   time.Time // midnight of the last day
}

// NewDateRange parses YYYY-MM-DD bounds in loc. An empty end defaults to today, an empty
// start to defaultDays before the end.
func NewDateRange(start, end string, now time.Time, loc *time.Location, defaultDays int) (DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}

	var endDate time.Time
	if end == "" {
		n := now.In(loc)
		endDate = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	} else {
		d, err := time.ParseInLocation(DateLayout, end, loc)
		if err != nil {
			return DateRange{}, &InvalidDateRangeError{Reason: fmt.Sprintf("end date %q", end)}
		}
		endDate = d
	}

	var startDate time.Time
	if start == "" {
		startDate = endDate.AddDate(0, 0, -defaultDays)
	} else {
		d, err := time.ParseInLocation(DateLayout, start, loc)
		if err != nil {
			return DateRange{}, &InvalidDateRangeError{Reason: fmt.Sprintf("start date %q", start)}
		}
		startDate = d
	}

	if startDate.After(endDate) {
		return DateRange{}, &InvalidDateRangeError{Reason: "start date is after end date"}
	}

	return DateRange{StartDate: startDate, EndDate: endDate}, nil
}

// From is the first instant of the range.
func (r DateRange) From() time.Time {
	return r.StartDate
}

// To is the last instant of the range, 23:59:59.999999999 on the end day.
func (r DateRange) To() time.Time {
	return r.EndDate.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From()) && !t.After(r.To())
}
