package gtfsload

import "time"

// activeServiceSet computes the set of service_ids active on weekday,
// per the requested-weekday (not requested-date) shape of the external
// create_graph interface (spec.md §6 takes a weekday string, not a
// calendar date). calendar.txt contributes a service when its flag for
// weekday is set; calendar_dates.txt exceptions are then applied at
// service_id granularity rather than per-date, since there is no
// concrete date to test exception rows against — exception_type 1 adds
// a service_id to the set, exception_type 2 removes it. This is
// documented as an explicit Open Question resolution in DESIGN.md.
func activeServiceSet(calendar []CalendarRow, calendarDates []CalendarDateRow, weekday time.Weekday) map[string]bool {
	active := make(map[string]bool)

	for _, row := range calendar {
		if dayFlag(row, weekday) {
			active[row.ServiceID] = true
		}
	}

	for _, ex := range calendarDates {
		switch ex.ExceptionType {
		case 1:
			active[ex.ServiceID] = true
		case 2:
			delete(active, ex.ServiceID)
		}
	}

	return active
}

func dayFlag(row CalendarRow, weekday time.Weekday) bool {
	switch weekday {
	case time.Sunday:
		return row.Sunday != 0
	case time.Monday:
		return row.Monday != 0
	case time.Tuesday:
		return row.Tuesday != 0
	case time.Wednesday:
		return row.Wednesday != 0
	case time.Thursday:
		return row.Thursday != 0
	case time.Friday:
		return row.Friday != 0
	case time.Saturday:
		return row.Saturday != 0
	default:
		return false
	}
}
