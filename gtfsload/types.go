package gtfsload

// StopRow is one row of stops.txt.
type StopRow struct {
	ID  string  `csv:"stop_id"`
	Lat float64 `csv:"stop_lat"`
	Lon float64 `csv:"stop_lon"`
}

// RouteRow is one row of routes.txt. Only the fields the loader needs
// to validate trips.txt's route_id reference are kept.
type RouteRow struct {
	ID string `csv:"route_id"`
}

// TripRow is one row of trips.txt.
type TripRow struct {
	ID        string `csv:"trip_id"`
	RouteID   string `csv:"route_id"`
	ServiceID string `csv:"service_id"`
}

// StopTimeRow is one row of stop_times.txt, with times still in raw
// HH:MM:SS text form (parsed separately so malformed rows can be
// attributed to their row number).
type StopTimeRow struct {
	TripID    string `csv:"trip_id"`
	StopID    string `csv:"stop_id"`
	Sequence  int    `csv:"stop_sequence"`
	Arrival   string `csv:"arrival_time"`
	Departure string `csv:"departure_time"`
}

// CalendarRow is one row of calendar.txt.
type CalendarRow struct {
	ServiceID string `csv:"service_id"`
	Monday    int    `csv:"monday"`
	Tuesday   int    `csv:"tuesday"`
	Wednesday int    `csv:"wednesday"`
	Thursday  int    `csv:"thursday"`
	Friday    int    `csv:"friday"`
	Saturday  int    `csv:"saturday"`
	Sunday    int    `csv:"sunday"`
	StartDate string `csv:"start_date"`
	EndDate   string `csv:"end_date"`
}

// CalendarDateRow is one row of calendar_dates.txt. ExceptionType 1
// means the service is added on Date, 2 means it is removed.
type CalendarDateRow struct {
	ServiceID     string `csv:"service_id"`
	Date          string `csv:"date"`
	ExceptionType int    `csv:"exception_type"`
}

// StopTime is a parsed, validated stop_times row: times are integer
// seconds since service-day midnight (may exceed 86400).
type StopTime struct {
	StopID    string
	Sequence  int
	ArrivalS  int
	DepartureS int
}

// Trip is a GTFS trip together with its ordered stop_times, filtered
// and clipped to the requested window.
type Trip struct {
	ID        string
	RouteID   string
	ServiceID string
	StopTimes []StopTime
}

// Stop is a single gtfs stop with coordinates.
type Stop struct {
	ID  string
	Lat float64
	Lon float64
}

// Window clips stop_times to [DepartureS, DepartureS+DurationS).
type Window struct {
	DepartureS int
	DurationS  int
}

func (w Window) contains(departureS int) bool {
	return departureS >= w.DepartureS && departureS < w.DepartureS+w.DurationS
}

// Data is the filtered, typed output of the GTFS loader: every stop
// referenced anywhere in the feed, and every trip with at least one
// retained stop_time pair active on the requested service day and
// inside the requested window.
type Data struct {
	Stops []Stop
	Trips []Trip
}
