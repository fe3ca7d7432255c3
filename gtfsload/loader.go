// Package gtfsload parses a GTFS directory into typed, filtered frames:
// stops with coordinates, and trips clipped to a requested service
// weekday and a [departure, departure+duration) time window.
package gtfsload

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"

	"tgrcode.com/transitgraph/common"
)

var requiredFiles = []string{"stops.txt", "routes.txt", "trips.txt", "stop_times.txt", "calendar.txt"}

// Load parses dir, filters to trips active on weekday and whose
// departure_s falls in [window.DepartureS, window.DepartureS+window.DurationS),
// and returns the resulting Data.
func Load(dir string, window Window, weekday string, sink common.Sink) (*Data, error) {
	if sink == nil {
		sink = common.DefaultSink
	}

	wd, err := common.ParseWeekday(weekday)
	if err != nil {
		return nil, err
	}

	for _, name := range requiredFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			return nil, common.MissingFile(name)
		}
	}

	var stopRows []StopRow
	if err := unmarshalFile(dir, "stops.txt", &stopRows); err != nil {
		return nil, err
	}

	var routeRows []RouteRow
	if err := unmarshalFile(dir, "routes.txt", &routeRows); err != nil {
		return nil, err
	}

	var tripRows []TripRow
	if err := unmarshalFile(dir, "trips.txt", &tripRows); err != nil {
		return nil, err
	}

	var stopTimeRows []StopTimeRow
	if err := unmarshalFile(dir, "stop_times.txt", &stopTimeRows); err != nil {
		return nil, err
	}

	var calendarRows []CalendarRow
	if err := unmarshalFile(dir, "calendar.txt", &calendarRows); err != nil {
		return nil, err
	}

	var calendarDateRows []CalendarDateRow
	if _, err := os.Stat(filepath.Join(dir, "calendar_dates.txt")); err == nil {
		if err := unmarshalFile(dir, "calendar_dates.txt", &calendarDateRows); err != nil {
			return nil, err
		}
	}

	active := activeServiceSet(calendarRows, calendarDateRows, wd)

	routeIDs := make(map[string]bool, len(routeRows))
	for _, r := range routeRows {
		routeIDs[r.ID] = true
	}

	stops := make([]Stop, 0, len(stopRows))
	for _, s := range stopRows {
		stops = append(stops, Stop{ID: s.ID, Lat: s.Lat, Lon: s.Lon})
	}

	tripMeta := make(map[string]TripRow, len(tripRows))
	for _, t := range tripRows {
		if !routeIDs[t.RouteID] {
			return nil, common.BadSchema("trips.txt", "route_id")
		}
		if !active[t.ServiceID] {
			continue
		}
		tripMeta[t.ID] = t
	}

	stopTimesByTrip, err := groupStopTimes(stopTimeRows, tripMeta, window, sink)
	if err != nil {
		return nil, err
	}

	trips := make([]Trip, 0, len(stopTimesByTrip))
	for tripID, sts := range stopTimesByTrip {
		meta := tripMeta[tripID]
		if len(sts) == 0 {
			continue
		}
		trips = append(trips, Trip{
			ID:        tripID,
			RouteID:   meta.RouteID,
			ServiceID: meta.ServiceID,
			StopTimes: sts,
		})
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].ID < trips[j].ID })

	return &Data{Stops: stops, Trips: trips}, nil
}

func unmarshalFile(dir, name string, out interface{}) error {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return common.IoError(fmt.Sprintf("opening %s", name), err)
	}
	defer f.Close()

	if err := gocsv.Unmarshal(f, out); err != nil {
		return common.NewError(common.KindBadSchema, fmt.Sprintf("parsing %s", name), err)
	}
	return nil
}

type seqKey struct {
	tripID   string
	sequence int
}

// groupStopTimes groups stop_times.txt rows by trip_id, in stop_sequence
// order, clipping to window and dropping rows whose trip was not
// selected by the active service set. Duplicate (trip_id, stop_sequence)
// rows keep the first occurrence and warn, per spec.md §4.2.
func groupStopTimes(rows []StopTimeRow, tripMeta map[string]TripRow, window Window, sink common.Sink) (map[string][]StopTime, error) {
	seen := make(map[seqKey]bool)
	byTrip := make(map[string][]StopTime)
	dupCount := 0

	for i, row := range rows {
		if _, ok := tripMeta[row.TripID]; !ok {
			continue
		}

		key := seqKey{row.TripID, row.Sequence}
		if seen[key] {
			dupCount++
			continue
		}
		seen[key] = true

		arrival, err := parseGTFSTime(row.Arrival)
		if err != nil {
			return nil, common.BadTime(i, row.Arrival)
		}
		departure, err := parseGTFSTime(row.Departure)
		if err != nil {
			return nil, common.BadTime(i, row.Departure)
		}

		if !window.contains(departure) {
			continue
		}

		byTrip[row.TripID] = append(byTrip[row.TripID], StopTime{
			StopID:     row.StopID,
			Sequence:   row.Sequence,
			ArrivalS:   arrival,
			DepartureS: departure,
		})
	}

	if dupCount > 0 {
		sink.Warnf("gtfsload: dropped %d duplicate (trip_id, stop_sequence) stop_times rows", dupCount)
	}

	for tripID := range byTrip {
		sts := byTrip[tripID]
		sort.Slice(sts, func(i, j int) bool { return sts[i].Sequence < sts[j].Sequence })
		byTrip[tripID] = sts
	}

	return byTrip, nil
}
