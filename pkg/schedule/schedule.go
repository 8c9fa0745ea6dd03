// Package schedule loads day schedules from CSV files and calendar-event
// exports.
//
// The CSV path serves directly-authored schedules and follows the strict
// validation philosophy: a single bad row is fatal for the whole file, with
// enough context to fix it. The event path serves third-party calendar
// exports, which are messy by nature and go through lenient normalization
// downstream.
package schedule

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dayscore-dev/dayscore/pkg/timeline"
	"github.com/dayscore-dev/dayscore/pkg/timeparse"
)

// ReadCSV parses a schedule of "start,end,activity" rows with HH:MM times.
func ReadCSV(r io.Reader) ([]timeline.Interval, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	var rows []timeline.Interval
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if len(record) != 3 {
			return nil, fmt.Errorf("row %d: expected 3 columns, got %d", line, len(record))
		}
		start, err := timeparse.Parse(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: start: %w", line, err)
		}
		end, err := timeparse.Parse(record[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: end: %w", line, err)
		}
		if start >= end {
			return nil, fmt.Errorf("row %d: invalid range %s-%s", line, record[0], record[1])
		}
		rows = append(rows, timeline.Interval{
			Label: strings.TrimSpace(record[2]),
			Start: start,
			End:   end,
		})
	}
	return rows, nil
}

// LoadCSV reads a schedule file.
func LoadCSV(path string) ([]timeline.Interval, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening schedule: %w", err)
	}
	defer file.Close() //nolint:errcheck // read-only file
	rows, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Event is one already-fetched calendar event. Transport and OAuth live
// with the calendar provider; this package only consumes its shape.
type Event struct {
	Summary string    `json:"summary"`
	Start   EventTime `json:"start"`
	End     EventTime `json:"end"`
}

// EventTime carries either a timed RFC3339 instant or an all-day date.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

// minute converts an event boundary to a minute offset. All-day events
// span the whole day; timed events use their wall-clock time and clamp
// into [0, 1440].
func (et EventTime) minute(end bool) (int, error) {
	switch {
	case et.DateTime != "":
		ts, err := time.Parse(time.RFC3339, et.DateTime)
		if err != nil {
			return 0, fmt.Errorf("parsing event time %q: %w", et.DateTime, err)
		}
		m := ts.Hour()*60 + ts.Minute()
		if m < 0 {
			m = 0
		}
		if m > timeparse.MinutesPerDay {
			m = timeparse.MinutesPerDay
		}
		return m, nil
	case et.Date != "":
		if end {
			return timeparse.MinutesPerDay, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("event time has neither dateTime nor date")
	}
}

// FromEvents converts calendar events to start-sorted schedule rows.
// Zero-length and inverted spans are dropped, untitled events get the
// "untitled" label, and summaries are lowercased for resolution.
func FromEvents(events []Event) ([]timeline.Interval, error) {
	var rows []timeline.Interval
	for i, ev := range events {
		start, err := ev.Start.minute(false)
		if err != nil {
			return nil, fmt.Errorf("event %d: start: %w", i, err)
		}
		end, err := ev.End.minute(true)
		if err != nil {
			return nil, fmt.Errorf("event %d: end: %w", i, err)
		}
		if start >= end {
			continue
		}
		summary := strings.ToLower(strings.TrimSpace(ev.Summary))
		if summary == "" {
			summary = "untitled"
		}
		rows = append(rows, timeline.Interval{Label: summary, Start: start, End: end})
	}
	return timeline.SortByStart(rows), nil
}

// ReadEventsJSON decodes an exported event list and converts it to rows.
func ReadEventsJSON(r io.Reader) ([]timeline.Interval, error) {
	var events []Event
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("decoding events: %w", err)
	}
	return FromEvents(events)
}

// LoadEventsJSON reads an exported event file.
func LoadEventsJSON(path string) ([]timeline.Interval, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening events: %w", err)
	}
	defer file.Close() //nolint:errcheck // read-only file
	rows, err := ReadEventsJSON(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
