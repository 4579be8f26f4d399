package transformer

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	// payloadLayout is the date format the fuel-supply endpoint expects,
	// followed by a literal "Z".
	payloadLayout = "2006-01-02T15:04:05"

	// fallbackLayout is used for the current time when the record has no
	// usable date.
	fallbackLayout = "2006-01-02T15:04:05.000000"
)

var (
	dateLayouts  = []string{"2/1/2006", "2006-1-2"}
	clockLayouts = []string{"15:04:05", "15:04"}
)

// FormatTimestamp combines the transaction date and time cells into the
// payload date. Day-first and ISO layouts are tried before free-form
// parsing. When either cell is blank or unparsable, now is used instead.
//
// The "Z" suffix is appended as text; no time zone conversion happens.
func FormatTimestamp(date, clock string, now time.Time) string {
	ts, err := combine(date, clock)
	if err != nil {
		return now.Format(fallbackLayout) + "Z"
	}
	return ts.Format(payloadLayout) + "Z"
}

// HasTimestamp reports whether date and clock can be read, that is, whether
// FormatTimestamp will use them instead of the current time.
func HasTimestamp(date, clock string) bool {
	_, err := combine(date, clock)
	return err == nil
}

func combine(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("missing date or time")
	}

	day, err := parseWith(date, dateLayouts)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", date, err)
	}
	tod, err := parseWith(clock, clockLayouts)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: %w", clock, err)
	}

	return time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, time.UTC), nil
}

// parseWith tries each layout in order, then free-form parsing. Ambiguous
// free-form dates are read day first.
func parseWith(s string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return dateparse.ParseIn(s, time.UTC, dateparse.PreferMonthFirst(false))
}
