package client

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnrecognizedTime is returned when the input matches no supported layout.
var ErrUnrecognizedTime = errors.New("unrecognized alarm time")

// relativePrefix introduces a duration such as "in 1h30m".
const relativePrefix = "in "

// dateTimeLayouts are absolute layouts interpreted in the local time zone.
//
//nolint:gochecknoglobals // Read-only lookup table.
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// clockLayouts are times of day on the current date.
//
//nolint:gochecknoglobals // Read-only lookup table.
var clockLayouts = []string{
	"15:04:05",
	"15:04",
}

// ParseWhen converts user input into an absolute time, using now for
// relative and time-of-day input and now's location for zone-less layouts.
//
// Supported forms: RFC 3339, "YYYY-MM-DD HH:MM[:SS]", "HH:MM[:SS]" (today)
// and durations written as "+10m" or "in 1h30m".
// The result is not checked against now; the daemon rejects past times.
func ParseWhen(input string, now time.Time) (time.Time, error) {
	value := strings.TrimSpace(input)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrUnrecognizedTime)
	}

	if d, ok, err := parseRelative(value); ok {
		if err != nil {
			return time.Time{}, err
		}

		return now.Add(d), nil
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}

	loc := now.Location()

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	for _, layout := range clockLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err != nil {
			continue
		}

		year, month, day := now.Date()

		return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognizedTime, input)
}

// parseRelative reports whether value is a relative duration and parses it.
func parseRelative(value string) (time.Duration, bool, error) {
	var raw string

	switch {
	case strings.HasPrefix(value, "+"):
		raw = strings.TrimPrefix(value, "+")
	case len(value) > len(relativePrefix) && strings.EqualFold(value[:len(relativePrefix)], relativePrefix):
		raw = value[len(relativePrefix):]
	default:
		return 0, false, nil
	}

	d, err := time.ParseDuration(strings.ReplaceAll(raw, " ", ""))
	if err != nil {
		return 0, true, fmt.Errorf("%w: %w", ErrUnrecognizedTime, err)
	}

	return d, true, nil
}
