package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestParseWhen covers every supported input form.
func TestParseWhen(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, loc)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{name: "rfc3339", input: "2026-10-14T10:05:00Z", want: time.Date(2026, 10, 14, 10, 5, 0, 0, time.UTC)},
		{name: "rfc3339 offset", input: "2026-10-14T10:05:00+02:00", want: time.Date(2026, 10, 14, 8, 5, 0, 0, time.UTC)},
		{name: "date time seconds", input: "2026-10-15 07:30:15", want: time.Date(2026, 10, 15, 7, 30, 15, 0, loc)},
		{name: "date time", input: "2026-10-15 07:30", want: time.Date(2026, 10, 15, 7, 30, 0, 0, loc)},
		{name: "date T time", input: "2026-10-15T07:30", want: time.Date(2026, 10, 15, 7, 30, 0, 0, loc)},
		{name: "clock", input: "10:05", want: time.Date(2026, 10, 14, 10, 5, 0, 0, loc)},
		{name: "clock seconds", input: " 23:59:59 ", want: time.Date(2026, 10, 14, 23, 59, 59, 0, loc)},
		{name: "plus duration", input: "+10m", want: now.Add(10 * time.Minute)},
		{name: "in duration", input: "in 1h30m", want: now.Add(90 * time.Minute)},
		{name: "in duration spaced", input: "In 1h 30m", want: now.Add(90 * time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseWhen(tt.input, now)
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

// TestParseWhen_PastClockIsNotShifted leaves rejection of past times to the daemon.
func TestParseWhen_PastClockIsNotShifted(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

	got, err := ParseWhen("09:59", now)
	require.NoError(t, err)
	require.True(t, got.Before(now))
}

// TestParseWhen_Errors rejects unsupported input.
func TestParseWhen_Errors(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

	for _, input := range []string{"", "   ", "tomorrow", "+ten minutes", "in soon", "25:00", "2026-13-01 10:00"} {
		_, err := ParseWhen(input, now)
		require.ErrorIs(t, err, ErrUnrecognizedTime, "input %q", input)
	}
}

// TestParseIndex accepts integers only.
func TestParseIndex(t *testing.T) {
	t.Parallel()

	index, err := ParseIndex(" 2 ")
	require.NoError(t, err)
	require.Equal(t, 2, index)

	_, err = ParseIndex("3abc")
	require.Error(t, err)
}

// TestCapitalize upper-cases only the first rune.
func TestCapitalize(t *testing.T) {
	t.Parallel()

	require.Equal(t, "You cannot", capitalize("you cannot"))
	require.Empty(t, capitalize(""))
	require.Equal(t, "Ärger", capitalize("ärger"))
}
