package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// bell is the terminal bell control character.
const bell = "\a"

// Terminal shows a banner and rings the terminal bell.
type Terminal struct {
	// out receives the banner and the bell characters.
	out io.Writer
	// options holds ring timing.
	options ringOptions
	// mu serializes writes from concurrent notifications.
	mu sync.Mutex
}

// NewTerminal creates a notifier writing to out.
func NewTerminal(out io.Writer, opts ...Option) *Terminal {
	return &Terminal{
		out:     out,
		options: newRingOptions(opts),
	}
}

// Notify prints the banner and starts ringing.
//
//nolint:ireturn // Callers only need the Stop capability.
func (t *Terminal) Notify(ctx context.Context, alarm domain.Alarm) (Ringing, error) {
	t.mu.Lock()
	_, err := color.New(color.FgHiRed, color.Bold).Fprintf(t.out, "ALARM! %s\n", alarm.Time.Format(domain.DisplayLayout))
	if err == nil {
		_, err = fmt.Fprintln(t.out, "Please stop me. Run `alarm-ctl stop` to dismiss.")
	}
	t.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("write alarm banner: %w", err)
	}

	return startRinging(ctx, t.options, func(context.Context) {
		t.mu.Lock()
		defer t.mu.Unlock()

		_, _ = io.WriteString(t.out, bell)
	}), nil
}
