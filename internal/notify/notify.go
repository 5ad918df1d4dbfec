package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

const (
	// DefaultRingInterval is the pause between two rings of one notification.
	DefaultRingInterval = 2 * time.Second
	// DefaultRingTimeout stops a notification nobody dismissed.
	DefaultRingTimeout = 5 * time.Minute
)

// Ringing is an active notification.
type Ringing interface {
	// Stop halts the notification and waits until it is silent.
	Stop()
}

// Notifier makes a fired alarm noticeable.
type Notifier interface {
	Notify(ctx context.Context, alarm domain.Alarm) (Ringing, error)
}

// Option configures ring timing of a notifier.
type Option func(*ringOptions)

// ringOptions holds the timing shared by all notifiers.
type ringOptions struct {
	// interval is the pause between rings.
	interval time.Duration
	// timeout bounds the whole notification, zero means until stopped.
	timeout time.Duration
}

// WithRingInterval sets the pause between two rings.
func WithRingInterval(interval time.Duration) Option {
	return func(o *ringOptions) {
		if interval > 0 {
			o.interval = interval
		}
	}
}

// WithRingTimeout limits how long a notification rings. Zero disables the limit.
func WithRingTimeout(timeout time.Duration) Option {
	return func(o *ringOptions) {
		if timeout >= 0 {
			o.timeout = timeout
		}
	}
}

// newRingOptions applies opts over the defaults.
func newRingOptions(opts []Option) ringOptions {
	o := ringOptions{
		interval: DefaultRingInterval,
		timeout:  DefaultRingTimeout,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// ringer repeatedly invokes a ring function until stopped or timed out.
type ringer struct {
	// cancel stops the ring loop.
	cancel context.CancelFunc
	// done is closed when the ring loop has exited.
	done chan struct{}
}

// startRinging calls ring immediately and then every interval. The context
// passed to ring is cancelled on Stop, on timeout, or when ctx is done.
func startRinging(ctx context.Context, o ringOptions, ring func(ctx context.Context)) *ringer {
	var (
		ringCtx context.Context
		cancel  context.CancelFunc
	)

	if o.timeout > 0 {
		ringCtx, cancel = context.WithTimeout(ctx, o.timeout)
	} else {
		ringCtx, cancel = context.WithCancel(ctx)
	}

	r := &ringer{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(r.done)
		defer cancel()

		ticker := time.NewTicker(o.interval)
		defer ticker.Stop()

		for {
			ring(ringCtx)

			select {
			case <-ringCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return r
}

// Stop halts the ring loop and waits for it to exit.
func (r *ringer) Stop() {
	r.cancel()
	<-r.done
}

// Done is closed once the notification went silent.
func (r *ringer) Done() <-chan struct{} {
	return r.done
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

// Notify starts every notifier. Failures of individual notifiers are joined;
// the ringing ones are still returned so they can be stopped.
func (m Multi) Notify(ctx context.Context, alarm domain.Alarm) (Ringing, error) {
	var (
		group = make(multiRinging, 0, len(m))
		errs  []error
	)

	for _, n := range m {
		r, err := n.Notify(ctx, alarm)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		group = append(group, r)
	}

	if len(group) == 0 {
		return nil, errors.Join(errs...)
	}

	return group, errors.Join(errs...)
}

// multiRinging stops several notifications together.
type multiRinging []Ringing

// Stop halts every notification concurrently.
func (m multiRinging) Stop() {
	var wg sync.WaitGroup

	for _, r := range m {
		wg.Add(1)

		go func() {
			defer wg.Done()
			r.Stop()
		}()
	}

	wg.Wait()
}
