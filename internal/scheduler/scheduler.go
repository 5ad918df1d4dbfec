// Package scheduler implements the alarm-scheduling lifecycle: it keeps the
// ordered list of alarms in sync with persistence and arms one timer per
// pending alarm, invoking the notifier when a timer fires.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/oshokin/alarm-clock/internal/clock"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/notify"
	"github.com/oshokin/alarm-clock/internal/repository/alarms"
)

// ErrClosed is returned by operations on a closed scheduler.
var ErrClosed = errors.New("scheduler is closed")

// entry is an alarm of the in-memory list with its timer handle.
type entry struct {
	// alarm is the scheduled alarm.
	alarm domain.Alarm
	// state is the lifecycle state.
	state domain.State
	// timer fires the notification; nil once fired or removed.
	timer clock.Timer
}

// Scheduler owns the in-memory alarm list.
type Scheduler struct {
	// repo persists the alarm list.
	repo alarms.Repository
	// clock provides the current time and timers.
	clock clock.Clock
	// notifier is invoked when an alarm fires.
	notifier notify.Notifier

	// ctx carries the logger for timer callbacks and bounds notifications.
	//nolint:containedctx // Timer callbacks have no caller context.
	ctx context.Context
	// entries is the alarm list, always ascending by time.
	entries []*entry
	// ringing holds notifications that have not been dismissed.
	ringing []notify.Ringing
	// closed is set by Close.
	closed bool
	// mu protects every field above.
	mu sync.Mutex
}

// New creates a scheduler. Call Initialize before use.
func New(repo alarms.Repository, c clock.Clock, notifier notify.Notifier) *Scheduler {
	if c == nil {
		c = clock.System{}
	}

	return &Scheduler{
		repo:     repo,
		clock:    c,
		notifier: notifier,
		ctx:      context.Background(),
	}
}

// Initialize loads the persisted list, purges alarms that are no longer in
// the future, persists the cleaned list and arms a timer for every remaining
// alarm. Timers armed by an earlier call are stopped first.
//
// ctx is retained for timer callbacks: its logger is used when alarms fire
// and its cancellation silences ringing notifications.
func (s *Scheduler) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.ctx = logger.WithName(ctx, "scheduler")

	loaded, err := s.repo.Load(ctx)
	if err != nil {
		return &domain.PersistenceError{Op: "load", Err: err}
	}

	var (
		now     = s.clock.Now()
		pending = domain.Purge(loaded, now)
	)

	if len(loaded) > 0 {
		if err = s.repo.Save(ctx, pending); err != nil {
			return &domain.PersistenceError{Op: "save", Err: err}
		}
	}

	s.stopTimersLocked()

	for _, e := range s.entries {
		e.state = domain.StateRemoved
	}

	s.entries = make([]*entry, 0, len(pending))
	for _, a := range pending {
		e := &entry{alarm: a, state: domain.StatePending}
		s.armLocked(e, now)
		s.entries = append(s.entries, e)
	}

	logger.InfoKV(s.ctx, "Alarms loaded",
		"loaded", len(loaded),
		"purged", len(loaded)-len(pending),
		"armed", len(pending),
	)

	return nil
}

// Schedule adds an alarm at candidate. It fails with *alarm.InvalidTimeError
// unless candidate is strictly after now, and with *alarm.PersistenceError if
// the list cannot be saved; the list is unchanged in both cases.
func (s *Scheduler) Schedule(ctx context.Context, candidate domain.Alarm) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.Entry{}, ErrClosed
	}

	now := s.clock.Now()
	if candidate.IsDue(now) {
		logger.InfoKV(ctx, "Rejected alarm in the past", "time", candidate.Time, "now", now)

		return domain.Entry{}, &domain.InvalidTimeError{Time: candidate.Time, Now: now}
	}

	e := &entry{alarm: candidate, state: domain.StatePending}

	// Insert after any alarm at the same instant.
	position, _ := slices.BinarySearchFunc(s.entries, candidate, func(existing *entry, target domain.Alarm) int {
		if existing.alarm.Time.After(target.Time) {
			return 1
		}

		return -1
	})

	next := slices.Insert(slices.Clone(s.entries), position, e)
	if err := s.saveLocked(ctx, next); err != nil {
		return domain.Entry{}, err
	}

	s.entries = next
	s.armLocked(e, now)

	logger.InfoKV(ctx, "Alarm scheduled", "time", candidate.Time, "index", position, "in", candidate.Time.Sub(now).String())

	return domain.Entry{Index: position, Time: candidate.Time, State: e.state}, nil
}

// Delete removes the alarm at index and cancels its timer. It fails with
// *alarm.IndexOutOfRangeError for an invalid index and with
// *alarm.PersistenceError if the list cannot be saved.
func (s *Scheduler) Delete(ctx context.Context, index int) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.Entry{}, ErrClosed
	}

	if index < 0 || index >= len(s.entries) {
		return domain.Entry{}, &domain.IndexOutOfRangeError{Index: index, Len: len(s.entries)}
	}

	next := slices.Delete(slices.Clone(s.entries), index, index+1)
	if err := s.saveLocked(ctx, next); err != nil {
		return domain.Entry{}, err
	}

	removed := s.entries[index]
	if removed.timer != nil {
		removed.timer.Stop()
		removed.timer = nil
	}

	previous := removed.state
	removed.state = domain.StateRemoved
	s.entries = next

	logger.InfoKV(ctx, "Alarm deleted", "time", removed.alarm.Time, "index", index, "state", previous.String())

	return domain.Entry{Index: index, Time: removed.alarm.Time, State: domain.StateRemoved}, nil
}

// List returns the alarms in ascending order.
func (s *Scheduler) List() []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Entry, 0, len(s.entries))
	for i, e := range s.entries {
		result = append(result, domain.Entry{Index: i, Time: e.alarm.Time, State: e.state})
	}

	return result
}

// Dismiss stops every ringing notification and returns how many it stopped.
func (s *Scheduler) Dismiss(ctx context.Context) int {
	s.mu.Lock()
	ringing := s.ringing
	s.ringing = nil
	s.mu.Unlock()

	for _, r := range ringing {
		r.Stop()
	}

	if len(ringing) > 0 {
		logger.InfoKV(ctx, "Alarms dismissed", "count", len(ringing))
	}

	return len(ringing)
}

// Close stops all timers and ringing notifications.
// Later operations fail with ErrClosed.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopTimersLocked()
	ctx := s.ctx
	s.mu.Unlock()

	s.Dismiss(ctx)
}

// armLocked starts the timer of e.
func (s *Scheduler) armLocked(e *entry, now time.Time) {
	e.timer = s.clock.AfterFunc(e.alarm.Time.Sub(now), func() {
		s.fire(e)
	})
}

// fire is the timer callback of e. It notifies at most once per entry.
func (s *Scheduler) fire(e *entry) {
	s.mu.Lock()

	if s.closed || e.state != domain.StatePending {
		s.mu.Unlock()

		return
	}

	e.state = domain.StateFired
	e.timer = nil
	ctx := s.ctx

	s.mu.Unlock()

	logger.InfoKV(ctx, "Alarm fired", "time", e.alarm.Time)

	if s.notifier == nil {
		return
	}

	ringing, err := s.notifier.Notify(ctx, e.alarm)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to notify alarm", "time", e.alarm.Time, "error", err)
	}

	if ringing == nil {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ringing.Stop()

		return
	}

	s.ringing = append(s.ringing, ringing)
	s.mu.Unlock()
}

// saveLocked persists the alarms of next.
func (s *Scheduler) saveLocked(ctx context.Context, next []*entry) error {
	list := make([]domain.Alarm, 0, len(next))
	for _, e := range next {
		list = append(list, e.alarm)
	}

	if err := s.repo.Save(ctx, list); err != nil {
		logger.ErrorKV(ctx, "Failed to persist alarms", "error", err)

		return &domain.PersistenceError{Op: "save", Err: fmt.Errorf("persist %d alarms: %w", len(list), err)}
	}

	return nil
}

// stopTimersLocked stops the timers of every pending entry.
func (s *Scheduler) stopTimersLocked() {
	for _, e := range s.entries {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
	}
}
