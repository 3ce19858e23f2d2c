// Package reminder detects when a todo's reminder timestamp is reached and
// transitions it to fired through the store. Timing survives host
// suspension: a coarse periodic poll re-reads the wall clock on every
// wakeup, and a precise one-shot timer covers the boundary when the target
// is far away.
package reminder

import (
	"sync"
	"time"

	"taskpad/internal/store"
)

const (
	// DefaultPollInterval is the coarse check period.
	DefaultPollInterval = 5 * time.Second
	// preciseThreshold: beyond this remaining time, a one-shot timer is
	// armed in addition to the poll.
	preciseThreshold = 60 * time.Second
	// preciseLead is how far before the target the one-shot fires, leaving
	// the final approach to the poll-and-check path.
	preciseLead = time.Second
)

// Scheduler arms one cancelable job per todo with a pending reminder. It
// only ever mutates shared state through store operations.
type Scheduler struct {
	store   *store.Store
	poll    time.Duration
	now     func() time.Time
	onFired func(store.Todo)

	mu   sync.Mutex
	jobs map[string]*job
	wg   sync.WaitGroup
}

type job struct {
	at     time.Time
	cancel chan struct{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithPollInterval overrides the coarse check period.
func WithPollInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.poll = d }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithOnFired registers a hook called after a reminder fires, with a copy of
// the todo as it was at fire time. Used for desktop notifications.
func WithOnFired(fn func(store.Todo)) Option {
	return func(s *Scheduler) { s.onFired = fn }
}

// New creates a scheduler over the given store. Call Sync to arm jobs and
// Stop to tear everything down.
func New(st *store.Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		store: st,
		poll:  DefaultPollInterval,
		now:   time.Now,
		jobs:  make(map[string]*job),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync reconciles armed jobs against the current store snapshot: jobs whose
// reminder was cleared or changed are canceled, todos with a new reminder
// get a job. Safe to call from the store's change callback.
func (s *Scheduler) Sync() {
	snap := s.store.Snapshot()

	want := make(map[string]time.Time, len(snap.Todos))
	for _, t := range snap.Todos {
		if t.Reminder != nil {
			want[t.ID] = *t.Reminder
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, j := range s.jobs {
		at, ok := want[id]
		if ok && at.Equal(j.at) {
			delete(want, id) // unchanged, keep running
			continue
		}
		close(j.cancel)
		delete(s.jobs, id)
	}
	for id, at := range want {
		s.armLocked(id, at)
	}
}

// Stop cancels all jobs and waits for them to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	for id, j := range s.jobs {
		close(j.cancel)
		delete(s.jobs, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) armLocked(id string, at time.Time) {
	j := &job{at: at, cancel: make(chan struct{})}
	s.jobs[id] = j
	s.wg.Add(1)
	go s.run(id, j)
}

// run polls until the reminder time is reached, then fires exactly once. An
// overdue reminder fires on the first check however late; reminders are
// never silently dropped.
func (s *Scheduler) run(id string, j *job) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	// Precise one-shot for distant targets. Elapsed-time counters are not
	// trusted across suspension: the wakeup only triggers a fresh clock
	// check.
	var precise <-chan time.Time
	if remaining := j.at.Sub(s.now()); remaining > preciseThreshold {
		t := time.NewTimer(remaining - preciseLead)
		defer t.Stop()
		precise = t.C
	}

	for {
		if s.now().Before(j.at) {
			select {
			case <-j.cancel:
				return
			case <-ticker.C:
			case <-precise:
				precise = nil
			}
			continue
		}

		// Due. FireReminder re-checks the reminder is still armed and
		// unchanged, so a concurrent clear or re-arm wins over this fire.
		if s.store.FireReminder(id, j.at) && s.onFired != nil {
			if todo, ok := s.store.TodoByID(id); ok {
				s.onFired(todo)
			}
		}
		s.forget(id, j)
		return
	}
}

// forget drops the finished job unless it was already replaced by a re-arm.
func (s *Scheduler) forget(id string, j *job) {
	s.mu.Lock()
	if cur, ok := s.jobs[id]; ok && cur == j {
		delete(s.jobs, id)
	}
	s.mu.Unlock()
}
