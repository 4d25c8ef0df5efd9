// Package autosave coalesces bursts of state changes into a single write.
package autosave

import (
	"sync"
	"time"

	"fjacquet/ledgerdash/internal/logging"
	"fjacquet/ledgerdash/internal/state"
)

// DefaultDelay is the quiet period used when none is configured.
const DefaultDelay = time.Second

// Saver persists a state snapshot.
type Saver interface {
	Save(s state.State) error
}

// Notifier receives save failures.
type Notifier func(err error)

// Autosaver saves the latest triggered snapshot once no new trigger has
// arrived for the quiet period. A failed save is logged and reported; the
// caller's in-memory state is left as it is. Flush and Stop return only
// after any save already under way has finished.
type Autosaver struct {
	saver  Saver
	delay  time.Duration
	log    logging.Logger
	notify Notifier

	mu      sync.Mutex
	idle    *sync.Cond
	timer   *time.Timer
	pending *state.State
	gen     uint64
	saving  int
	stopped bool

	saveMu sync.Mutex
	saved  uint64
}

// New returns an Autosaver. delay <= 0 selects DefaultDelay.
func New(saver Saver, delay time.Duration, log logging.Logger) *Autosaver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if log == nil {
		log = logging.Nop()
	}
	a := &Autosaver{saver: saver, delay: delay, log: log}
	a.idle = sync.NewCond(&a.mu)
	return a
}

// OnError sets the failure callback.
func (a *Autosaver) OnError(fn Notifier) *Autosaver {
	a.mu.Lock()
	a.notify = fn
	a.mu.Unlock()
	return a
}

// Delay returns the quiet period.
func (a *Autosaver) Delay() time.Duration {
	return a.delay
}

// Trigger records s as the snapshot to save and restarts the quiet period.
func (a *Autosaver) Trigger(s state.State) {
	snapshot := s.Clone()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	a.pending = &snapshot
	a.gen++
	gen := a.gen
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() { a.fire(gen) })
}

// Pending reports whether a snapshot is waiting to be saved.
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

func (a *Autosaver) fire(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || a.pending == nil {
		a.mu.Unlock()
		return
	}
	s, gen := a.claim()
	a.timer = nil
	a.mu.Unlock()

	_ = a.save(s, gen)
}

// Flush saves any pending snapshot now and waits for saves in progress.
func (a *Autosaver) Flush() error {
	a.mu.Lock()
	if a.pending == nil {
		a.mu.Unlock()
		a.wait()
		return nil
	}
	s, gen := a.claim()
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	err := a.save(s, gen)
	a.wait()
	return err
}

// Stop cancels any pending save, ignores later triggers and waits for a
// save in progress.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	a.stopped = true
	a.pending = nil
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	a.wait()
}

// claim takes the pending snapshot and counts it as in flight. a.mu must
// be held.
func (a *Autosaver) claim() (state.State, uint64) {
	s := *a.pending
	a.pending = nil
	a.saving++
	return s, a.gen
}

func (a *Autosaver) wait() {
	a.mu.Lock()
	for a.saving > 0 {
		a.idle.Wait()
	}
	a.mu.Unlock()
}

func (a *Autosaver) done() {
	a.mu.Lock()
	a.saving--
	if a.saving == 0 {
		a.idle.Broadcast()
	}
	a.mu.Unlock()
}

// save writes s unless a newer snapshot has already been written.
func (a *Autosaver) save(s state.State, gen uint64) error {
	defer a.done()
	a.saveMu.Lock()
	defer a.saveMu.Unlock()
	if gen < a.saved {
		return nil
	}

	start := time.Now()
	err := a.saver.Save(s)
	if err != nil {
		a.log.WithError(err).Error("autosave failed",
			logging.F(logging.FieldCount, len(s.Transactions)))
		a.mu.Lock()
		notify := a.notify
		a.mu.Unlock()
		if notify != nil {
			notify(err)
		}
		return err
	}
	a.saved = gen
	a.log.Debug("state saved",
		logging.F(logging.FieldCount, len(s.Transactions)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return nil
}
