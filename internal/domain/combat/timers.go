package combat

import (
	"sync"
	"time"
)

// TimerSlot names one of the per-encounter timer families. At most one timer
// per slot is ever pending: starting a slot cancels its previous occupant.
type TimerSlot string

const (
	// TimerSlotTurn is the turn timeout for the combatant currently acting.
	TimerSlotTurn TimerSlot = "turn"

	// TimerSlotStartTurn is the pacing delay before the next turn starts.
	TimerSlotStartTurn TimerSlot = "startTurn"

	// TimerSlotAuto is the auto-act delay for auto-mode combatants.
	TimerSlotAuto TimerSlot = "auto"
)

// TimerSet owns the named timer slots of a single encounter. The zero value
// is ready to use. It has its own lock because timer callbacks fire on their
// own goroutines and re-enter the scheduler.
type TimerSet struct {
	mu     sync.Mutex
	timers map[TimerSlot]*time.Timer
}

// Start schedules fn to run after d in the given slot, cancelling any timer
// already occupying that slot.
func (t *TimerSet) Start(slot TimerSlot, d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timers == nil {
		t.timers = make(map[TimerSlot]*time.Timer)
	}
	if prev, ok := t.timers[slot]; ok {
		prev.Stop()
	}
	t.timers[slot] = time.AfterFunc(d, fn)
}

// Stop cancels the timer in the given slot, if any
func (t *TimerSet) Stop(slot TimerSlot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[slot]; ok {
		timer.Stop()
		delete(t.timers, slot)
	}
}

// StopAll cancels every pending timer
func (t *TimerSet) StopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for slot, timer := range t.timers {
		timer.Stop()
		delete(t.timers, slot)
	}
}
