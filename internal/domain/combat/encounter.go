package combat

import (
	"fmt"
	"sync"
	"time"
)

// State represents the lifecycle of an encounter. Transitions are one-way:
// pending -> active -> ended.
type State string

const (
	StatePending State = "pending"
	StateActive  State = "active"
	StateEnded   State = "ended"
)

// EndReason records why an encounter ended. Set exactly once.
type EndReason string

const (
	EndReasonSingleCombatant EndReason = "single_combatant"
	EndReasonAllDefending    EndReason = "all_defending"
	EndReasonIdle            EndReason = "idle"
	EndReasonFlee            EndReason = "flee"
	EndReasonRoundLimit      EndReason = "round_limit"
	EndReasonCapacityReclaim EndReason = "capacity_reclaim"
	EndReasonShutdown        EndReason = "shutdown"
)

// Encounter is one combat session bound to a channel, with its own state
// machine, timers and advance gate. All mutation must happen while holding
// the encounter lock; the timer set and gate have their own internal locking
// because their callbacks re-enter from other goroutines.
type Encounter struct {
	mu sync.Mutex

	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id,omitempty"`

	State State `json:"state"`

	Combatants map[string]*Combatant `json:"combatants"`

	// JoinOrder lists avatar IDs in their original insertion order. It is
	// the stable tie-break when sorting the initiative order.
	JoinOrder       []string `json:"join_order"`
	InitiativeOrder []string `json:"initiative_order"`

	Round            int `json:"round"`
	CurrentTurnIndex int `json:"current_turn_index"`

	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	LastActionAt  time.Time `json:"last_action_at"`
	LastHostileAt time.Time `json:"last_hostile_at"`

	EndReason EndReason `json:"end_reason,omitempty"`
	Winner    string    `json:"winner,omitempty"`

	CombatLog []string `json:"combat_log"`

	// MediaURL is the last generated media attachment, carried into the
	// end-of-encounter summary.
	MediaURL string `json:"media_url,omitempty"`

	// manualGuard counts externally-triggered actions still mid-flight.
	// While non-zero, auto-act and turn-start announcements defer.
	manualGuard int

	// turnSerial identifies the current turn slot. Timer callbacks capture
	// it when scheduled and bail out if the turn has since moved on.
	turnSerial int

	// turnResolved is set once something has claimed the current turn's
	// resolution, so a concurrent timeout cannot advance it a second time.
	turnResolved bool

	Timers TimerSet    `json:"-"`
	Gate   AdvanceGate `json:"-"`
}

// NewEncounter creates a pending encounter bound to a channel
func NewEncounter(id, channelID, guildID string) *Encounter {
	now := time.Now()
	return &Encounter{
		ID:           id,
		ChannelID:    channelID,
		GuildID:      guildID,
		State:        StatePending,
		Combatants:   make(map[string]*Combatant),
		CreatedAt:    now,
		LastActionAt: now,
	}
}

// Lock acquires the encounter lock
func (e *Encounter) Lock() { e.mu.Lock() }

// Unlock releases the encounter lock
func (e *Encounter) Unlock() { e.mu.Unlock() }

// AddCombatant registers a combatant. Duplicate avatar IDs are ignored.
func (e *Encounter) AddCombatant(c *Combatant) bool {
	if _, exists := e.Combatants[c.AvatarID]; exists {
		return false
	}
	e.Combatants[c.AvatarID] = c
	e.JoinOrder = append(e.JoinOrder, c.AvatarID)
	return true
}

// Activate moves a pending encounter to active at round 1, turn 0
func (e *Encounter) Activate() bool {
	if e.State != StatePending || len(e.InitiativeOrder) == 0 {
		return false
	}
	now := time.Now()
	e.State = StateActive
	e.StartedAt = &now
	e.Round = 1
	e.CurrentTurnIndex = 0
	e.LastActionAt = now
	e.LastHostileAt = now
	e.BeginTurn()
	return true
}

// TurnSerial identifies the current turn slot
func (e *Encounter) TurnSerial() int {
	return e.turnSerial
}

// BeginTurn opens a fresh turn slot: a new serial, resolution unclaimed
func (e *Encounter) BeginTurn() int {
	e.turnSerial++
	e.turnResolved = false
	return e.turnSerial
}

// ClaimTurnResolution marks the current turn as resolved. Returns false if
// another path (action result or timeout) already claimed it.
func (e *Encounter) ClaimTurnResolution() bool {
	if e.turnResolved {
		return false
	}
	e.turnResolved = true
	return true
}

// Ended reports whether the encounter has ended
func (e *Encounter) Ended() bool {
	return e.State == StateEnded
}

// End freezes the encounter. Idempotent; only the first call records the
// reason and end time.
func (e *Encounter) End(reason EndReason) bool {
	if e.State == StateEnded {
		return false
	}
	now := time.Now()
	e.State = StateEnded
	e.EndedAt = &now
	e.EndReason = reason
	e.Timers.StopAll()
	return true
}

// CurrentCombatant returns the combatant whose turn it is, or nil
func (e *Encounter) CurrentCombatant() *Combatant {
	if e.CurrentTurnIndex < 0 || e.CurrentTurnIndex >= len(e.InitiativeOrder) {
		return nil
	}
	return e.Combatants[e.InitiativeOrder[e.CurrentTurnIndex]]
}

// IsTurn checks whether it is the given avatar's turn in an active encounter
func (e *Encounter) IsTurn(avatarID string) bool {
	if e.State != StateActive {
		return false
	}
	current := e.CurrentCombatant()
	return current != nil && current.AvatarID == avatarID
}

// BeginManualAction marks an externally-triggered action as in flight
func (e *Encounter) BeginManualAction() {
	e.manualGuard++
}

// EndManualAction releases one in-flight manual action
func (e *Encounter) EndManualAction() {
	if e.manualGuard > 0 {
		e.manualGuard--
	}
}

// ManualActionInFlight reports whether any manual action is mid-flight
func (e *Encounter) ManualActionInFlight() bool {
	return e.manualGuard > 0
}

// TouchAction stamps the last-action time used for pacing
func (e *Encounter) TouchAction() {
	e.LastActionAt = time.Now()
}

// TouchHostile stamps the last hostile (damage-causing) action time
func (e *Encounter) TouchHostile() {
	now := time.Now()
	e.LastActionAt = now
	e.LastHostileAt = now
}

// LivingCombatants returns every combatant with HP remaining
func (e *Encounter) LivingCombatants() []*Combatant {
	living := make([]*Combatant, 0, len(e.Combatants))
	for _, id := range e.InitiativeOrder {
		if c, ok := e.Combatants[id]; ok && c.IsAlive() {
			living = append(living, c)
		}
	}
	return living
}

// LivingOpponents returns living combatants that oppose the given avatar
func (e *Encounter) LivingOpponents(avatarID string) []*Combatant {
	self, ok := e.Combatants[avatarID]
	if !ok {
		return nil
	}
	opponents := make([]*Combatant, 0, len(e.Combatants))
	for _, c := range e.LivingCombatants() {
		if c.AvatarID == avatarID {
			continue
		}
		if OpposesSide(self.Side, c.Side) {
			opponents = append(opponents, c)
		}
	}
	return opponents
}

// AddCombatLogEntry appends a round-prefixed entry to the combat log,
// keeping only the most recent 20 entries.
func (e *Encounter) AddCombatLogEntry(entry string) {
	e.CombatLog = append(e.CombatLog, fmt.Sprintf("Round %d: %s", e.Round, entry))
	if len(e.CombatLog) > 20 {
		e.CombatLog = e.CombatLog[len(e.CombatLog)-20:]
	}
}
