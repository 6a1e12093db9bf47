package encounter

import (
	"context"
	"time"

	"github.com/wildfable/brawl-bot-discord/internal/domain/combat"
)

// The turn slot lifecycle: idle -> awaiting-action -> (resolved | timed-out)
// -> advancing -> idle for the next combatant. Timer callbacks always
// re-validate the turn serial under the encounter lock, because a timer may
// fire after the state has already moved on.

// scheduleTurnStartLocked schedules the start of the current turn slot,
// honoring the pacing gap and, on a round wrap, the round cooldown.
func (s *service) scheduleTurnStartLocked(enc *combat.Encounter, roundWrap bool) {
	delay := s.cfg.MinTurnGap - time.Since(enc.LastActionAt)
	if delay < 0 {
		delay = 0
	}
	if roundWrap {
		delay += s.cfg.RoundCooldown
	}

	serial := enc.TurnSerial()
	enc.Timers.Start(combat.TimerSlotStartTurn, delay, func() {
		s.onTurnStart(enc, serial)
	})
}

// onTurnStart fires when the pacing delay elapses.
func (s *service) onTurnStart(enc *combat.Encounter, serial int) {
	enc.Lock()
	defer enc.Unlock()

	if enc.Ended() || enc.TurnSerial() != serial {
		return
	}

	// A manual action is still mid-flight; re-defer rather than talking
	// over it.
	if enc.ManualActionInFlight() {
		enc.Timers.Start(combat.TimerSlotStartTurn, s.cfg.ManualGuardBackoff, func() {
			s.onTurnStart(enc, serial)
		})
		return
	}

	current := enc.CurrentCombatant()
	if current == nil {
		return
	}

	// The combatant went down between scheduling and firing: skip the slot
	// without consuming wall-clock pacing again.
	if current.IsIncapacitated() {
		if _, ok := s.advanceIndexLocked(enc); !ok {
			return
		}
		s.beginTurnNowLocked(enc)
		return
	}

	s.beginTurnNowLocked(enc)
}

// beginTurnNowLocked opens the current combatant's turn: announces it, arms
// the turn timeout, and arms auto-act for auto-mode combatants.
func (s *service) beginTurnNowLocked(enc *combat.Encounter) {
	current := enc.CurrentCombatant()
	if current == nil {
		return
	}

	serial := enc.TurnSerial()
	s.announceMessage(enc.ChannelID, "▶️ It's **"+current.Name+"**'s turn!")

	enc.Timers.Start(combat.TimerSlotTurn, s.cfg.TurnTimeout, func() {
		s.onTurnTimeout(enc, serial)
	})

	if current.Mode == combat.ModeAuto {
		avatarID := current.AvatarID
		enc.Timers.Start(combat.TimerSlotAuto, s.cfg.AutoActDelay, func() {
			s.onAutoAct(enc, avatarID, serial)
		})
	}
}

// onTurnTimeout fires when nothing resolved the turn in time. The combatant
// defends by default and the turn advances.
func (s *service) onTurnTimeout(enc *combat.Encounter, serial int) {
	enc.Lock()
	defer enc.Unlock()

	if enc.Ended() || enc.TurnSerial() != serial {
		return
	}
	if !enc.ClaimTurnResolution() {
		return
	}

	current := enc.CurrentCombatant()
	if current != nil && !current.IsIncapacitated() {
		msg := s.resolver.Defend(current)
		enc.AddCombatLogEntry(msg)
		s.announceAs(enc.ChannelID, current.Name, msg)
		enc.TouchAction()
	}

	if s.checkEndLocked(enc) {
		return
	}

	s.resolveTurnLocked(enc)
}

// onAutoAct fires for auto-mode combatants shortly after their turn starts.
func (s *service) onAutoAct(enc *combat.Encounter, avatarID string, serial int) {
	enc.Lock()
	defer enc.Unlock()

	if enc.Ended() || enc.TurnSerial() != serial {
		return
	}

	// Back off while a manual action is in flight.
	if enc.ManualActionInFlight() {
		enc.Timers.Start(combat.TimerSlotAuto, s.cfg.ManualGuardBackoff, func() {
			s.onAutoAct(enc, avatarID, serial)
		})
		return
	}

	// The turn may already have advanced by the time the timer fires.
	if !enc.IsTurn(avatarID) {
		return
	}

	s.autoActLocked(enc, enc.Combatants[avatarID])
}

// autoActLocked performs the automatic action for the current combatant:
// attack the weakest living opponent, or defend when nobody is left to hit.
func (s *service) autoActLocked(enc *combat.Encounter, actor *combat.Combatant) {
	if actor == nil || actor.IsIncapacitated() {
		return
	}

	target := pickAutoTarget(enc, actor)
	if target == nil {
		if enc.ClaimTurnResolution() {
			msg := s.resolver.Defend(actor)
			enc.AddCombatLogEntry(msg)
			s.announceAs(enc.ChannelID, actor.Name, msg)
			enc.TouchAction()
			if !s.checkEndLocked(enc) {
				s.resolveTurnLocked(enc)
			}
		}
		return
	}

	result, err := s.resolver.Attack(context.Background(), actor, target)
	if err != nil {
		// Resolution failed; treat it like a timeout-style safe action so
		// the encounter keeps moving.
		if enc.ClaimTurnResolution() {
			enc.TouchAction()
			if !s.checkEndLocked(enc) {
				s.resolveTurnLocked(enc)
			}
		}
		return
	}

	s.applyActionResultLocked(context.Background(), enc, actor, target, result)
}

// pickAutoTarget chooses the living opponent with the least HP remaining.
func pickAutoTarget(enc *combat.Encounter, actor *combat.Combatant) *combat.Combatant {
	var target *combat.Combatant
	for _, opponent := range enc.LivingOpponents(actor.AvatarID) {
		if target == nil || opponent.CurrentHP < target.CurrentHP {
			target = opponent
		}
	}
	return target
}

// resolveTurnLocked finishes the current turn: it cancels the turn-slot
// timers, then asynchronously waits on the advance gate before moving to the
// next combatant. This is the engine's only deliberate suspension point.
// Callers must already hold the turn-resolution claim.
func (s *service) resolveTurnLocked(enc *combat.Encounter) {
	enc.Timers.Stop(combat.TimerSlotTurn)
	enc.Timers.Stop(combat.TimerSlotAuto)

	serial := enc.TurnSerial()
	go func() {
		enc.Gate.AwaitAll(context.Background(), s.cfg.AdvanceGateTimeout)

		enc.Lock()
		defer enc.Unlock()
		if enc.Ended() || enc.TurnSerial() != serial {
			return
		}
		if wrapped, ok := s.advanceIndexLocked(enc); ok {
			s.scheduleTurnStartLocked(enc, wrapped)
		}
	}()
}

// advanceIndexLocked moves the turn index to the next combatant who can act,
// wrapping rounds as needed. Returns ok=false when the advance ended the
// encounter. Skip-induced wraps still count rounds (and the round cap) but
// do not re-apply the round cooldown; only the wrap of the resolved turn
// itself reports wrapped=true.
func (s *service) advanceIndexLocked(enc *combat.Encounter) (wrapped, ok bool) {
	if len(enc.InitiativeOrder) == 0 {
		return false, false
	}

	wrapped = s.stepIndexLocked(enc)
	if enc.Ended() {
		return wrapped, false
	}

	// Skip past incapacitated combatants, bounded by the order length to
	// guarantee termination.
	for i := 0; i < len(enc.InitiativeOrder); i++ {
		current := enc.CurrentCombatant()
		if current != nil && !current.IsIncapacitated() {
			break
		}
		s.stepIndexLocked(enc)
		if enc.Ended() {
			return wrapped, false
		}
	}

	current := enc.CurrentCombatant()
	if current == nil || current.IsIncapacitated() {
		// Nobody left who can act.
		s.endEncounterLocked(enc, combat.EndReasonSingleCombatant)
		return wrapped, false
	}

	enc.BeginTurn()
	return wrapped, true
}

// stepIndexLocked advances the index one slot, handling round wrap and the
// round cap. Returns true when this step wrapped into a new round.
func (s *service) stepIndexLocked(enc *combat.Encounter) bool {
	enc.CurrentTurnIndex++
	if enc.CurrentTurnIndex < len(enc.InitiativeOrder) {
		return false
	}

	enc.CurrentTurnIndex = 0
	enc.Round++
	if s.cfg.MaxRounds > 0 && enc.Round > s.cfg.MaxRounds {
		s.endEncounterLocked(enc, combat.EndReasonRoundLimit)
	}
	return true
}
