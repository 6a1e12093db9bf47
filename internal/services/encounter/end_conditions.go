package encounter

import (
	"context"
	"log"
	"time"

	"github.com/wildfable/brawl-bot-discord/internal/domain/combat"
	"github.com/wildfable/brawl-bot-discord/internal/repositories/summaries"
)

// checkEndLocked runs the end-condition predicates in order, first match
// wins, and ends the encounter when one fires. Returns true when the
// encounter is (now) ended. Flee is handled at its action site, not here.
func (s *service) checkEndLocked(enc *combat.Encounter) bool {
	if enc.Ended() {
		return true
	}
	if enc.State != combat.StateActive {
		return false
	}

	living := enc.LivingCombatants()

	// Single survivor.
	if len(living) <= 1 {
		if len(living) == 1 {
			enc.Winner = living[0].Name
		}
		s.endEncounterLocked(enc, combat.EndReasonSingleCombatant)
		return true
	}

	// Universal defend.
	allDefending := true
	for _, c := range living {
		if !c.IsDefending {
			allDefending = false
			break
		}
	}
	if allDefending {
		s.endEncounterLocked(enc, combat.EndReasonAllDefending)
		return true
	}

	// Idle: no hostile action for too many turn-timeout multiples.
	if s.cfg.IdleEndRounds > 0 {
		idleAfter := time.Duration(s.cfg.IdleEndRounds) * s.cfg.TurnTimeout
		if !enc.LastHostileAt.IsZero() && time.Since(enc.LastHostileAt) > idleAfter {
			s.endEncounterLocked(enc, combat.EndReasonIdle)
			return true
		}
	}

	return false
}

// endEncounterLocked freezes the encounter, cancels its timers, and fires
// off the best-effort summary write and closing announcement. Idempotent.
func (s *service) endEncounterLocked(enc *combat.Encounter, reason combat.EndReason) {
	if !enc.End(reason) {
		return
	}

	// The channel is free for a new fight as soon as this one ends.
	s.store.Remove(context.Background(), enc.ChannelID)

	enc.AddCombatLogEntry("Combat ends: " + string(reason))
	summary := s.buildSummaryLocked(enc)
	closing := closingMessage(reason, enc.Winner)
	channelID := enc.ChannelID

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := s.summaries.Append(ctx, summary); err != nil {
			log.Printf("failed to persist summary for channel %s: %v", channelID, err)
		}
		if err := s.announcer.PostMessage(ctx, channelID, closing); err != nil {
			log.Printf("closing announcement failed for channel %s: %v", channelID, err)
		}
		if err := s.announcer.PostSummary(ctx, channelID, summary); err != nil {
			log.Printf("summary announcement failed for channel %s: %v", channelID, err)
		}
	}()
}

// buildSummaryLocked snapshots an ended encounter for persistence
func (s *service) buildSummaryLocked(enc *combat.Encounter) *summaries.Summary {
	summary := &summaries.Summary{
		ID:              s.uuidGen.New(),
		ChannelID:       enc.ChannelID,
		GuildID:         enc.GuildID,
		StartedAt:       enc.StartedAt,
		EndedAt:         enc.EndedAt,
		Rounds:          enc.Round,
		EndReason:       string(enc.EndReason),
		Winner:          enc.Winner,
		InitiativeOrder: append([]string(nil), enc.InitiativeOrder...),
		CombatLog:       append([]string(nil), enc.CombatLog...),
		MediaURL:        enc.MediaURL,
	}

	for _, id := range enc.InitiativeOrder {
		c, ok := enc.Combatants[id]
		if !ok {
			continue
		}
		initiative := 0
		if c.Initiative != nil {
			initiative = *c.Initiative
		}
		summary.Combatants = append(summary.Combatants, summaries.CombatantSnapshot{
			AvatarID:   c.AvatarID,
			Name:       c.Name,
			CurrentHP:  c.CurrentHP,
			MaxHP:      c.MaxHP,
			Initiative: initiative,
			Side:       c.Side,
			Conditions: append([]string(nil), c.Conditions...),
		})
	}

	return summary
}

// closingMessage maps an end reason to its human-readable closing line
func closingMessage(reason combat.EndReason, winner string) string {
	switch reason {
	case combat.EndReasonSingleCombatant:
		if winner != "" {
			return "🏆 The dust settles. **" + winner + "** stands victorious!"
		}
		return "💀 The dust settles. Nobody is left standing."
	case combat.EndReasonAllDefending:
		return "🕊️ Everyone lowers their weapons. The fight fizzles out."
	case combat.EndReasonIdle:
		return "🕸️ The combatants lose interest and wander off."
	case combat.EndReasonFlee:
		return "🏃 The fight is over — someone ran for it."
	case combat.EndReasonRoundLimit:
		return "⏱️ The brawl drags on too long and the crowd disperses."
	case combat.EndReasonCapacityReclaim:
		return "🧹 This fight was cut short to make room for a new one."
	default:
		return "⚔️ The encounter has ended."
	}
}
