package encounter

import (
	"context"
	"log"
	"time"

	"github.com/wildfable/brawl-bot-discord/internal/domain/combat"
	"github.com/wildfable/brawl-bot-discord/internal/stats"
)

// AttemptFlee resolves a flee attempt by the active combatant: a dexterity
// roll against the highest passive perception among living opponents.
// Success ends the encounter; failure consumes the turn. An out-of-turn
// attempt is silently ignored.
func (s *service) AttemptFlee(ctx context.Context, channelID, avatarID string) (*FleeResult, error) {
	enc := s.store.Get(ctx, channelID)
	if enc == nil {
		return &FleeResult{}, nil
	}

	enc.Lock()
	defer enc.Unlock()

	if enc.Ended() {
		return &FleeResult{}, nil
	}
	if s.cfg.EnforceTurnOrder && !enc.IsTurn(avatarID) {
		return &FleeResult{}, nil
	}

	combatant, ok := enc.Combatants[avatarID]
	if !ok || combatant.IsIncapacitated() {
		return &FleeResult{}, nil
	}

	enc.BeginManualAction()
	defer enc.EndManualAction()

	// The flee attempt is this turn's action either way.
	combatant.IsDefending = false

	difficulty := s.fleeDifficultyLocked(ctx, enc, avatarID)

	roll, err := s.roller.Roll(1, 20, combatant.InitiativeBonus)
	total := 0
	if err != nil {
		log.Printf("flee roll failed for %s: %v", avatarID, err)
	} else {
		total = roll.Total
	}

	if total >= difficulty {
		msg := "🏃 **" + combatant.Name + "** slips away from the fight!"
		enc.AddCombatLogEntry(combatant.Name + " fled the battle")
		s.announceMessage(enc.ChannelID, msg)
		s.setFleeCooldown(avatarID)
		s.endEncounterLocked(enc, combat.EndReasonFlee)
		return &FleeResult{Success: true, Message: msg}, nil
	}

	msg := "🪤 **" + combatant.Name + "** tries to flee but can't break away!"
	enc.AddCombatLogEntry(combatant.Name + " failed to flee")
	s.announceMessage(enc.ChannelID, msg)
	enc.TouchAction()

	if enc.IsTurn(avatarID) && enc.ClaimTurnResolution() {
		s.resolveTurnLocked(enc)
	}
	return &FleeResult{Success: false, Message: msg}, nil
}

// fleeDifficultyLocked is the highest passive perception among living
// opponents. Stats lookups degrade to defaults.
func (s *service) fleeDifficultyLocked(ctx context.Context, enc *combat.Encounter, avatarID string) int {
	difficulty := 0
	for _, opponent := range enc.LivingOpponents(avatarID) {
		st, err := s.stats.GetOrCreateStats(ctx, opponent.AvatarID)
		if err != nil || st == nil {
			st = stats.Default()
		}
		if pp := stats.PassivePerception(st); pp > difficulty {
			difficulty = pp
		}
	}
	return difficulty
}

// CanEnterCombat reports whether the avatar's flee cooldown has lapsed
func (s *service) CanEnterCombat(avatarID string) bool {
	s.cooldownMu.Lock()
	defer s.cooldownMu.Unlock()

	until, ok := s.fleeCooldowns[normalizeAvatarID(avatarID)]
	if !ok {
		return true
	}
	if time.Now().After(until) {
		delete(s.fleeCooldowns, normalizeAvatarID(avatarID))
		return true
	}
	return false
}

func (s *service) setFleeCooldown(avatarID string) {
	if s.cfg.FleeCooldown <= 0 {
		return
	}
	s.cooldownMu.Lock()
	defer s.cooldownMu.Unlock()
	s.fleeCooldowns[normalizeAvatarID(avatarID)] = time.Now().Add(s.cfg.FleeCooldown)
}
