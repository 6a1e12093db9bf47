package encounter

import (
	"context"
	"log"
	"sort"

	"github.com/wildfable/brawl-bot-discord/internal/domain/combat"
)

// rollInitiative draws one d20 plus the combatant's dexterity-derived
// modifier and records it. A roller failure degrades to a flat middle roll
// rather than propagating.
func (s *service) rollInitiative(c *combat.Combatant) int {
	result, err := s.roller.Roll(1, 20, c.InitiativeBonus)
	if err != nil {
		log.Printf("initiative roll failed for %s, using fallback: %v", c.AvatarID, err)
		fallback := 10
		c.Initiative = &fallback
		return fallback
	}

	total := result.Total
	c.Initiative = &total
	return total
}

// resolveOrder sorts combatants by initiative descending. The sort is stable
// over the original join order, so ties keep their insertion order.
func (s *service) resolveOrder(enc *combat.Encounter) []string {
	order := make([]string, len(enc.JoinOrder))
	copy(order, enc.JoinOrder)

	initiative := func(avatarID string) int {
		c, ok := enc.Combatants[avatarID]
		if !ok || c.Initiative == nil {
			return 0
		}
		return *c.Initiative
	}

	sort.SliceStable(order, func(i, j int) bool {
		return initiative(order[i]) > initiative(order[j])
	})
	return order
}

// insertCombatantLocked adds a late joiner: rolls their initiative, re-sorts
// the full order, and (when preserveCurrentTurn is set) relocates the turn
// index to keep pointing at the combatant whose turn was in progress, since
// the insertion can shift every subsequent position.
func (s *service) insertCombatantLocked(ctx context.Context, enc *combat.Encounter, c *combat.Combatant, preserveCurrentTurn bool) {
	if !enc.AddCombatant(c) {
		return
	}
	s.rollInitiative(c)

	var currentID string
	if preserveCurrentTurn {
		if current := enc.CurrentCombatant(); current != nil {
			currentID = current.AvatarID
		}
	}

	enc.InitiativeOrder = s.resolveOrder(enc)

	if currentID != "" {
		for i, id := range enc.InitiativeOrder {
			if id == currentID {
				enc.CurrentTurnIndex = i
				break
			}
		}
	}

	enc.AddCombatLogEntry(c.Name + " joins the fray!")
	s.announceMessage(enc.ChannelID, "🗡️ **"+c.Name+"** joins the fray!")
}
