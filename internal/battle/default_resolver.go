package battle

import (
	"context"
	"fmt"

	"github.com/wildfable/brawl-bot-discord/internal/dice"
	"github.com/wildfable/brawl-bot-discord/internal/domain/combat"
)

const (
	// DefendACBonus is the armor class bonus granted while defending.
	DefendACBonus = 2

	damageDieSides = 6
)

// defaultResolver resolves attacks as a d20 plus the attacker's modifier
// against the defender's (possibly defended) armor class. A natural 20 is a
// critical hit with doubled damage dice.
type defaultResolver struct {
	roller dice.Roller
}

// NewResolver creates the default battle resolver
func NewResolver(roller dice.Roller) Resolver {
	if roller == nil {
		panic("dice roller is required")
	}
	return &defaultResolver{roller: roller}
}

// EffectiveAC returns the armor class an attack is compared against
func EffectiveAC(c *combat.Combatant) int {
	ac := c.ArmorClass
	if c.IsDefending {
		ac += DefendACBonus
	}
	return ac
}

// Attack implements Resolver.Attack
func (r *defaultResolver) Attack(ctx context.Context, attacker, defender *combat.Combatant) (*Result, error) {
	attackRoll, err := r.roller.Roll(1, 20, attacker.InitiativeBonus)
	if err != nil {
		return nil, err
	}

	ac := EffectiveAC(defender)
	result := &Result{
		AttackRoll: attackRoll.Total,
		ArmorClass: ac,
		Critical:   attackRoll.IsCrit,
	}

	// Natural 1 always misses, natural 20 always hits.
	if attackRoll.IsFumble || (!attackRoll.IsCrit && attackRoll.Total < ac) {
		result.Outcome = OutcomeMiss
		result.Message = fmt.Sprintf("%s swings at %s and misses (%d vs AC %d)",
			attacker.Name, defender.Name, attackRoll.Total, ac)
		return result, nil
	}

	diceCount := 1
	if attackRoll.IsCrit {
		diceCount = 2
	}
	damageRoll, err := r.roller.Roll(diceCount, damageDieSides, attacker.InitiativeBonus)
	if err != nil {
		return nil, err
	}
	damage := damageRoll.Total
	if damage < 1 {
		damage = 1
	}
	result.Damage = damage

	result.Outcome = OutcomeHit
	if damage >= defender.CurrentHP {
		result.Outcome = OutcomeKnockout
	}

	verb := "hits"
	if attackRoll.IsCrit {
		verb = "critically hits"
	}
	result.Message = fmt.Sprintf("%s %s %s for %d damage (%d vs AC %d)",
		attacker.Name, verb, defender.Name, damage, attackRoll.Total, ac)
	return result, nil
}

// Defend implements Resolver.Defend
func (r *defaultResolver) Defend(c *combat.Combatant) string {
	c.IsDefending = true
	return fmt.Sprintf("%s takes a defensive stance (+%d AC)", c.Name, DefendACBonus)
}
