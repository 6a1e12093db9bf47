package battle

//go:generate mockgen -destination=mock/mock_resolver.go -package=mockbattle -source=resolver.go

import (
	"context"
	"fmt"

	"github.com/wildfable/brawl-bot-discord/internal/domain/combat"
)

// Outcome classifies an attack result.
type Outcome string

const (
	OutcomeHit      Outcome = "hit"
	OutcomeMiss     Outcome = "miss"
	OutcomeKnockout Outcome = "knockout"
	OutcomeDead     Outcome = "dead"
)

// Result is the opaque record an attack resolves to. The orchestrator
// consumes it without caring how the numbers were produced.
type Result struct {
	Outcome    Outcome
	Damage     int
	AttackRoll int
	ArmorClass int // effective AC the roll was compared against
	Critical   bool
	Message    string
}

// IsHostile reports whether the outcome caused damage
func (r *Result) IsHostile() bool {
	return r.Outcome != OutcomeMiss && r.Damage > 0
}

// String returns a short human-readable form
func (r *Result) String() string {
	return fmt.Sprintf("%s: roll %d vs AC %d, damage %d", r.Outcome, r.AttackRoll, r.ArmorClass, r.Damage)
}

// Resolver performs the combat math. The encounter engine treats it as an
// external collaborator.
type Resolver interface {
	// Attack resolves one attack. It does not mutate either combatant.
	Attack(ctx context.Context, attacker, defender *combat.Combatant) (*Result, error)

	// Defend marks the combatant as defending and returns a message
	Defend(combatant *combat.Combatant) string
}
