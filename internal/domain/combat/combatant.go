package combat

// Mode controls whether a combatant acts on its own or waits for an
// externally-triggered action.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

// SideNeutral is the default faction tag. Neutral combatants oppose everyone.
const SideNeutral = "neutral"

// ConditionUnconscious marks a combatant dropped to 0 HP. Unconscious
// combatants stay in the initiative order but their turns are skipped.
const ConditionUnconscious = "unconscious"

// Combatant is a participant's combat-facing projection, distinct from the
// full avatar record it references.
type Combatant struct {
	AvatarID string `json:"avatar_id"`
	Name     string `json:"name"`

	// Avatar is a back-reference to the external avatar record. Not owned
	// and not persisted.
	Avatar any `json:"-"`

	// Initiative is nil until rolled at encounter activation or late join.
	Initiative      *int `json:"initiative,omitempty"`
	InitiativeBonus int  `json:"initiative_bonus"`

	ArmorClass int `json:"armor_class"`
	CurrentHP  int `json:"current_hp"`
	MaxHP      int `json:"max_hp"`

	// IsDefending persists until the combatant's next hostile action.
	IsDefending bool     `json:"is_defending"`
	Conditions  []string `json:"conditions,omitempty"`
	Side        string   `json:"side"`
	Mode        Mode     `json:"mode"`
}

// IsAlive returns true if the combatant has more than 0 HP
func (c *Combatant) IsAlive() bool {
	return c.CurrentHP > 0
}

// IsIncapacitated returns true if the combatant cannot take a turn
func (c *Combatant) IsIncapacitated() bool {
	return !c.IsAlive() || c.HasCondition(ConditionUnconscious)
}

// HasCondition checks whether the combatant carries a condition
func (c *Combatant) HasCondition(condition string) bool {
	for _, cond := range c.Conditions {
		if cond == condition {
			return true
		}
	}
	return false
}

// AddCondition tags the combatant with a condition if not already present
func (c *Combatant) AddCondition(condition string) {
	if c.HasCondition(condition) {
		return
	}
	c.Conditions = append(c.Conditions, condition)
}

// RemoveCondition clears a condition from the combatant
func (c *Combatant) RemoveCondition(condition string) {
	out := c.Conditions[:0]
	for _, cond := range c.Conditions {
		if cond != condition {
			out = append(out, cond)
		}
	}
	c.Conditions = out
}

// ApplyDamage reduces current HP, clamping at zero. A combatant reaching 0 HP
// is tagged unconscious but stays in the initiative order.
func (c *Combatant) ApplyDamage(damage int) {
	if damage <= 0 {
		return
	}
	c.CurrentHP -= damage
	if c.CurrentHP <= 0 {
		c.CurrentHP = 0
		c.AddCondition(ConditionUnconscious)
	}
}

// OpposesSide reports whether a combatant on side a opposes side b. Neutral
// combatants oppose everyone.
func OpposesSide(a, b string) bool {
	if a == SideNeutral || b == SideNeutral {
		return true
	}
	return a != b
}
