package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

// RollResult holds the outcome of a dice roll.
type RollResult struct {
	Total    int   // sum of rolls plus bonus
	Rolls    []int // individual die results
	Bonus    int
	Sides    int
	IsCrit   bool // natural max on a single d20
	IsFumble bool // natural 1 on a single d20
}

// Roller provides an interface for rolling dice so tests can inject
// deterministic implementations.
type Roller interface {
	// Roll rolls count dice with the given sides and adds a bonus
	Roll(count, sides, bonus int) (*RollResult, error)
}
