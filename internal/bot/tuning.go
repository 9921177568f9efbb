package bot

// Tuning weighs intersection features for the greedy strategy.
type Tuning struct {
	// PipWeight scales the dice probability of bordering numbers.
	PipWeight float64
	// VarietyWeight rewards bordering resources the player does not produce yet.
	VarietyWeight float64
	// ScarcityWeight rewards resources the house cost needs and the player lacks.
	ScarcityWeight float64
	// MaxRoadsPerTurn stops a bot from spending a whole hand on roads.
	MaxRoadsPerTurn int
}

// DefaultTuning favors high-probability spots, then resource variety.
var DefaultTuning = Tuning{
	PipWeight:       1.0,
	VarietyWeight:   1.5,
	ScarcityWeight:  0.5,
	MaxRoadsPerTurn: 2,
}
