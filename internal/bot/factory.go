package bot

import (
	"fmt"
	"math/rand"
)

// NewBrain creates a new AI brain based on the specified level. rng drives tie breaking for
// the easy brain.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	switch level {
	case BotLevelEasy:
		if rng == nil {
			return nil, fmt.Errorf("easy bot needs a random source")
		}
		return &EasyBot{rng: rng}, nil
	case BotLevelGood:
		return &GreedyBot{Tuning: DefaultTuning}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
