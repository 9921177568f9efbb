package bot

import (
	"goatan/internal/domain"
)

// ActionKind names a bot decision.
type ActionKind int

const (
	ActionEndTurn ActionKind = iota
	ActionRoll
	ActionPlace
	ActionTrade
)

func (k ActionKind) String() string {
	switch k {
	case ActionRoll:
		return "roll"
	case ActionPlace:
		return "place"
	case ActionTrade:
		return "trade"
	default:
		return "end_turn"
	}
}

// Action is a single decision made by the AI.
type Action struct {
	Kind     ActionKind
	Piece    domain.PieceKind
	Location string
	Trade    domain.Transaction
}

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelEasy BotLevel = iota
	BotLevelGood
)

// ParseBotLevel maps an identity difficulty to a level; unknown values are good.
func ParseBotLevel(difficulty string) BotLevel {
	if difficulty == "easy" {
		return BotLevelEasy
	}
	return BotLevelGood
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	NextAction(game *domain.Game, player *domain.Player) (Action, error)
}
