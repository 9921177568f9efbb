package bot

import (
	"fmt"
	"math/rand"

	"goatan/internal/app"
	"goatan/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// NewAgent creates an agent with the brain matching its identity's difficulty.
func NewAgent(identity BotIdentity, rng *rand.Rand) (*Agent, error) {
	brain, err := NewBrain(ParseBotLevel(identity.Difficulty), rng)
	if err != nil {
		return nil, err
	}
	name := identity.DisplayName
	if name == "" {
		name = GetBotDisplayName(identity.UserID)
	}
	return &Agent{ID: identity.UserID, Name: name, Strategy: brain}, nil
}

// Play asks the agent for its next action in game.
func (a *Agent) Play(game *domain.Game) (Action, error) {
	player := game.Players.Get(a.ID)
	if player == nil {
		return Action{}, fmt.Errorf("bot %s is not part of game %s", a.ID, game.ID)
	}
	return a.Strategy.NextAction(game, player)
}

// Act decides and performs one action through svc.
func (a *Agent) Act(svc *app.Service, game *domain.Game) (Action, []app.Event, error) {
	action, err := a.Play(game)
	if err != nil {
		return action, nil, err
	}
	events, err := Apply(svc, game, a.ID, action)
	return action, events, err
}

// Apply performs action for actor through svc.
func Apply(svc *app.Service, game *domain.Game, actor string, action Action) ([]app.Event, error) {
	switch action.Kind {
	case ActionRoll:
		return svc.Roll(game, actor)
	case ActionPlace:
		return svc.PlacePiece(game, actor, action.Piece, action.Location)
	case ActionTrade:
		return svc.BankTrade(game, actor, action.Trade)
	default:
		return svc.EndTurn(game, actor)
	}
}

// PlayTurn acts until the turn passes to someone else or the game ends. It gives up after
// limit actions.
func (a *Agent) PlayTurn(svc *app.Service, game *domain.Game, limit int) ([]app.Event, error) {
	var events []app.Event
	for range limit {
		active := game.ActivePlayer()
		if active == nil || active.ID != a.ID {
			return events, nil
		}
		_, evs, err := a.Act(svc, game)
		if err != nil {
			return events, err
		}
		events = append(events, evs...)
	}
	return events, fmt.Errorf("bot %s did not finish its turn in %d actions", a.ID, limit)
}
