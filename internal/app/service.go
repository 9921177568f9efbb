package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"goatan/internal/config"
	"goatan/internal/domain"
)

// Service contains the game use-cases operating on domain state. Each action returns the events
// the transport should dispatch; a failed action returns no events.
type Service struct {
	rng *rand.Rand
	cfg *config.GameConfig
}

// NewService constructs a Service with the provided rng or a time-seeded default, and the
// provided rules or the defaults.
func NewService(rng *rand.Rand, cfg *config.GameConfig) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &Service{rng: rng, cfg: cfg}
}

var (
	// ErrInvariant wraps a recovered domain panic. The action was aborted.
	ErrInvariant     = errors.New("invariant violated")
	ErrTooFewPlayers = fmt.Errorf("%w: not enough players to start", domain.ErrInvalidAction)
	ErrUnknownPlayer = fmt.Errorf("%w: player not found", domain.ErrInvalidAction)
)

// Config returns the rules the service plays by.
func (s *Service) Config() *config.GameConfig { return s.cfg }

// NewGame creates a lobby using the configured palette, bank and win condition.
func (s *Service) NewGame(id string) *domain.Game {
	return domain.NewGame(
		id,
		domain.NewPlayerManager(s.cfg.Palette),
		domain.NewBank(s.cfg.BankInventory),
		domain.VictoryPoint{Required: s.cfg.VictoryPoints},
	)
}

// RegisterPlayer adds a player to the lobby. A player already in the game is treated as a
// reconnect and receives its own record and the current state.
func (s *Service) RegisterPlayer(game *domain.Game, id, name string) ([]Event, error) {
	if existing := game.Players.Get(id); existing != nil && game.State() != domain.StateLobby {
		return s.Reconnect(game, id)
	}
	var player *domain.Player
	err := guard(func() error {
		var err error
		player, err = game.Players.Register(id, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return []Event{
		s.playerUpdate(game),
		{
			Kind:       EventPlayerInfo,
			Payload:    PlayerInfoPayload{Player: s.playerView(game, player)},
			Recipients: []string{id},
		},
	}, nil
}

// RemovePlayer drops a player from the lobby.
func (s *Service) RemovePlayer(game *domain.Game, id string) ([]Event, error) {
	if game.Players.Get(id) == nil {
		return nil, ErrUnknownPlayer
	}
	if err := game.Players.Remove(id); err != nil {
		return nil, err
	}
	return []Event{s.playerUpdate(game)}, nil
}

// Reconnect resends a player's own record and the current state to that player only.
func (s *Service) Reconnect(game *domain.Game, id string) ([]Event, error) {
	player := game.Players.Get(id)
	if player == nil {
		return nil, ErrUnknownPlayer
	}
	return []Event{
		{
			Kind:       EventPlayerInfo,
			Payload:    PlayerInfoPayload{Player: s.playerView(game, player)},
			Recipients: []string{id},
		},
		{Kind: EventGameState, Payload: BuildSnapshot(game), Recipients: []string{id}},
	}, nil
}

// Initialize starts the game on a board of the given radius.
func (s *Service) Initialize(game *domain.Game, radius int) ([]Event, error) {
	if game.State() != domain.StateLobby {
		return nil, fmt.Errorf("%w: game already initialized", domain.ErrInvalidAction)
	}
	if radius < 0 || radius > s.cfg.MaxRadius {
		return nil, fmt.Errorf("%w: radius must be between 0 and %d", domain.ErrInvalidAction, s.cfg.MaxRadius)
	}
	minPlayers := s.cfg.MinPlayers
	if minPlayers <= 0 {
		minPlayers = MinPlayersToStartGame
	}
	if game.Players.Len() < minPlayers {
		return nil, ErrTooFewPlayers
	}

	err := guard(func() error {
		return game.Initialize(radius, s.rng, domain.NewD6(s.cfg.DiceCount, s.rng))
	})
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, game.Players.Len())
	for _, p := range game.Players.All() {
		order = append(order, p.ID)
	}
	events := []Event{
		{Kind: EventGameStarted, Payload: GameStartedPayload{GameID: game.ID, Order: order, Radius: radius}},
		{Kind: EventGameState, Payload: BuildSnapshot(game)},
	}
	if active := game.ActivePlayer(); active != nil {
		events = append(events, Event{
			Kind:    EventNewTurn,
			Payload: NewTurnPayload{PlayerID: active.ID, Phase: string(game.Phase().Kind())},
		})
	}
	return events, nil
}

// EndTurn ends the actor's turn.
func (s *Service) EndTurn(game *domain.Game, actor string) ([]Event, error) {
	return s.act(game, func() ([]Event, error) {
		return nil, game.EndTurn(actor)
	})
}

// PlacePiece places a house or road for the actor.
func (s *Service) PlacePiece(game *domain.Game, actor string, kind domain.PieceKind, locationID string) ([]Event, error) {
	return s.act(game, func() ([]Event, error) {
		return nil, game.PlacePiece(actor, kind, locationID)
	})
}

// Roll rolls the dice for the actor and reports what the roll produced.
func (s *Service) Roll(game *domain.Game, actor string) ([]Event, error) {
	return s.act(game, func() ([]Event, error) {
		total, err := game.Roll(actor)
		if err != nil {
			return nil, err
		}
		payload := DiceRolledPayload{PlayerID: actor, Total: total}
		if main, ok := game.Phase().(*domain.MainPhase); ok {
			for i, tx := range main.LastProduction() {
				if tx.IsZero() {
					continue
				}
				if payload.Production == nil {
					payload.Production = make(map[string]map[string]int)
				}
				payload.Production[game.Players.At(i).ID] = tx.Map()
			}
		}
		return []Event{{Kind: EventDiceRolled, Payload: payload}}, nil
	})
}

// BankTrade exchanges resources between the actor and the bank.
func (s *Service) BankTrade(game *domain.Game, actor string, tx domain.Transaction) ([]Event, error) {
	return s.act(game, func() ([]Event, error) {
		return nil, game.BankTrade(actor, tx)
	})
}

// act runs a turn action and appends the resulting state, turn change and game end events.
func (s *Service) act(game *domain.Game, fn func() ([]Event, error)) ([]Event, error) {
	before := ""
	if active := game.ActivePlayer(); active != nil {
		before = active.ID
	}
	phaseBefore := game.Phase()

	var events []Event
	err := guard(func() error {
		var err error
		events, err = fn()
		return err
	})
	if err != nil {
		return nil, err
	}

	events = append(events, Event{Kind: EventGameState, Payload: BuildSnapshot(game)})

	if active := game.ActivePlayer(); active != nil && (active.ID != before || game.Phase() != phaseBefore) {
		events = append(events, Event{
			Kind:    EventNewTurn,
			Payload: NewTurnPayload{PlayerID: active.ID, Phase: string(game.Phase().Kind())},
		})
	}
	if game.State() == domain.StateFinished && phaseBefore != nil && phaseBefore.Kind() != domain.PhaseFinished {
		events = append(events, Event{Kind: EventGameEnded, Payload: GameEndedPayload{VictorID: game.Victor}})
	}
	return events, nil
}

func (s *Service) playerUpdate(game *domain.Game) Event {
	players := game.Players.All()
	views := make([]PlayerView, 0, len(players))
	for _, p := range players {
		views = append(views, s.playerView(game, p))
	}
	return Event{Kind: EventPlayerUpdate, Payload: PlayerUpdatePayload{Players: views}}
}

func (s *Service) playerView(game *domain.Game, p *domain.Player) PlayerView {
	return playerView(p, domain.VictoryPoint{}.Points(game.Board)[p.ID])
}

// guard converts a domain invariant panic into ErrInvariant.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvariant, r)
		}
	}()
	return fn()
}
