package domain

import "math/rand"

// State is the coarse lifecycle of a game, derived from the active phase.
type State string

const (
	StateLobby     State = "lobby"
	StatePlacement State = "placement"
	StateGame      State = "game"
	StateFinished  State = "finished"
)

// Game owns the board, players, bank and the ordered phase list. It is not safe for concurrent
// use; callers serialize actions per game.
type Game struct {
	ID      string
	Players *PlayerManager
	Board   *Board
	Bank    *Bank
	Win     WinCondition
	Victor  string

	phases  []Phase
	current int
}

// NewGame creates a game in the lobby.
func NewGame(id string, players *PlayerManager, bank *Bank, win WinCondition) *Game {
	return &Game{ID: id, Players: players, Bank: bank, Win: win}
}

// State returns the coarse lifecycle state.
func (g *Game) State() State {
	phase := g.Phase()
	if phase == nil {
		return StateLobby
	}
	switch phase.Kind() {
	case PhasePlacement:
		return StatePlacement
	case PhaseMain:
		return StateGame
	default:
		return StateFinished
	}
}

// Phase returns the active phase, or nil while in the lobby.
func (g *Game) Phase() Phase {
	if len(g.phases) == 0 {
		return nil
	}
	return g.phases[g.current]
}

// Initialize builds the board, locks the turn order and starts placement.
// rng drives tiles, element ids and player order; dice drives production rolls.
func (g *Game) Initialize(radius int, rng *rand.Rand, dice Dice) error {
	if g.State() != StateLobby {
		return invalidAction("game already initialized")
	}
	if radius < 0 || radius > MaxRadius {
		return invalidAction("radius must be between 0 and %d", MaxRadius)
	}
	if g.Players.Len() == 0 {
		return invalidState("no players registered")
	}

	g.Board = BuildBoard(radius, NewStandardProvider(rng), rng)
	g.Players.Finalize(rng)
	g.phases = []Phase{
		NewPlacement(g.Board, g.Players, g.Bank),
		NewMainPhase(g.Board, g.Players, g.Bank, dice),
		NewFinishedPhase(g.Board, g.Players, g.Bank),
	}
	g.current = 0
	return nil
}

// ActivePlayer returns the player whose turn it is, or nil.
func (g *Game) ActivePlayer() *Player {
	if phase := g.Phase(); phase != nil {
		return phase.ActivePlayer()
	}
	return nil
}

func (g *Game) turnOf(actor string) (Phase, *Player, error) {
	phase := g.Phase()
	if phase == nil {
		return nil, nil, invalidState("game has not started")
	}
	active := phase.ActivePlayer()
	if active == nil {
		return nil, nil, invalidAction("the game is over")
	}
	if active.ID != actor {
		return nil, nil, invalidAction("it is not %s's turn", actor)
	}
	return phase, active, nil
}

// EndTurn ends the actor's turn.
func (g *Game) EndTurn(actor string) error {
	phase, _, err := g.turnOf(actor)
	if err != nil {
		return err
	}
	if err := phase.EndTurn(); err != nil {
		return err
	}
	g.advance()
	return nil
}

// PlacePiece places a piece for the actor at locationID.
func (g *Game) PlacePiece(actor string, kind PieceKind, locationID string) error {
	phase, player, err := g.turnOf(actor)
	if err != nil {
		return err
	}
	if _, ok := ParsePieceKind(string(kind)); !ok {
		return invalidAction("unknown piece %q", kind)
	}
	if err := phase.PlacePiece(player, kind, locationID); err != nil {
		return err
	}
	g.advance()
	return nil
}

// Roll rolls the dice for the actor.
func (g *Game) Roll(actor string) (int, error) {
	phase, _, err := g.turnOf(actor)
	if err != nil {
		return 0, err
	}
	total, err := phase.Roll()
	if err != nil {
		return 0, err
	}
	g.advance()
	return total, nil
}

// BankTrade exchanges resources between the actor and the bank.
func (g *Game) BankTrade(actor string, tx Transaction) error {
	phase, player, err := g.turnOf(actor)
	if err != nil {
		return err
	}
	if err := phase.BankTrade(player, tx); err != nil {
		return err
	}
	g.advance()
	return nil
}

// advance runs after every successful mutation: a victor ends the game, otherwise a finished
// phase hands over to the next one.
func (g *Game) advance() {
	if g.State() == StateFinished {
		return
	}
	if victor, ok := g.Win.Victor(g.Board); ok {
		g.Victor = victor
		g.current = len(g.phases) - 1
		return
	}
	for g.current < len(g.phases)-1 && g.phases[g.current].Finished() {
		g.current++
	}
}
