package app

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"goatan/internal/config"
	"goatan/internal/domain"
)

func newLobby(t *testing.T, svc *Service, ids ...string) *domain.Game {
	t.Helper()
	game := svc.NewGame("g1")
	for _, id := range ids {
		if _, err := svc.RegisterPlayer(game, id, "name-"+id); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	return game
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func findEvent(events []Event, kind EventKind) (Event, bool) {
	for _, ev := range events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return Event{}, false
}

// playPlacement places the first hinted house and road for every turn of the setup round.
func playPlacement(t *testing.T, svc *Service, game *domain.Game) {
	t.Helper()
	for game.State() == domain.StatePlacement {
		actor := game.ActivePlayer().ID
		house := BuildSnapshot(game).SortedPlaceable(domain.PieceHouse)[0]
		if _, err := svc.PlacePiece(game, actor, domain.PieceHouse, house); err != nil {
			t.Fatalf("place house: %v", err)
		}
		road := BuildSnapshot(game).SortedPlaceable(domain.PieceRoad)[0]
		if _, err := svc.PlacePiece(game, actor, domain.PieceRoad, road); err != nil {
			t.Fatalf("place road: %v", err)
		}
		if _, err := svc.EndTurn(game, actor); err != nil {
			t.Fatalf("end turn: %v", err)
		}
	}
}

func TestRegisterPlayerEvents(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)), nil)
	game := svc.NewGame("g1")

	evs, err := svc.RegisterPlayer(game, "u1", "alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := kinds(evs); !slices.Equal(got, []EventKind{EventPlayerUpdate, EventPlayerInfo}) {
		t.Fatalf("events = %v", got)
	}
	info := evs[1]
	if !slices.Equal(info.Recipients, []string{"u1"}) {
		t.Fatalf("player info recipients = %v", info.Recipients)
	}
	if p := info.Payload.(PlayerInfoPayload).Player; p.ID != "u1" || p.Name != "alice" {
		t.Fatalf("player info = %+v", p)
	}
	if len(evs[0].Recipients) != 0 {
		t.Fatalf("player update should broadcast")
	}

	evs, err = svc.RegisterPlayer(game, "u2", "bob")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if n := len(evs[0].Payload.(PlayerUpdatePayload).Players); n != 2 {
		t.Fatalf("roster size = %d, want 2", n)
	}

	evs, err = svc.RemovePlayer(game, "u2")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if n := len(evs[0].Payload.(PlayerUpdatePayload).Players); n != 1 {
		t.Fatalf("roster size after remove = %d, want 1", n)
	}
	if _, err := svc.RemovePlayer(game, "u2"); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("remove twice: err = %v", err)
	}
}

func TestLobbyFull(t *testing.T) {
	cfg := config.Default()
	cfg.Palette = []string{"red", "blue"}
	svc := NewService(rand.New(rand.NewSource(1)), cfg)
	game := newLobby(t, svc, "u1", "u2")

	if _, err := svc.RegisterPlayer(game, "u3", ""); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("third player: err = %v", err)
	}
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name    string
		players []string
		radius  int
		wantErr error
	}{
		{name: "too few players", players: []string{"u1"}, radius: 2, wantErr: ErrTooFewPlayers},
		{name: "radius too large", players: []string{"u1", "u2"}, radius: 11, wantErr: domain.ErrInvalidAction},
		{name: "negative radius", players: []string{"u1", "u2"}, radius: -1, wantErr: domain.ErrInvalidAction},
		{name: "ok", players: []string{"u1", "u2", "u3"}, radius: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(rand.New(rand.NewSource(5)), nil)
			game := newLobby(t, svc, tt.players...)

			evs, err := svc.Initialize(game, tt.radius)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if evs != nil {
					t.Fatalf("failed initialize returned events")
				}
				return
			}
			if err != nil {
				t.Fatalf("initialize: %v", err)
			}
			if got := kinds(evs); !slices.Equal(got, []EventKind{EventGameStarted, EventGameState, EventNewTurn}) {
				t.Fatalf("events = %v", got)
			}
			started := evs[0].Payload.(GameStartedPayload)
			if len(started.Order) != len(tt.players) || started.Order[0] != game.ActivePlayer().ID {
				t.Fatalf("order = %v, active %s", started.Order, game.ActivePlayer().ID)
			}
			snap := evs[1].Payload.(*Snapshot)
			if snap.State != string(domain.StatePlacement) || snap.Board == nil {
				t.Fatalf("snapshot state = %s, board = %v", snap.State, snap.Board != nil)
			}
			if _, err := svc.Initialize(game, tt.radius); !errors.Is(err, domain.ErrInvalidAction) {
				t.Fatalf("second initialize: err = %v", err)
			}
		})
	}
}

func TestReconnectAfterStart(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(3)), nil)
	game := newLobby(t, svc, "u1", "u2")
	if _, err := svc.Initialize(game, 1); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	evs, err := svc.RegisterPlayer(game, "u2", "")
	if err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	if got := kinds(evs); !slices.Equal(got, []EventKind{EventPlayerInfo, EventGameState}) {
		t.Fatalf("events = %v", got)
	}
	for _, ev := range evs {
		if !slices.Equal(ev.Recipients, []string{"u2"}) {
			t.Fatalf("%s recipients = %v", ev.Kind, ev.Recipients)
		}
	}
	if _, err := svc.RegisterPlayer(game, "u3", ""); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("new player after start: err = %v", err)
	}
}

func TestActionsEmitStateAndTurns(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(9)), nil)
	game := newLobby(t, svc, "u1", "u2")
	if _, err := svc.Initialize(game, 2); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	first := game.ActivePlayer().ID

	house := BuildSnapshot(game).SortedPlaceable(domain.PieceHouse)[0]
	evs, err := svc.PlacePiece(game, first, domain.PieceHouse, house)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if got := kinds(evs); !slices.Equal(got, []EventKind{EventGameState}) {
		t.Fatalf("place events = %v", got)
	}
	snap := evs[0].Payload.(*Snapshot)
	if piece, ok := snap.Pieces[house]; !ok || piece.Owner != first || piece.Type != string(domain.PieceHouse) {
		t.Fatalf("piece at %s = %+v", house, piece)
	}

	road := BuildSnapshot(game).SortedPlaceable(domain.PieceRoad)[0]
	if _, err := svc.PlacePiece(game, first, domain.PieceRoad, road); err != nil {
		t.Fatalf("place road: %v", err)
	}
	evs, err = svc.EndTurn(game, first)
	if err != nil {
		t.Fatalf("end turn: %v", err)
	}
	turn, ok := findEvent(evs, EventNewTurn)
	if !ok {
		t.Fatalf("end turn did not announce a new turn: %v", kinds(evs))
	}
	if next := turn.Payload.(NewTurnPayload).PlayerID; next == first || next != game.ActivePlayer().ID {
		t.Fatalf("new turn for %s, active %s", next, game.ActivePlayer().ID)
	}

	if _, err := svc.EndTurn(game, first); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("out of turn: err = %v", err)
	}
}

func TestPlacementToMainAndRoll(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(12)), nil)
	game := newLobby(t, svc, "u1", "u2")
	if _, err := svc.Initialize(game, 2); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	playPlacement(t, svc, game)

	snap := BuildSnapshot(game)
	if snap.State != string(domain.StateGame) || !snap.ExpectingRoll || snap.Roll != nil {
		t.Fatalf("snapshot = state %s expecting %v roll %v", snap.State, snap.ExpectingRoll, snap.Roll)
	}
	if len(snap.BankTrades) != 20 {
		t.Fatalf("bank trades = %d, want 20", len(snap.BankTrades))
	}

	actor := game.ActivePlayer().ID
	evs, err := svc.Roll(game, actor)
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	rolled, ok := findEvent(evs, EventDiceRolled)
	if !ok {
		t.Fatalf("no dice event: %v", kinds(evs))
	}
	total := rolled.Payload.(DiceRolledPayload).Total
	if total < 2 || total > 12 {
		t.Fatalf("roll total = %d", total)
	}
	state, _ := findEvent(evs, EventGameState)
	if s := state.Payload.(*Snapshot); s.Roll == nil || *s.Roll != total || s.ExpectingRoll {
		t.Fatalf("snapshot after roll: roll %v expecting %v", s.Roll, s.ExpectingRoll)
	}
	if _, err := svc.Roll(game, actor); !errors.Is(err, domain.ErrInvalidAction) {
		t.Fatalf("second roll: err = %v", err)
	}
}

func TestVictoryEndsGame(t *testing.T) {
	cfg := config.Default()
	cfg.VictoryPoints = 2
	svc := NewService(rand.New(rand.NewSource(4)), cfg)
	game := newLobby(t, svc, "u1", "u2")
	if _, err := svc.Initialize(game, 2); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	var ended Event
	found := false
	for game.State() == domain.StatePlacement && !found {
		actor := game.ActivePlayer().ID
		house := BuildSnapshot(game).SortedPlaceable(domain.PieceHouse)[0]
		evs, err := svc.PlacePiece(game, actor, domain.PieceHouse, house)
		if err != nil {
			t.Fatalf("place house: %v", err)
		}
		if ended, found = findEvent(evs, EventGameEnded); found {
			break
		}
		road := BuildSnapshot(game).SortedPlaceable(domain.PieceRoad)[0]
		if _, err := svc.PlacePiece(game, actor, domain.PieceRoad, road); err != nil {
			t.Fatalf("place road: %v", err)
		}
		if _, err := svc.EndTurn(game, actor); err != nil {
			t.Fatalf("end turn: %v", err)
		}
	}
	if !found {
		t.Fatalf("no game ended event")
	}
	if victor := ended.Payload.(GameEndedPayload).VictorID; victor == "" || victor != game.Victor {
		t.Fatalf("victor = %q, game victor %q", victor, game.Victor)
	}
	if game.State() != domain.StateFinished {
		t.Fatalf("state = %s", game.State())
	}
	snap := BuildSnapshot(game)
	if snap.Victor != game.Victor || snap.ActivePlayer != "" || len(snap.Placeable) != 0 {
		t.Fatalf("finished snapshot = %+v", snap)
	}
}

func TestInvariantPanicIsRecovered(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(2)), nil)
	game := newLobby(t, svc, "u1", "u2")
	if _, err := svc.Initialize(game, 1); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	actor := game.ActivePlayer().ID
	ix := &game.Board.Intersections[0]
	// An edge whose only end is the target makes neighbor lookups panic.
	game.Board.Edges[ix.Edges[0]].Intersections = game.Board.Edges[ix.Edges[0]].Intersections[:1]
	game.Board.Edges[ix.Edges[0]].Intersections[0] = domain.IntersectionRef(len(game.Board.Intersections) - 1)

	_, err := svc.PlacePiece(game, actor, domain.PieceHouse, ix.ID)
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("err = %v, want invariant", err)
	}
}
