package domain

import (
	"math/rand"
	"slices"
	"testing"
)

// scriptedProvider hands out tiles in a fixed order, cycling when exhausted.
type scriptedProvider struct {
	tiles   []TileType
	numbers []ResourceNumber
	next    int
}

func (p *scriptedProvider) NextTile() (TileType, ResourceNumber) {
	i := p.next % len(p.tiles)
	p.next++
	return p.tiles[i], p.numbers[i]
}

// ringProvider lays out a radius-1 board: center, then N, NE, SE, S, SW, NW.
func ringProvider() *scriptedProvider {
	return &scriptedProvider{
		tiles:   []TileType{TileWood, TileBrick, TileDesert, TileSheep, TileWheat, TileStone, TileWood},
		numbers: []ResourceNumber{6, 8, NoNumber, 5, 9, 10, 4},
	}
}

func locations(placeable map[string][]PieceKind, kind PieceKind) []string {
	var out []string
	for id, kinds := range placeable {
		if slices.Contains(kinds, kind) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

func newTestGame(t *testing.T, players int, radius int, seed int64, dice Dice, win WinCondition) *Game {
	t.Helper()
	pm := NewPlayerManager(nil)
	for i := range players {
		id := string(rune('a' + i))
		if _, err := pm.Register(id, "player "+id); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	if win == nil {
		win = VictoryPoint{Required: DefaultVictoryPoints}
	}
	g := NewGame("g1", pm, NewBank(DefaultBankInventory), win)
	if err := g.Initialize(radius, rand.New(rand.NewSource(seed)), dice); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return g
}

// playPlacementTurn places the first legal house and road for the active player and ends the turn.
func playPlacementTurn(t *testing.T, g *Game) (actor string, house string) {
	t.Helper()
	actor = g.ActivePlayer().ID
	houses := locations(g.Phase().Placeable(), PieceHouse)
	if len(houses) == 0 {
		t.Fatalf("no legal house for %s", actor)
	}
	house = houses[0]
	if err := g.PlacePiece(actor, PieceHouse, house); err != nil {
		t.Fatalf("place house: %v", err)
	}
	roads := locations(g.Phase().Placeable(), PieceRoad)
	if len(roads) == 0 {
		t.Fatalf("no legal road for %s", actor)
	}
	if err := g.PlacePiece(actor, PieceRoad, roads[0]); err != nil {
		t.Fatalf("place road: %v", err)
	}
	if err := g.EndTurn(actor); err != nil {
		t.Fatalf("end turn: %v", err)
	}
	return actor, house
}

func finishPlacement(t *testing.T, g *Game) {
	t.Helper()
	for g.State() == StatePlacement {
		playPlacementTurn(t, g)
	}
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
