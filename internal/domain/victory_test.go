package domain

import "testing"

func TestVictoryPoint(t *testing.T) {
	board := BuildBoard(1, ringProvider(), newRand(1))
	win := VictoryPoint{Required: 2}

	if _, ok := win.Victor(nil); ok {
		t.Fatalf("nil board has a victor")
	}
	if _, ok := win.Victor(board); ok {
		t.Fatalf("empty board has a victor")
	}

	center := board.Tiles[board.Anchor]
	place := func(side Side, owner string) {
		board.PlaceSettlement(center.Intersections[side], Piece{Kind: PieceHouse, Owner: owner})
	}

	place(North, "a")
	place(SouthEast, "b")
	if _, ok := win.Victor(board); ok {
		t.Fatalf("victor declared with one house each")
	}

	// Both reach two; a's second house lands first in placement order.
	place(South, "a")
	place(NorthWest, "b")
	victor, ok := win.Victor(board)
	if !ok || victor != "a" {
		t.Fatalf("victor = %q, %v, want a", victor, ok)
	}

	points := win.Points(board)
	if points["a"] != 2 || points["b"] != 2 {
		t.Fatalf("points = %v", points)
	}
}
