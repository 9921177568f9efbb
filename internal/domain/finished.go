package domain

// FinishedPhase is terminal: it answers queries and rejects every action.
type FinishedPhase struct {
	table
}

// NewFinishedPhase creates the terminal phase.
func NewFinishedPhase(board *Board, players *PlayerManager, bank *Bank) *FinishedPhase {
	return &FinishedPhase{table: table{board: board, players: players, bank: bank}}
}

func (f *FinishedPhase) phase() {}

// Kind implements Phase.
func (f *FinishedPhase) Kind() PhaseKind { return PhaseFinished }

// ActivePlayer implements Phase.
func (f *FinishedPhase) ActivePlayer() *Player { return nil }

// ExpectingRoll implements Phase.
func (f *FinishedPhase) ExpectingRoll() bool { return false }

// LastRoll implements Phase.
func (f *FinishedPhase) LastRoll() (int, bool) { return 0, false }

// Placeable implements Phase.
func (f *FinishedPhase) Placeable() map[string][]PieceKind { return map[string][]PieceKind{} }

// Finished implements Phase.
func (f *FinishedPhase) Finished() bool { return false }

// PlacePiece implements Phase.
func (f *FinishedPhase) PlacePiece(*Player, PieceKind, string) error {
	return invalidAction("the game is over")
}

// Roll implements Phase.
func (f *FinishedPhase) Roll() (int, error) {
	return 0, invalidAction("the game is over")
}

// BankTrade implements Phase.
func (f *FinishedPhase) BankTrade(*Player, Transaction) error {
	return invalidAction("the game is over")
}

// EndTurn implements Phase.
func (f *FinishedPhase) EndTurn() error {
	return invalidAction("the game is over")
}
