package domain

// PhaseKind names a stage of the turn-taking rules.
type PhaseKind string

const (
	PhasePlacement PhaseKind = "placement"
	PhaseMain      PhaseKind = "game"
	PhaseFinished  PhaseKind = "finished"
)

// Phase is the closed set of turn-taking rule sets. Each variant decides legality and mutates
// the shared table; the Game checks the actor against ActivePlayer before delegating.
type Phase interface {
	Kind() PhaseKind
	// ActivePlayer is nil once the game is over.
	ActivePlayer() *Player
	ExpectingRoll() bool
	// LastRoll is the dice sum of the current turn, if any.
	LastRoll() (int, bool)
	// Placeable maps location ids to the pieces the active player may place there now.
	Placeable() map[string][]PieceKind
	PlacePiece(player *Player, kind PieceKind, locationID string) error
	Roll() (int, error)
	BankTrade(player *Player, tx Transaction) error
	EndTurn() error
	// Finished reports that the Game should advance to the next phase.
	Finished() bool

	phase()
}

// table is the state every phase operates on.
type table struct {
	board   *Board
	players *PlayerManager
	bank    *Bank
}

// payout credits owed resources to players, indexed by turn order. Production and starting
// grants come from the general supply, so bank inventory never limits them.
func (t table) payout(owed []Transaction) []Transaction {
	paid := make([]Transaction, len(owed))
	for i, tx := range owed {
		if tx.IsZero() {
			continue
		}
		t.players.At(i).Apply(tx)
		paid[i] = tx
	}
	return paid
}

// collect totals what a settled intersection yields for number (NoNumber for every tile).
func (t table) collect(ix IntersectionRef, number ResourceNumber) Transaction {
	var tx Transaction
	for r := range t.board.Collect(ix, number) {
		tx[r]++
	}
	return tx
}

// charge pays a piece's cost from player to the bank. Affordability is checked by the caller.
func (t table) charge(player *Player, kind PieceKind) {
	cost := kind.Cost()
	player.Apply(cost)
	t.bank.Apply(cost.Inverse())
}
