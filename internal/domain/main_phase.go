package domain

// robberRoll is the dice sum that produces nothing.
const robberRoll = 7

// MainPhase is regular play: roll, then build and trade, then end the turn. It never finishes on
// its own; the Game ends it when the win condition is met.
type MainPhase struct {
	table

	dice       Dice
	active     int
	rolled     bool
	lastRoll   int
	production []Transaction
}

// NewMainPhase starts regular play with the first player in turn order.
func NewMainPhase(board *Board, players *PlayerManager, bank *Bank, dice Dice) *MainPhase {
	return &MainPhase{
		table: table{board: board, players: players, bank: bank},
		dice:  dice,
	}
}

func (m *MainPhase) phase() {}

// Kind implements Phase.
func (m *MainPhase) Kind() PhaseKind { return PhaseMain }

// ActivePlayer implements Phase.
func (m *MainPhase) ActivePlayer() *Player {
	if m.players.Len() == 0 {
		return nil
	}
	return m.players.At(m.active)
}

// ActiveIndex returns the turn index of the active player.
func (m *MainPhase) ActiveIndex() int { return m.active }

// ExpectingRoll implements Phase.
func (m *MainPhase) ExpectingRoll() bool { return !m.rolled }

// LastRoll implements Phase.
func (m *MainPhase) LastRoll() (int, bool) { return m.lastRoll, m.rolled }

// Finished implements Phase.
func (m *MainPhase) Finished() bool { return false }

// LastProduction returns what the most recent roll paid, indexed by turn order.
func (m *MainPhase) LastProduction() []Transaction { return m.production }

// Roll implements Phase. A seven produces nothing; any other sum pays every settlement bordering
// a tile with that number.
func (m *MainPhase) Roll() (int, error) {
	if m.rolled {
		return 0, invalidAction("already rolled this turn")
	}
	total := sum(m.dice.Roll())
	m.rolled = true
	m.lastRoll = total
	m.production = nil
	if total != robberRoll {
		m.production = m.distribute(ResourceNumber(total))
	}
	return total, nil
}

func (m *MainPhase) distribute(number ResourceNumber) []Transaction {
	owed := make([]Transaction, m.players.Len())
	for _, ix := range m.board.SettledIntersections() {
		owner := m.players.IndexOf(m.board.Intersections[ix].Settlement.Owner)
		if owner < 0 {
			continue
		}
		owed[owner] = owed[owner].Add(m.collect(ix, number))
	}
	return m.payout(owed)
}

func (m *MainPhase) canPlaceHouse(player *Player, ix IntersectionRef) error {
	if m.board.Intersections[ix].Settlement != nil {
		return invalidAction("intersection is occupied")
	}
	if !player.CanApply(PieceHouse.Cost()) {
		return invalidAction("cannot afford a house")
	}
	if m.board.BordersSettlement(ix) {
		return invalidAction("intersection is too close to another house")
	}
	if !m.board.BordersRoadForPlayer(ix, player.ID) {
		return invalidAction("house must connect to one of your roads")
	}
	return nil
}

func (m *MainPhase) canPlaceRoad(player *Player, e EdgeRef) error {
	if m.board.Edges[e].Road != nil {
		return invalidAction("edge already has a road")
	}
	if !player.CanApply(PieceRoad.Cost()) {
		return invalidAction("cannot afford a road")
	}
	if !m.board.BordersSettlementOrRoadForPlayer(e, player.ID) {
		return invalidAction("road must connect to one of your houses or roads")
	}
	return nil
}

// Placeable implements Phase.
func (m *MainPhase) Placeable() map[string][]PieceKind {
	out := make(map[string][]PieceKind)
	player := m.ActivePlayer()
	if player == nil || !m.rolled {
		return out
	}
	for i := range m.board.Intersections {
		if m.canPlaceHouse(player, IntersectionRef(i)) == nil {
			out[m.board.Intersections[i].ID] = []PieceKind{PieceHouse}
		}
	}
	for i := range m.board.Edges {
		if m.canPlaceRoad(player, EdgeRef(i)) == nil {
			out[m.board.Edges[i].ID] = []PieceKind{PieceRoad}
		}
	}
	return out
}

// PlacePiece implements Phase. The cost is debited only after every legality check passed.
func (m *MainPhase) PlacePiece(player *Player, kind PieceKind, locationID string) error {
	if !m.rolled {
		return invalidAction("roll before building")
	}
	switch kind {
	case PieceHouse:
		ix, ok := m.board.IntersectionByID(locationID)
		if !ok {
			return invalidAction("unknown intersection %s", locationID)
		}
		if err := m.canPlaceHouse(player, ix); err != nil {
			return err
		}
		m.charge(player, PieceHouse)
		m.board.PlaceSettlement(ix, Piece{Kind: PieceHouse, Owner: player.ID})
		return nil
	case PieceRoad:
		e, ok := m.board.EdgeByID(locationID)
		if !ok {
			return invalidAction("unknown edge %s", locationID)
		}
		if err := m.canPlaceRoad(player, e); err != nil {
			return err
		}
		m.charge(player, PieceRoad)
		m.board.PlaceRoad(e, Piece{Kind: PieceRoad, Owner: player.ID})
		return nil
	}
	return invalidAction("unknown piece %q", kind)
}

// BankTrade implements Phase; tx must be one of the bank's current offers.
func (m *MainPhase) BankTrade(player *Player, tx Transaction) error {
	if !m.rolled {
		return invalidAction("roll before trading")
	}
	if !m.bank.Offering(tx) {
		return invalidAction("the bank does not offer that trade")
	}
	return Trade{Proposal: tx}.Execute(player, m.bank)
}

// EndTurn implements Phase.
func (m *MainPhase) EndTurn() error {
	if !m.rolled {
		return invalidAction("roll before ending the turn")
	}
	m.active = (m.active + 1) % m.players.Len()
	m.rolled = false
	m.lastRoll = 0
	m.production = nil
	return nil
}
