package domain

type placementStep int

const (
	placingHouse placementStep = iota
	placingRoad
	placementTurnDone
)

// Placement is the setup round: turn order runs 0..N-1 then N-1..0, and every turn is exactly
// one house followed by one road touching it. Houses placed on the way back grant one unit per
// bordering farmable tile.
type Placement struct {
	table

	active       int
	incrementing bool
	step         placementStep
	lastHouse    IntersectionRef
	finished     bool
	granted      []Transaction
}

// NewPlacement starts the setup round with the first player in turn order.
func NewPlacement(board *Board, players *PlayerManager, bank *Bank) *Placement {
	return &Placement{
		table:        table{board: board, players: players, bank: bank},
		incrementing: true,
		lastHouse:    NoIntersection,
	}
}

func (p *Placement) phase() {}

// Kind implements Phase.
func (p *Placement) Kind() PhaseKind { return PhasePlacement }

// ActivePlayer implements Phase.
func (p *Placement) ActivePlayer() *Player {
	if p.players.Len() == 0 {
		return nil
	}
	return p.players.At(p.active)
}

// ActiveIndex returns the turn index of the active player.
func (p *Placement) ActiveIndex() int { return p.active }

// ExpectingRoll implements Phase; nobody rolls during setup.
func (p *Placement) ExpectingRoll() bool { return false }

// LastRoll implements Phase.
func (p *Placement) LastRoll() (int, bool) { return 0, false }

// Finished implements Phase.
func (p *Placement) Finished() bool { return p.finished }

// LastGrant returns the starting resources paid by the most recent house placement.
func (p *Placement) LastGrant() []Transaction { return p.granted }

func (p *Placement) canPlaceHouse(ix IntersectionRef) error {
	if p.step != placingHouse {
		return invalidAction("a house was already placed this turn")
	}
	if p.board.BordersSettlement(ix) {
		return invalidAction("intersection is too close to another house")
	}
	return nil
}

func (p *Placement) canPlaceRoad(player *Player, e EdgeRef) error {
	if p.step != placingRoad {
		if p.step == placingHouse {
			return invalidAction("place a house before its road")
		}
		return invalidAction("a road was already placed this turn")
	}
	if p.board.Edges[e].Road != nil {
		return invalidAction("edge already has a road")
	}
	if !p.board.EdgeJoins(e, p.lastHouse) || p.board.BordersRoadForPlayer(p.lastHouse, player.ID) {
		return invalidAction("road must touch the house placed this turn")
	}
	return nil
}

// Placeable implements Phase.
func (p *Placement) Placeable() map[string][]PieceKind {
	out := make(map[string][]PieceKind)
	player := p.ActivePlayer()
	if player == nil || p.finished {
		return out
	}
	switch p.step {
	case placingHouse:
		for i := range p.board.Intersections {
			if p.canPlaceHouse(IntersectionRef(i)) == nil {
				out[p.board.Intersections[i].ID] = []PieceKind{PieceHouse}
			}
		}
	case placingRoad:
		for _, e := range p.board.Intersections[p.lastHouse].Edges {
			if p.canPlaceRoad(player, e) == nil {
				out[p.board.Edges[e].ID] = []PieceKind{PieceRoad}
			}
		}
	}
	return out
}

// PlacePiece implements Phase.
func (p *Placement) PlacePiece(player *Player, kind PieceKind, locationID string) error {
	if p.finished {
		return invalidState("placement is over")
	}
	switch kind {
	case PieceHouse:
		ix, ok := p.board.IntersectionByID(locationID)
		if !ok {
			return invalidAction("unknown intersection %s", locationID)
		}
		if err := p.canPlaceHouse(ix); err != nil {
			return err
		}
		p.board.PlaceSettlement(ix, Piece{Kind: PieceHouse, Owner: player.ID})
		p.lastHouse = ix
		p.step = placingRoad
		p.granted = nil
		if !p.incrementing {
			owed := make([]Transaction, p.players.Len())
			owed[p.active] = p.collect(ix, NoNumber)
			p.granted = p.payout(owed)
		}
		return nil
	case PieceRoad:
		e, ok := p.board.EdgeByID(locationID)
		if !ok {
			return invalidAction("unknown edge %s", locationID)
		}
		if err := p.canPlaceRoad(player, e); err != nil {
			return err
		}
		p.board.PlaceRoad(e, Piece{Kind: PieceRoad, Owner: player.ID})
		p.step = placementTurnDone
		return nil
	}
	return invalidAction("unknown piece %q", kind)
}

// Roll implements Phase.
func (p *Placement) Roll() (int, error) {
	return 0, invalidAction("dice are not rolled during placement")
}

// BankTrade implements Phase.
func (p *Placement) BankTrade(*Player, Transaction) error {
	return invalidAction("trading is not allowed during placement")
}

// EndTurn implements Phase.
func (p *Placement) EndTurn() error {
	if p.finished {
		return invalidState("placement is over")
	}
	if p.step != placementTurnDone {
		return invalidAction("place a house and a road before ending the turn")
	}
	p.step = placingHouse
	p.lastHouse = NoIntersection
	p.granted = nil

	last := p.players.Len() - 1
	switch {
	case p.incrementing && p.active == last:
		// The last player goes again to start the return pass.
		p.incrementing = false
	case !p.incrementing && p.active == 0:
		p.finished = true
	case p.incrementing:
		p.active++
	default:
		p.active--
	}
	return nil
}
