package domain

// PieceKind is the closed set of placeable pieces.
type PieceKind string

const (
	PieceHouse PieceKind = "house"
	PieceRoad  PieceKind = "road"
)

var (
	houseCost = NewTransaction(map[Resource]int{Wood: -1, Wheat: -1, Sheep: -1, Brick: -1})
	roadCost  = NewTransaction(map[Resource]int{Wood: -1, Brick: -1})
)

// ParsePieceKind validates a client-supplied piece name.
func ParsePieceKind(name string) (PieceKind, bool) {
	switch PieceKind(name) {
	case PieceHouse:
		return PieceHouse, true
	case PieceRoad:
		return PieceRoad, true
	}
	return "", false
}

// Cost is the transaction debited from the owner when the piece is built.
func (k PieceKind) Cost() Transaction {
	switch k {
	case PieceHouse:
		return houseCost
	case PieceRoad:
		return roadCost
	}
	return Transaction{}
}

// IsSettlement reports whether the piece sits on an intersection and gathers resources.
func (k PieceKind) IsSettlement() bool { return k == PieceHouse }

// GatherAmount is how many units a settlement collects per producing tile.
func (k PieceKind) GatherAmount() int {
	if k == PieceHouse {
		return 1
	}
	return 0
}

// Piece is an immutable player-owned piece hosted by an intersection or edge.
type Piece struct {
	Kind  PieceKind
	Owner string // player id
}
