package domain

// Side is one of the six directions around a flat-topped hex tile.
// Intersection slot s sits between edge s and edge s+1.
type Side int

const (
	North Side = iota
	NorthEast
	SouthEast
	South
	SouthWest
	NorthWest
)

// SideCount is the number of neighbor, edge and intersection slots on a tile.
const SideCount = 6

// Sides lists every side in clockwise order starting at North.
var Sides = [SideCount]Side{North, NorthEast, SouthEast, South, SouthWest, NorthWest}

var sideNames = [SideCount]string{"NORTH", "NORTH_EAST", "SOUTH_EAST", "SOUTH", "SOUTH_WEST", "NORTH_WEST"}

func (s Side) String() string {
	if s < 0 || s >= SideCount {
		return "UNKNOWN"
	}
	return sideNames[s]
}

// Wrap maps any integer onto a side, so Wrap(-1) is NorthWest.
func Wrap(n int) Side {
	n %= SideCount
	if n < 0 {
		n += SideCount
	}
	return Side(n)
}

// Next returns the side clockwise from s.
func (s Side) Next() Side { return Wrap(int(s) + 1) }

// Prev returns the side counter-clockwise from s.
func (s Side) Prev() Side { return Wrap(int(s) - 1) }

var opposites = [SideCount]Side{
	North:     South,
	NorthEast: SouthWest,
	SouthEast: NorthWest,
	South:     North,
	SouthWest: NorthEast,
	NorthWest: SouthEast,
}

// Opposite returns the side facing s.
func (s Side) Opposite() Side { return opposites[s] }

// sidePair holds the slots two tiles use to refer to each other or to a shared intersection.
type sidePair struct {
	first, second Side
}

// neighborLinks[s] describes how the neighbors at s and s+1 of a tile see each other:
// the neighbor at s has the neighbor at s+1 in slot first, and the reverse in slot second.
var neighborLinks = [SideCount]sidePair{
	North:     {SouthEast, NorthWest},
	NorthEast: {South, North},
	SouthEast: {SouthWest, NorthEast},
	South:     {NorthWest, SouthEast},
	SouthWest: {North, South},
	NorthWest: {NorthEast, SouthWest},
}

// intersectionLinks[s] gives the slots the neighbors at s and s+1 use for a tile's intersection s.
var intersectionLinks = [SideCount]sidePair{
	North:     {SouthEast, SouthWest},
	NorthEast: {South, NorthWest},
	SouthEast: {SouthWest, North},
	South:     {NorthWest, NorthEast},
	SouthWest: {North, SouthEast},
	NorthWest: {NorthEast, South},
}

// axialOffsets are the axial (q, r) steps for each side.
var axialOffsets = [SideCount]axial{
	North:     {0, -1},
	NorthEast: {1, -1},
	SouthEast: {1, 0},
	South:     {0, 1},
	SouthWest: {-1, 1},
	NorthWest: {-1, 0},
}

type axial struct {
	q, r int
}

func (a axial) step(s Side) axial {
	o := axialOffsets[s]
	return axial{a.q + o.q, a.r + o.r}
}
